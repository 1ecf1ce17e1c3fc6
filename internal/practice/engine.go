package practice

import (
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/errs"
)

// TopicAll starts a practice run over every topic's questions.
const TopicAll = "all"

// Engine runs practice sessions. Like the quiz engine it serializes all
// session access on one mutex.
type Engine struct {
	library *bank.Library

	mu       sync.Mutex
	sessions map[string]*Session
	rng      *rand.Rand
}

func NewEngine(library *bank.Library, rng *rand.Rand) *Engine {
	return &Engine{
		library:  library,
		sessions: map[string]*Session{},
		rng:      rng,
	}
}

// StartResult carries the new session token and the first question.
type StartResult struct {
	Token     string         `json:"session_token"`
	Topic     string         `json:"topic"`
	TopicName string         `json:"topic_name"`
	Total     int            `json:"total_questions"`
	Question  bank.Sanitized `json:"question"`
}

// CheckResult is the grading outcome for one practice submission.
type CheckResult struct {
	Correct           bool     `json:"correct"`
	Attempts          int      `json:"attempts"`
	CorrectAnswer     string   `json:"correct_answer,omitempty"`
	CorrectAnswerText string   `json:"correct_answer_text,omitempty"`
	DisabledChoices   []string `json:"disabled_choices,omitempty"`
	CanReveal         bool     `json:"can_reveal"`
}

// Advance is the outcome of skip/next: either the next question or done.
type Advance struct {
	Done     bool            `json:"done"`
	Question *bank.Sanitized `json:"question,omitempty"`
}

// Start shuffles the topic's questions into a fresh session and returns the
// first one sanitized. The topic "all" takes the whole bank.
func (e *Engine) Start(topic, topicName string) (*StartResult, error) {
	idx := e.library.Current()
	var qs []*bank.Question
	if topic == TopicAll {
		qs = idx.All()
	} else {
		qs = idx.ByTopic(topic)
	}
	if len(qs) == 0 {
		return nil, errs.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	order := make([]string, len(qs))
	for i, q := range qs {
		order[i] = q.ID
	}
	e.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	s := &Session{
		Token:           uuid.NewString(),
		Topic:           topic,
		TopicName:       topicName,
		Order:           order,
		WrongAttempts:   map[string]int{},
		DisabledChoices: map[string][]string{},
	}
	e.sessions[s.Token] = s

	first, _ := idx.ByID(order[0])
	return &StartResult{
		Token:     s.Token,
		Topic:     topic,
		TopicName: topicName,
		Total:     len(order),
		Question:  first.Sanitize(1),
	}, nil
}

// Check grades a submission. Correct appends a result entry with attempts set
// to prior wrong count plus one. Incorrect bumps the wrong counter and, for a
// single-letter answer, disables that choice for the caller.
func (e *Engine) Check(token, questionID, answer string) (*CheckResult, error) {
	switch {
	case token == "":
		return nil, errs.Missing("session_token")
	case questionID == "":
		return nil, errs.Missing("question_id")
	case answer == "":
		return nil, errs.Missing("answer")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[token]
	if !ok {
		return nil, errs.ErrNotFound
	}
	q, ok := e.library.Current().ByID(questionID)
	if !ok {
		return nil, errs.ErrNotFound
	}

	if q.IsCorrect(answer) {
		attempts := s.WrongAttempts[questionID] + 1
		s.Results = append(s.Results, ResultEntry{
			QuestionID: questionID,
			Correct:    true,
			Attempts:   attempts,
			Snippet:    q.Snippet(),
		})
		return &CheckResult{
			Correct:           true,
			Attempts:          attempts,
			CorrectAnswer:     q.CorrectAnswer,
			CorrectAnswerText: q.CorrectAnswerText(),
		}, nil
	}

	s.WrongAttempts[questionID]++
	if !strings.Contains(answer, ",") {
		s.disable(questionID, strings.ToLower(answer))
	}
	return &CheckResult{
		Correct:         false,
		Attempts:        s.WrongAttempts[questionID],
		DisabledChoices: s.DisabledChoices[questionID],
		CanReveal:       s.WrongAttempts[questionID] >= 2,
	}, nil
}

// Reveal marks a question permanently incorrect, recording the current wrong
// counter as attempts. A reveal with no prior wrong answer records zero.
func (e *Engine) Reveal(token, questionID string) (*bank.Question, error) {
	if token == "" {
		return nil, errs.Missing("session_token")
	}
	if questionID == "" {
		return nil, errs.Missing("question_id")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[token]
	if !ok {
		return nil, errs.ErrNotFound
	}
	q, ok := e.library.Current().ByID(questionID)
	if !ok {
		return nil, errs.ErrNotFound
	}
	if s.resolved(questionID) {
		return nil, &errs.ValidationError{Field: "question_id", Msg: "already resolved"}
	}

	s.Results = append(s.Results, ResultEntry{
		QuestionID: questionID,
		Correct:    false,
		Attempts:   s.WrongAttempts[questionID],
		Snippet:    q.Snippet(),
	})
	return q, nil
}

// Skip records the question in the skip list and advances.
func (e *Engine) Skip(token, questionID string) (*Advance, error) {
	if token == "" {
		return nil, errs.Missing("session_token")
	}
	if questionID == "" {
		return nil, errs.Missing("question_id")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[token]
	if !ok {
		return nil, errs.ErrNotFound
	}
	s.Skipped = append(s.Skipped, questionID)
	return e.advance(s), nil
}

// Next advances the cursor unconditionally.
func (e *Engine) Next(token string) (*Advance, error) {
	if token == "" {
		return nil, errs.Missing("session_token")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[token]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return e.advance(s), nil
}

func (e *Engine) advance(s *Session) *Advance {
	s.Cursor++
	if s.Cursor >= len(s.Order) {
		return &Advance{Done: true}
	}
	q, ok := e.library.Current().ByID(s.Order[s.Cursor])
	if !ok {
		// Question vanished on a reindex mid-session; treat as done.
		return &Advance{Done: true}
	}
	sanitized := q.Sanitize(s.Cursor + 1)
	return &Advance{Question: &sanitized}
}

// Summary reports the session outcome so far.
func (e *Engine) Summary(token string) (*Summary, error) {
	if token == "" {
		return nil, errs.Missing("session_token")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[token]
	if !ok {
		return nil, errs.ErrNotFound
	}

	sum := &Summary{
		Answered: len(s.Results),
		Skipped:  len(s.Skipped),
		Total:    len(s.Order),
	}
	for _, r := range s.Results {
		if r.Correct {
			sum.Correct++
		} else {
			sum.Incorrect++
			sum.Missed = append(sum.Missed, r)
		}
	}
	if sum.Answered > 0 {
		sum.Percentage = int(math.Round(100 * float64(sum.Correct) / float64(sum.Answered)))
	}
	return sum, nil
}

// Session returns a live session by token.
func (e *Engine) Session(token string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[token]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return s, nil
}
