package quiz

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/errs"
	"github.com/certlab/protodrill/internal/groups"
)

// ErrAllCovered reports that every question in a concept group has been seen.
var ErrAllCovered = errors.New("all questions in group covered")

// Engine runs quiz sessions. All session access is serialized on one mutex;
// session state is unprotected otherwise and quizzes are short-lived, so one
// lock is enough.
type Engine struct {
	library *bank.Library
	groups  *groups.Service

	mu       sync.Mutex
	sessions map[string]*Session
	rng      *rand.Rand
}

// SubmitResult is the grading outcome for one submission.
type SubmitResult struct {
	Correct           bool   `json:"correct"`
	CorrectAnswer     string `json:"correct_answer,omitempty"`
	CorrectAnswerText string `json:"correct_answer_text,omitempty"`
	RemainingInGroup  int    `json:"remaining_in_group"`
	Attempts          int    `json:"attempts"`
}

func NewEngine(library *bank.Library, svc *groups.Service, rng *rand.Rand) *Engine {
	return &Engine{
		library:  library,
		groups:   svc,
		sessions: map[string]*Session{},
		rng:      rng,
	}
}

// Start builds a session with one randomly chosen question per concept group.
// A topic with no cached groups returns errs.ErrNotFound: grouping is an
// admin action, never triggered from a quiz start. Groups whose question ids
// all fail to resolve are skipped; if none survive, Start also returns
// errs.ErrNotFound.
func (e *Engine) Start(ctx context.Context, topic string) (*Session, error) {
	idx := e.library.Current()
	qs := idx.ByTopic(topic)
	if len(qs) == 0 {
		return nil, errs.ErrNotFound
	}
	enriched, err := e.groups.GroupsFor(ctx, topic)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var entries []*GroupEntry
	for _, g := range enriched {
		resolvable := resolve(idx, g.QuestionIDs)
		if len(resolvable) == 0 {
			continue
		}
		pick := resolvable[e.rng.Intn(len(resolvable))]
		q, _ := idx.ByID(pick)
		entries = append(entries, &GroupEntry{
			GroupID:         g.GroupID,
			Concept:         g.Concept,
			Question:        q,
			GroupSize:       len(resolvable),
			SeenQuestionIDs: []string{pick},
			questionIDs:     resolvable,
		})
	}
	if len(entries) == 0 {
		return nil, errs.ErrNotFound
	}

	s := &Session{
		Token:   uuid.NewString(),
		Topic:   topic,
		Entries: entries,
		Scores:  map[string]*GroupScore{},
	}
	e.sessions[s.Token] = s
	return s, nil
}

// Submit grades one answer. The group's score record is created on the first
// evaluation; later submissions only move the attempts counter.
func (e *Engine) Submit(token, questionID, answer, groupID string, attemptNumber int) (*SubmitResult, error) {
	switch {
	case token == "":
		return nil, errs.Missing("session_token")
	case questionID == "":
		return nil, errs.Missing("question_id")
	case answer == "":
		return nil, errs.Missing("answer")
	case groupID == "":
		return nil, errs.Missing("group_id")
	case attemptNumber < 1:
		return nil, errs.Missing("attempt_number")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[token]
	if !ok {
		return nil, errs.ErrNotFound
	}
	entry := s.entry(groupID)
	if entry == nil {
		return nil, errs.ErrNotFound
	}
	q, ok := e.library.Current().ByID(questionID)
	if !ok {
		return nil, errs.ErrNotFound
	}

	correct := q.IsCorrect(answer)
	score, exists := s.Scores[groupID]
	if !exists {
		score = &GroupScore{FirstAttemptCorrect: correct && attemptNumber == 1}
		s.Scores[groupID] = score
	}
	score.Attempts = attemptNumber

	res := &SubmitResult{Correct: correct, Attempts: score.Attempts}
	if correct {
		res.CorrectAnswer = q.CorrectAnswer
		res.CorrectAnswerText = q.CorrectAnswerText()
		res.RemainingInGroup = entry.GroupSize - len(entry.SeenQuestionIDs)
	}
	return res, nil
}

// NextGroupQuestion draws a question from the group, uniformly at random
// among the ids not in the caller's exclusion list. The exclusion list alone
// decides coverage; the server-side seen list is bookkeeping for
// RemainingInGroup only. Returns ErrAllCovered when no candidates remain.
func (e *Engine) NextGroupQuestion(token, groupID string, exclude []string) (*bank.Question, error) {
	if token == "" {
		return nil, errs.Missing("session_token")
	}
	if groupID == "" {
		return nil, errs.Missing("group_id")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[token]
	if !ok {
		return nil, errs.ErrNotFound
	}
	entry := s.entry(groupID)
	if entry == nil {
		return nil, errs.ErrNotFound
	}

	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	idx := e.library.Current()
	var candidates []string
	for _, id := range entry.questionIDs {
		if excluded[id] {
			continue
		}
		if _, ok := idx.ByID(id); ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrAllCovered
	}

	pick := candidates[e.rng.Intn(len(candidates))]
	q, _ := idx.ByID(pick)
	entry.SeenQuestionIDs = append(entry.SeenQuestionIDs, pick)
	entry.Question = q
	return q, nil
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

// resolve filters the group's question ids down to those present in the
// index. Dangling references are tolerated, never fatal.
func resolve(idx *bank.Index, ids []string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := idx.ByID(id); ok {
			out = append(out, id)
		}
	}
	return out
}
