package bank

import (
	"sort"
	"strings"
)

// Question is one normalized exam question. ID is assigned exactly once at
// ingestion time and never mutated afterwards.
type Question struct {
	ID            string            `json:"id"`
	Text          string            `json:"question_text"`
	Choices       map[string]string `json:"choices"`        // lowercase letter -> choice text
	CorrectAnswer string            `json:"correct_answer"` // "b", or sorted comma-joined set "b,d"
	MultiAnswer   bool              `json:"multi_answer"`
	TopicTags     []string          `json:"topic_tags"`
	MultiTopic    bool              `json:"multi_topic"`
}

// Sanitized is the question view sent to a caller before an answer is locked
// in: no correct answer, no bookkeeping.
type Sanitized struct {
	ID          string            `json:"id"`
	Text        string            `json:"question_text"`
	Choices     map[string]string `json:"choices"`
	MultiAnswer bool              `json:"multi_answer"`
	Number      int               `json:"question_number"`
	TopicTags   []string          `json:"topic_tags"`
}

func (q *Question) Sanitize(number int) Sanitized {
	return Sanitized{
		ID:          q.ID,
		Text:        q.Text,
		Choices:     q.Choices,
		MultiAnswer: q.MultiAnswer,
		Number:      number,
		TopicTags:   q.TopicTags,
	}
}

// IsCorrect grades a submitted answer. Multi-select keys compare as sets of
// lowercase comma-split tokens; single answers compare case-insensitively.
func (q *Question) IsCorrect(answer string) bool {
	if strings.Contains(q.CorrectAnswer, ",") {
		return setEqual(letterSet(answer), letterSet(q.CorrectAnswer))
	}
	return strings.EqualFold(answer, q.CorrectAnswer)
}

// HasTag reports whether the tag is already present (case-sensitive, matching
// the tagger's additive semantics).
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.TopicTags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag if absent and recomputes MultiTopic.
func (q *Question) AddTag(tag string) {
	if tag == "" || q.HasTag(tag) {
		return
	}
	q.TopicTags = append(q.TopicTags, tag)
	q.MultiTopic = len(q.TopicTags) >= 2
}

// ChoiceLetters returns the choice keys in alphabetical order.
func (q *Question) ChoiceLetters() []string {
	letters := make([]string, 0, len(q.Choices))
	for l := range q.Choices {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

// CorrectLetters splits the answer key into its letters.
func (q *Question) CorrectLetters() []string {
	return strings.Split(q.CorrectAnswer, ",")
}

// CorrectAnswerText renders the answer key for display, e.g. "B. 110" or
// "B. 110, D. 120" for multi-select.
func (q *Question) CorrectAnswerText() string {
	parts := make([]string, 0, 2)
	for _, l := range q.CorrectLetters() {
		text, ok := q.Choices[l]
		if !ok {
			text = l
		}
		parts = append(parts, strings.ToUpper(l)+". "+text)
	}
	return strings.Join(parts, ", ")
}

// Snippet returns the first 100 characters of the question text, used in
// result entries. Trims on a rune boundary so multi-byte text stays valid.
func (q *Question) Snippet() string {
	runes := []rune(q.Text)
	if len(runes) <= 100 {
		return q.Text
	}
	return string(runes[:100])
}

func letterSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, tok := range strings.Split(strings.ToLower(s), ",") {
		out[tok] = struct{}{}
	}
	return out
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
