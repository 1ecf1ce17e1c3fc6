package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/guides"
)

// ErrExhausted is returned by MockProvider once its canned responses run out.
var ErrExhausted = errors.New("tutor: no responses left")

const (
	systemHint = `You are a patient networking exam tutor. The student answered a practice question incorrectly. Give a short hint that nudges them toward the right reasoning. Never state the correct answer letter or its text. Two or three sentences at most.`

	systemCorrect = `You are a networking exam tutor. The student just answered a practice question correctly. Briefly explain why the correct answer is right and, when useful, why the distractors are wrong. Keep it under a short paragraph.`

	systemReveal = `You are a networking exam tutor. The student gave up on a practice question and asked to see the answer. Explain the correct answer thoroughly but concisely so the concept sticks, referencing the relevant choices by letter.`
)

// Tutor produces hints and explanations for practice questions, grounding
// them in configuration guide excerpts when any match the question's topics.
type Tutor struct {
	provider Provider
	guides   *guides.Library
}

func New(provider Provider, lib *guides.Library) *Tutor {
	return &Tutor{provider: provider, guides: lib}
}

// Hint asks for a nudge after a wrong answer, without giving the answer away.
// Hints get more direct as the attempt count climbs.
func (t *Tutor) Hint(ctx context.Context, q *bank.Question, wrongAnswer string, attempt int) (string, error) {
	var b strings.Builder
	t.writeQuestion(&b, q)
	if wrongAnswer != "" {
		fmt.Fprintf(&b, "\nThe student answered: %s\n", strings.ToUpper(wrongAnswer))
	}
	if attempt >= 2 {
		fmt.Fprintf(&b, "\nThis is attempt %d. Give a stronger, more specific hint, still without revealing the answer.", attempt+1)
	} else {
		b.WriteString("\nGive a gentle hint without revealing the answer.")
	}
	return t.provider.Generate(ctx, Request{
		System:      systemHint,
		Prompt:      b.String(),
		MaxTokens:   300,
		Temperature: 0.7,
	})
}

// ExplainCorrect explains why the student's correct answer is right.
func (t *Tutor) ExplainCorrect(ctx context.Context, q *bank.Question) (string, error) {
	var b strings.Builder
	t.writeQuestion(&b, q)
	fmt.Fprintf(&b, "\nThe correct answer is: %s\n", q.CorrectAnswerText())
	b.WriteString("\nExplain why this is correct.")
	return t.provider.Generate(ctx, Request{
		System:      systemCorrect,
		Prompt:      b.String(),
		MaxTokens:   500,
		Temperature: 0.7,
	})
}

// ExplainReveal explains the answer after the student gave up.
func (t *Tutor) ExplainReveal(ctx context.Context, q *bank.Question) (string, error) {
	var b strings.Builder
	t.writeQuestion(&b, q)
	fmt.Fprintf(&b, "\nThe correct answer is: %s\n", q.CorrectAnswerText())
	b.WriteString("\nExplain the answer so the student learns the underlying concept.")
	return t.provider.Generate(ctx, Request{
		System:      systemReveal,
		Prompt:      b.String(),
		MaxTokens:   500,
		Temperature: 0.7,
	})
}

func (t *Tutor) writeQuestion(b *strings.Builder, q *bank.Question) {
	fmt.Fprintf(b, "Question: %s\n\nChoices:\n%s", q.Text, formatChoices(q))
	if ctx := t.guideContext(q); ctx != "" {
		fmt.Fprintf(b, "\nRelevant configuration guide excerpts:\n%s\n", ctx)
	}
}

func (t *Tutor) guideContext(q *bank.Question) string {
	if t.guides == nil || len(q.TopicTags) == 0 {
		return ""
	}
	return t.guides.Context(q.TopicTags, 3)
}

func formatChoices(q *bank.Question) string {
	var b strings.Builder
	for _, l := range q.ChoiceLetters() {
		fmt.Fprintf(&b, "%s. %s\n", strings.ToUpper(l), q.Choices[l])
	}
	return b.String()
}
