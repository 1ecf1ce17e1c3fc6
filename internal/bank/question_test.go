package bank

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestIsCorrectSingle(t *testing.T) {
	q := &Question{CorrectAnswer: "b"}
	if !q.IsCorrect("b") || !q.IsCorrect("B") {
		t.Error("single answers compare case-insensitively")
	}
	if q.IsCorrect("a") {
		t.Error("wrong letter accepted")
	}
}

func TestIsCorrectMultiSetEquality(t *testing.T) {
	q := &Question{CorrectAnswer: "b,d", MultiAnswer: true}
	if !q.IsCorrect("B,D") {
		t.Error("B,D must be correct")
	}
	if !q.IsCorrect("D,B") {
		t.Error("grading must be order-independent")
	}
	if q.IsCorrect("b") {
		t.Error("subset must not be correct")
	}
	if q.IsCorrect("b,d,a") {
		t.Error("superset must not be correct")
	}
}

func TestAddTagIdempotentAndMultiTopic(t *testing.T) {
	q := &Question{}
	q.AddTag("OSPF")
	q.AddTag("OSPF")
	if len(q.TopicTags) != 1 {
		t.Fatalf("duplicate tag accumulated: %v", q.TopicTags)
	}
	if q.MultiTopic {
		t.Error("one tag is not multi_topic")
	}
	q.AddTag("EIGRP")
	if !q.MultiTopic {
		t.Error("two tags must set multi_topic")
	}
}

func TestCorrectAnswerText(t *testing.T) {
	q := &Question{
		Choices:       map[string]string{"b": "110", "d": "120"},
		CorrectAnswer: "b,d",
	}
	if got := q.CorrectAnswerText(); got != "B. 110, D. 120" {
		t.Errorf("got %q", got)
	}
}

func TestSanitizeStripsAnswer(t *testing.T) {
	q := &Question{
		ID:            "ospf_q001",
		Text:          "What?",
		Choices:       map[string]string{"a": "Foo"},
		CorrectAnswer: "a",
		TopicTags:     []string{"ospf"},
	}
	s := q.Sanitize(3)
	if s.Number != 3 || s.ID != q.ID || len(s.Choices) != 1 {
		t.Errorf("sanitized view wrong: %+v", s)
	}
}

func TestSnippetCapsAt100(t *testing.T) {
	q := &Question{Text: strings.Repeat("x", 150)}
	if len(q.Snippet()) != 100 {
		t.Errorf("snippet length = %d", len(q.Snippet()))
	}
	q.Text = "short"
	if q.Snippet() != "short" {
		t.Errorf("short text must pass through")
	}
}

func TestSnippetTrimsOnRuneBoundary(t *testing.T) {
	q := &Question{Text: strings.Repeat("é", 150)}
	snip := q.Snippet()
	if !utf8.ValidString(snip) {
		t.Fatal("snippet split a multi-byte rune")
	}
	if utf8.RuneCountInString(snip) != 100 {
		t.Errorf("snippet runes = %d", utf8.RuneCountInString(snip))
	}
}
