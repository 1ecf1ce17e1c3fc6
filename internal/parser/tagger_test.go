package parser

import (
	"reflect"
	"testing"

	"github.com/certlab/protodrill/internal/bank"
)

func TestTaggerWordBoundary(t *testing.T) {
	tagger := NewTagger([]string{"IP", "TCP/IP"})

	q := &bank.Question{Text: "This tests SKIP logic", Choices: map[string]string{}}
	tagger.Tag(q)
	if len(q.TopicTags) != 0 {
		t.Fatalf("partial substring must not tag, got %v", q.TopicTags)
	}

	q = &bank.Question{Text: "Explains TCP/IP basics", Choices: map[string]string{}}
	tagger.Tag(q)
	if !q.HasTag("TCP/IP") {
		t.Errorf("compound name not tagged: %v", q.TopicTags)
	}
	if !q.HasTag("IP") {
		t.Errorf("IP appears as a component word and must tag: %v", q.TopicTags)
	}
}

func TestTaggerComponentMatchTagsCompound(t *testing.T) {
	tagger := NewTagger([]string{"TCP/IP"})
	q := &bank.Question{Text: "Pure TCP behavior only", Choices: map[string]string{}}
	tagger.Tag(q)
	if !q.HasTag("TCP/IP") {
		t.Fatalf("component hit must tag the full compound name, got %v", q.TopicTags)
	}
}

func TestTaggerSearchesChoices(t *testing.T) {
	tagger := NewTagger([]string{"OSPF"})
	q := &bank.Question{
		Text:    "Which protocol has administrative distance 110?",
		Choices: map[string]string{"a": "RIP", "b": "OSPF"},
	}
	tagger.Tag(q)
	if !q.HasTag("OSPF") {
		t.Fatalf("choice text must count, got %v", q.TopicTags)
	}
}

func TestTaggerIdempotent(t *testing.T) {
	tagger := NewTagger([]string{"OSPF", "EIGRP"})
	q := &bank.Question{Text: "OSPF vs EIGRP convergence", Choices: map[string]string{}}
	tagger.Tag(q)
	first := append([]string(nil), q.TopicTags...)
	tagger.Tag(q)
	if !reflect.DeepEqual(first, q.TopicTags) {
		t.Fatalf("second pass changed tags: %v -> %v", first, q.TopicTags)
	}
	if !q.MultiTopic {
		t.Error("two tags must set multi_topic")
	}
}
