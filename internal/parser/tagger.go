package parser

import (
	"regexp"
	"strings"

	"github.com/certlab/protodrill/internal/bank"
)

// Tagger matches topic names against question text on word boundaries.
// Compound names like "TCP/IP" also match when any single component appears
// as a whole word, and always tag the full compound name.
type Tagger struct {
	topics []topicMatcher
}

type topicMatcher struct {
	name     string
	patterns []*regexp.Regexp
}

// NewTagger compiles word-boundary patterns for each topic name. Names are
// matched case-insensitively against lowercased question text.
func NewTagger(names []string) *Tagger {
	t := &Tagger{}
	for _, name := range names {
		m := topicMatcher{name: name}
		m.patterns = append(m.patterns, wordPattern(name))
		if strings.Contains(name, "/") {
			for _, part := range strings.Split(name, "/") {
				if part = strings.TrimSpace(part); part != "" {
					m.patterns = append(m.patterns, wordPattern(part))
				}
			}
		}
		t.topics = append(t.topics, m)
	}
	return t
}

func wordPattern(s string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(s)) + `\b`)
}

// Tag scans one question and appends every matching topic name. Tagging is
// additive and idempotent; existing tags are never removed.
func (t *Tagger) Tag(q *bank.Question) {
	haystack := t.haystack(q)
	for _, topic := range t.topics {
		for _, p := range topic.patterns {
			if p.MatchString(haystack) {
				q.AddTag(topic.name)
				break
			}
		}
	}
}

// TagAll tags every question in the slice in place.
func (t *Tagger) TagAll(questions []*bank.Question) {
	for _, q := range questions {
		t.Tag(q)
	}
}

func (t *Tagger) haystack(q *bank.Question) string {
	var b strings.Builder
	b.WriteString(q.Text)
	for _, l := range q.ChoiceLetters() {
		b.WriteString(" ")
		b.WriteString(q.Choices[l])
	}
	return strings.ToLower(b.String())
}
