package bank

import (
	"strings"
	"sync"

	"github.com/certlab/protodrill/internal/errs"
)

// Index is the question bank built by one ingestion pass. It is not mutated
// after construction; a re-index builds a fresh Index and swaps it into the
// Library.
type Index struct {
	questions []*Question
	byID      map[string]*Question
}

// NewIndex builds the id lookup. A duplicate id is a data-integrity defect
// and aborts ingestion.
func NewIndex(questions []*Question) (*Index, error) {
	byID := make(map[string]*Question, len(questions))
	for _, q := range questions {
		if _, dup := byID[q.ID]; dup {
			return nil, errs.Integrityf("duplicate question id %q", q.ID)
		}
		byID[q.ID] = q
	}
	return &Index{questions: questions, byID: byID}, nil
}

func (ix *Index) Len() int         { return len(ix.questions) }
func (ix *Index) All() []*Question { return ix.questions }

func (ix *Index) ByID(id string) (*Question, bool) {
	q, ok := ix.byID[id]
	return q, ok
}

// ByTopic returns every question tagged with the topic. Matching is
// case-insensitive and treats "-" and "/" as interchangeable, so "tcp-ip"
// finds questions tagged "TCP/IP".
func (ix *Index) ByTopic(topic string) []*Question {
	want := strings.ToLower(topic)
	wantNorm := normalizeSlug(want)
	var out []*Question
	for _, q := range ix.questions {
		for _, tag := range q.TopicTags {
			lt := strings.ToLower(tag)
			if lt == want || normalizeSlug(lt) == wantNorm {
				out = append(out, q)
				break
			}
		}
	}
	return out
}

// MultiTopic returns every question tagged with two or more topics.
func (ix *Index) MultiTopic() []*Question {
	var out []*Question
	for _, q := range ix.questions {
		if q.MultiTopic {
			out = append(out, q)
		}
	}
	return out
}

func normalizeSlug(s string) string { return strings.ReplaceAll(s, "-", "/") }

// Library holds the current Index and swaps in a replacement atomically, so
// readers never observe a partially built index during re-ingestion.
type Library struct {
	mu  sync.RWMutex
	idx *Index
}

func NewLibrary(idx *Index) *Library { return &Library{idx: idx} }

func (l *Library) Current() *Index {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.idx
}

func (l *Library) Swap(idx *Index) {
	l.mu.Lock()
	l.idx = idx
	l.mu.Unlock()
}
