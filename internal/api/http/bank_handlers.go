package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/guides"
	"github.com/certlab/protodrill/internal/topics"
)

type topicSummary struct {
	*topics.Topic
	QuestionCount int `json:"question_count"`
}

// HandleListTopics returns every loaded topic with its question count,
// optionally filtered by ?category=.
func HandleListTopics(mgr *topics.Manager, library *bank.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := mgr.All()
		if cat := r.URL.Query().Get("category"); cat != "" {
			list = mgr.ByCategory(cat)
		}
		idx := library.Current()
		out := make([]topicSummary, 0, len(list))
		for _, t := range list {
			out = append(out, topicSummary{Topic: t, QuestionCount: len(idx.ByTopic(t.Slug))})
		}
		writeJSON(w, out)
	}
}

func HandleGetTopic(mgr *topics.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := mgr.Get(chi.URLParam(r, "slug"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, t)
	}
}

func HandleRelatedTopics(mgr *topics.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		related, err := mgr.RelatedTo(chi.URLParam(r, "slug"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, related)
	}
}

// HandleTopicQuestions returns the sanitized questions for one topic.
func HandleTopicQuestions(library *bank.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := library.Current().ByTopic(chi.URLParam(r, "slug"))
		if len(qs) == 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		out := make([]bank.Sanitized, 0, len(qs))
		for i, q := range qs {
			out = append(out, q.Sanitize(i+1))
		}
		writeJSON(w, map[string]any{"count": len(out), "questions": out})
	}
}

// HandleSearchGuides searches configuration guides by comma-separated
// ?keywords=.
func HandleSearchGuides(lib *guides.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("keywords")
		if raw == "" {
			http.Error(w, "keywords required", http.StatusBadRequest)
			return
		}
		matches := lib.Search(strings.Split(raw, ","))
		if matches == nil {
			matches = []guides.Match{}
		}
		writeJSON(w, map[string]any{"count": len(matches), "matches": matches})
	}
}
