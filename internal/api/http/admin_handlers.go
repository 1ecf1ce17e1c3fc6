package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/errs"
	"github.com/certlab/protodrill/internal/groups"
	"github.com/certlab/protodrill/internal/parser"
)

// HandleReindex re-runs ingestion and swaps the fresh index in atomically.
// In-flight sessions keep grading against the questions they started with
// only as far as ids survive the rebuild.
func HandleReindex(loader *parser.Loader, library *bank.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := loader.Ingest()
		if err != nil {
			log.Printf("api: reindex failed: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		library.Swap(idx)
		writeJSON(w, map[string]any{"questions": idx.Len()})
	}
}

// HandleGetGroups returns the concept groups for a topic. An admin read of an
// ungrouped topic classifies it on the spot; quiz starts never do.
func HandleGetGroups(svc *groups.Service, library *bank.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic := chi.URLParam(r, "slug")
		qs := library.Current().ByTopic(topic)
		if len(qs) == 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		gs, err := svc.GroupsFor(r.Context(), topic)
		if errors.Is(err, errs.ErrNotFound) {
			var fresh []groups.Group
			fresh, err = svc.Regroup(r.Context(), topic, qs)
			gs = groups.Enrich(fresh)
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"topic": topic, "groups": gs})
	}
}

// HandleRegroup forces reclassification of a topic's questions.
func HandleRegroup(svc *groups.Service, library *bank.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic := chi.URLParam(r, "slug")
		qs := library.Current().ByTopic(topic)
		if len(qs) == 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		gs, err := svc.Regroup(r.Context(), topic, qs)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"topic": topic, "groups": groups.Enrich(gs)})
	}
}

// HandleGroupOverride pins a question to a concept group and regroups.
func HandleGroupOverride(svc *groups.Service, library *bank.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Topic      string `json:"topic"`
			QuestionID string `json:"question_id"`
			GroupID    string `json:"group_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Topic == "" || req.QuestionID == "" || req.GroupID == "" {
			http.Error(w, "topic, question_id and group_id required", http.StatusBadRequest)
			return
		}
		qs := library.Current().ByTopic(req.Topic)
		if len(qs) == 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		gs, err := svc.Override(r.Context(), req.Topic, req.QuestionID, req.GroupID, qs)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"topic": req.Topic, "groups": groups.Enrich(gs)})
	}
}

// HandleGetQuestion returns one full question record, answer key included.
// Admin only.
func HandleGetQuestion(library *bank.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := library.Current().ByID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, q)
	}
}

// HandleMultiTopic lists the questions tagged with two or more topics.
func HandleMultiTopic(library *bank.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := library.Current().MultiTopic()
		out := make([]bank.Sanitized, 0, len(qs))
		for i, q := range qs {
			out = append(out, q.Sanitize(i+1))
		}
		writeJSON(w, map[string]any{"count": len(out), "questions": out})
	}
}
