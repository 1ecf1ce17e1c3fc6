package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/practice"
	"github.com/certlab/protodrill/internal/topics"
	"github.com/certlab/protodrill/internal/tutor"
)

const practiceCookie = "practice_session"

// Tutor failures degrade to these fixed strings, never to an error response.
const (
	fallbackHint    = "AI hints unavailable - try again or reveal the answer."
	fallbackCorrect = "AI explanations unavailable - but you got it right!"
	fallbackReveal  = "AI explanations unavailable."
)

func sessionToken(r *http.Request) string {
	c, err := r.Cookie(practiceCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func HandleStartPractice(engine *practice.Engine, mgr *topics.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Topic string `json:"topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" {
			http.Error(w, "topic required", http.StatusBadRequest)
			return
		}
		name := req.Topic
		if t, err := mgr.Get(req.Topic); err == nil {
			name = t.Name
		}
		res, err := engine.Start(req.Topic, name)
		if err != nil {
			writeErr(w, err)
			return
		}
		// Starting a new session replaces any previous one for this caller.
		http.SetCookie(w, &http.Cookie{
			Name:     practiceCookie,
			Value:    res.Token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, res)
	}
}

func HandleCheckAnswer(engine *practice.Engine, library *bank.Library, t *tutor.Tutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID string `json:"question_id"`
			Answer     string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		res, err := engine.Check(sessionToken(r), req.QuestionID, req.Answer)
		if err != nil {
			writeErr(w, err)
			return
		}
		resp := map[string]any{"result": res}
		if res.Correct {
			if q, ok := library.Current().ByID(req.QuestionID); ok {
				resp["explanation"] = explainCorrect(r.Context(), t, q)
			}
		}
		writeJSON(w, resp)
	}
}

func HandleHint(engine *practice.Engine, library *bank.Library, t *tutor.Tutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID string `json:"question_id"`
			Answer     string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == "" {
			http.Error(w, "question_id required", http.StatusBadRequest)
			return
		}
		s, err := engine.Session(sessionToken(r))
		if err != nil {
			writeErr(w, err)
			return
		}
		q, ok := library.Current().ByID(req.QuestionID)
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		attempt := s.WrongAttempts[req.QuestionID]
		writeJSON(w, map[string]string{"hint": hint(r.Context(), t, q, req.Answer, attempt)})
	}
}

func HandleReveal(engine *practice.Engine, t *tutor.Tutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID string `json:"question_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q, err := engine.Reveal(sessionToken(r), req.QuestionID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"correct_answer":      q.CorrectAnswer,
			"correct_answer_text": q.CorrectAnswerText(),
			"explanation":         explainReveal(r.Context(), t, q),
		})
	}
}

func HandleSkip(engine *practice.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID string `json:"question_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		adv, err := engine.Skip(sessionToken(r), req.QuestionID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, adv)
	}
}

func HandleNext(engine *practice.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adv, err := engine.Next(sessionToken(r))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, adv)
	}
}

func HandleSummary(engine *practice.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := engine.Summary(sessionToken(r))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, sum)
	}
}

func hint(ctx context.Context, t *tutor.Tutor, q *bank.Question, wrongAnswer string, attempt int) string {
	if t == nil {
		return fallbackHint
	}
	out, err := t.Hint(ctx, q, wrongAnswer, attempt)
	if err != nil {
		log.Printf("api: hint for %s failed: %v", q.ID, err)
		return fallbackHint
	}
	return out
}

func explainCorrect(ctx context.Context, t *tutor.Tutor, q *bank.Question) string {
	if t == nil {
		return fallbackCorrect
	}
	out, err := t.ExplainCorrect(ctx, q)
	if err != nil {
		log.Printf("api: explain for %s failed: %v", q.ID, err)
		return fallbackCorrect
	}
	return out
}

func explainReveal(ctx context.Context, t *tutor.Tutor, q *bank.Question) string {
	if t == nil {
		return fallbackReveal
	}
	out, err := t.ExplainReveal(ctx, q)
	if err != nil {
		log.Printf("api: reveal explain for %s failed: %v", q.ID, err)
		return fallbackReveal
	}
	return out
}
