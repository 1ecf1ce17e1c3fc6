package http

import (
	"encoding/json"
	"net/http"

	"github.com/certlab/protodrill/internal/quiz"
)

func HandleStartQuiz(engine *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Topic string `json:"topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" {
			http.Error(w, "topic required", http.StatusBadRequest)
			return
		}
		s, err := engine.Start(r.Context(), req.Topic)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, s)
	}
}

func HandleSubmitQuizAnswer(engine *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token         string `json:"session_token"`
			QuestionID    string `json:"question_id"`
			Answer        string `json:"answer"`
			GroupID       string `json:"group_id"`
			AttemptNumber int    `json:"attempt_number"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.AttemptNumber == 0 {
			req.AttemptNumber = 1
		}
		res, err := engine.Submit(req.Token, req.QuestionID, req.Answer, req.GroupID, req.AttemptNumber)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, res)
	}
}

func HandleNextGroupQuestion(engine *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token   string   `json:"session_token"`
			GroupID string   `json:"group_id"`
			Exclude []string `json:"exclude_question_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q, err := engine.NextGroupQuestion(req.Token, req.GroupID, req.Exclude)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"question": q})
	}
}
