package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
	"github.com/cloud-quiz/quizmaster/internal/session"
	"github.com/cloud-quiz/quizmaster/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto status codes. Collaborator read
// failures surface as an explicit "cannot load" body, never a silent empty
// list.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrNoQuestions):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, quiz.ErrIncomplete):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, session.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		var bad session.ErrBadTransition
		if errors.As(err, &bad) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": bad.Error()})
			return
		}
		var unavailable session.UnavailableError
		if errors.As(err, &unavailable) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": unavailable.Error()})
			return
		}
		var fault session.Fault
		if errors.As(err, &fault) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":       fault.Error(),
				"recoverable": true,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func cannotLoad(w http.ResponseWriter, what string, err error) {
	writeJSON(w, http.StatusBadGateway, map[string]string{
		"error": "cannot load " + what + ": " + err.Error(),
	})
}
