package http

import (
	"encoding/json"
	"net/http"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
	"github.com/cloud-quiz/quizmaster/internal/store"
)

// GET /settings
func GetSettingsHandler(ss *store.SettingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gs, err := ss.GetSettings(r.Context())
		if err != nil {
			cannotLoad(w, "settings", err)
			return
		}
		writeJSON(w, http.StatusOK, gs)
	}
}

// PUT /settings — teacher updates the reveal threshold. The new value takes
// effect for every subsequent grading and history view, including attempts
// stored before the change.
func UpdateSettingsHandler(ss *store.SettingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var gs quiz.GlobalSettings
		if err := json.NewDecoder(r.Body).Decode(&gs); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := ss.PutSettings(r.Context(), gs); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, gs)
	}
}
