package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
	"github.com/cloud-quiz/quizmaster/internal/store"
)

// Roster CRUD, teacher-only. Students touch the roster exactly once, via
// the login lookup.

func ListRosterHandler(rs *store.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := rs.List(r.Context())
		if err != nil {
			cannotLoad(w, "roster", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"roster": list, "count": len(list)})
	}
}

// PUT /roster/{studentID} — create or rename one entry.
func UpsertRosterHandler(rs *store.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e quiz.RosterEntry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		e.StudentID = chi.URLParam(r, "studentID")
		if err := rs.Upsert(r.Context(), e); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func DeleteRosterHandler(rs *store.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := rs.Delete(r.Context(), chi.URLParam(r, "studentID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
