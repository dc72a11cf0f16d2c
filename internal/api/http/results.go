package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/cloud-quiz/quizmaster/internal/auth/middleware"
	"github.com/cloud-quiz/quizmaster/internal/quiz"
	"github.com/cloud-quiz/quizmaster/internal/rbac"
	"github.com/cloud-quiz/quizmaster/internal/sheet"
	"github.com/cloud-quiz/quizmaster/internal/store"
)

// GET /results?unit=&student=
// Teachers list any filter; students are forced onto their own name.
func ListResultsHandler(rs *store.ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student := r.URL.Query().Get("student")
		unit := r.URL.Query().Get("unit")
		if rbac.RoleFromContext(r.Context()) != authmw.RoleTeacher {
			student = authmw.NameFromContext(r.Context())
		}
		list, err := rs.ListResults(r.Context(), student, unit)
		if err != nil {
			cannotLoad(w, "results", err)
			return
		}
		grouped, order := quiz.GroupByUnit(list)
		writeJSON(w, http.StatusOK, map[string]any{
			"results": list,
			"by_unit": grouped,
			"units":   order,
			"count":   len(list),
		})
	}
}

// GET /results/{resultID} — one stored attempt for review. The reveal policy
// runs against the threshold in force right now, not the one at submission:
// for a student below it, correct indexes and rationale are stripped before
// the record leaves the server. Teachers always see the full record.
func GetResultHandler(rs *store.ResultStore, ss *store.SettingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := rs.Get(r.Context(), chi.URLParam(r, "resultID"))
		if err != nil {
			writeError(w, err)
			return
		}
		isTeacher := rbac.RoleFromContext(r.Context()) == authmw.RoleTeacher
		if !isTeacher && res.StudentName != authmw.NameFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		gs, err := ss.GetSettings(r.Context())
		if err != nil {
			cannotLoad(w, "settings", err)
			return
		}
		reveal := quiz.Reveal(res.Score, gs)
		if !isTeacher && !reveal {
			res = quiz.RedactResult(res)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"result": res,
			"reveal": reveal,
		})
	}
}

// DELETE /results/{resultID} — teacher-only; records are deletable, never
// editable.
func DeleteResultHandler(rs *store.ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := rs.Delete(r.Context(), chi.URLParam(r, "resultID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /results?unit=... — clears a whole unit folder. Per-document
// deletes with no transaction; partial failures are reported, not hidden.
func DeleteUnitResultsHandler(rs *store.ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unit := r.URL.Query().Get("unit")
		if unit == "" {
			http.Error(w, "unit required", http.StatusBadRequest)
			return
		}
		deleted, failed, err := rs.DeleteByUnit(r.Context(), unit)
		if err != nil {
			cannotLoad(w, "results", err)
			return
		}
		status := http.StatusOK
		if len(failed) > 0 {
			status = http.StatusMultiStatus
		}
		writeJSON(w, status, map[string]any{"deleted": deleted, "failed": failed})
	}
}

// GET /leaderboard?unit=... — per-student best score for a unit, ranked.
// Recomputed from the stored attempts on every view.
func LeaderboardHandler(rs *store.ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unit := r.URL.Query().Get("unit")
		if unit == "" {
			http.Error(w, "unit required", http.StatusBadRequest)
			return
		}
		list, err := rs.ListResults(r.Context(), "", unit)
		if err != nil {
			cannotLoad(w, "results", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"unit":    unit,
			"ranking": quiz.Leaderboard(list),
		})
	}
}

// GET /results/{resultID}/sheet — the printable answer sheet PDF.
func PrintSheetHandler(rs *store.ResultStore, opts sheet.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := rs.Get(r.Context(), chi.URLParam(r, "resultID"))
		if err != nil {
			writeError(w, err)
			return
		}
		buf, err := sheet.Generate(res, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="mistake_review.pdf"`)
		_, _ = w.Write(buf)
	}
}
