package http

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	authmw "github.com/cloud-quiz/quizmaster/internal/auth/middleware"
	"github.com/cloud-quiz/quizmaster/internal/quiz"
	"github.com/cloud-quiz/quizmaster/internal/store"
)

// GET /questions?subject=...  — the bank, oldest first. Both roles read it;
// answer keys stay server-side for students, who only ever see shuffled
// exam instances through their session.
func ListQuestionsHandler(qs *store.QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := qs.ListQuestions(r.Context(), r.URL.Query().Get("subject"))
		if err != nil {
			cannotLoad(w, "question bank", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"questions": list, "count": len(list)})
	}
}

// GET /questions/grouped?subject=... — teacher list view, bucketed by
// "volume | unit" with sorted group keys.
func GroupedQuestionsHandler(qs *store.QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := qs.ListQuestions(r.Context(), r.URL.Query().Get("subject"))
		if err != nil {
			cannotLoad(w, "question bank", err)
			return
		}
		grouped := map[string][]quiz.Question{}
		for _, q := range list {
			key := q.Volume + " | " + q.Unit
			grouped[key] = append(grouped[key], q)
		}
		keys := make([]string, 0, len(grouped))
		for k := range grouped {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		writeJSON(w, http.StatusOK, map[string]any{"groups": grouped, "order": keys})
	}
}

// GET /units?subject=... — the scopes offered on the setup screen.
func ListUnitsHandler(qs *store.QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := r.URL.Query().Get("subject")
		list, err := qs.ListQuestions(r.Context(), subject)
		if err != nil {
			cannotLoad(w, "question bank", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"units": quiz.Units(list, subject),
			"count": len(quiz.Filter(list, subject, quiz.Scope{All: true})),
		})
	}
}

// POST /questions — teacher creates one question.
func CreateQuestionHandler(qs *store.QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q.ID = "" // ids are assigned by the store
		q.CreatedBy = authmw.SubjectFromContext(r.Context())
		saved, err := qs.Put(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

// PUT /questions/{questionID} — teacher edits an existing question.
func UpdateQuestionHandler(qs *store.QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		existing, err := qs.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		var q quiz.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q.ID = existing.ID
		q.CreatedAt = existing.CreatedAt
		q.CreatedBy = existing.CreatedBy
		saved, err := qs.Put(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

// DELETE /questions/{questionID}
func DeleteQuestionHandler(qs *store.QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := qs.Delete(r.Context(), chi.URLParam(r, "questionID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /questions/import — bulk pipe-delimited import. Malformed lines are
// skipped; their line numbers and reasons come back in the response so the
// teacher sees the whole batch outcome at once.
func ImportQuestionsHandler(qs *store.QuestionStore) http.HandlerFunc {
	type req struct {
		Subject string `json:"subject"`
		Volume  string `json:"volume"`
		Unit    string `json:"unit"`
		Text    string `json:"text"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in req
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		parsed, lineErrs := quiz.ParseBank(in.Text, in.Subject, in.Volume, in.Unit)

		// Inserts are independent per document; a failed insert joins the
		// per-line failure report instead of aborting the batch.
		imported := 0
		createdBy := authmw.SubjectFromContext(r.Context())
		for _, p := range parsed {
			q := p.Question
			q.CreatedBy = createdBy
			if _, err := qs.Put(r.Context(), q); err != nil {
				lineErrs = append(lineErrs, quiz.ImportError{Line: p.Line, Reason: "store: " + err.Error()})
				continue
			}
			imported++
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"imported": imported,
			"skipped":  lineErrs,
		})
	}
}

// GET /questions/export — the whole bank as bulk text, round-trippable
// through the importer.
func ExportQuestionsHandler(qs *store.QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := qs.ListQuestions(r.Context(), r.URL.Query().Get("subject"))
		if err != nil {
			cannotLoad(w, "question bank", err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="quiz_backup.txt"`)
		_, _ = w.Write([]byte(quiz.ExportBank(list)))
	}
}
