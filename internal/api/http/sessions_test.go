package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/cloud-quiz/quizmaster/internal/auth/middleware"
	"github.com/cloud-quiz/quizmaster/internal/db"
	"github.com/cloud-quiz/quizmaster/internal/quiz"
	"github.com/cloud-quiz/quizmaster/internal/rbac"
	"github.com/cloud-quiz/quizmaster/internal/session"
	"github.com/cloud-quiz/quizmaster/internal/store"
)

type stubBank struct {
	questions []quiz.Question
	err       error
}

func (b *stubBank) ListQuestions(ctx context.Context, subject string) ([]quiz.Question, error) {
	return b.questions, b.err
}

type stubResults struct {
	mu     sync.Mutex
	stored []quiz.AttemptResult
}

func (r *stubResults) PutResult(ctx context.Context, res quiz.AttemptResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, res)
	return nil
}

func (r *stubResults) ListResults(ctx context.Context, studentName, unit string) ([]quiz.AttemptResult, error) {
	return nil, nil
}

func sessionBank(n int) []quiz.Question {
	out := make([]quiz.Question, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, quiz.Question{
			ID: fmt.Sprintf("q%d", i), Subject: "數學", Volume: "第一冊", Unit: "分數",
			Content:      "q",
			Options:      []string{"1", "2", "3", "4"},
			CorrectIndex: i % 4,
			Rationale:    "解釋",
		})
	}
	return out
}

// sessionRouter mounts the session routes the way the gateway does, with a
// stand-in for the auth middleware that fixes the principal.
func sessionRouter(t *testing.T, bank session.BankSource) (*chi.Mux, *session.Manager) {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite,
		fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	settings := store.NewSettingsStore(dbh)
	results := store.NewResultStore(dbh)
	m := session.NewManager(bank, results, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := authmw.WithName(req.Context(), "小明")
			ctx = rbac.WithRole(ctx, authmw.RoleStudent)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/sessions", OpenSessionHandler(m))
	r.Get("/sessions/{sessionID}", GetSessionHandler(m, settings))
	r.Post("/sessions/{sessionID}/start", StartSessionHandler(m))
	r.Post("/sessions/{sessionID}/answers", AnswerHandler(m))
	r.Post("/sessions/{sessionID}/submit", SubmitHandler(m, settings))
	return r, m
}

func openAndStart(t *testing.T, r *chi.Mux) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var opened struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opened))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions/"+opened.SessionID+"/start",
		strings.NewReader(`{"subject":"數學","scope":{"all":true}}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	return opened.SessionID
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	r, m := sessionRouter(t, &stubBank{questions: sessionBank(4)})
	id := openAndStart(t, r)

	// Mid-quiz the view must not leak answer keys.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "correct_index")
	assert.NotContains(t, body, "rationale")

	var view sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Questions, 4)

	var inst []quiz.ExamQuestion
	require.NoError(t, m.Inspect(id, func(s *session.Session) {
		inst = append(inst, s.Instance...)
	}))
	for _, q := range inst {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions/"+id+"/answers",
			strings.NewReader(fmt.Sprintf(`{"question_id":%q,"option_index":%d}`, q.ID, q.CorrectIndex))))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions/"+id+"/submit", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.Result)
	assert.Equal(t, 100, view.Result.Score)
	assert.True(t, view.Result.Reveal)
	assert.Empty(t, view.Result.Warning)
}

func TestSubmitBeforeCompleteOverHTTP(t *testing.T) {
	r, _ := sessionRouter(t, &stubBank{questions: sessionBank(4)})
	id := openAndStart(t, r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions/"+id+"/submit", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStartBankDownOverHTTP(t *testing.T) {
	r, _ := sessionRouter(t, &stubBank{err: errors.New("db down")})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions", nil))
	var opened struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opened))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions/"+opened.SessionID+"/start",
		strings.NewReader(`{"subject":"數學","scope":{"all":true}}`)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot load")
}

// A polling client GETting the pane while another POSTs answers must never
// corrupt the sheet or crash; the view is rendered under the manager lock.
func TestConcurrentAnswersAndViews(t *testing.T) {
	r, m := sessionRouter(t, &stubBank{questions: sessionBank(4)})
	id := openAndStart(t, r)

	var inst []quiz.ExamQuestion
	require.NoError(t, m.Inspect(id, func(s *session.Session) {
		inst = append(inst, s.Instance...)
	}))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				rec := httptest.NewRecorder()
				if w%2 == 0 {
					q := inst[(w+i)%len(inst)]
					r.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions/"+id+"/answers",
						strings.NewReader(fmt.Sprintf(`{"question_id":%q,"option_index":%d}`, q.ID, i%4))))
				} else {
					r.ServeHTTP(rec, httptest.NewRequest("GET", "/sessions/"+id, nil))
				}
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		}(w)
	}
	wg.Wait()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var view sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 4, view.Answered)
}
