package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/cloud-quiz/quizmaster/internal/auth/middleware"
	"github.com/cloud-quiz/quizmaster/internal/quiz"
	"github.com/cloud-quiz/quizmaster/internal/store"
)

type fakeRoster struct {
	entries map[string]quiz.RosterEntry
	err     error
}

func (f *fakeRoster) Get(ctx context.Context, id string) (quiz.RosterEntry, error) {
	if f.err != nil {
		return quiz.RosterEntry{}, f.err
	}
	e, ok := f.entries[id]
	if !ok {
		return quiz.RosterEntry{}, store.ErrNotFound
	}
	return e, nil
}

func TestStudentLogin(t *testing.T) {
	svc := authmw.NewAuthService("test-secret")
	roster := &fakeRoster{entries: map[string]quiz.RosterEntry{
		"s01": {StudentID: "s01", StudentName: "小明"},
	}}
	h := StudentLoginHandler(svc, roster)

	req := httptest.NewRequest("POST", "/auth/student/login",
		strings.NewReader(`{"student_id":"s01"}`))
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		AccessToken string `json:"access_token"`
		StudentName string `json:"student_name"`
		Role        string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "小明", out.StudentName)
	assert.Equal(t, authmw.RoleStudent, out.Role)

	c, err := svc.Parse(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "student|s01", c.Sub)
	assert.Equal(t, "小明", c.Name)
}

func TestStudentLoginUnknownID(t *testing.T) {
	h := StudentLoginHandler(authmw.NewAuthService("s"), &fakeRoster{})

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"student_id":"nope"}`))
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStudentLoginRosterUnavailable(t *testing.T) {
	h := StudentLoginHandler(authmw.NewAuthService("s"), &fakeRoster{err: errors.New("db down")})

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"student_id":"s01"}`))
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestStudentLoginBlankID(t *testing.T) {
	h := StudentLoginHandler(authmw.NewAuthService("s"), &fakeRoster{})

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"student_id":"   "}`))
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeacherLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := authmw.NewAuthService("test-secret")
	h := TeacherLoginHandler(svc, "teacher@example.com", string(hash))

	req := httptest.NewRequest("POST", "/",
		strings.NewReader(`{"email":"Teacher@Example.com","password":"hunter2"}`))
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, authmw.RoleTeacher, out.Role)

	c, err := svc.Parse(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, authmw.RoleTeacher, c.Role)
}

func TestTeacherLoginBadCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	h := TeacherLoginHandler(authmw.NewAuthService("s"), "teacher@example.com", string(hash))

	req := httptest.NewRequest("POST", "/",
		strings.NewReader(`{"email":"teacher@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("POST", "/",
		strings.NewReader(`{"email":"other@example.com","password":"hunter2"}`))
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
