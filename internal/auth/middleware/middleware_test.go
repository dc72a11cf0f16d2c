package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-quiz/quizmaster/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewAuthService("test-secret")

	tok, err := svc.IssueJWT("student|s01", "小明", RoleStudent)
	require.NoError(t, err)

	c, err := svc.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "student|s01", c.Sub)
	assert.Equal(t, "小明", c.Name)
	assert.Equal(t, RoleStudent, c.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewAuthService("secret-a").IssueJWT("x", "x", RoleTeacher)
	require.NoError(t, err)

	_, err = NewAuthService("secret-b").Parse(tok)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewAuthService("test-secret")
	tok, err := svc.IssueJWT("teacher|t@example.com", "老師", RoleTeacher)
	require.NoError(t, err)

	var gotSub, gotName, gotRole string
	h := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotName = NameFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teacher|t@example.com", gotSub)
	assert.Equal(t, "老師", gotName)
	assert.Equal(t, RoleTeacher, gotRole)
}

func TestJWTMiddlewareRejects(t *testing.T) {
	svc := NewAuthService("test-secret")
	h := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a valid token")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
