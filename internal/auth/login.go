package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	authmw "github.com/cloud-quiz/quizmaster/internal/auth/middleware"
	"github.com/cloud-quiz/quizmaster/internal/quiz"
	"github.com/cloud-quiz/quizmaster/internal/store"
)

// RosterLookup resolves a student ID to its roster entry at login time.
type RosterLookup interface {
	Get(ctx context.Context, studentID string) (quiz.RosterEntry, error)
}

// StudentLoginHandler is the student kind of sign-in: no password, just a
// roster ID that resolves to the display name attempts are filed under.
//
// POST /auth/student/login  { "student_id": "..." }
func StudentLoginHandler(a *authmw.AuthService, roster RosterLookup) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		StudentName string `json:"student_name"`
		Role        string `json:"role"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentID string `json:"student_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.StudentID = strings.TrimSpace(req.StudentID)
		if req.StudentID == "" {
			http.Error(w, "student_id required", http.StatusBadRequest)
			return
		}
		entry, err := roster.Get(r.Context(), req.StudentID)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "unknown student id", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, "roster lookup failed", http.StatusBadGateway)
			return
		}
		tok, err := a.IssueJWT("student|"+entry.StudentID, entry.StudentName, authmw.RoleStudent)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, StudentName: entry.StudentName, Role: authmw.RoleStudent})
	}
}

// TeacherLoginHandler is the named kind of sign-in: email plus password
// checked against the configured bcrypt hash.
//
// POST /auth/teacher/login  { "email": "...", "password": "..." }
func TeacherLoginHandler(a *authmw.AuthService, teacherEmail, teacherPassHash string) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if !strings.EqualFold(strings.TrimSpace(req.Email), teacherEmail) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(teacherPassHash), []byte(req.Password)); err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT("teacher|"+teacherEmail, teacherEmail, authmw.RoleTeacher)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, Role: authmw.RoleTeacher})
	}
}
