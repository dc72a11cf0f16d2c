package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
)

// RosterStore is the studentID → studentName directory the teacher
// maintains; one lookup happens per student login.
type RosterStore struct {
	db *sql.DB
}

func NewRosterStore(db *sql.DB) *RosterStore { return &RosterStore{db: db} }

func (s *RosterStore) Upsert(ctx context.Context, e quiz.RosterEntry) error {
	if e.StudentID == "" || e.StudentName == "" {
		return errors.New("student id and name required")
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO roster (student_id, student_name, created_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (student_id) DO UPDATE SET student_name=EXCLUDED.student_name`,
		e.StudentID, e.StudentName, e.CreatedAt)
	return err
}

func (s *RosterStore) Get(ctx context.Context, studentID string) (quiz.RosterEntry, error) {
	var e quiz.RosterEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT student_id, student_name, created_at FROM roster WHERE student_id=$1`,
		studentID).Scan(&e.StudentID, &e.StudentName, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.RosterEntry{}, ErrNotFound
	}
	if err != nil {
		return quiz.RosterEntry{}, err
	}
	return e, nil
}

func (s *RosterStore) List(ctx context.Context) ([]quiz.RosterEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT student_id, student_name, created_at FROM roster ORDER BY student_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quiz.RosterEntry
	for rows.Next() {
		var e quiz.RosterEntry
		if err := rows.Scan(&e.StudentID, &e.StudentName, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *RosterStore) Delete(ctx context.Context, studentID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM roster WHERE student_id=$1`, studentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
