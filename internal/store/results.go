package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
)

// ResultStore is the attempt-record collection. Records are written once at
// submission and only ever deleted afterwards, never edited.
type ResultStore struct {
	db *sql.DB
}

func NewResultStore(db *sql.DB) *ResultStore { return &ResultStore{db: db} }

func (s *ResultStore) PutResult(ctx context.Context, r quiz.AttemptResult) error {
	if r.ID == "" {
		return errors.New("result id required")
	}
	mj, err := json.Marshal(r.Mistakes)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO results
		(id,student_name,score,unit,total_questions,correct_count,attempt,mistakes_json,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		r.ID, r.StudentName, r.Score, r.Unit, r.TotalQuestions, r.CorrectCount,
		r.Attempt, string(mj), r.SubmittedAt)
	return err
}

func (s *ResultStore) Get(ctx context.Context, id string) (quiz.AttemptResult, error) {
	row := s.db.QueryRowContext(ctx, selectResults+` WHERE id=$1`, id)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.AttemptResult{}, ErrNotFound
	}
	return r, err
}

// ListResults returns attempts newest first. Either filter may be empty;
// empty studentName and unit together mean the whole collection.
func (s *ResultStore) ListResults(ctx context.Context, studentName, unit string) ([]quiz.AttemptResult, error) {
	query := selectResults
	var args []any
	where := ""
	if studentName != "" {
		args = append(args, studentName)
		where = fmt.Sprintf(` WHERE student_name=$%d`, len(args))
	}
	if unit != "" {
		args = append(args, unit)
		if where == "" {
			where = fmt.Sprintf(` WHERE unit=$%d`, len(args))
		} else {
			where += fmt.Sprintf(` AND unit=$%d`, len(args))
		}
	}
	query += where + ` ORDER BY submitted_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quiz.AttemptResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ResultStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUnit clears every attempt filed under a unit label. There is no
// cross-document transaction: each record is deleted independently and the
// batch may partially fail, so the failures come back alongside the count.
func (s *ResultStore) DeleteByUnit(ctx context.Context, unit string) (deleted int, failed []string, err error) {
	items, err := s.ListResults(ctx, "", unit)
	if err != nil {
		return 0, nil, err
	}
	for _, it := range items {
		if derr := s.Delete(ctx, it.ID); derr != nil {
			failed = append(failed, it.ID)
			continue
		}
		deleted++
	}
	return deleted, failed, nil
}

const selectResults = `SELECT id,student_name,score,unit,total_questions,correct_count,attempt,mistakes_json,submitted_at FROM results`

func scanResult(r rowScanner) (quiz.AttemptResult, error) {
	var res quiz.AttemptResult
	var mj string
	if err := r.Scan(&res.ID, &res.StudentName, &res.Score, &res.Unit,
		&res.TotalQuestions, &res.CorrectCount, &res.Attempt, &mj, &res.SubmittedAt); err != nil {
		return quiz.AttemptResult{}, err
	}
	if err := json.Unmarshal([]byte(mj), &res.Mistakes); err != nil {
		return quiz.AttemptResult{}, err
	}
	return res, nil
}
