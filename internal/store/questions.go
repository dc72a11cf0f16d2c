package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
)

// ErrNotFound: the requested document does not exist in its collection.
var ErrNotFound = errors.New("not found")

// QuestionStore is the question-bank collection over database/sql. Option
// slices ride along as JSON columns so sqlite and postgres share one schema.
type QuestionStore struct {
	db *sql.DB
}

func NewQuestionStore(db *sql.DB) *QuestionStore { return &QuestionStore{db: db} }

// Put inserts a new question (assigning ID and timestamp when absent) or
// replaces an existing one wholesale.
func (s *QuestionStore) Put(ctx context.Context, q quiz.Question) (quiz.Question, error) {
	if err := q.Validate(); err != nil {
		return quiz.Question{}, err
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt == 0 {
		q.CreatedAt = time.Now().Unix()
	}
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return quiz.Question{}, err
	}
	imgs := ""
	if q.OptionImages != nil {
		buf, err := json.Marshal(q.OptionImages)
		if err != nil {
			return quiz.Question{}, err
		}
		imgs = string(buf)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions
		(id,subject,volume,unit,content,options_json,option_images_json,correct_index,image_url,rationale,created_at,created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
		  subject=EXCLUDED.subject, volume=EXCLUDED.volume, unit=EXCLUDED.unit,
		  content=EXCLUDED.content, options_json=EXCLUDED.options_json,
		  option_images_json=EXCLUDED.option_images_json,
		  correct_index=EXCLUDED.correct_index, image_url=EXCLUDED.image_url,
		  rationale=EXCLUDED.rationale`,
		q.ID, q.Subject, q.Volume, q.Unit, q.Content, string(oj), imgs,
		q.CorrectIndex, q.ImageURL, q.Rationale, q.CreatedAt, q.CreatedBy)
	if err != nil {
		return quiz.Question{}, err
	}
	return q, nil
}

func (s *QuestionStore) Get(ctx context.Context, id string) (quiz.Question, error) {
	row := s.db.QueryRowContext(ctx, selectQuestions+` WHERE id=$1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Question{}, ErrNotFound
	}
	return q, err
}

// ListQuestions returns the bank oldest-first, matching the order questions
// were authored in. An empty subject means the whole bank.
func (s *QuestionStore) ListQuestions(ctx context.Context, subject string) ([]quiz.Question, error) {
	query := selectQuestions
	var args []any
	if subject != "" {
		query += ` WHERE subject=$1`
		args = append(args, subject)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *QuestionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectQuestions = `SELECT id,subject,volume,unit,content,options_json,option_images_json,correct_index,image_url,rationale,created_at,created_by FROM questions`

type rowScanner interface{ Scan(dest ...any) error }

func scanQuestion(r rowScanner) (quiz.Question, error) {
	var q quiz.Question
	var oj, imgs string
	if err := r.Scan(&q.ID, &q.Subject, &q.Volume, &q.Unit, &q.Content, &oj, &imgs,
		&q.CorrectIndex, &q.ImageURL, &q.Rationale, &q.CreatedAt, &q.CreatedBy); err != nil {
		return quiz.Question{}, err
	}
	if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
		return quiz.Question{}, err
	}
	if imgs != "" {
		if err := json.Unmarshal([]byte(imgs), &q.OptionImages); err != nil {
			return quiz.Question{}, err
		}
	}
	return q, nil
}
