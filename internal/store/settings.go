package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
)

// SettingsStore holds the single global configuration record. Reads before
// the first write see the defaults.
type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore { return &SettingsStore{db: db} }

func (s *SettingsStore) GetSettings(ctx context.Context) (quiz.GlobalSettings, error) {
	var gs quiz.GlobalSettings
	err := s.db.QueryRowContext(ctx,
		`SELECT reveal_threshold FROM settings WHERE id=1`).Scan(&gs.RevealThreshold)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.DefaultSettings(), nil
	}
	if err != nil {
		return quiz.GlobalSettings{}, err
	}
	return gs, nil
}

func (s *SettingsStore) PutSettings(ctx context.Context, gs quiz.GlobalSettings) error {
	if gs.RevealThreshold < 0 || gs.RevealThreshold > 100 {
		return fmt.Errorf("reveal threshold %d out of range 0-100", gs.RevealThreshold)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings (id, reveal_threshold)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET reveal_threshold=EXCLUDED.reveal_threshold`,
		gs.RevealThreshold)
	return err
}
