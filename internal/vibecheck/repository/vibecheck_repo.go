package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
)

const vibeCheckColumns = `id, user_id, website_url, idea_description, input_hash, evaluation, model, cached, created_at`

type VibeCheckRepository struct {
	db *sql.DB
}

func NewVibeCheckRepository(db *sql.DB) *VibeCheckRepository {
	return &VibeCheckRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVibeCheck(row scanner) (*domain.VibeCheck, error) {
	var vc domain.VibeCheck
	var userID sql.NullInt64
	var websiteURL, idea sql.NullString
	var evaluation []byte

	err := row.Scan(&vc.ID, &userID, &websiteURL, &idea, &vc.InputHash, &evaluation, &vc.Model, &vc.Cached, &vc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(evaluation, &vc.Evaluation); err != nil {
		return nil, fmt.Errorf("decode evaluation %s: %w", vc.ID, err)
	}
	if userID.Valid {
		vc.UserID = &userID.Int64
	}
	if websiteURL.Valid {
		vc.WebsiteURL = &websiteURL.String
	}
	if idea.Valid {
		vc.IdeaDescription = &idea.String
	}
	return &vc, nil
}

func (r *VibeCheckRepository) Create(ctx context.Context, vc *domain.VibeCheck) error {
	evaluation, err := json.Marshal(vc.Evaluation)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO vibe_checks (id, user_id, website_url, idea_description, input_hash, evaluation, model, cached)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)
RETURNING created_at`

	return r.db.QueryRowContext(ctx, q,
		vc.ID, vc.UserID, vc.WebsiteURL, vc.IdeaDescription, vc.InputHash, string(evaluation), vc.Model, vc.Cached,
	).Scan(&vc.CreatedAt)
}

func (r *VibeCheckRepository) Get(ctx context.Context, id uuid.UUID) (*domain.VibeCheck, error) {
	q := `SELECT ` + vibeCheckColumns + ` FROM vibe_checks WHERE id = $1`
	return scanVibeCheck(r.db.QueryRowContext(ctx, q, id))
}

func (r *VibeCheckRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.VibeCheck, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vibe_checks WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + vibeCheckColumns + `
FROM vibe_checks
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []domain.VibeCheck{}
	for rows.Next() {
		vc, err := scanVibeCheck(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *vc)
	}
	return out, total, rows.Err()
}

// DeleteAnonymousBefore removes checks with no owner created before cutoff.
func (r *VibeCheckRepository) DeleteAnonymousBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vibe_checks WHERE user_id IS NULL AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
