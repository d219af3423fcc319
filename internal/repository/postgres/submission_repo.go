package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

type submissionRepo struct {
	db *sqlx.DB
}

// NewSubmissionRepo creates a new PostgreSQL-backed SubmissionRepository.
func NewSubmissionRepo(db *sqlx.DB) port.SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	sub.ID = uuid.New()
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if sub.Status == "" {
		sub.Status = domain.SubmissionStatusPending
	}

	query := `INSERT INTO submissions (id, keywords, user_id, status, files_total, files_processed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.Keywords, sub.UserID, sub.Status, sub.FilesTotal, sub.FilesProcessed,
		sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("submissionRepo.Create: %w", err)
	}
	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	var sub domain.Submission
	err := r.db.GetContext(ctx, &sub, "SELECT * FROM submissions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("submissionRepo.GetByID: %w", err)
	}
	return &sub, nil
}

func (r *submissionRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM submissions WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByUser count: %w", err)
	}

	var subs []domain.Submission
	err = r.db.SelectContext(ctx, &subs,
		"SELECT * FROM submissions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByUser: %w", err)
	}
	return subs, total, nil
}

func (r *submissionRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3`,
		domain.SubmissionStatusProcessing, id, domain.SubmissionStatusPending)
	if err != nil {
		return fmt.Errorf("submissionRepo.MarkProcessing: %w", err)
	}
	return nil
}

func (r *submissionRepo) IncrementProcessed(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	// files_processed is capped at files_total so a redelivered job cannot overshoot.
	query := `
		UPDATE submissions SET
			files_processed = LEAST(files_processed + 1, files_total),
			status = CASE
				WHEN files_processed + 1 >= files_total THEN $1
				ELSE $2
			END,
			completed_at = CASE
				WHEN files_processed + 1 >= files_total THEN COALESCE(completed_at, NOW())
				ELSE completed_at
			END,
			updated_at = NOW()
		WHERE id = $3
		RETURNING *`

	var sub domain.Submission
	err := r.db.GetContext(ctx, &sub, query,
		domain.SubmissionStatusComplete, domain.SubmissionStatusProcessing, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("submissionRepo.IncrementProcessed: %w", err)
	}
	return &sub, nil
}
