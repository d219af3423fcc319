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

type cvResultRepo struct {
	db *sqlx.DB
}

// NewCvResultRepo creates a new PostgreSQL-backed CvResultRepository.
func NewCvResultRepo(db *sqlx.DB) port.CvResultRepository {
	return &cvResultRepo{db: db}
}

func (r *cvResultRepo) Create(ctx context.Context, result *domain.CvResult) error {
	result.ID = uuid.New()
	result.CreatedAt = time.Now().UTC()

	query := `INSERT INTO cv_results (id, submission_id, original_filename, ats_score,
		candidate_name, candidate_email, candidate_phone, full_text, created_at)
		VALUES (:id, :submission_id, :original_filename, :ats_score,
		:candidate_name, :candidate_email, :candidate_phone, :full_text, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("cvResultRepo.Create: %w", err)
	}
	return nil
}

func (r *cvResultRepo) GetByID(ctx context.Context, submissionID, resultID uuid.UUID) (*domain.CvResult, error) {
	var result domain.CvResult
	err := r.db.GetContext(ctx, &result,
		"SELECT * FROM cv_results WHERE id = $1 AND submission_id = $2", resultID, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCvResultNotFound
		}
		return nil, fmt.Errorf("cvResultRepo.GetByID: %w", err)
	}
	return &result, nil
}

func (r *cvResultRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.CvResult, error) {
	var results []domain.CvResult
	err := r.db.SelectContext(ctx, &results,
		"SELECT * FROM cv_results WHERE submission_id = $1 ORDER BY created_at, id", submissionID)
	if err != nil {
		return nil, fmt.Errorf("cvResultRepo.ListBySubmission: %w", err)
	}
	return results, nil
}
