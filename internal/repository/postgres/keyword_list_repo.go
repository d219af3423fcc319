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

type keywordListRepo struct {
	db *sqlx.DB
}

// NewKeywordListRepo creates a new PostgreSQL-backed KeywordListRepository.
func NewKeywordListRepo(db *sqlx.DB) port.KeywordListRepository {
	return &keywordListRepo{db: db}
}

func (r *keywordListRepo) Create(ctx context.Context, list *domain.KeywordList) error {
	list.ID = uuid.New()
	now := time.Now().UTC()
	list.CreatedAt = now
	list.UpdatedAt = now

	query := `INSERT INTO keyword_lists (id, user_id, name, keywords, created_at, updated_at)
		VALUES (:id, :user_id, :name, :keywords, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, list); err != nil {
		return fmt.Errorf("keywordListRepo.Create: %w", err)
	}
	return nil
}

func (r *keywordListRepo) GetByID(ctx context.Context, listID uuid.UUID) (*domain.KeywordList, error) {
	var list domain.KeywordList
	err := r.db.GetContext(ctx, &list, "SELECT * FROM keyword_lists WHERE id = $1", listID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrKeywordListNotFound
		}
		return nil, fmt.Errorf("keywordListRepo.GetByID: %w", err)
	}
	return &list, nil
}

func (r *keywordListRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.KeywordList, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM keyword_lists WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("keywordListRepo.ListByUser count: %w", err)
	}

	var lists []domain.KeywordList
	err = r.db.SelectContext(ctx, &lists,
		"SELECT * FROM keyword_lists WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("keywordListRepo.ListByUser: %w", err)
	}
	return lists, total, nil
}

func (r *keywordListRepo) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM keyword_lists WHERE id = $1 AND user_id = $2", listID, userID)
	if err != nil {
		return fmt.Errorf("keywordListRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrKeywordListNotFound
	}
	return nil
}
