package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

// CreateKeywordListInput is the DTO for creating a keyword list.
type CreateKeywordListInput struct {
	Name     string   `json:"name" binding:"required"`
	Keywords []string `json:"keywords" binding:"required"`
}

// KeywordListService manages user-owned keyword lists.
type KeywordListService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateKeywordListInput) (*domain.KeywordList, error)
	Get(ctx context.Context, userID, listID uuid.UUID) (*domain.KeywordList, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.KeywordList, int, error)
	Delete(ctx context.Context, userID, listID uuid.UUID) error
}

type keywordListService struct {
	repo port.KeywordListRepository
}

// NewKeywordListService creates a new KeywordListService implementation.
func NewKeywordListService(repo port.KeywordListRepository) KeywordListService {
	return &keywordListService{repo: repo}
}

func (s *keywordListService) Create(ctx context.Context, userID uuid.UUID, input CreateKeywordListInput) (*domain.KeywordList, error) {
	keywords := domain.SplitKeywords(strings.Join(input.Keywords, ","))
	if len(keywords) == 0 {
		return nil, domain.ErrMissingKeywords
	}

	list := &domain.KeywordList{
		UserID:   userID,
		Name:     strings.TrimSpace(input.Name),
		Keywords: keywords,
	}
	if err := s.repo.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("keywordList.Create: %w", err)
	}
	return list, nil
}

func (s *keywordListService) Get(ctx context.Context, userID, listID uuid.UUID) (*domain.KeywordList, error) {
	return loadOwnedKeywordList(ctx, s.repo, userID, listID)
}

func (s *keywordListService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.KeywordList, int, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

func (s *keywordListService) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := loadOwnedKeywordList(ctx, s.repo, userID, listID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, listID)
}

// loadOwnedKeywordList fetches a list and rejects it unless userID owns it.
func loadOwnedKeywordList(ctx context.Context, repo port.KeywordListRepository, userID, listID uuid.UUID) (*domain.KeywordList, error) {
	list, err := repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.OwnedBy(userID) {
		return nil, domain.ErrKeywordListForbidden
	}
	return list, nil
}
