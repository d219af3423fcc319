package port

import (
	"context"

	"github.com/google/uuid"

	"cvscreen/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ConsumeCredit atomically decrements the user's credits if any remain.
	// It returns domain.ErrInsufficientCredits when none do.
	ConsumeCredit(ctx context.Context, userID uuid.UUID) error
	RefundCredit(ctx context.Context, userID uuid.UUID) error
}

// KeywordListRepository defines the contract for keyword list persistence.
type KeywordListRepository interface {
	Create(ctx context.Context, list *domain.KeywordList) error
	GetByID(ctx context.Context, listID uuid.UUID) (*domain.KeywordList, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.KeywordList, int, error)
	Delete(ctx context.Context, userID, listID uuid.UUID) error
}

// SubmissionRepository defines the contract for batch persistence.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error)
	// MarkProcessing moves a pending submission to processing. It is a no-op otherwise.
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	// IncrementProcessed atomically counts one finished file and returns the updated row,
	// flipping the status to complete when every file has been accounted for.
	IncrementProcessed(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
}

// CvResultRepository defines the contract for per-file result persistence.
type CvResultRepository interface {
	Create(ctx context.Context, result *domain.CvResult) error
	GetByID(ctx context.Context, submissionID, resultID uuid.UUID) (*domain.CvResult, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.CvResult, error)
}

// CvDetailRepository defines the contract for education/experience/skill rows.
type CvDetailRepository interface {
	CreateEducation(ctx context.Context, rows []domain.EducationDetail) error
	CreateExperience(ctx context.Context, rows []domain.ExperienceDetail) error
	CreateSkills(ctx context.Context, rows []domain.SkillDetail) error
	ListByResults(ctx context.Context, resultIDs []uuid.UUID) (map[uuid.UUID]*domain.CvDetails, error)
}
