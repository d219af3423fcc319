package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

// progressTimeout bounds the progress update and completion email of one file. It is measured
// from FileDone, not from the job that finished.
const progressTimeout = 10 * time.Second

// dispatchTimeout bounds the upload and publish of one file of a batch.
const dispatchTimeout = 2 * time.Minute

// BatchTracker counts finished files and runs completion side effects exactly when a
// submission's last file is accounted for.
type BatchTracker struct {
	submissions port.SubmissionRepository
	results     port.CvResultRepository
	users       port.UserRepository
	email       port.EmailSender
}

// NewBatchTracker creates a BatchTracker. email may be nil to disable notifications.
func NewBatchTracker(
	submissions port.SubmissionRepository,
	results port.CvResultRepository,
	users port.UserRepository,
	email port.EmailSender,
) *BatchTracker {
	return &BatchTracker{
		submissions: submissions,
		results:     results,
		users:       users,
		email:       email,
	}
}

// FileDone records one processed file, whatever its outcome. The caller's context may already
// be expired (a job that hit its timeout), so only its values are kept.
func (t *BatchTracker) FileDone(ctx context.Context, submissionID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), progressTimeout)
	defer cancel()

	sub, err := t.submissions.IncrementProcessed(ctx, submissionID)
	if err != nil {
		log.Error().Err(err).Str("submission_id", submissionID.String()).Msg("batchTracker: failed to record progress")
		return
	}

	if sub.Status != domain.SubmissionStatusComplete || sub.FilesProcessed != sub.FilesTotal {
		return
	}
	// Only the update that crossed the line carries a completed_at equal to updated_at.
	if sub.CompletedAt == nil || !sub.CompletedAt.Equal(sub.UpdatedAt) {
		return
	}

	log.Info().
		Str("submission_id", submissionID.String()).
		Int("files_total", sub.FilesTotal).
		Msg("batchTracker: submission complete")
	t.notify(ctx, sub)
}

func (t *BatchTracker) notify(ctx context.Context, sub *domain.Submission) {
	if t.email == nil || sub.UserID == nil {
		return
	}

	user, err := t.users.GetByID(ctx, *sub.UserID)
	if err != nil {
		log.Warn().Err(err).Str("submission_id", sub.ID.String()).Msg("batchTracker: owner lookup failed, skipping email")
		return
	}
	results, err := t.results.ListBySubmission(ctx, sub.ID)
	if err != nil {
		log.Warn().Err(err).Str("submission_id", sub.ID.String()).Msg("batchTracker: result count failed, skipping email")
		return
	}
	if err := t.email.SendBatchCompleteEmail(ctx, user.Email, user.FullName, sub.ID, len(results)); err != nil {
		log.Warn().Err(err).Str("submission_id", sub.ID.String()).Msg("batchTracker: failed to send completion email")
	}
}
