package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
	"cvscreen/internal/service"
	"cvscreen/mocks"
)

type trackerDeps struct {
	submissions *mocks.MockSubmissionRepo
	results     *mocks.MockCvResultRepo
	users       *mocks.MockUserRepo
	email       *mocks.MockEmailSender
}

func newTracker() (*service.BatchTracker, trackerDeps) {
	d := trackerDeps{
		submissions: new(mocks.MockSubmissionRepo),
		results:     new(mocks.MockCvResultRepo),
		users:       new(mocks.MockUserRepo),
		email:       new(mocks.MockEmailSender),
	}
	return service.NewBatchTracker(d.submissions, d.results, d.users, d.email), d
}

func completedSubmission(owner *uuid.UUID, crossing bool) *domain.Submission {
	now := time.Now()
	completed := now
	if !crossing {
		completed = now.Add(-time.Minute)
	}
	return &domain.Submission{
		ID:             uuid.New(),
		UserID:         owner,
		Status:         domain.SubmissionStatusComplete,
		FilesTotal:     2,
		FilesProcessed: 2,
		UpdatedAt:      now,
		CompletedAt:    &completed,
	}
}

func TestBatchTracker_CompletionSendsEmailOnce(t *testing.T) {
	tracker, d := newTracker()
	owner := uuid.New()
	sub := completedSubmission(&owner, true)

	d.submissions.On("IncrementProcessed", mock.Anything, sub.ID).Return(sub, nil)
	d.users.On("GetByID", mock.Anything, owner).Return(&domain.User{ID: owner, Email: "r@example.com", FullName: "Rae"}, nil)
	d.results.On("ListBySubmission", mock.Anything, sub.ID).Return([]domain.CvResult{{ID: uuid.New()}}, nil)
	d.email.On("SendBatchCompleteEmail", mock.Anything, "r@example.com", "Rae", sub.ID, 1).Return(nil)

	tracker.FileDone(context.Background(), sub.ID)

	d.email.AssertExpectations(t)
}

func TestBatchTracker_NotYetComplete(t *testing.T) {
	tracker, d := newTracker()
	owner := uuid.New()
	sub := &domain.Submission{ID: uuid.New(), UserID: &owner, Status: domain.SubmissionStatusProcessing, FilesTotal: 3, FilesProcessed: 1}

	d.submissions.On("IncrementProcessed", mock.Anything, sub.ID).Return(sub, nil)

	tracker.FileDone(context.Background(), sub.ID)

	d.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	d.email.AssertNotCalled(t, "SendBatchCompleteEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchTracker_RedeliveryAfterCompletionDoesNotResend(t *testing.T) {
	tracker, d := newTracker()
	owner := uuid.New()
	sub := completedSubmission(&owner, false)

	d.submissions.On("IncrementProcessed", mock.Anything, sub.ID).Return(sub, nil)

	tracker.FileDone(context.Background(), sub.ID)

	d.email.AssertNotCalled(t, "SendBatchCompleteEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchTracker_AnonymousSubmissionHasNoEmail(t *testing.T) {
	tracker, d := newTracker()
	sub := completedSubmission(nil, true)

	d.submissions.On("IncrementProcessed", mock.Anything, sub.ID).Return(sub, nil)

	tracker.FileDone(context.Background(), sub.ID)

	d.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	d.email.AssertNotCalled(t, "SendBatchCompleteEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchTracker_ProgressFailureIsLogged(t *testing.T) {
	tracker, d := newTracker()
	id := uuid.New()

	d.submissions.On("IncrementProcessed", mock.Anything, id).Return(nil, errors.New("db down"))

	tracker.FileDone(context.Background(), id)

	d.email.AssertNotCalled(t, "SendBatchCompleteEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchTracker_NilEmailSender(t *testing.T) {
	submissions := new(mocks.MockSubmissionRepo)
	owner := uuid.New()
	sub := completedSubmission(&owner, true)
	submissions.On("IncrementProcessed", mock.Anything, sub.ID).Return(sub, nil)

	tracker := service.NewBatchTracker(submissions, new(mocks.MockCvResultRepo), new(mocks.MockUserRepo), nil)
	tracker.FileDone(context.Background(), sub.ID)

	submissions.AssertExpectations(t)
}

func TestBatchTracker_ExpiredCallerContextStillRecordsCompletion(t *testing.T) {
	tracker, d := newTracker()
	owner := uuid.New()
	sub := completedSubmission(&owner, true)

	var progressErr, emailErr error
	d.submissions.On("IncrementProcessed", mock.Anything, sub.ID).
		Run(func(args mock.Arguments) { progressErr = args.Get(0).(context.Context).Err() }).
		Return(sub, nil)
	d.users.On("GetByID", mock.Anything, owner).Return(&domain.User{ID: owner, Email: "r@example.com", FullName: "Rae"}, nil)
	d.results.On("ListBySubmission", mock.Anything, sub.ID).Return([]domain.CvResult{{ID: uuid.New()}}, nil)
	d.email.On("SendBatchCompleteEmail", mock.Anything, "r@example.com", "Rae", sub.ID, 1).
		Run(func(args mock.Arguments) { emailErr = args.Get(0).(context.Context).Err() }).
		Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	tracker.FileDone(ctx, sub.ID)

	assert.NoError(t, progressErr)
	assert.NoError(t, emailErr)
	d.email.AssertExpectations(t)
}
