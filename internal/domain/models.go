package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User is an authenticated account. Credits are consumed one per submitted batch.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Credits      int       `db:"credits" json:"credits"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// KeywordList is a named, user-owned set of job keywords that can be reused across batches.
type KeywordList struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Name      string         `db:"name" json:"name"`
	Keywords  pq.StringArray `db:"keywords" json:"keywords"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// OwnedBy reports whether the list belongs to the given user.
func (k *KeywordList) OwnedBy(userID uuid.UUID) bool {
	return k.UserID == userID
}

// Submission is one batch analysis request.
type Submission struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	Keywords       string           `db:"keywords" json:"keywords"`
	UserID         *uuid.UUID       `db:"user_id" json:"user_id,omitempty"`
	Status         SubmissionStatus `db:"status" json:"status"`
	FilesTotal     int              `db:"files_total" json:"files_total"`
	FilesProcessed int              `db:"files_processed" json:"files_processed"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
	CompletedAt    *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}

// VisibleTo reports whether the caller may read this submission. Anonymous submissions are
// readable by anyone holding the id; owned submissions only by their owner.
func (s *Submission) VisibleTo(callerID *uuid.UUID) bool {
	if s.UserID == nil {
		return true
	}
	return callerID != nil && *callerID == *s.UserID
}

// CvResult is the persisted outcome of analyzing one CV.
type CvResult struct {
	ID               uuid.UUID `db:"id" json:"id"`
	SubmissionID     uuid.UUID `db:"submission_id" json:"submission_id"`
	OriginalFilename string    `db:"original_filename" json:"original_filename"`
	ATSScore         string    `db:"ats_score" json:"ats_score"`
	CandidateName    *string   `db:"candidate_name" json:"candidate_name"`
	CandidateEmail   *string   `db:"candidate_email" json:"candidate_email"`
	CandidatePhone   *string   `db:"candidate_phone" json:"candidate_phone"`
	FullText         string    `db:"full_text" json:"full_text"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// EducationDetail is one education entry of a CvResult.
type EducationDetail struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CvResultID  uuid.UUID `db:"cv_result_id" json:"cv_result_id"`
	Institution string    `db:"institution" json:"institution"`
}

// ExperienceDetail is one experience entry of a CvResult.
type ExperienceDetail struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CvResultID  uuid.UUID `db:"cv_result_id" json:"cv_result_id"`
	Description string    `db:"description" json:"description"`
}

// SkillDetail is one skill category/details pair of a CvResult.
type SkillDetail struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CvResultID uuid.UUID `db:"cv_result_id" json:"cv_result_id"`
	Category   string    `db:"category" json:"category"`
	Details    string    `db:"details" json:"details"`
}

// CvDetails groups the detail rows of one CvResult.
type CvDetails struct {
	Education  []EducationDetail  `json:"education"`
	Experience []ExperienceDetail `json:"experience"`
	Skills     []SkillDetail      `json:"skills"`
}

// CvResultWithDetails is a CvResult together with its detail rows.
type CvResultWithDetails struct {
	CvResult
	CvDetails
}

// FileJob is the unit of work handed from the submission request to the processing worker.
type FileJob struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Index        int       `json:"index"`
	FileName     string    `json:"file_name"`
	MediaType    string    `json:"media_type"`
	StorageKey   string    `json:"storage_key"`
	Keywords     string    `json:"keywords"`
}

// ResultSummary is the polling view of one CvResult.
type ResultSummary struct {
	ID              uuid.UUID  `json:"id"`
	FileName        string     `json:"fileName"`
	MatchPercentage int        `json:"matchPercentage"`
	Details         *CvDetails `json:"details,omitempty"`
}

// SubmissionResults is what a client sees when polling a batch.
type SubmissionResults struct {
	SubmissionID     uuid.UUID        `json:"submissionId"`
	SubmissionStatus SubmissionStatus `json:"submissionStatus"`
	FilesTotal       int              `json:"filesTotal"`
	FilesProcessed   int              `json:"filesProcessed"`
	TotalCVs         int              `json:"totalCVs"`
	AnalysisKeywords []string         `json:"analysisKeywords"`
	Results          []ResultSummary  `json:"results"`
}
