package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrNoFiles             = errors.New("at least one file is required")
	ErrTooManyFiles        = errors.New("too many files in one batch")
	ErrMissingKeywords     = errors.New("keywords are required")
	ErrInsufficientCredits = errors.New("insufficient credits")

	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrSubmissionProcessing = errors.New("submission is still processing")
	ErrCvResultNotFound     = errors.New("cv result not found")

	ErrKeywordListNotFound  = errors.New("keyword list not found")
	ErrKeywordListForbidden = errors.New("keyword list belongs to another user")

	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)
