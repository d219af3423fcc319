package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"cvscreen/internal/domain"
)

// APIResponse is the standard envelope for account and history endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return http.StatusNotFound, "SUBMISSION_NOT_FOUND", "submission not found"
	case errors.Is(err, domain.ErrSubmissionProcessing):
		return http.StatusAccepted, "PROCESSING", "submission is still processing"
	case errors.Is(err, domain.ErrCvResultNotFound):
		return http.StatusNotFound, "CV_RESULT_NOT_FOUND", "cv result not found"
	case errors.Is(err, domain.ErrKeywordListNotFound):
		return http.StatusNotFound, "KEYWORD_LIST_NOT_FOUND", "keyword list not found"
	case errors.Is(err, domain.ErrKeywordListForbidden):
		return http.StatusForbidden, "KEYWORD_LIST_FORBIDDEN", "keyword list belongs to another user"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	case errors.Is(err, domain.ErrNoFiles):
		return http.StatusBadRequest, "NO_FILES", "at least one file is required"
	case errors.Is(err, domain.ErrTooManyFiles):
		return http.StatusBadRequest, "TOO_MANY_FILES", "too many files in one batch"
	case errors.Is(err, domain.ErrMissingKeywords):
		return http.StatusBadRequest, "MISSING_KEYWORDS", "keywords are required"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrInsufficientCredits):
		return http.StatusPaymentRequired, "INSUFFICIENT_CREDITS", "no analysis credits left"
	case errors.Is(err, domain.ErrUnsupportedExportFormat):
		return http.StatusBadRequest, "UNSUPPORTED_EXPORT_FORMAT", "unsupported export format; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	logInternal(c, status, err)
	RespondError(c, status, code, msg)
}

// StatusBody is the flat body used by the analyze and results endpoints.
type StatusBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// respondStatusError maps a domain error onto the flat {status, message} body.
func respondStatusError(c *gin.Context, err error) {
	status, _, msg := MapDomainError(err)
	logInternal(c, status, err)
	if status == http.StatusAccepted {
		c.JSON(status, StatusBody{Status: "processing"})
		return
	}
	c.JSON(status, StatusBody{Status: "error", Message: msg})
}

func logInternal(c *gin.Context, status int, err error) {
	if status < 500 {
		return
	}
	requestID, _ := c.Get("request_id")
	log.Error().Err(err).Interface("request_id", requestID).Msg("internal error")
}

// pagination reads offset/limit query parameters with the usual bounds.
func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
