package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvscreen/internal/middleware"
	"cvscreen/internal/service"
)

// SubmissionHandler lists a user's past batches.
type SubmissionHandler struct {
	submissionService service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// List handles GET /api/v1/submissions
// @Summary List submissions
// @Description List the caller's batches, newest first
// @Tags submissions
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Submission,meta=PagMeta} "List of submissions"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	offset, limit := pagination(c)
	subs, total, err := h.submissionService.ListSubmissions(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, subs, PagMeta{Total: total, Offset: offset, Limit: limit})
}
