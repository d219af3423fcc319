package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cvscreen/internal/middleware"
	"cvscreen/internal/service"
)

// AnalyzeHandler accepts CV batches.
type AnalyzeHandler struct {
	submissionService service.SubmissionService
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(submissionService service.SubmissionService) *AnalyzeHandler {
	return &AnalyzeHandler{submissionService: submissionService}
}

// AnalyzeResponse is returned once a batch has been accepted.
type AnalyzeResponse struct {
	Status       string    `json:"status" example:"success"`
	SubmissionID uuid.UUID `json:"submissionId"`
}

// Analyze handles POST /api/v1/analyze
// @Summary Submit a CV batch
// @Description Upload one or more CVs (PDF or image) with job keywords. Processing is asynchronous; poll /results/{id}.
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "CV files (repeat the field for several files)"
// @Param keywords formData string false "Comma separated keywords or a JSON array of strings"
// @Param keyword_list_id formData string false "Saved keyword list to use instead of keywords"
// @Success 200 {object} AnalyzeResponse "Batch accepted"
// @Failure 400 {object} StatusBody "Missing files or keywords"
// @Failure 401 {object} StatusBody "Unauthorized"
// @Failure 402 {object} StatusBody "No credits left"
// @Failure 403 {object} StatusBody "Keyword list belongs to another user"
// @Failure 413 {object} StatusBody "File too large"
// @Failure 500 {object} StatusBody "Batch could not be created"
// @Security BearerAuth
// @Router /analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	input := service.SubmitInput{
		Keywords: strings.Join(c.PostFormArray("keywords"), ","),
		CallerID: middleware.GetOptionalUserID(c),
	}

	// A body that is not multipart simply carries no files.
	if form, err := c.MultipartForm(); err == nil {
		input.Files = form.File["files"]
	}

	if raw := strings.TrimSpace(c.PostForm("keyword_list_id")); raw != "" {
		listID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, StatusBody{Status: "error", Message: "invalid keyword_list_id"})
			return
		}
		input.KeywordListID = &listID
	}

	sub, err := h.submissionService.Submit(c.Request.Context(), input)
	if err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{Status: "success", SubmissionID: sub.ID})
}
