package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cvscreen/internal/domain"
	"cvscreen/internal/export"
	"cvscreen/internal/middleware"
	"cvscreen/internal/service"
)

// ResultsHandler serves batch results to polling clients.
type ResultsHandler struct {
	submissionService service.SubmissionService
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(submissionService service.SubmissionService) *ResultsHandler {
	return &ResultsHandler{submissionService: submissionService}
}

// ResultsResponse is the body of a successful poll.
type ResultsResponse struct {
	Status string `json:"status" example:"success"`
	*domain.SubmissionResults
}

// CvResultResponse is the body of a single CV lookup.
type CvResultResponse struct {
	Status string                      `json:"status" example:"success"`
	Result *domain.CvResultWithDetails `json:"result"`
}

// Get handles GET /api/v1/results/:id
// @Summary Poll batch results
// @Description Returns the scored CVs of a batch, or 202 while nothing has been stored yet
// @Tags analysis
// @Produce json
// @Param id path string true "Submission ID"
// @Param include query string false "Set to 'details' to embed education, experience and skills"
// @Success 200 {object} ResultsResponse "Results"
// @Success 202 {object} StatusBody "Still processing"
// @Failure 404 {object} StatusBody "Unknown submission"
// @Router /results/{id} [get]
func (h *ResultsHandler) Get(c *gin.Context) {
	submissionID, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	includeDetails := strings.EqualFold(c.Query("include"), "details")

	results, err := h.submissionService.GetResults(c.Request.Context(), submissionID, middleware.GetOptionalUserID(c), includeDetails)
	if err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResultsResponse{Status: "success", SubmissionResults: results})
}

// GetCv handles GET /api/v1/results/:id/cvs/:cvId
// @Summary Get one analyzed CV
// @Description Returns the stored CV result with its full text and detail rows
// @Tags analysis
// @Produce json
// @Param id path string true "Submission ID"
// @Param cvId path string true "CV result ID"
// @Success 200 {object} CvResultResponse "CV result"
// @Failure 404 {object} StatusBody "Unknown submission or CV"
// @Router /results/{id}/cvs/{cvId} [get]
func (h *ResultsHandler) GetCv(c *gin.Context) {
	submissionID, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	cvID, err := uuid.Parse(c.Param("cvId"))
	if err != nil {
		respondStatusError(c, domain.ErrCvResultNotFound)
		return
	}

	result, err := h.submissionService.GetCvResult(c.Request.Context(), submissionID, cvID, middleware.GetOptionalUserID(c))
	if err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, CvResultResponse{Status: "success", Result: result})
}

// Export handles GET /api/v1/results/:id/export
// @Summary Export batch results
// @Description Download the result summaries, best match first, as CSV or XLSX
// @Tags analysis
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Submission ID"
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file "Export file"
// @Success 202 {object} StatusBody "Still processing"
// @Failure 400 {object} StatusBody "Unsupported format"
// @Failure 404 {object} StatusBody "Unknown submission"
// @Router /results/{id}/export [get]
func (h *ResultsHandler) Export(c *gin.Context) {
	submissionID, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	format := domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportFormatCSV))))

	// Buffer so a late failure can still produce a proper error response.
	var buf bytes.Buffer
	if err := h.submissionService.Export(c.Request.Context(), submissionID, middleware.GetOptionalUserID(c), format, &buf); err != nil {
		respondStatusError(c, err)
		return
	}

	filename := export.BuildFilename("cv_results_"+submissionID.String(), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}

func parseSubmissionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondStatusError(c, domain.ErrSubmissionNotFound)
		return uuid.Nil, false
	}
	return id, true
}
