package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cvscreen/internal/middleware"
	"cvscreen/internal/service"
)

// KeywordListHandler handles saved keyword list endpoints.
type KeywordListHandler struct {
	keywordListService service.KeywordListService
}

// NewKeywordListHandler creates a new KeywordListHandler.
func NewKeywordListHandler(keywordListService service.KeywordListService) *KeywordListHandler {
	return &KeywordListHandler{keywordListService: keywordListService}
}

// Create handles POST /api/v1/keyword-lists
// @Summary Create a keyword list
// @Tags keyword-lists
// @Accept json
// @Produce json
// @Param request body CreateKeywordListRequest true "Keyword list"
// @Success 201 {object} Response{data=domain.KeywordList} "Keyword list created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /keyword-lists [post]
func (h *KeywordListHandler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var input service.CreateKeywordListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	list, err := h.keywordListService.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, list)
}

// List handles GET /api/v1/keyword-lists
// @Summary List keyword lists
// @Tags keyword-lists
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.KeywordList,meta=PagMeta} "Keyword lists"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /keyword-lists [get]
func (h *KeywordListHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	offset, limit := pagination(c)
	lists, total, err := h.keywordListService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, lists, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/keyword-lists/:id
// @Summary Get a keyword list
// @Tags keyword-lists
// @Produce json
// @Param id path string true "Keyword list ID"
// @Success 200 {object} Response{data=domain.KeywordList} "Keyword list"
// @Failure 403 {object} ErrorResponseBody "Owned by another user"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /keyword-lists/{id} [get]
func (h *KeywordListHandler) GetByID(c *gin.Context) {
	userID, listID, ok := h.ids(c)
	if !ok {
		return
	}

	list, err := h.keywordListService.Get(c.Request.Context(), userID, listID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, list)
}

// Delete handles DELETE /api/v1/keyword-lists/:id
// @Summary Delete a keyword list
// @Tags keyword-lists
// @Produce json
// @Param id path string true "Keyword list ID"
// @Success 200 {object} Response{data=MessageResponse} "Deleted"
// @Failure 403 {object} ErrorResponseBody "Owned by another user"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /keyword-lists/{id} [delete]
func (h *KeywordListHandler) Delete(c *gin.Context) {
	userID, listID, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.keywordListService.Delete(c.Request.Context(), userID, listID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "keyword list deleted"})
}

func (h *KeywordListHandler) ids(c *gin.Context) (userID, listID uuid.UUID, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, false
	}
	listID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid keyword list ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, listID, true
}
