package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
	"cvscreen/internal/handler"
	"cvscreen/internal/service"
	"cvscreen/mocks"
)

func keywordListRouter(svc *mocks.MockKeywordListService, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	h := handler.NewKeywordListHandler(svc)
	g := r.Group("/keyword-lists", withUser(userID))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.DELETE("/:id", h.Delete)
	return r
}

func TestKeywordListCreate(t *testing.T) {
	svc := new(mocks.MockKeywordListService)
	userID := uuid.New()
	input := service.CreateKeywordListInput{Name: "Backend", Keywords: []string{"Go", "SQL"}}
	svc.On("Create", mock.Anything, userID, input).
		Return(&domain.KeywordList{ID: uuid.New(), UserID: userID, Name: "Backend", Keywords: pq.StringArray{"Go", "SQL"}}, nil)

	w := serve(keywordListRouter(svc, userID), jsonRequest(t, http.MethodPost, "/keyword-lists", input))

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Backend", data["name"])
}

func TestKeywordListCreate_MissingName(t *testing.T) {
	svc := new(mocks.MockKeywordListService)

	w := serve(keywordListRouter(svc, uuid.New()), jsonRequest(t, http.MethodPost, "/keyword-lists", map[string]interface{}{"keywords": []string{"Go"}}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKeywordListList_Paginated(t *testing.T) {
	svc := new(mocks.MockKeywordListService)
	userID := uuid.New()
	svc.On("List", mock.Anything, userID, 10, 20).Return([]domain.KeywordList{{ID: uuid.New(), Name: "A"}}, 11, nil)

	w := serve(keywordListRouter(svc, userID), httptest.NewRequest(http.MethodGet, "/keyword-lists?offset=10&limit=500", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	meta := decode(t, w)["meta"].(map[string]interface{})
	assert.Equal(t, float64(11), meta["total"])
	assert.Equal(t, float64(20), meta["limit"])
}

func TestKeywordListGet_Forbidden(t *testing.T) {
	svc := new(mocks.MockKeywordListService)
	userID := uuid.New()
	listID := uuid.New()
	svc.On("Get", mock.Anything, userID, listID).Return(nil, domain.ErrKeywordListForbidden)

	w := serve(keywordListRouter(svc, userID), httptest.NewRequest(http.MethodGet, "/keyword-lists/"+listID.String(), nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestKeywordListGet_InvalidID(t *testing.T) {
	svc := new(mocks.MockKeywordListService)

	w := serve(keywordListRouter(svc, uuid.New()), httptest.NewRequest(http.MethodGet, "/keyword-lists/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decode(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_ID", errBody["code"])
}

func TestKeywordListDelete(t *testing.T) {
	svc := new(mocks.MockKeywordListService)
	userID := uuid.New()
	listID := uuid.New()
	svc.On("Delete", mock.Anything, userID, listID).Return(nil)

	w := serve(keywordListRouter(svc, userID), httptest.NewRequest(http.MethodDelete, "/keyword-lists/"+listID.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestKeywordListDelete_NotFound(t *testing.T) {
	svc := new(mocks.MockKeywordListService)
	svc.On("Delete", mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrKeywordListNotFound)

	w := serve(keywordListRouter(svc, uuid.New()), httptest.NewRequest(http.MethodDelete, "/keyword-lists/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
