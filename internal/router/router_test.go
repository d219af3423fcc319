package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
	"cvscreen/internal/handler"
	"cvscreen/internal/router"
	"cvscreen/mocks"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func setup(allowAnonymous bool) (*gin.Engine, *mocks.MockSubmissionService) {
	gin.SetMode(gin.TestMode)
	authSvc := new(mocks.MockAuthService)
	subSvc := new(mocks.MockSubmissionService)
	listSvc := new(mocks.MockKeywordListService)

	r := router.Setup(authSvc, router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Analyze:     handler.NewAnalyzeHandler(subSvc),
		Results:     handler.NewResultsHandler(subSvc),
		Submissions: handler.NewSubmissionHandler(subSvc),
		KeywordList: handler.NewKeywordListHandler(listSvc),
		Health:      handler.NewHealthHandler(okPinger{}),
	}, router.Options{AllowAnonymous: allowAnonymous, CORSOrigins: []string{"*"}})
	return r, subSvc
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSetup_HealthAndProtectedRoutes(t *testing.T) {
	r, _ := setup(false)

	assert.Equal(t, http.StatusOK, get(r, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(r, "/readyz").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/me").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/submissions").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/keyword-lists").Code)
	assert.NotEmpty(t, get(r, "/healthz").Header().Get("X-Request-ID"))
}

func TestSetup_AnalysisRoutesRequireAuthByDefault(t *testing.T) {
	r, subSvc := setup(false)

	w := get(r, "/api/v1/results/"+uuid.NewString())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	subSvc.AssertNotCalled(t, "GetResults", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetup_AnonymousPolling(t *testing.T) {
	r, subSvc := setup(true)
	id := uuid.New()
	subSvc.On("GetResults", mock.Anything, id, (*uuid.UUID)(nil), false).Return(nil, domain.ErrSubmissionProcessing)

	w := get(r, "/api/v1/results/"+id.String())

	assert.Equal(t, http.StatusAccepted, w.Code)
	subSvc.AssertExpectations(t)
}
