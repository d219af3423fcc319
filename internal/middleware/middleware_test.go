package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"cvscreen/internal/middleware"
	"cvscreen/internal/service"
	"cvscreen/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// callerEcho reports the caller seen by the handler, or "anonymous".
func callerEcho(c *gin.Context) {
	if id := middleware.GetOptionalUserID(c); id != nil {
		c.String(http.StatusOK, id.String())
		return
	}
	c.String(http.StatusOK, "anonymous")
}

func do(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/x", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")

	w = do(r, http.MethodGet, "/x", map[string]string{"Origin": "http://evil.example.com"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"*"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/x", map[string]string{"Origin": "https://anything.example.com"})

	assert.Equal(t, "https://anything.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"*"}))
	r.POST("/analyze", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := do(r, http.MethodOptions, "/analyze", map[string]string{"Origin": "http://localhost:3000"})

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	authSvc := new(mocks.MockAuthService)
	authSvc.On("ValidateToken", "good").Return(&service.Claims{UserID: userID, Email: "r@example.com"}, nil)
	authSvc.On("ValidateToken", "bad").Return(nil, errors.New("expired"))

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(authSvc), callerEcho)

	w := do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())

	w = do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	authSvc := new(mocks.MockAuthService)
	authSvc.On("ValidateToken", "good").Return(&service.Claims{UserID: userID}, nil)
	authSvc.On("ValidateToken", "bad").Return(nil, errors.New("expired"))

	tests := []struct {
		name           string
		allowAnonymous bool
		header         string
		wantStatus     int
		wantBody       string
	}{
		{name: "anonymous allowed", allowAnonymous: true, wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "anonymous rejected", allowAnonymous: false, wantStatus: http.StatusUnauthorized},
		{name: "valid token", allowAnonymous: false, header: "Bearer good", wantStatus: http.StatusOK, wantBody: userID.String()},
		{name: "invalid token with anonymous allowed", allowAnonymous: true, header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", allowAnonymous: true, header: "Token good", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/results", middleware.OptionalAuth(authSvc, tt.allowAnonymous), callerEcho)

			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := do(r, http.MethodGet, "/results", headers)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"status":"error"`)
			}
		})
	}
	authSvc.AssertNotCalled(t, "ValidateToken", "Token good")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/x", map[string]string{"X-Request-ID": "req-123"})
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = do(r, http.MethodGet, "/x", nil)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
