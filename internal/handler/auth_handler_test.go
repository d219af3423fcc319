package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
	"cvscreen/internal/handler"
	"cvscreen/internal/service"
	"cvscreen/mocks"
)

func authRouter(svc *mocks.MockAuthService, userID *uuid.UUID) *gin.Engine {
	r := gin.New()
	h := handler.NewAuthHandler(svc)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
	if userID != nil {
		r.GET("/me", withUser(*userID), h.Me)
	} else {
		r.GET("/me", h.Me)
	}
	return r
}

func TestRegister_Created(t *testing.T) {
	svc := new(mocks.MockAuthService)
	input := service.RegisterInput{Email: "rae@example.com", Password: "password123", FullName: "Rae"}
	svc.On("Register", mock.Anything, input).Return(&service.RegisterOutput{
		User:   &domain.User{ID: uuid.New(), Email: input.Email},
		Tokens: &service.TokenPair{AccessToken: "a", RefreshToken: "r"},
	}, nil)

	w := serve(authRouter(svc, nil), jsonRequest(t, http.MethodPost, "/auth/register", input))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
}

func TestRegister_ValidationError(t *testing.T) {
	svc := new(mocks.MockAuthService)

	w := serve(authRouter(svc, nil), jsonRequest(t, http.MethodPost, "/auth/register", map[string]string{"email": "bad"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decode(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := new(mocks.MockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateEmail)

	w := serve(authRouter(svc, nil), jsonRequest(t, http.MethodPost, "/auth/register",
		service.RegisterInput{Email: "rae@example.com", Password: "password123", FullName: "Rae"}))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := new(mocks.MockAuthService)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	w := serve(authRouter(svc, nil), jsonRequest(t, http.MethodPost, "/auth/login",
		service.LoginInput{Email: "rae@example.com", Password: "wrongpassword"}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errBody := decode(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_CREDENTIALS", errBody["code"])
}

func TestRefreshToken(t *testing.T) {
	svc := new(mocks.MockAuthService)
	svc.On("RefreshToken", mock.Anything, "refresh-me").Return(&service.TokenPair{AccessToken: "new"}, nil)

	w := serve(authRouter(svc, nil), jsonRequest(t, http.MethodPost, "/auth/refresh", service.RefreshInput{RefreshToken: "refresh-me"}))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "new", data["access_token"])
}

func TestMe(t *testing.T) {
	svc := new(mocks.MockAuthService)
	userID := uuid.New()
	svc.On("Me", mock.Anything, userID).Return(&domain.User{ID: userID, Email: "rae@example.com", Credits: 4}, nil)

	w := serve(authRouter(svc, &userID), httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["credits"])
	assert.NotContains(t, data, "password_hash")
}

func TestMe_WithoutUser(t *testing.T) {
	svc := new(mocks.MockAuthService)

	w := serve(authRouter(svc, nil), httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
