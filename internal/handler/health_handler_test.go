package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"cvscreen/internal/handler"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func healthRouter(db handler.Pinger) *gin.Engine {
	r := gin.New()
	h := handler.NewHealthHandler(db)
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
	return r
}

func TestLiveness(t *testing.T) {
	w := serve(healthRouter(fakePinger{err: errors.New("down")}), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadiness(t *testing.T) {
	w := serve(healthRouter(fakePinger{}), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(healthRouter(fakePinger{err: errors.New("down")}), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unavailable", decode(t, w)["status"])
}
