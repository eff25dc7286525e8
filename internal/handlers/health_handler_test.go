package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func healthRouter(pingStore func(ctx context.Context) error) *gin.Engine {
	router := gin.New()
	router.GET("/api/healthcheck", NewHealthHandler(pingStore).Healthcheck)
	return router
}

func getHealth(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/healthcheck", http.NoBody)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthHandler_Healthcheck(t *testing.T) {
	router := healthRouter(func(ctx context.Context) error { return nil })

	w := getHealth(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, w.Body.String())
}

func TestHealthHandler_Healthcheck_NoDatabase(t *testing.T) {
	// Running notify-only without a datastore is healthy, not degraded
	router := healthRouter(nil)

	w := getHealth(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"not_configured"}`, w.Body.String())
}

func TestHealthHandler_Healthcheck_DatabaseDown(t *testing.T) {
	router := healthRouter(func(ctx context.Context) error { return errors.New("connection refused") })

	w := getHealth(router)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","database":"unreachable"}`, w.Body.String())
}
