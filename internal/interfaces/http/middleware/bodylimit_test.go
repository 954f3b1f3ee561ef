package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBodyLimitRouter(maxBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(maxBytes))
	router.POST("/test", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad body"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestBodyLimit_WithinLimit(t *testing.T) {
	router := newBodyLimitRouter(1024)

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBodyLimit_TooLarge(t *testing.T) {
	router := newBodyLimitRouter(8)

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"payload":"too large"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "REQUEST_TOO_LARGE")
}
