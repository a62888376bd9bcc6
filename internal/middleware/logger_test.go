package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/betavietvn/leadtrack/internal/logger"
)

func TestLogger_TagsRequestWithID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var requestID string
	router := gin.New()
	router.Use(Logger())
	router.GET("/api/sessions/:sessionID/stats", func(c *gin.Context) {
		requestID = logger.RequestIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/session_1/stats", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, rec.Header().Get("X-Request-ID"))
}
