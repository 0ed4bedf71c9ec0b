package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{"preflight request", http.MethodOptions, http.StatusNoContent},
		{"regular GET request", http.MethodGet, http.StatusOK},
		{"POST request", http.MethodPost, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			_, router := gin.CreateTestContext(w)
			router.Use(CORS())
			router.Any("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", "https://example.com")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestSizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		bodySize       int
		expectedStatus int
	}{
		{"under limit", 100, http.StatusOK},
		{"at limit", 1024, http.StatusOK},
		{"over limit", 2048, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			_, router := gin.CreateTestContext(w)
			router.Use(RequestSizeLimit(1024))
			router.POST("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRateLimiters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiters()
	defer rl.Close()

	router := gin.New()
	router.GET("/read", rl.Middleware("read", 1, 2), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/upload", rl.Middleware("upload", 1, 1), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/open", rl.Middleware("open", 0, 0), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("/read"))
	assert.Equal(t, http.StatusOK, hit("/read"))
	assert.Equal(t, http.StatusTooManyRequests, hit("/read"))

	// groups have independent buckets
	assert.Equal(t, http.StatusOK, hit("/upload"))
	assert.Equal(t, http.StatusTooManyRequests, hit("/upload"))

	for range 5 {
		assert.Equal(t, http.StatusOK, hit("/open"))
	}

	assert.Equal(t, 2, rl.size())
	rl.prune(time.Now().Add(limiterIdle + time.Minute))
	assert.Zero(t, rl.size())
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/fail"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.FilterMessage("HTTP request").All()
	assert.Len(t, entries, 2)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status"])
}

func TestRequestLogger_NilLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(nil))
	called := false
	router.GET("/", func(c *gin.Context) { called = true })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}
