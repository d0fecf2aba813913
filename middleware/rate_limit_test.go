package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/petmily/petboard/config"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	// 4/min gives a burst of 2, small enough to exhaust in a test.
	os.Setenv("RATE_LIMIT_PER_MINUTE", "4")
	config.Load()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newLimitedEngine() *gin.Engine {
	r := gin.New()
	r.POST("/ping", RateLimitMiddleware(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"code": 0})
	})
	return r
}

func hitFrom(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitExhaustsPerIP(t *testing.T) {
	r := newLimitedEngine()

	// Burst of 2: the first two requests pass, the third is rejected.
	require.Equal(t, http.StatusOK, hitFrom(r, "203.0.113.10").Code)
	require.Equal(t, http.StatusOK, hitFrom(r, "203.0.113.10").Code)

	w := hitFrom(r, "203.0.113.10")
	require.Equal(t, http.StatusTooManyRequests, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "42901")

	// Another client has its own bucket.
	require.Equal(t, http.StatusOK, hitFrom(r, "203.0.113.11").Code)
}

func TestRateLimiterExpirySweep(t *testing.T) {
	limitersMu.Lock()
	limiters["198.51.100.1"] = &rateLimiter{
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		expires: time.Now().Add(-time.Minute),
	}
	limitersMu.Unlock()

	// Touching any key sweeps expired entries.
	fresh := getLimiter("198.51.100.2", rate.Every(time.Second), 1)
	require.NotNil(t, fresh)

	limitersMu.Lock()
	_, stale := limiters["198.51.100.1"]
	_, kept := limiters["198.51.100.2"]
	limitersMu.Unlock()
	require.False(t, stale, "expired limiter must be swept")
	require.True(t, kept)
}
