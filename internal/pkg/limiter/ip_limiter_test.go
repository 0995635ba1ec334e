package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"triviaroom/internal/pkg/errs"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"203.0.113.7:5123", "203.0.113.7"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"203.0.113.7", "203.0.113.7"},
		{"", "unknown_ip"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, ClientIP(r), tt.remote)
	}
}

func TestGetLimiterIsPerIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)

	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))
}

func TestMiddlewareRejectsBurst(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(remote string) int {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("198.51.100.1:1000"))
	assert.Equal(t, http.StatusNoContent, call("198.51.100.1:1001"))
	assert.Equal(t, errs.NewError(errs.ErrRateLimitExceeded).Status, call("198.51.100.1:1002"))
	assert.Equal(t, http.StatusNoContent, call("198.51.100.2:1000"))
}

func TestSweepDropsRefilledBuckets(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)

	l.GetLimiter("idle")
	l.GetLimiter("busy").Allow()

	l.mu.Lock()
	removed := l.sweep(time.Now())
	_, idle := l.limits["idle"]
	_, busy := l.limits["busy"]
	l.mu.Unlock()

	assert.Equal(t, 1, removed)
	assert.False(t, idle)
	assert.True(t, busy)
}
