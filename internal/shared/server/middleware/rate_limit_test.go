package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitRefusesAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.GET("/api/code-reviews/:id/status", RateLimit(RateLimitRule{Rate: 1, Burst: 2}, limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/code-reviews/r1/status", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}

	for i := 0; i < 2; i++ {
		if resp := call(); resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.Code)
		}
	}

	resp := call()
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "1" {
		t.Fatalf("unexpected Retry-After: %q", resp.Header().Get("Retry-After"))
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "rate_limited" {
		t.Fatalf("unexpected error code: %q", body.Error.Code)
	}

	now = now.Add(time.Second)
	if resp := call(); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 after refill, got %d", resp.Code)
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("a", rule); !ok {
		t.Fatalf("expected first request for a to pass")
	}
	if ok, wait := limiter.Allow("a", rule); ok || wait <= 0 {
		t.Fatalf("expected a to be limited with a wait, got ok=%v wait=%v", ok, wait)
	}
	if ok, _ := limiter.Allow("b", rule); !ok {
		t.Fatalf("expected b to have its own bucket")
	}
}

func TestRateLimitDisabledRule(t *testing.T) {
	limiter := NewRateLimiter(nil)
	for i := 0; i < 100; i++ {
		if ok, _ := limiter.Allow("a", RateLimitRule{}); !ok {
			t.Fatalf("zero rule should never limit")
		}
	}
}

func TestRateLimitKeepsThrottledClientWhenFull(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	for i := 0; i < maxTrackedClients-1; i++ {
		limiter.Allow(fmt.Sprintf("10.1.%d.%d", i/256, i%256), rule)
	}
	now = now.Add(10 * time.Second)
	if ok, _ := limiter.Allow("victim", rule); !ok {
		t.Fatalf("expected first request to pass")
	}

	// A new key past the cap must not hand the throttled client a fresh bucket.
	limiter.Allow("newcomer", rule)
	if ok, _ := limiter.Allow("victim", rule); ok {
		t.Fatalf("expected victim to stay limited after eviction")
	}
	if len(limiter.limiters) != 2 {
		t.Fatalf("expected idle clients evicted, %d tracked", len(limiter.limiters))
	}
}

func TestRateLimitSequentialClientHonouringRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.GET("/api/code-reviews/:id/status", RateLimit(RateLimitRule{Rate: 5, Burst: 10}, limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})

	// 15 reviews in flight, more than the burst allows.
	for i := 0; i < 15; i++ {
		path := fmt.Sprintf("/api/code-reviews/r%d/status", i)
		served := false
		for attempt := 0; attempt < 3 && !served; attempt++ {
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
			switch resp.Code {
			case http.StatusOK:
				served = true
			case http.StatusTooManyRequests:
				secs, err := strconv.Atoi(resp.Header().Get("Retry-After"))
				if err != nil || secs <= 0 {
					t.Fatalf("bad Retry-After %q", resp.Header().Get("Retry-After"))
				}
				now = now.Add(time.Duration(secs) * time.Second)
			default:
				t.Fatalf("unexpected status %d", resp.Code)
			}
		}
		if !served {
			t.Fatalf("review r%d never served", i)
		}
	}
}
