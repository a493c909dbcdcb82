package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

func ok(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func hit(h httprouter.Handle, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	return rec.Code
}

func TestLimitPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Limit(ok)

	for i := 0; i < 2; i++ {
		if code := hit(h, "10.0.0.1:1000"); code != http.StatusOK {
			t.Fatalf("request %d within burst got %d", i, code)
		}
	}
	if code := hit(h, "10.0.0.1:2000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the burst is spent, got %d", code)
	}
	if code := hit(h, "10.0.0.2:1000"); code != http.StatusOK {
		t.Fatalf("other IP must have its own bucket, got %d", code)
	}
}

func TestSweep(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	hit(rl.Limit(ok), "10.0.0.1:1")
	now = now.Add(5 * time.Minute)
	hit(rl.Limit(ok), "10.0.0.2:1")
	now = now.Add(6 * time.Minute)

	if n := rl.Sweep(10 * time.Minute); n != 1 {
		t.Fatalf("expected one idle visitor swept, got %d", n)
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Fatal("recent visitor was swept")
	}
}
