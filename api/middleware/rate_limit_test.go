package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

type fakeCounter struct {
	counts map[string]int64
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]int64)}
}

func (f *fakeCounter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	key := "rl:" + scope
	f.counts[key]++
	return f.counts[key] <= limit, f.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRegisterRateLimitBlocksByIP(t *testing.T) {
	store := newFakeCounter()
	handler := RateLimit(NewRegisterRateLimitPolicy(time.Minute, 2, 0), store, nil)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(`{}`))
		req.RemoteAddr = "10.0.0.1:5555"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
	if store.counts["rl:register:ip:10.0.0.1"] != 3 {
		t.Fatalf("expected ip counter 3, got %v", store.counts)
	}
}

func TestRegisterRateLimitBlocksByEmailAndKeepsBody(t *testing.T) {
	store := newFakeCounter()
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seen = string(raw)
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimit(NewRegisterRateLimitPolicy(time.Minute, 0, 1), store, nil)(next)

	body := `{"email":" Owner@Pharmacy.EG "}`
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body)))
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", first.Code)
	}
	if seen != body {
		t.Fatalf("expected body forwarded intact, got %q", seen)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(`{"email":"owner@pharmacy.eg"}`)))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for normalized email, got %d", second.Code)
	}
}

func TestSubmitRateLimitCountsPerSessionAndSkipsReads(t *testing.T) {
	store := newFakeCounter()
	handler := RateLimit(NewSubmitRateLimitPolicy(time.Minute, 1), store, nil)(okHandler())

	send := func(method, id string) int {
		req := httptest.NewRequest(method, "/api/v1/offers", nil)
		req = req.WithContext(WithSession(req.Context(), session.Context{ID: id}))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := send(http.MethodGet, "a"); code != http.StatusOK {
		t.Fatalf("expected read allowed, got %d", code)
	}
	if code := send(http.MethodPost, "a"); code != http.StatusOK {
		t.Fatalf("expected first write allowed, got %d", code)
	}
	if code := send(http.MethodPost, "a"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second write blocked, got %d", code)
	}
	if code := send(http.MethodPost, "b"); code != http.StatusOK {
		t.Fatalf("expected other session allowed, got %d", code)
	}
}

func TestRateLimitStoreFailure(t *testing.T) {
	store := newFakeCounter()
	store.err = errors.New("redis down")
	handler := RateLimit(NewRegisterRateLimitPolicy(time.Minute, 1, 0), store, nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/register", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestRateLimitDisabledPolicy(t *testing.T) {
	handler := RateLimit(NewSubmitRateLimitPolicy(0, 5), newFakeCounter(), nil)(okHandler())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/offers", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected pass through, got %d", resp.Code)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.2")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Fatalf("expected forwarded ip, got %q", got)
	}
}
