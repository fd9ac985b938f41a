package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

type fakeLoader struct {
	sessions map[string]session.Context
	err      error
}

func (f fakeLoader) Load(_ context.Context, id string) (session.Context, error) {
	if f.err != nil {
		return session.Context{}, f.err
	}
	sess, ok := f.sessions[id]
	if !ok {
		return session.Context{}, session.ErrNoSession
	}
	return sess, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "deadstock-test", SessionTTLMinutes: 60}
}

func mintTestToken(t *testing.T, id string) string {
	t.Helper()
	token, err := session.MintToken(testJWTConfig(), time.Now(), id)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestSessionMiddlewareAttachesSession(t *testing.T) {
	loader := fakeLoader{sessions: map[string]session.Context{
		"sess-1": {ID: "sess-1", PharmacyID: 42},
	}}
	var got session.Context
	var ok bool
	handler := Session(testJWTConfig(), loader, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, "sess-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !ok || got.ID != "sess-1" || got.PharmacyID != 42 {
		t.Fatalf("unexpected session %+v (ok=%v)", got, ok)
	}
}

func TestSessionMiddlewareRejects(t *testing.T) {
	loader := fakeLoader{sessions: map[string]session.Context{}}
	tests := []struct {
		name   string
		header string
		loader session.Loader
		want   int
	}{
		{"missing header", "", loader, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", loader, http.StatusUnauthorized},
		{"expired session", "Bearer " + mintTestToken(t, "gone"), loader, http.StatusUnauthorized},
		{"store failure", "Bearer " + mintTestToken(t, "x"), fakeLoader{err: errors.New("redis down")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		called := false
		handler := Session(testJWTConfig(), tt.loader, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tt.want {
			t.Fatalf("%s: expected %d got %d", tt.name, tt.want, resp.Code)
		}
		if called {
			t.Fatalf("%s: handler should not run", tt.name)
		}
	}
}

func TestSessionFromContextMissing(t *testing.T) {
	if _, ok := SessionFromContext(context.Background()); ok {
		t.Fatalf("expected no session on bare context")
	}
}
