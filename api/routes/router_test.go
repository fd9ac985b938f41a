package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/deadstock-backend/internal/expiry"
	"github.com/angelmondragon/deadstock-backend/internal/offers"
	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubLoader struct{}

func (stubLoader) Load(_ context.Context, id string) (session.Context, error) {
	if id == "known" {
		return session.Context{ID: id, PharmacyID: 7}, nil
	}
	return session.Context{}, session.ErrNoSession
}

type stubOffers struct{}

func (stubOffers) List(context.Context, session.Context) ([]expiry.OfferView, error) {
	return []expiry.OfferView{{Offer: records.Offer{ID: 1, PharmacyID: 7}}}, nil
}

func (stubOffers) Create(context.Context, session.Context, offers.CreateInput) ([]expiry.OfferView, error) {
	return nil, nil
}

func (stubOffers) Delete(context.Context, session.Context, int64) ([]expiry.OfferView, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "deadstock-test", SessionTTLMinutes: 60},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(testConfig(), nil, Deps{
		DB:       stubPinger{},
		Sessions: stubLoader{},
		Gatherer: prometheus.NewRegistry(),
	}, Services{Offers: stubOffers{}})
}

func bearer(t *testing.T, id string) string {
	t.Helper()
	token, err := session.MintToken(testConfig().JWT, time.Now(), id)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestPublicRoutes(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/health/live", "/health/ready", "/api/v1/cities", "/metrics"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestSessionRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/api/v1/offers", "/api/v1/dashboard", "/api/v1/marketplace", "/api/v1/profile"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, resp.Code)
		}
	}
}

func TestOffersWithSession(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req.Header.Set("Authorization", bearer(t, "known"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"pharmacy_id":7`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}

	expired := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	expired.Header.Set("Authorization", bearer(t, "forgotten"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, expired)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown session, got %d", resp.Code)
	}
}

func TestUnwiredServiceReportsUnavailable(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", bearer(t, "known"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
