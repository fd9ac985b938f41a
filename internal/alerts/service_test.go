package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/deadstock-backend/internal/expiry"
	"github.com/angelmondragon/deadstock-backend/internal/records"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

var now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type stubOffers struct {
	offers []records.Offer
	err    error
}

func (s stubOffers) ListByPharmacy(context.Context, int64) ([]records.Offer, error) {
	return s.offers, s.err
}

type stubDigests struct {
	digest *Digest
	err    error
}

func (s stubDigests) Load(context.Context, int64) (*Digest, error) {
	return s.digest, s.err
}

func TestNearExpirySoonestFirst(t *testing.T) {
	offers := stubOffers{offers: []records.Offer{
		{ID: 1, ExpiryDate: now.AddDate(0, 2, 0)},
		{ID: 2, ExpiryDate: now.AddDate(1, 0, 0)},
		{ID: 3, ExpiryDate: now.AddDate(0, 0, -3)},
		{ID: 4, ExpiryDate: now.AddDate(0, 0, 10)},
	}}
	svc, err := NewService(ServiceParams{
		Offers:     offers,
		Digests:    stubDigests{digest: &Digest{PharmacyID: 7, NearExpiry: 3, Expired: 1}},
		Classifier: expiry.NewClassifier(expiry.Window, fixedClock{}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.NearExpiry(context.Background(), session.Context{ID: "s", PharmacyID: 7})
	if err != nil {
		t.Fatalf("near expiry: %v", err)
	}
	want := []int64{3, 4, 1}
	if len(got.Offers) != len(want) {
		t.Fatalf("expected %d offers, got %d", len(want), len(got.Offers))
	}
	for i, id := range want {
		if got.Offers[i].ID != id || !got.Offers[i].NearExpiry {
			t.Fatalf("position %d: got %d", i, got.Offers[i].ID)
		}
	}
	if got.Digest == nil || got.Digest.Expired != 1 {
		t.Fatalf("expected digest, got %+v", got.Digest)
	}
}

func TestNearExpiryIgnoresDigestFailure(t *testing.T) {
	svc, _ := NewService(ServiceParams{
		Offers:     stubOffers{},
		Digests:    stubDigests{err: errors.New("redis down")},
		Classifier: expiry.NewClassifier(expiry.Window, fixedClock{}),
	})
	got, err := svc.NearExpiry(context.Background(), session.Context{ID: "s", PharmacyID: 7})
	if err != nil || got.Digest != nil || len(got.Offers) != 0 {
		t.Fatalf("unexpected result: %+v %v", got, err)
	}
}

func TestNearExpiryErrors(t *testing.T) {
	svc, _ := NewService(ServiceParams{Offers: stubOffers{err: errors.New("boom")}})
	if _, err := svc.NearExpiry(context.Background(), session.Context{ID: "s"}); !pkgerrors.HasCode(err, pkgerrors.CodeProfile) {
		t.Fatalf("expected profile incomplete, got %v", err)
	}
	if _, err := svc.NearExpiry(context.Background(), session.Context{ID: "s", PharmacyID: 1}); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
