package alerts

import (
	"context"
	"fmt"
	"slices"

	"github.com/angelmondragon/deadstock-backend/internal/expiry"
	"github.com/angelmondragon/deadstock-backend/internal/records"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

type OfferLister interface {
	ListByPharmacy(ctx context.Context, pharmacyID int64) ([]records.Offer, error)
}

type DigestLoader interface {
	Load(ctx context.Context, pharmacyID int64) (*Digest, error)
}

// NearExpiry lists the offers that need attention, soonest first.
type NearExpiry struct {
	Offers []expiry.OfferView `json:"offers"`
	Digest *Digest            `json:"digest,omitempty"`
}

type Service interface {
	NearExpiry(ctx context.Context, sess session.Context) (NearExpiry, error)
}

type ServiceParams struct {
	Offers     OfferLister
	Digests    DigestLoader
	Classifier expiry.Classifier
}

type service struct {
	offers     OfferLister
	digests    DigestLoader
	classifier expiry.Classifier
}

func NewService(params ServiceParams) (Service, error) {
	if params.Offers == nil {
		return nil, fmt.Errorf("offer lister required")
	}
	return &service{offers: params.Offers, digests: params.Digests, classifier: params.Classifier}, nil
}

// NearExpiry returns the pharmacy's near-expiry offers. A missing or unreadable
// digest is not an error; the list is computed from the store regardless.
func (s *service) NearExpiry(ctx context.Context, sess session.Context) (NearExpiry, error) {
	if !sess.HasPharmacy() {
		return NearExpiry{}, pkgerrors.New(pkgerrors.CodeProfile, "complete your pharmacy profile first")
	}
	offers, err := s.offers.ListByPharmacy(ctx, sess.PharmacyID)
	if err != nil {
		return NearExpiry{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load offers")
	}
	near := s.classifier.NearExpiry(offers)
	slices.SortStableFunc(near, func(a, b records.Offer) int {
		return a.ExpiryDate.Compare(b.ExpiryDate)
	})

	out := NearExpiry{Offers: s.classifier.Annotate(near)}
	if s.digests != nil {
		if digest, err := s.digests.Load(ctx, sess.PharmacyID); err == nil {
			out.Digest = digest
		}
	}
	return out, nil
}
