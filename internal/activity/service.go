package activity

import (
	"context"
	"fmt"

	"github.com/angelmondragon/deadstock-backend/internal/expiry"
	"github.com/angelmondragon/deadstock-backend/internal/records"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// OfferReader is the slice of the offers repository the dashboard needs.
type OfferReader interface {
	ListRecentByPharmacy(ctx context.Context, pharmacyID int64) ([]records.Offer, error)
	CountSold(ctx context.Context, pharmacyID int64) (int64, error)
}

// RequestReader lists a pharmacy's requests, newest first.
type RequestReader interface {
	ListByPharmacy(ctx context.Context, pharmacyID int64) ([]records.Request, error)
}

type Stats struct {
	TotalOffers      int             `json:"total_offers"`
	TotalRequests    int             `json:"total_requests"`
	TotalOffersValue decimal.Decimal `json:"total_offers_value"`
	SoldItems        int64           `json:"sold_items"`
	NearExpiry       int             `json:"near_expiry"`
}

type Dashboard struct {
	Stats          Stats  `json:"stats"`
	RecentActivity []Item `json:"recent_activity"`
}

type Service interface {
	Load(ctx context.Context, sess session.Context) (Dashboard, error)
}

type ServiceParams struct {
	Offers     OfferReader
	Requests   RequestReader
	Classifier expiry.Classifier
	Limit      int
}

type service struct {
	offers     OfferReader
	requests   RequestReader
	classifier expiry.Classifier
	limit      int
}

func NewService(params ServiceParams) (Service, error) {
	if params.Offers == nil {
		return nil, fmt.Errorf("offer reader required")
	}
	if params.Requests == nil {
		return nil, fmt.Errorf("request reader required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &service{
		offers:     params.Offers,
		requests:   params.Requests,
		classifier: params.Classifier,
		limit:      limit,
	}, nil
}

// Load reads the pharmacy's offers, requests and sold count concurrently and
// builds the dashboard from them.
func (s *service) Load(ctx context.Context, sess session.Context) (Dashboard, error) {
	if !sess.HasPharmacy() {
		return Dashboard{}, pkgerrors.New(pkgerrors.CodeProfile, "complete your pharmacy profile first")
	}

	var (
		offers   []records.Offer
		requests []records.Request
		sold     int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		offers, err = s.offers.ListRecentByPharmacy(gctx, sess.PharmacyID)
		return err
	})
	g.Go(func() error {
		var err error
		requests, err = s.requests.ListByPharmacy(gctx, sess.PharmacyID)
		return err
	})
	g.Go(func() error {
		var err error
		sold, err = s.offers.CountSold(gctx, sess.PharmacyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load dashboard")
	}

	return Dashboard{
		Stats: Stats{
			TotalOffers:      len(offers),
			TotalRequests:    len(requests),
			TotalOffersValue: TotalValue(offers),
			SoldItems:        sold,
			NearExpiry:       len(s.classifier.NearExpiry(offers)),
		},
		RecentActivity: Aggregate(offers, requests, s.limit),
	}, nil
}

// TotalValue sums price times quantity over offers.
func TotalValue(offers []records.Offer) decimal.Decimal {
	total := decimal.Zero
	for _, offer := range offers {
		line := decimal.NewFromFloat(offer.Price).Mul(decimal.NewFromInt(int64(offer.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2)
}
