package cron

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/angelmondragon/deadstock-backend/internal/alerts"
	"github.com/angelmondragon/deadstock-backend/internal/expiry"
	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
	"github.com/angelmondragon/deadstock-backend/pkg/metrics"
	"go.uber.org/multierr"
)

const NearExpiryDigestJobName = "near_expiry_digest"

type offerScanner interface {
	ListAll(ctx context.Context) ([]records.Offer, error)
}

type digestWriter interface {
	Save(ctx context.Context, digest alerts.Digest, ttl time.Duration) error
}

type NearExpiryJobParams struct {
	Logger     *logger.Logger
	Offers     offerScanner
	Digests    digestWriter
	Classifier expiry.Classifier
	Metrics    *metrics.InventoryMetrics
	DigestTTL  time.Duration
}

func NewNearExpiryJob(params NearExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Offers == nil {
		return nil, fmt.Errorf("offer scanner required")
	}
	if params.Digests == nil {
		return nil, fmt.Errorf("digest writer required")
	}
	ttl := params.DigestTTL
	if ttl <= 0 {
		ttl = 2 * defaultInterval
	}
	return &nearExpiryJob{
		logg:       params.Logger,
		offers:     params.Offers,
		digests:    params.Digests,
		classifier: params.Classifier,
		metrics:    params.Metrics,
		ttl:        ttl,
	}, nil
}

type nearExpiryJob struct {
	logg       *logger.Logger
	offers     offerScanner
	digests    digestWriter
	classifier expiry.Classifier
	metrics    *metrics.InventoryMetrics
	ttl        time.Duration
}

func (j *nearExpiryJob) Name() string { return NearExpiryDigestJobName }

// Run scans every offer, writes one digest per pharmacy that holds near-expiry
// stock and refreshes the inventory gauges. A failed write does not stop the
// remaining pharmacies; all failures are returned together.
func (j *nearExpiryJob) Run(ctx context.Context) error {
	offers, err := j.offers.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list offers: %w", err)
	}
	digests := j.summarize(offers)

	var errs error
	expiring, expired := 0, 0
	for _, digest := range digests {
		expired += digest.Expired
		expiring += digest.NearExpiry - digest.Expired
		if err := j.digests.Save(ctx, digest, j.ttl); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	j.metrics.SetNearExpiry(expiring, expired, len(digests))

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"offers_scanned": len(offers),
		"pharmacies":     len(digests),
		"near_expiry":    expiring,
		"expired":        expired,
		"write_failures": len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "near expiry digest complete")
	return errs
}

// summarize groups near-expiry offers by pharmacy, ordered by pharmacy id.
func (j *nearExpiryJob) summarize(offers []records.Offer) []alerts.Digest {
	now := j.classifier.Now()
	byPharmacy := map[int64]*alerts.Digest{}
	for _, offer := range j.classifier.NearExpiry(offers) {
		if offer.PharmacyID <= 0 {
			continue
		}
		digest, ok := byPharmacy[offer.PharmacyID]
		if !ok {
			digest = &alerts.Digest{PharmacyID: offer.PharmacyID, GeneratedAt: now}
			byPharmacy[offer.PharmacyID] = digest
		}
		digest.NearExpiry++
		if j.classifier.IsExpired(offer.ExpiryDate) {
			digest.Expired++
		}
		if digest.Soonest == nil || offer.ExpiryDate.Before(*digest.Soonest) {
			expiresAt := offer.ExpiryDate
			digest.SoonestID = offer.ID
			digest.Soonest = &expiresAt
		}
	}

	out := make([]alerts.Digest, 0, len(byPharmacy))
	for _, digest := range byPharmacy {
		out = append(out, *digest)
	}
	slices.SortFunc(out, func(a, b alerts.Digest) int {
		switch {
		case a.PharmacyID < b.PharmacyID:
			return -1
		case a.PharmacyID > b.PharmacyID:
			return 1
		}
		return 0
	})
	return out
}
