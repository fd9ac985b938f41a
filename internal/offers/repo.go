package offers

import (
	"context"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/pkg/store"
)

// Repository reads offers from the external store.
type Repository struct {
	store *store.Client
}

func NewRepository(client *store.Client) *Repository {
	return &Repository{store: client}
}

// ListByPharmacy returns one pharmacy's offers, soonest expiry first.
func (r *Repository) ListByPharmacy(ctx context.Context, pharmacyID int64) ([]records.Offer, error) {
	rows, err := r.store.From(records.TableOffers).
		Eq(records.ColPharmacyID, pharmacyID).
		Order(records.ColExpiryDate, true).
		Rows(ctx)
	if err != nil {
		return nil, err
	}
	return records.NormalizeOffers(rows), nil
}

// ListRecentByPharmacy returns one pharmacy's offers, newest first.
func (r *Repository) ListRecentByPharmacy(ctx context.Context, pharmacyID int64) ([]records.Offer, error) {
	rows, err := r.store.From(records.TableOffers).
		Eq(records.ColPharmacyID, pharmacyID).
		Order(records.ColCreatedAt, false).
		Rows(ctx)
	if err != nil {
		return nil, err
	}
	return records.NormalizeOffers(rows), nil
}

// ListAll returns every listed offer, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]records.Offer, error) {
	rows, err := r.store.From(records.TableOffers).
		Order(records.ColCreatedAt, false).
		Rows(ctx)
	if err != nil {
		return nil, err
	}
	return records.NormalizeOffers(rows), nil
}

// CountSold is a head count of the pharmacy's offers marked sold.
func (r *Repository) CountSold(ctx context.Context, pharmacyID int64) (int64, error) {
	return r.store.From(records.TableOffers).
		Eq(records.ColPharmacyID, pharmacyID).
		Eq(records.ColStatus, records.StatusSold).
		Count(ctx)
}
