package requests

import (
	"context"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/pkg/store"
)

// Repository reads restock requests from the external store.
type Repository struct {
	store *store.Client
}

func NewRepository(client *store.Client) *Repository {
	return &Repository{store: client}
}

// ListByPharmacy returns one pharmacy's requests, newest first.
func (r *Repository) ListByPharmacy(ctx context.Context, pharmacyID int64) ([]records.Request, error) {
	rows, err := r.store.From(records.TableRequests).
		Eq(records.ColPharmacyID, pharmacyID).
		Order(records.ColCreatedAt, false).
		Rows(ctx)
	if err != nil {
		return nil, err
	}
	return records.NormalizeRequests(rows), nil
}
