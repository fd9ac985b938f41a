package drugs

import (
	"context"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/pkg/store"
)

// Repository searches the drug catalog.
type Repository struct {
	store *store.Client
}

func NewRepository(client *store.Client) *Repository {
	return &Repository{store: client}
}

// Search matches term against the Arabic or English name.
func (r *Repository) Search(ctx context.Context, term string, limit int) ([]records.Drug, error) {
	rows, err := r.store.From(records.TableDrugs).
		Or(store.ILike(records.ColNameAR, term), store.ILike(records.ColNameEN, term)).
		Order(records.ColNameEN, true).
		Limit(limit).
		Rows(ctx)
	if err != nil {
		return nil, err
	}
	return records.NormalizeDrugs(rows), nil
}

// FindByID returns the catalog entry with the given id, or nil when none exists.
func (r *Repository) FindByID(ctx context.Context, id int64) (*records.Drug, error) {
	rows, err := r.store.From(records.TableDrugs).
		Eq(records.ColID, id).
		Limit(1).
		Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	drug := records.NormalizeDrug(rows[0])
	return &drug, nil
}
