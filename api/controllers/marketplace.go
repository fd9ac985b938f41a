package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	"github.com/angelmondragon/deadstock-backend/api/validators"
	"github.com/angelmondragon/deadstock-backend/internal/marketplace"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

type marketplaceLoader func(ctx context.Context, sess session.Context, c marketplace.Criteria) (marketplace.Result, error)

func parseCriteria(r *http.Request) (marketplace.Criteria, error) {
	discount, err := validators.ParseQueryInt(r, "min_discount", 0, 0, 100)
	if err != nil {
		return marketplace.Criteria{}, err
	}
	q := r.URL.Query()
	return marketplace.Criteria{
		Query:       validators.CapRunes(q.Get("q"), 120),
		City:        validators.SanitizeString(q.Get("city"), 64),
		MinDiscount: discount,
	}, nil
}

func serveMarketplace(load func(marketplace.Service) marketplaceLoader, svc marketplace.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "marketplace")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		criteria, err := parseCriteria(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := load(svc)(r.Context(), sess, criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MarketplaceBrowse reloads every offer, ranks it for the viewer and filters.
func MarketplaceBrowse(svc marketplace.Service, logg *logger.Logger) http.HandlerFunc {
	return serveMarketplace(func(s marketplace.Service) marketplaceLoader { return s.Browse }, svc, logg)
}

// MarketplaceView re-filters the last committed browse without reloading.
func MarketplaceView(svc marketplace.Service, logg *logger.Logger) http.HandlerFunc {
	return serveMarketplace(func(s marketplace.Service) marketplaceLoader { return s.Refilter }, svc, logg)
}
