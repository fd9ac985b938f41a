package controllers

import (
	"net/http"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	"github.com/angelmondragon/deadstock-backend/api/validators"
	"github.com/angelmondragon/deadstock-backend/internal/drugs"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
)

const maxDrugSearchLimit = 50

// DrugSearch backs the drug picker. Short queries return an empty list.
func DrugSearch(svc drugs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "drugs")
			return
		}
		if _, ok := requireSession(w, r, logg); !ok {
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxDrugSearchLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.Search(r.Context(), r.URL.Query().Get("q"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"drugs": results})
	}
}
