package controllers

import (
	"net/http"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	"github.com/angelmondragon/deadstock-backend/api/validators"
	"github.com/angelmondragon/deadstock-backend/internal/offers"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
)

type createOfferRequest struct {
	DrugID           int64   `json:"drug_id"`
	ExpiryDate       string  `json:"expiry_date"`
	Discount         int     `json:"discount"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity"`
	ConfirmDuplicate bool    `json:"confirm_duplicate"`
}

func ListOffers(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "offers")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.List(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"offers": list})
	}
}

// CreateOffer submits a surplus offer. A duplicate warning comes back as 409
// until the client resends with confirm_duplicate set.
func CreateOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "offers")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var body createOfferRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Create(r.Context(), sess, offers.CreateInput{
			DrugID:           body.DrugID,
			ExpiryDate:       body.ExpiryDate,
			Discount:         body.Discount,
			Price:            body.Price,
			Quantity:         body.Quantity,
			ConfirmDuplicate: body.ConfirmDuplicate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"offers": list})
	}
}

func DeleteOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "offers")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		id, err := parseIDParam(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.Delete(r.Context(), sess, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"offers": list})
	}
}
