package controllers

import (
	"net/http"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	"github.com/angelmondragon/deadstock-backend/api/validators"
	"github.com/angelmondragon/deadstock-backend/internal/requests"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
)

type createRequestRequest struct {
	DrugID   int64 `json:"drug_id"`
	Quantity int   `json:"quantity"`
}

func ListRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "requests")
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
		responses.WriteSuccess(w, map[string]any{"requests": list})
	}
}

func CreateRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "requests")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var body createRequestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Create(r.Context(), sess, requests.CreateInput{DrugID: body.DrugID, Quantity: body.Quantity})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"requests": list})
	}
}

func DeleteRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "requests")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		id, err := parseIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.Delete(r.Context(), sess, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"requests": list})
	}
}
