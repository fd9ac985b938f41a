package controllers

import (
	"net/http"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	"github.com/angelmondragon/deadstock-backend/internal/proximity"
)

// Cities lists the governorates a pharmacy may register in.
func Cities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string][]string{"cities": proximity.Cities()})
	}
}
