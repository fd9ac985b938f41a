package controllers

import (
	"net/http"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	"github.com/angelmondragon/deadstock-backend/api/validators"
	"github.com/angelmondragon/deadstock-backend/internal/registration"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Phone      string `json:"phone" validate:"max=32"`
	City       string `json:"city" validate:"required"`
	Address    string `json:"address" validate:"max=255"`
	LicenseNo  string `json:"license_no" validate:"max=32"`
	TelegramID string `json:"telegram_id" validate:"max=32"`
	ProfilePic string `json:"profile_pic" validate:"omitempty,url"`
}

func (p profileRequest) input() registration.ProfileInput {
	return registration.ProfileInput{
		Name:       validators.SanitizeString(p.Name, 120),
		Phone:      p.Phone,
		City:       p.City,
		Address:    validators.SanitizeString(p.Address, 255),
		LicenseNo:  p.LicenseNo,
		TelegramID: p.TelegramID,
		ProfilePic: p.ProfilePic,
	}
}

// Register opens a session for a new pharmacy account. The returned token is
// required by every later call, starting with profile completion.
func Register(svc registration.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "registration")
			return
		}

		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), registration.Credentials{Email: body.Email, Password: body.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CompleteProfile finishes registration and promotes the session.
func CompleteProfile(svc registration.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "registration")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var body profileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.CompleteProfile(r.Context(), sess, body.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func GetProfile(svc registration.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "registration")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		profile, err := svc.Profile(sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func UpdateProfile(svc registration.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "registration")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var body profileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.SaveProfile(r.Context(), sess, body.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// ViewReleaser drops per-session view state held in process.
type ViewReleaser interface {
	Forget(sess session.Context)
}

// Logout clears the session and any marketplace view held for it. The token
// stops resolving immediately.
func Logout(svc registration.Service, views ViewReleaser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "registration")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Logout(r.Context(), sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if views != nil {
			views.Forget(sess)
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
