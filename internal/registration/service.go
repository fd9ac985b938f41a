package registration

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/deadstock-backend/internal/proximity"
	"github.com/angelmondragon/deadstock-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/idgen"
	"github.com/angelmondragon/deadstock-backend/pkg/security"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
	"github.com/angelmondragon/deadstock-backend/pkg/webhook"
	"github.com/go-playground/validator/v10"
)

// SessionStore is the write surface of the session manager.
type SessionStore interface {
	Create(ctx context.Context) (string, error)
	BeginRegistration(ctx context.Context, sessionID string, tempPharmacyID int64, email string) error
	Promote(ctx context.Context, sessionID string, profile session.Profile) error
	SaveProfile(ctx context.Context, sessionID string, profile session.Profile) error
	Clear(ctx context.Context, sessionID string) error
}

type Sender interface {
	Post(ctx context.Context, ep webhook.Endpoint, payload any) error
}

type Credentials struct {
	Email    string
	Password string
}

// Result is returned by phase one. Token authenticates every later call.
type Result struct {
	Token      string `json:"token"`
	PharmacyID int64  `json:"pharmacy_id"`
}

type ProfileInput struct {
	Name       string
	Phone      string
	City       string
	Address    string
	LicenseNo  string
	TelegramID string
	ProfilePic string
}

type Service interface {
	Register(ctx context.Context, creds Credentials) (Result, error)
	CompleteProfile(ctx context.Context, sess session.Context, input ProfileInput) (session.Profile, error)
	SaveProfile(ctx context.Context, sess session.Context, input ProfileInput) (session.Profile, error)
	Profile(sess session.Context) (session.Profile, error)
	Logout(ctx context.Context, sess session.Context) error
}

type ServiceParams struct {
	Sessions         SessionStore
	Sender           Sender
	IDs              idgen.Generator
	RegisterEndpoint webhook.Endpoint
	ProfileEndpoint  webhook.Endpoint
	JWT              config.JWTConfig
	Password         config.PasswordConfig
	Now              func() time.Time
}

type service struct {
	sessions         SessionStore
	sender           Sender
	ids              idgen.Generator
	registerEndpoint webhook.Endpoint
	profileEndpoint  webhook.Endpoint
	jwtCfg           config.JWTConfig
	passwordCfg      config.PasswordConfig
	now              func() time.Time
	validate         *validator.Validate
}

func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("webhook sender required")
	}
	if params.IDs == nil {
		return nil, fmt.Errorf("id generator required")
	}
	if params.RegisterEndpoint.URL == "" || params.ProfileEndpoint.URL == "" {
		return nil, fmt.Errorf("register and profile webhook urls required")
	}
	if params.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		sessions:         params.Sessions,
		sender:           params.Sender,
		ids:              params.IDs,
		registerEndpoint: params.RegisterEndpoint,
		profileEndpoint:  params.ProfileEndpoint,
		jwtCfg:           params.JWT,
		passwordCfg:      params.Password,
		now:              now,
		validate:         validator.New(),
	}, nil
}

// Register creates the account with a fresh pharmacy id and opens a session
// that remembers the id until the profile is completed.
func (s *service) Register(ctx context.Context, creds Credentials) (Result, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid email").WithDetails(map[string]string{"email": "must be a valid email"})
	}
	if err := security.CheckPasswordStrength(creds.Password); err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password").WithDetails(map[string]string{"password": err.Error()})
	}
	hash, err := security.HashPassword(creds.Password, s.passwordCfg)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	pharmacyID := s.ids.NextID()
	payload := map[string]any{
		"email":         email,
		"password_hash": hash,
		"pharmacy_id":   pharmacyID,
	}
	if err := s.sender.Post(ctx, s.registerEndpoint, payload); err != nil {
		if conflict := webhook.AsRegistrationConflict(err); pkgerrors.HasCode(conflict, pkgerrors.CodeConflict) {
			return Result{}, conflict
		}
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "registration failed")
	}

	sid, err := s.sessions.Create(ctx)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}
	if err := s.sessions.BeginRegistration(ctx, sid, pharmacyID, email); err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store registration")
	}
	token, err := session.MintToken(s.jwtCfg, s.now(), sid)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}
	return Result{Token: token, PharmacyID: pharmacyID}, nil
}

// CompleteProfile sends the profile for the scratch id issued by Register and
// then makes that id the session's pharmacy id.
func (s *service) CompleteProfile(ctx context.Context, sess session.Context, input ProfileInput) (session.Profile, error) {
	if sess.HasPharmacy() {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeConflict, "profile already completed")
	}
	if sess.TempPharmacyID <= 0 {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeValidation, "register before completing a profile")
	}
	profile, err := buildProfile(sess.TempPharmacyID, sess.Email, input)
	if err != nil {
		return session.Profile{}, err
	}
	if err := s.sender.Post(ctx, s.profileEndpoint, profilePayload(profile)); err != nil {
		return session.Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save profile")
	}
	if err := s.sessions.Promote(ctx, sess.ID, profile); err != nil {
		return session.Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store profile")
	}
	return profile, nil
}

// SaveProfile replaces the profile of a registered pharmacy.
func (s *service) SaveProfile(ctx context.Context, sess session.Context, input ProfileInput) (session.Profile, error) {
	if !sess.HasPharmacy() {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeProfile, "complete your pharmacy profile first")
	}
	email := sess.Email
	if email == "" && sess.Profile != nil {
		email = sess.Profile.Email
	}
	profile, err := buildProfile(sess.PharmacyID, email, input)
	if err != nil {
		return session.Profile{}, err
	}
	if err := s.sender.Post(ctx, s.profileEndpoint, profilePayload(profile)); err != nil {
		return session.Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save profile")
	}
	if err := s.sessions.SaveProfile(ctx, sess.ID, profile); err != nil {
		return session.Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store profile")
	}
	return profile, nil
}

func (s *service) Profile(sess session.Context) (session.Profile, error) {
	if !sess.HasPharmacy() {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeProfile, "complete your pharmacy profile first")
	}
	if sess.Profile == nil {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return *sess.Profile, nil
}

func (s *service) Logout(ctx context.Context, sess session.Context) error {
	if err := s.sessions.Clear(ctx, sess.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	return nil
}

func buildProfile(pharmacyID int64, email string, input ProfileInput) (session.Profile, error) {
	profile := session.Profile{
		ID:         pharmacyID,
		Name:       strings.TrimSpace(input.Name),
		Phone:      strings.TrimSpace(input.Phone),
		City:       strings.TrimSpace(input.City),
		Address:    strings.TrimSpace(input.Address),
		LicenseNo:  strings.TrimSpace(input.LicenseNo),
		Email:      email,
		TelegramID: strings.TrimSpace(input.TelegramID),
		ProfilePic: strings.TrimSpace(input.ProfilePic),
	}
	details := map[string]string{}
	if profile.Name == "" {
		details["name"] = "is required"
	}
	if profile.City == "" {
		details["city"] = "is required"
	} else if !proximity.IsKnown(profile.City) {
		details["city"] = "must be one of the listed cities"
	}
	if len(details) > 0 {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid profile").WithDetails(details)
	}
	return profile, nil
}

// profilePayload is the body of the save-profile webhook. Phone, licence and
// Telegram values are reduced to their digits and sent as integers, 0 when
// no digit is present.
func profilePayload(p session.Profile) map[string]any {
	payload := map[string]any{
		"pharmacy_id": p.ID,
		"name":        p.Name,
		"city":        p.City,
		"address":     p.Address,
		"phone":       Digits(p.Phone),
		"license_no":  Digits(p.LicenseNo),
		"telegram_id": Digits(p.TelegramID),
	}
	if p.Email != "" {
		payload["email"] = p.Email
	}
	if p.ProfilePic != "" {
		payload["profile_pic"] = p.ProfilePic
	}
	return payload
}

// Digits parses the digits of raw as an integer, ignoring everything else.
func Digits(raw string) int64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
