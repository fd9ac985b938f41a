package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/deadstock-backend/pkg/config"
	redisclient "github.com/angelmondragon/deadstock-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// Session field names stored under df:session:<sid>:<field>.
const (
	FieldPharmacyID     = "pharmacy_id"
	FieldProfile        = "pharmacy_profile"
	FieldTempPharmacyID = "temp_pharmacy_id"
	FieldEmail          = "email"
	fieldMarker         = ""
)

var ErrNoSession = errors.New("session not found")

type keyer interface {
	SessionKey(sessionID, field string) string
}

type sessionStore interface {
	redisclient.KV
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Manager persists session fields in redis.
type Manager struct {
	store sessionStore
	keyer keyer
	ttl   time.Duration
}

// Loader is the read surface used by the session middleware.
type Loader interface {
	Load(ctx context.Context, sessionID string) (Context, error)
}

// NewManager constructs a session manager backed by redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newManager(client, client, cfg.SessionTTL())
}

func newManager(store sessionStore, keys keyer, ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: store, keyer: keys, ttl: ttl}, nil
}

// Create opens an empty session and returns its id.
func (m *Manager) Create(ctx context.Context) (string, error) {
	sid := uuid.NewString()
	if err := m.store.Set(ctx, m.keyer.SessionKey(sid, fieldMarker), time.Now().UTC().Format(time.RFC3339), m.ttl); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sid, nil
}

// Load reads every session field. Missing fields are left zero.
func (m *Manager) Load(ctx context.Context, sessionID string) (Context, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Context{}, ErrNoSession
	}
	if _, err := m.get(ctx, sessionID, fieldMarker); err != nil {
		return Context{}, err
	}

	sess := Context{ID: sessionID}
	var err error
	if sess.PharmacyID, err = m.getInt(ctx, sessionID, FieldPharmacyID); err != nil {
		return Context{}, err
	}
	if sess.TempPharmacyID, err = m.getInt(ctx, sessionID, FieldTempPharmacyID); err != nil {
		return Context{}, err
	}
	if sess.Email, err = m.getOptional(ctx, sessionID, FieldEmail); err != nil {
		return Context{}, err
	}
	raw, err := m.getOptional(ctx, sessionID, FieldProfile)
	if err != nil {
		return Context{}, err
	}
	if raw != "" {
		var profile Profile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return Context{}, fmt.Errorf("decode session profile: %w", err)
		}
		sess.Profile = &profile
	}
	return sess, nil
}

// BeginRegistration stores the phase-one scratch id and email.
func (m *Manager) BeginRegistration(ctx context.Context, sessionID string, tempPharmacyID int64, email string) error {
	if err := m.set(ctx, sessionID, FieldTempPharmacyID, strconv.FormatInt(tempPharmacyID, 10)); err != nil {
		return err
	}
	return m.set(ctx, sessionID, FieldEmail, email)
}

// Promote moves the scratch id to the permanent pharmacy id and stores the profile.
// The scratch key is consumed.
func (m *Manager) Promote(ctx context.Context, sessionID string, profile Profile) error {
	if profile.ID <= 0 {
		return fmt.Errorf("profile id is required")
	}
	if err := m.set(ctx, sessionID, FieldPharmacyID, strconv.FormatInt(profile.ID, 10)); err != nil {
		return err
	}
	if err := m.SaveProfile(ctx, sessionID, profile); err != nil {
		return err
	}
	if err := m.store.Del(ctx, m.keyer.SessionKey(sessionID, FieldTempPharmacyID)); err != nil {
		return fmt.Errorf("clear temp pharmacy id: %w", err)
	}
	return nil
}

// SaveProfile replaces the cached profile.
func (m *Manager) SaveProfile(ctx context.Context, sessionID string, profile Profile) error {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode session profile: %w", err)
	}
	return m.set(ctx, sessionID, FieldProfile, string(encoded))
}

// Clear removes every field of the session.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	keys := []string{m.keyer.SessionKey(sessionID, fieldMarker)}
	for _, field := range []string{FieldPharmacyID, FieldProfile, FieldTempPharmacyID, FieldEmail} {
		keys = append(keys, m.keyer.SessionKey(sessionID, field))
	}
	if err := m.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (m *Manager) set(ctx context.Context, sessionID, field, value string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrNoSession
	}
	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID, field), value, m.ttl); err != nil {
		return fmt.Errorf("store session %s: %w", field, err)
	}
	// The marker must outlive every field written after it.
	if err := m.store.Expire(ctx, m.keyer.SessionKey(sessionID, fieldMarker), m.ttl); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return nil
}

func (m *Manager) get(ctx context.Context, sessionID, field string) (string, error) {
	value, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID, field))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("read session %s: %w", field, err)
	}
	return value, nil
}

func (m *Manager) getOptional(ctx context.Context, sessionID, field string) (string, error) {
	value, err := m.get(ctx, sessionID, field)
	if errors.Is(err, ErrNoSession) {
		return "", nil
	}
	return value, err
}

func (m *Manager) getInt(ctx context.Context, sessionID, field string) (int64, error) {
	raw, err := m.getOptional(ctx, sessionID, field)
	if err != nil || raw == "" {
		return 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, nil
	}
	return id, nil
}
