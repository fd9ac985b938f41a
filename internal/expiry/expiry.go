// Package expiry flags stock whose expiry date falls inside the near-expiry window.
package expiry

import (
	"time"

	"github.com/angelmondragon/deadstock-backend/internal/records"
)

// Window is the default near-expiry horizon.
const Window = 90 * 24 * time.Hour

// IsNearExpiry reports whether expiry is less than Window away from now.
// Dates already in the past are near-expiry as well.
func IsNearExpiry(expiry, now time.Time) bool {
	return within(expiry, now, Window)
}

func within(expiry, now time.Time, window time.Duration) bool {
	return expiry.Sub(now) < window
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the wall clock in UTC.
var SystemClock Clock = systemClock{}

// Classifier applies a configurable window against a clock. The zero value
// uses Window and SystemClock.
type Classifier struct {
	window time.Duration
	clock  Clock
}

// NewClassifier builds a classifier. Non-positive windows fall back to Window and a nil clock to SystemClock.
func NewClassifier(window time.Duration, clock Clock) Classifier {
	if window <= 0 {
		window = Window
	}
	if clock == nil {
		clock = SystemClock
	}
	return Classifier{window: window, clock: clock}
}

func (c Classifier) Window() time.Duration {
	if c.window <= 0 {
		return Window
	}
	return c.window
}

func (c Classifier) Now() time.Time {
	if c.clock == nil {
		return SystemClock.Now()
	}
	return c.clock.Now()
}

// IsNearExpiry classifies a single expiry date against the classifier's clock.
func (c Classifier) IsNearExpiry(expiry time.Time) bool {
	return within(expiry, c.Now(), c.Window())
}

// IsExpired reports whether expiry is already behind the clock.
func (c Classifier) IsExpired(expiry time.Time) bool {
	return !expiry.After(c.Now())
}

// OfferView is an offer annotated for display.
type OfferView struct {
	records.Offer
	NearExpiry bool `json:"near_expiry"`
}

// Annotate flags every offer, preserving order.
func (c Classifier) Annotate(offers []records.Offer) []OfferView {
	now, window := c.Now(), c.Window()
	out := make([]OfferView, len(offers))
	for i, o := range offers {
		out[i] = OfferView{Offer: o, NearExpiry: within(o.ExpiryDate, now, window)}
	}
	return out
}

// NearExpiry keeps only offers inside the window, preserving order.
func (c Classifier) NearExpiry(offers []records.Offer) []records.Offer {
	now, window := c.Now(), c.Window()
	out := make([]records.Offer, 0, len(offers))
	for _, o := range offers {
		if within(o.ExpiryDate, now, window) {
			out = append(out, o)
		}
	}
	return out
}
