package session

// Profile is the pharmacy profile cached for the session after registration
// or a profile save. The authoritative copy lives in the external store.
type Profile struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	Address    string `json:"address"`
	LicenseNo  string `json:"license_no"`
	Email      string `json:"email,omitempty"`
	TelegramID string `json:"telegram_id,omitempty"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

// Context is the explicit per-request session value handed to services.
type Context struct {
	ID             string
	PharmacyID     int64
	TempPharmacyID int64
	Email          string
	Profile        *Profile
}

// HasPharmacy reports whether registration finished for this session.
func (c Context) HasPharmacy() bool {
	return c.PharmacyID > 0
}

// City returns the viewer's home city, empty when no profile is stored.
func (c Context) City() string {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.City
}
