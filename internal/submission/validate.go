package submission

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/pkg/enums"
)

const canonicalLayout = "2006-01-02"

// OfferDraft is an offer as entered, before it is shaped into a payload.
type OfferDraft struct {
	Drug       *records.Drug
	ExpiryDate string
	Discount   int
	Price      float64
	Quantity   int
}

// RequestDraft is a restock request as entered.
type RequestDraft struct {
	Drug     *records.Drug
	Quantity int
}

// Result is the verdict on a draft. Field names the offending input for
// rejections and is empty otherwise.
type Result struct {
	Outcome enums.ValidationOutcome `json:"outcome"`
	Reason  string                  `json:"reason,omitempty"`
	Field   string                  `json:"field,omitempty"`
}

func ok() Result {
	return Result{Outcome: enums.ValidationOK}
}

func reject(field, reason string) Result {
	return Result{Outcome: enums.ValidationReject, Field: field, Reason: reason}
}

// ValidateOffer checks the draft and then looks for an existing offer with the
// same barcode and expiry date. A duplicate is a warning, never a rejection.
func ValidateOffer(draft OfferDraft, existing []records.Offer) Result {
	if draft.Drug == nil {
		return reject("drug_id", "select a drug from the catalog")
	}
	if strings.TrimSpace(draft.ExpiryDate) == "" {
		return reject("expiry_date", "expiry date is required")
	}
	expiry, err := CanonicalExpiry(draft.ExpiryDate)
	if err != nil {
		return reject("expiry_date", err.Error())
	}
	if draft.Discount < 0 || draft.Discount > 100 {
		return reject("discount", "discount must be between 0 and 100")
	}
	if draft.Quantity < 1 {
		return reject("quantity", "quantity must be at least 1")
	}
	if draft.Price <= 0 {
		return reject("price", "price must be greater than 0")
	}
	barcode := BarcodeNumber(draft.Drug.Barcode)
	if barcode == 0 {
		return reject("barcode", "selected drug has no usable barcode")
	}

	for _, offer := range existing {
		if offer.ExpiryDate.IsZero() || BarcodeNumber(offer.Barcode) != barcode {
			continue
		}
		if offer.ExpiryDate.UTC().Format(canonicalLayout) == expiry {
			return Result{
				Outcome: enums.ValidationWarn,
				Reason:  fmt.Sprintf("you already list this drug with expiry %s", expiry),
			}
		}
	}
	return ok()
}

// ValidateRequest applies the request rules. Requests are never checked for
// duplicates.
func ValidateRequest(draft RequestDraft) Result {
	if draft.Drug == nil {
		return reject("drug_id", "select a drug from the catalog")
	}
	if draft.Quantity < 1 {
		return reject("quantity", "quantity must be at least 1")
	}
	if BarcodeNumber(draft.Drug.Barcode) == 0 {
		return reject("barcode", "selected drug has no usable barcode")
	}
	return ok()
}

// CanonicalExpiry turns a month value (YYYY-MM) into the first of that month
// and checks full dates (YYYY-MM-DD), which pass through unchanged.
func CanonicalExpiry(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	switch len(value) {
	case len("2006-01"):
		if _, err := time.Parse("2006-01", value); err != nil {
			return "", fmt.Errorf("expiry date %q is not a valid month", raw)
		}
		return value + "-01", nil
	case len(canonicalLayout):
		if _, err := time.Parse(canonicalLayout, value); err != nil {
			return "", fmt.Errorf("expiry date %q is not a valid date", raw)
		}
		return value, nil
	}
	return "", fmt.Errorf("expiry date %q must be YYYY-MM or YYYY-MM-DD", raw)
}

// BarcodeNumber keeps only the digits of raw and parses them. It returns 0 when
// nothing numeric remains or the digits overflow.
func BarcodeNumber(raw string) int64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
