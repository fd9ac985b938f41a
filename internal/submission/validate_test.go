package submission

import (
	"testing"
	"time"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/pkg/enums"
)

func panadol() *records.Drug {
	return &records.Drug{ID: 42, Barcode: "622-1000-123", NameEN: "Panadol", NameAR: "بنادول", Price: 35}
}

func validDraft() OfferDraft {
	return OfferDraft{Drug: panadol(), ExpiryDate: "2026-05", Discount: 20, Price: 30, Quantity: 2}
}

func TestValidateOfferRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*OfferDraft)
		field  string
	}{
		{"no drug", func(d *OfferDraft) { d.Drug = nil }, "drug_id"},
		{"empty expiry", func(d *OfferDraft) { d.ExpiryDate = " " }, "expiry_date"},
		{"bad expiry", func(d *OfferDraft) { d.ExpiryDate = "2026-13" }, "expiry_date"},
		{"short expiry", func(d *OfferDraft) { d.ExpiryDate = "26-5" }, "expiry_date"},
		{"negative discount", func(d *OfferDraft) { d.Discount = -1 }, "discount"},
		{"discount over 100", func(d *OfferDraft) { d.Discount = 101 }, "discount"},
		{"zero quantity", func(d *OfferDraft) { d.Quantity = 0 }, "quantity"},
		{"zero price", func(d *OfferDraft) { d.Price = 0 }, "price"},
		{"barcode without digits", func(d *OfferDraft) { d.Drug.Barcode = "n/a" }, "barcode"},
		{"barcode all zero", func(d *OfferDraft) { d.Drug.Barcode = "000" }, "barcode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := validDraft()
			tc.mutate(&draft)
			res := ValidateOffer(draft, nil)
			if res.Outcome != enums.ValidationReject || res.Field != tc.field {
				t.Fatalf("expected reject on %s, got %+v", tc.field, res)
			}
		})
	}
}

func TestValidateOfferBoundaries(t *testing.T) {
	draft := validDraft()
	draft.Discount = 0
	draft.Quantity = 1
	if res := ValidateOffer(draft, nil); res.Outcome != enums.ValidationOK {
		t.Fatalf("expected ok, got %+v", res)
	}
	draft.Discount = 100
	if res := ValidateOffer(draft, nil); res.Outcome != enums.ValidationOK {
		t.Fatalf("expected ok, got %+v", res)
	}
}

func TestValidateOfferDuplicateSameExpiryWarns(t *testing.T) {
	existing := []records.Offer{{ID: 1, Barcode: "6221000123", ExpiryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}}
	res := ValidateOffer(validDraft(), existing)
	if res.Outcome != enums.ValidationWarn || res.Reason == "" {
		t.Fatalf("expected duplicate warning, got %+v", res)
	}
}

func TestValidateOfferDifferentExpiryIsOK(t *testing.T) {
	existing := []records.Offer{{ID: 1, Barcode: "6221000123", ExpiryDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}}
	if res := ValidateOffer(validDraft(), existing); res.Outcome != enums.ValidationOK {
		t.Fatalf("expected ok, got %+v", res)
	}
}

func TestValidateOfferDifferentBarcodeIsOK(t *testing.T) {
	existing := []records.Offer{{ID: 1, Barcode: "999", ExpiryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}}
	if res := ValidateOffer(validDraft(), existing); res.Outcome != enums.ValidationOK {
		t.Fatalf("expected ok, got %+v", res)
	}
}

func TestValidateRequest(t *testing.T) {
	if res := ValidateRequest(RequestDraft{Drug: panadol(), Quantity: 1}); res.Outcome != enums.ValidationOK {
		t.Fatalf("expected ok, got %+v", res)
	}
	if res := ValidateRequest(RequestDraft{Quantity: 1}); res.Field != "drug_id" {
		t.Fatalf("expected drug rejection, got %+v", res)
	}
	if res := ValidateRequest(RequestDraft{Drug: panadol()}); res.Field != "quantity" {
		t.Fatalf("expected quantity rejection, got %+v", res)
	}
	if res := ValidateRequest(RequestDraft{Drug: &records.Drug{ID: 1}, Quantity: 3}); res.Field != "barcode" {
		t.Fatalf("expected barcode rejection, got %+v", res)
	}
}

func TestCanonicalExpiry(t *testing.T) {
	cases := map[string]string{
		"2026-05":    "2026-05-01",
		"2026-05-17": "2026-05-17",
		" 2027-01 ":  "2027-01-01",
	}
	for in, want := range cases {
		got, err := CanonicalExpiry(in)
		if err != nil || got != want {
			t.Fatalf("CanonicalExpiry(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "2026", "2026-02-30", "May 2026"} {
		if _, err := CanonicalExpiry(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestBarcodeNumber(t *testing.T) {
	cases := map[string]int64{
		"622-1000-123":         6221000123,
		"abc":                  0,
		"":                     0,
		" 0012 ":               12,
		"99999999999999999999": 0,
	}
	for in, want := range cases {
		if got := BarcodeNumber(in); got != want {
			t.Fatalf("BarcodeNumber(%q) = %d, want %d", in, got, want)
		}
	}
}
