package records

import "time"

// Drug is a catalog reference entry. It is never written by this service.
type Drug struct {
	ID           int64   `json:"id"`
	Barcode      string  `json:"barcode"`
	NameEN       string  `json:"name_en"`
	NameAR       string  `json:"name_ar"`
	Price        float64 `json:"price"`
	Manufacturer *string `json:"manufacturer,omitempty"`
}

// Offer is one pharmacy's dead-stock listing. Name and barcode are copied from
// the catalog at creation time.
type Offer struct {
	ID              int64     `json:"id"`
	PharmacyID      int64     `json:"pharmacy_id"`
	DrugID          int64     `json:"drug_id"`
	NameEN          string    `json:"name_en"`
	NameAR          string    `json:"name_ar"`
	Barcode         string    `json:"barcode"`
	ExpiryDate      time.Time `json:"expiry_date"`
	Discount        int       `json:"discount"`
	Price           float64   `json:"price"`
	Quantity        int       `json:"quantity"`
	City            string    `json:"city"`
	PharmacyName    string    `json:"pharmacy_name"`
	PharmacyAddress string    `json:"pharmacy_address"`
	Status          string    `json:"status,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Sold reports whether the offer has been marked sold.
func (o Offer) Sold() bool {
	return o.Status == StatusSold
}

// Request is a pharmacy's declared demand for a drug.
type Request struct {
	ID         int64     `json:"id"`
	PharmacyID int64     `json:"pharmacy_id"`
	DrugID     int64     `json:"drug_id"`
	NameEN     string    `json:"name_en"`
	NameAR     string    `json:"name_ar"`
	Barcode    string    `json:"barcode"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}
