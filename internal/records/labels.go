package records

// The external store keys offer and request columns by display labels. Every
// label the service reads or writes is declared here and nowhere else.
const (
	TableOffers   = "Inventory Offers"
	TableRequests = "Inventory Requests"
	TableDrugs    = "Master"
)

const (
	ColID              = "id"
	ColPharmacyID      = "Pharmacy ID"
	ColDrugID          = "drug_id"
	ColNameEN          = "English name"
	ColNameAR          = "Arabic Name"
	ColBarcode         = "barcode"
	ColExpiryDate      = "Expiry date"
	ColDiscount        = "discount"
	ColPrice           = "price"
	ColQuantity        = "Quantity"
	ColCity            = "city"
	ColPharmacyName    = "pharmacy_name"
	ColPharmacyAddress = "pharmacy_address"
	ColStatus          = "status"
	ColCreatedAt       = "created_at"

	// Catalog-only labels.
	ColDrugBarcode  = "Item Barcode"
	ColDrugPrice    = "Price"
	ColManufacturer = "manufacturer"
)

// StatusSold marks an offer that found a buyer.
const StatusSold = "sold"
