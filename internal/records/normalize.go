package records

import "github.com/angelmondragon/deadstock-backend/pkg/store"

// NormalizeOffer maps a label-keyed offer row onto an Offer. Unparseable
// numeric fields become 0 and unparseable dates the zero time; it never fails.
func NormalizeOffer(row store.Row) Offer {
	return Offer{
		ID:              asInt64(row[ColID]),
		PharmacyID:      asInt64(row[ColPharmacyID]),
		DrugID:          asInt64(row[ColDrugID]),
		NameEN:          asString(row[ColNameEN]),
		NameAR:          asString(row[ColNameAR]),
		Barcode:         asString(row[ColBarcode]),
		ExpiryDate:      asTime(row[ColExpiryDate]),
		Discount:        asInt(row[ColDiscount]),
		Price:           asFloat(row[ColPrice]),
		Quantity:        asInt(row[ColQuantity]),
		City:            asString(row[ColCity]),
		PharmacyName:    asString(row[ColPharmacyName]),
		PharmacyAddress: asString(row[ColPharmacyAddress]),
		Status:          asString(row[ColStatus]),
		CreatedAt:       asTime(row[ColCreatedAt]),
	}
}

func NormalizeRequest(row store.Row) Request {
	return Request{
		ID:         asInt64(row[ColID]),
		PharmacyID: asInt64(row[ColPharmacyID]),
		DrugID:     asInt64(row[ColDrugID]),
		NameEN:     asString(row[ColNameEN]),
		NameAR:     asString(row[ColNameAR]),
		Barcode:    asString(row[ColBarcode]),
		Quantity:   asInt(row[ColQuantity]),
		CreatedAt:  asTime(row[ColCreatedAt]),
	}
}

func NormalizeDrug(row store.Row) Drug {
	return Drug{
		ID:           asInt64(row[ColID]),
		Barcode:      asString(row[ColDrugBarcode]),
		NameEN:       asString(row[ColNameEN]),
		NameAR:       asString(row[ColNameAR]),
		Price:        asFloat(row[ColDrugPrice]),
		Manufacturer: asStringPtr(row[ColManufacturer]),
	}
}

func NormalizeOffers(rows []store.Row) []Offer {
	out := make([]Offer, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeOffer(row))
	}
	return out
}

func NormalizeRequests(rows []store.Row) []Request {
	out := make([]Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeRequest(row))
	}
	return out
}

func NormalizeDrugs(rows []store.Row) []Drug {
	out := make([]Drug, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeDrug(row))
	}
	return out
}
