package submission

import "github.com/angelmondragon/deadstock-backend/internal/records"

// BuildOfferPayload shapes a validated draft into the label-keyed record the
// offer webhook expects. The draft must have passed ValidateOffer.
func BuildOfferPayload(draft OfferDraft, pharmacyID int64) (map[string]any, error) {
	expiry, err := CanonicalExpiry(draft.ExpiryDate)
	if err != nil {
		return nil, err
	}
	payload := basePayload(draft.Drug, pharmacyID, draft.Quantity)
	payload[records.ColExpiryDate] = expiry
	payload[records.ColPrice] = draft.Price
	payload[records.ColDiscount] = draft.Discount
	return payload, nil
}

func BuildRequestPayload(draft RequestDraft, pharmacyID int64) map[string]any {
	return basePayload(draft.Drug, pharmacyID, draft.Quantity)
}

func basePayload(drug *records.Drug, pharmacyID int64, quantity int) map[string]any {
	payload := map[string]any{
		records.ColPharmacyID: pharmacyID,
		records.ColQuantity:   quantity,
	}
	if drug != nil {
		payload[records.ColDrugID] = drug.ID
		payload[records.ColNameEN] = drug.NameEN
		payload[records.ColNameAR] = drug.NameAR
		payload[records.ColBarcode] = BarcodeNumber(drug.Barcode)
	}
	return payload
}
