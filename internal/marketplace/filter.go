package marketplace

import (
	"strings"

	"github.com/angelmondragon/deadstock-backend/internal/records"
)

// Criteria narrows a ranked offer list. The zero value matches everything.
type Criteria struct {
	Query       string `json:"query"`
	City        string `json:"city"`
	MinDiscount int    `json:"min_discount"`
}

// IsZero reports whether c filters nothing out.
func (c Criteria) IsZero() bool {
	return c.Query == "" && c.City == "" && c.MinDiscount <= 0
}

// Filter returns the offers matching every criterion, in input order. The
// result is always a new slice; offers is never modified. The query is matched
// as given, so a whitespace-only query still filters.
func Filter(offers []records.Offer, c Criteria) []records.Offer {
	query := c.Query
	lowered := strings.ToLower(query)

	out := make([]records.Offer, 0, len(offers))
	for _, o := range offers {
		if query != "" && !matchesQuery(o, query, lowered) {
			continue
		}
		if c.City != "" && o.City != c.City {
			continue
		}
		if c.MinDiscount > 0 && o.Discount < c.MinDiscount {
			continue
		}
		out = append(out, o)
	}
	return out
}

// matchesQuery: English name case-insensitively, Arabic name and barcode as-is.
func matchesQuery(o records.Offer, query, lowered string) bool {
	return strings.Contains(strings.ToLower(o.NameEN), lowered) ||
		strings.Contains(o.NameAR, query) ||
		strings.Contains(o.Barcode, query)
}
