package activity

import (
	"slices"
	"time"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/pkg/enums"
)

// DefaultLimit is the size of the dashboard's recent activity feed.
const DefaultLimit = 5

// Item is one entry of the merged feed. Exactly one of Offer or Request is set,
// matching Kind.
type Item struct {
	Kind    enums.ActivityKind `json:"type"`
	Offer   *records.Offer     `json:"offer,omitempty"`
	Request *records.Request   `json:"request,omitempty"`
}

func (i Item) ID() int64 {
	if i.Offer != nil {
		return i.Offer.ID
	}
	if i.Request != nil {
		return i.Request.ID
	}
	return 0
}

func (i Item) CreatedAt() time.Time {
	if i.Offer != nil {
		return i.Offer.CreatedAt
	}
	if i.Request != nil {
		return i.Request.CreatedAt
	}
	return time.Time{}
}

// Name is the English drug name of the underlying record.
func (i Item) Name() string {
	if i.Offer != nil {
		return i.Offer.NameEN
	}
	if i.Request != nil {
		return i.Request.NameEN
	}
	return ""
}

// Aggregate tags offers and requests, merges them newest first and keeps the
// first limit entries. Offers precede requests in the merge input and the sort
// is stable, so equal timestamps keep that order. A non-positive limit falls
// back to DefaultLimit.
func Aggregate(offers []records.Offer, requests []records.Request, limit int) []Item {
	if limit <= 0 {
		limit = DefaultLimit
	}
	items := make([]Item, 0, len(offers)+len(requests))
	for idx := range offers {
		offer := offers[idx]
		items = append(items, Item{Kind: enums.ActivityKindOffer, Offer: &offer})
	}
	for idx := range requests {
		request := requests[idx]
		items = append(items, Item{Kind: enums.ActivityKindRequest, Request: &request})
	}
	slices.SortStableFunc(items, func(a, b Item) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
