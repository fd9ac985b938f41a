package activity

import (
	"testing"
	"time"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/pkg/enums"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return base.Add(time.Duration(hours) * time.Hour)
}

func TestAggregateMergesNewestFirst(t *testing.T) {
	offers := []records.Offer{
		{ID: 1, NameEN: "o1", CreatedAt: at(1)},
		{ID: 2, NameEN: "o2", CreatedAt: at(5)},
		{ID: 3, NameEN: "o3", CreatedAt: at(3)},
	}
	requests := []records.Request{
		{ID: 11, NameEN: "r1", CreatedAt: at(2)},
		{ID: 12, NameEN: "r2", CreatedAt: at(7)},
		{ID: 13, NameEN: "r3", CreatedAt: at(4)},
		{ID: 14, NameEN: "r4", CreatedAt: at(0)},
	}

	got := Aggregate(offers, requests, 5)
	want := []struct {
		id   int64
		kind enums.ActivityKind
	}{
		{12, enums.ActivityKindRequest},
		{2, enums.ActivityKindOffer},
		{13, enums.ActivityKindRequest},
		{3, enums.ActivityKindOffer},
		{11, enums.ActivityKindRequest},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for idx, item := range got {
		if item.ID() != want[idx].id || item.Kind != want[idx].kind {
			t.Fatalf("item %d: got %s/%d want %s/%d", idx, item.Kind, item.ID(), want[idx].kind, want[idx].id)
		}
	}
}

func TestAggregateTiesKeepOffersFirst(t *testing.T) {
	offers := []records.Offer{{ID: 1, CreatedAt: at(1)}}
	requests := []records.Request{{ID: 2, CreatedAt: at(1)}}

	got := Aggregate(offers, requests, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Kind != enums.ActivityKindOffer || got[1].Kind != enums.ActivityKindRequest {
		t.Fatalf("unexpected tie order: %s, %s", got[0].Kind, got[1].Kind)
	}
}

func TestAggregateDefaultLimit(t *testing.T) {
	var offers []records.Offer
	for i := 0; i < 8; i++ {
		offers = append(offers, records.Offer{ID: int64(i), CreatedAt: at(i)})
	}
	got := Aggregate(offers, nil, -1)
	if len(got) != DefaultLimit {
		t.Fatalf("expected %d items, got %d", DefaultLimit, len(got))
	}
	if got[0].ID() != 7 {
		t.Fatalf("expected newest first, got %d", got[0].ID())
	}
}

func TestAggregateDoesNotAliasInput(t *testing.T) {
	offers := []records.Offer{{ID: 1, NameEN: "Panadol", CreatedAt: at(1)}}
	got := Aggregate(offers, nil, 5)
	got[0].Offer.NameEN = "changed"
	if offers[0].NameEN != "Panadol" {
		t.Fatal("aggregate must copy records")
	}
}

func TestItemAccessors(t *testing.T) {
	var empty Item
	if empty.ID() != 0 || !empty.CreatedAt().IsZero() || empty.Name() != "" {
		t.Fatal("zero item should report zero values")
	}
	req := Item{Kind: enums.ActivityKindRequest, Request: &records.Request{ID: 4, NameEN: "Augmentin", CreatedAt: at(2)}}
	if req.ID() != 4 || req.Name() != "Augmentin" || !req.CreatedAt().Equal(at(2)) {
		t.Fatalf("unexpected accessors: %d %s %s", req.ID(), req.Name(), req.CreatedAt())
	}
}
