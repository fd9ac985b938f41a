package requests

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
	"github.com/angelmondragon/deadstock-backend/pkg/webhook"
)

type stubLister struct {
	requests []records.Request
	calls    int
}

func (s *stubLister) ListByPharmacy(context.Context, int64) ([]records.Request, error) {
	s.calls++
	return s.requests, nil
}

type stubDrugs struct{}

func (stubDrugs) Get(_ context.Context, id int64) (*records.Drug, error) {
	if id == 0 {
		return nil, nil
	}
	return &records.Drug{ID: id, Barcode: "622 100", NameEN: "Panadol"}, nil
}

type stubSender struct {
	posted  []map[string]any
	deleted []string
	err     error
}

func (s *stubSender) Post(_ context.Context, _ webhook.Endpoint, payload any) error {
	if s.err != nil {
		return s.err
	}
	s.posted = append(s.posted, payload.(map[string]any))
	return nil
}

func (s *stubSender) Delete(_ context.Context, _ webhook.Endpoint, id string) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func newTestService(t *testing.T, lister *stubLister, sender *stubSender) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     lister,
		Drugs:    stubDrugs{},
		Sender:   sender,
		Endpoint: webhook.Endpoint{Name: "request", URL: "https://hooks.test/add-request"},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

var pharmacy = session.Context{ID: "sid", PharmacyID: 55}

func TestCreateRequest(t *testing.T) {
	lister := &stubLister{requests: []records.Request{{ID: 1}}}
	sender := &stubSender{}
	svc := newTestService(t, lister, sender)

	reqs, err := svc.Create(context.Background(), pharmacy, CreateInput{DrugID: 3, Quantity: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(sender.posted) != 1 {
		t.Fatalf("expected one post, got %d", len(sender.posted))
	}
	got := sender.posted[0]
	if got[records.ColBarcode] != int64(622100) || got[records.ColQuantity] != 2 || got[records.ColPharmacyID] != int64(55) {
		t.Fatalf("unexpected payload: %v", got)
	}
	if len(reqs) != 1 || lister.calls != 1 {
		t.Fatalf("expected refetch after create, got %d reads", lister.calls)
	}
}

func TestCreateRequestRepeatsAreNotWarned(t *testing.T) {
	sender := &stubSender{}
	svc := newTestService(t, &stubLister{}, sender)
	for i := 0; i < 2; i++ {
		if _, err := svc.Create(context.Background(), pharmacy, CreateInput{DrugID: 3, Quantity: 1}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if len(sender.posted) != 2 {
		t.Fatalf("expected both posts, got %d", len(sender.posted))
	}
}

func TestCreateRequestValidation(t *testing.T) {
	sender := &stubSender{}
	svc := newTestService(t, &stubLister{}, sender)

	if _, err := svc.Create(context.Background(), pharmacy, CreateInput{DrugID: 3}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Create(context.Background(), pharmacy, CreateInput{Quantity: 1}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Create(context.Background(), session.Context{ID: "sid"}, CreateInput{DrugID: 3, Quantity: 1}); !pkgerrors.HasCode(err, pkgerrors.CodeProfile) {
		t.Fatalf("expected profile incomplete, got %v", err)
	}
	if len(sender.posted) != 0 {
		t.Fatal("invalid requests must not be sent")
	}
}

func TestDeleteRequest(t *testing.T) {
	sender := &stubSender{}
	svc := newTestService(t, &stubLister{}, sender)
	if _, err := svc.Delete(context.Background(), pharmacy, 9); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(sender.deleted) != 1 || sender.deleted[0] != "9" {
		t.Fatalf("unexpected deletes: %v", sender.deleted)
	}

	failing := newTestService(t, &stubLister{}, &stubSender{err: errors.New("boom")})
	if _, err := failing.Delete(context.Background(), pharmacy, 9); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
