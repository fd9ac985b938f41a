package requests

import (
	"context"
	"fmt"
	"strconv"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/internal/submission"
	"github.com/angelmondragon/deadstock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
	"github.com/angelmondragon/deadstock-backend/pkg/webhook"
)

type Lister interface {
	ListByPharmacy(ctx context.Context, pharmacyID int64) ([]records.Request, error)
}

type DrugLookup interface {
	Get(ctx context.Context, id int64) (*records.Drug, error)
}

type Sender interface {
	Post(ctx context.Context, ep webhook.Endpoint, payload any) error
	Delete(ctx context.Context, ep webhook.Endpoint, id string) error
}

type CreateInput struct {
	DrugID   int64
	Quantity int
}

type Service interface {
	List(ctx context.Context, sess session.Context) ([]records.Request, error)
	Create(ctx context.Context, sess session.Context, input CreateInput) ([]records.Request, error)
	Delete(ctx context.Context, sess session.Context, requestID int64) ([]records.Request, error)
}

type ServiceParams struct {
	Repo     Lister
	Drugs    DrugLookup
	Sender   Sender
	Endpoint webhook.Endpoint
}

type service struct {
	repo     Lister
	drugs    DrugLookup
	sender   Sender
	endpoint webhook.Endpoint
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("request repository required")
	}
	if params.Drugs == nil {
		return nil, fmt.Errorf("drug lookup required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("webhook sender required")
	}
	if params.Endpoint.URL == "" {
		return nil, fmt.Errorf("request webhook url required")
	}
	return &service{repo: params.Repo, drugs: params.Drugs, sender: params.Sender, endpoint: params.Endpoint}, nil
}

func (s *service) List(ctx context.Context, sess session.Context) ([]records.Request, error) {
	if err := requirePharmacy(sess); err != nil {
		return nil, err
	}
	return s.refetch(ctx, sess.PharmacyID)
}

// Create posts a validated request. Requests are not checked for duplicates.
func (s *service) Create(ctx context.Context, sess session.Context, input CreateInput) ([]records.Request, error) {
	if err := requirePharmacy(sess); err != nil {
		return nil, err
	}
	drug, err := s.drugs.Get(ctx, input.DrugID)
	if err != nil {
		return nil, err
	}
	draft := submission.RequestDraft{Drug: drug, Quantity: input.Quantity}
	if res := submission.ValidateRequest(draft); res.Outcome == enums.ValidationReject {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, res.Reason).WithDetails(map[string]string{res.Field: res.Reason})
	}
	if err := s.sender.Post(ctx, s.endpoint, submission.BuildRequestPayload(draft, sess.PharmacyID)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to add request")
	}
	return s.refetch(ctx, sess.PharmacyID)
}

func (s *service) Delete(ctx context.Context, sess session.Context, requestID int64) ([]records.Request, error) {
	if err := requirePharmacy(sess); err != nil {
		return nil, err
	}
	if requestID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	if err := s.sender.Delete(ctx, s.endpoint, strconv.FormatInt(requestID, 10)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete request")
	}
	return s.refetch(ctx, sess.PharmacyID)
}

func (s *service) refetch(ctx context.Context, pharmacyID int64) ([]records.Request, error) {
	reqs, err := s.repo.ListByPharmacy(ctx, pharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load requests")
	}
	return reqs, nil
}

func requirePharmacy(sess session.Context) error {
	if !sess.HasPharmacy() {
		return pkgerrors.New(pkgerrors.CodeProfile, "complete your pharmacy profile first")
	}
	return nil
}
