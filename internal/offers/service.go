package offers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/angelmondragon/deadstock-backend/internal/expiry"
	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/internal/submission"
	"github.com/angelmondragon/deadstock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
	"github.com/angelmondragon/deadstock-backend/pkg/webhook"
)

// Lister reads the caller's offers, soonest expiry first.
type Lister interface {
	ListByPharmacy(ctx context.Context, pharmacyID int64) ([]records.Offer, error)
}

// DrugLookup resolves the catalog entry a draft refers to.
type DrugLookup interface {
	Get(ctx context.Context, id int64) (*records.Drug, error)
}

// Sender delivers writes to the external automation.
type Sender interface {
	Post(ctx context.Context, ep webhook.Endpoint, payload any) error
	Delete(ctx context.Context, ep webhook.Endpoint, id string) error
}

// CreateInput is an offer as submitted by the client.
type CreateInput struct {
	DrugID           int64
	ExpiryDate       string
	Discount         int
	Price            float64
	Quantity         int
	ConfirmDuplicate bool
}

type Service interface {
	List(ctx context.Context, sess session.Context) ([]expiry.OfferView, error)
	Create(ctx context.Context, sess session.Context, input CreateInput) ([]expiry.OfferView, error)
	Delete(ctx context.Context, sess session.Context, offerID int64) ([]expiry.OfferView, error)
}

type ServiceParams struct {
	Repo       Lister
	Drugs      DrugLookup
	Sender     Sender
	Endpoint   webhook.Endpoint
	Classifier expiry.Classifier
}

type service struct {
	repo       Lister
	drugs      DrugLookup
	sender     Sender
	endpoint   webhook.Endpoint
	classifier expiry.Classifier
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	if params.Drugs == nil {
		return nil, fmt.Errorf("drug lookup required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("webhook sender required")
	}
	if params.Endpoint.URL == "" {
		return nil, fmt.Errorf("offer webhook url required")
	}
	return &service{
		repo:       params.Repo,
		drugs:      params.Drugs,
		sender:     params.Sender,
		endpoint:   params.Endpoint,
		classifier: params.Classifier,
	}, nil
}

func (s *service) List(ctx context.Context, sess session.Context) ([]expiry.OfferView, error) {
	if err := requirePharmacy(sess); err != nil {
		return nil, err
	}
	return s.refetch(ctx, sess.PharmacyID)
}

// Create validates the draft against the pharmacy's current offers and posts it.
// A possible duplicate is returned as DUPLICATE_WARNING until the caller sets
// ConfirmDuplicate. On success the full list is re-read.
func (s *service) Create(ctx context.Context, sess session.Context, input CreateInput) ([]expiry.OfferView, error) {
	if err := requirePharmacy(sess); err != nil {
		return nil, err
	}
	drug, err := s.drugs.Get(ctx, input.DrugID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.ListByPharmacy(ctx, sess.PharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load offers")
	}

	draft := submission.OfferDraft{
		Drug:       drug,
		ExpiryDate: input.ExpiryDate,
		Discount:   input.Discount,
		Price:      input.Price,
		Quantity:   input.Quantity,
	}
	res := submission.ValidateOffer(draft, existing)
	switch res.Outcome {
	case enums.ValidationReject:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, res.Reason).WithDetails(map[string]string{res.Field: res.Reason})
	case enums.ValidationWarn:
		if !input.ConfirmDuplicate {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicate, res.Reason).WithDetails(map[string]any{
				"reason":  res.Reason,
				"confirm": "resubmit with confirm_duplicate=true",
			})
		}
	}

	payload, err := submission.BuildOfferPayload(draft, sess.PharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid expiry date")
	}
	if err := s.sender.Post(ctx, s.endpoint, payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to add offer")
	}
	return s.refetch(ctx, sess.PharmacyID)
}

func (s *service) Delete(ctx context.Context, sess session.Context, offerID int64) ([]expiry.OfferView, error) {
	if err := requirePharmacy(sess); err != nil {
		return nil, err
	}
	if offerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}
	if err := s.sender.Delete(ctx, s.endpoint, strconv.FormatInt(offerID, 10)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete offer")
	}
	return s.refetch(ctx, sess.PharmacyID)
}

func (s *service) refetch(ctx context.Context, pharmacyID int64) ([]expiry.OfferView, error) {
	offers, err := s.repo.ListByPharmacy(ctx, pharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load offers")
	}
	return s.classifier.Annotate(offers), nil
}

func requirePharmacy(sess session.Context) error {
	if !sess.HasPharmacy() {
		return pkgerrors.New(pkgerrors.CodeProfile, "complete your pharmacy profile first")
	}
	return nil
}
