package marketplace

import (
	"context"
	"fmt"

	"github.com/angelmondragon/deadstock-backend/internal/expiry"
	"github.com/angelmondragon/deadstock-backend/internal/proximity"
	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/internal/viewstate"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

// OfferSource lists every offer on the marketplace, newest first.
type OfferSource interface {
	ListAll(ctx context.Context) ([]records.Offer, error)
}

// Result is one rendered marketplace page.
type Result struct {
	Offers     []expiry.OfferView `json:"offers"`
	Total      int                `json:"total"`
	Ranked     int                `json:"ranked"`
	ViewerCity string             `json:"viewer_city"`
	Criteria   Criteria           `json:"criteria"`
	// Stale is set when a newer load for the same session committed first.
	Stale bool `json:"stale"`
}

// Service browses the marketplace for a session.
type Service interface {
	Browse(ctx context.Context, sess session.Context, c Criteria) (Result, error)
	Refilter(ctx context.Context, sess session.Context, c Criteria) (Result, error)
	Forget(sess session.Context)
}

type ServiceParams struct {
	Offers     OfferSource
	Classifier expiry.Classifier
	Views      *viewstate.Views[[]records.Offer]
}

type service struct {
	offers     OfferSource
	classifier expiry.Classifier
	views      *viewstate.Views[[]records.Offer]
}

func NewService(params ServiceParams) (Service, error) {
	if params.Offers == nil {
		return nil, fmt.Errorf("offer source required")
	}
	views := params.Views
	if views == nil {
		views = viewstate.NewViews[[]records.Offer]()
	}
	return &service{offers: params.Offers, classifier: params.Classifier, views: views}, nil
}

// Browse fetches all offers, ranks them by the viewer's city and commits the
// ranked snapshot before filtering. A load overtaken by a newer one for the same
// session is marked stale and reports the newer snapshot when one has committed,
// its own otherwise.
func (s *service) Browse(ctx context.Context, sess session.Context, c Criteria) (Result, error) {
	key := viewKey(sess)
	ticket := s.views.Begin(key)

	offers, err := s.offers.ListAll(ctx)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load marketplace")
	}
	ranked := proximity.Rank(offers, sess.City())

	stale := !s.views.Commit(ticket, ranked)
	if stale {
		if latest, seq, ok := s.views.Latest(key); ok && seq > ticket.Seq {
			ranked = latest
		}
	}
	res := s.render(sess, ranked, c)
	res.Stale = stale
	return res, nil
}

// Refilter applies c to the committed snapshot without fetching. It falls back
// to Browse when nothing has been committed for the session yet.
func (s *service) Refilter(ctx context.Context, sess session.Context, c Criteria) (Result, error) {
	ranked, ok := s.views.Get(viewKey(sess))
	if !ok {
		return s.Browse(ctx, sess, c)
	}
	return s.render(sess, ranked, c), nil
}

func (s *service) Forget(sess session.Context) {
	s.views.Forget(viewKey(sess))
}

func (s *service) render(sess session.Context, ranked []records.Offer, c Criteria) Result {
	filtered := Filter(ranked, c)
	return Result{
		Offers:     s.classifier.Annotate(filtered),
		Total:      len(filtered),
		Ranked:     len(ranked),
		ViewerCity: sess.City(),
		Criteria:   c,
	}
}

func viewKey(sess session.Context) string {
	return sess.ID + ":marketplace"
}
