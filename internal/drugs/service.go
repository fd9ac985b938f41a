package drugs

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/deadstock-backend/internal/records"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/pagination"
)

const (
	DefaultMinQueryLen = 3
	DefaultLimit       = 10
)

type Searcher interface {
	Search(ctx context.Context, term string, limit int) ([]records.Drug, error)
	FindByID(ctx context.Context, id int64) (*records.Drug, error)
}

type Service interface {
	Search(ctx context.Context, query string, limit int) ([]records.Drug, error)
	Get(ctx context.Context, id int64) (*records.Drug, error)
}

type ServiceParams struct {
	Repo         Searcher
	MinQueryLen  int
	DefaultLimit int
}

type service struct {
	repo         Searcher
	minQueryLen  int
	defaultLimit int
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("drug repository required")
	}
	minLen := params.MinQueryLen
	if minLen <= 0 {
		minLen = DefaultMinQueryLen
	}
	limit := params.DefaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &service{repo: params.Repo, minQueryLen: minLen, defaultLimit: limit}, nil
}

// Search returns catalog matches for query. Queries shorter than the minimum
// length return an empty list without touching the store.
func (s *service) Search(ctx context.Context, query string, limit int) ([]records.Drug, error) {
	term := strings.TrimSpace(query)
	if utf8.RuneCountInString(term) < s.minQueryLen {
		return []records.Drug{}, nil
	}
	drugs, err := s.repo.Search(ctx, term, pagination.NormalizeLimitWith(limit, s.defaultLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to search drugs")
	}
	return drugs, nil
}

// Get returns the catalog entry for id, or nil when it does not exist.
func (s *service) Get(ctx context.Context, id int64) (*records.Drug, error) {
	if id <= 0 {
		return nil, nil
	}
	drug, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load drug")
	}
	return drug, nil
}
