// Package lookup fetches reference records that signing flows link to:
// companies by id, orders and resumes by registration number.
package lookup

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	CompanyEndpoint = "/rest/api/v1/analytics/company/"
	OrderEndpoint   = "/rest/api/v1/order/reg/"
	ResumeEndpoint  = "/rest/api/v1/cv/reg/"
)

var ErrEmptyKey = errors.New("lookup key is empty")

type JSONGetter interface {
	GetJSON(ctx context.Context, path string, out any) error
}

type Record map[string]any

type Service struct {
	api JSONGetter
}

func New(api JSONGetter) *Service { return &Service{api: api} }

func (s *Service) Company(ctx context.Context, id string) (Record, error) {
	return s.get(ctx, "company", CompanyEndpoint, id)
}

func (s *Service) Order(ctx context.Context, regNumber string) (Record, error) {
	return s.get(ctx, "order", OrderEndpoint, regNumber)
}

func (s *Service) Resume(ctx context.Context, regNumber string) (Record, error) {
	return s.get(ctx, "resume", ResumeEndpoint, regNumber)
}

// Get dispatches on kind: company, order or resume.
func (s *Service) Get(ctx context.Context, kind, key string) (Record, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "company":
		return s.Company(ctx, key)
	case "order":
		return s.Order(ctx, key)
	case "resume", "cv":
		return s.Resume(ctx, key)
	default:
		return nil, errors.Errorf("unknown lookup kind %q", kind)
	}
}

func (s *Service) get(ctx context.Context, kind, endpoint, key string) (Record, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}
	var out Record
	if err := s.api.GetJSON(ctx, endpoint+url.PathEscape(key), &out); err != nil {
		return nil, errors.Wrapf(err, "%s lookup %s", kind, key)
	}
	return out, nil
}
