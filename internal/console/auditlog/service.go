package auditlog

import (
	"context"

	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

const apiPath = "/api/audit-log"

// Service wraps the upstream audit trail resource.
type Service struct {
	client *upstream.Client
}

// NewService constructs a Service.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// Source adapts the upstream list endpoint for the list controller.
func (s *Service) Source() listview.Source[Entry] {
	return func(ctx context.Context, q listview.Query) (listview.Result[Entry], error) {
		res, err := upstream.List[Entry](ctx, s.client, session.TokenFromContext(ctx), apiPath, upstream.ListQuery{
			Page:    q.Page,
			Size:    q.PageSize,
			Search:  q.Search,
			Filters: q.Filters,
		})
		if err != nil {
			return listview.Result[Entry]{}, err
		}
		return listview.Result[Entry]{Items: res.Items, Total: res.Page.Total}, nil
	}
}
