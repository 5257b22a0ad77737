package sales

import (
	"context"
	"fmt"

	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

const apiPath = "/api/sales"

// Service wraps the upstream sales resource.
type Service struct {
	client *upstream.Client
}

// NewService constructs a Service.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// Source adapts the upstream list endpoint for the list controller.
func (s *Service) Source() listview.Source[Sale] {
	return func(ctx context.Context, q listview.Query) (listview.Result[Sale], error) {
		res, err := upstream.List[Sale](ctx, s.client, session.TokenFromContext(ctx), apiPath, upstream.ListQuery{
			Page:    q.Page,
			Size:    q.PageSize,
			Search:  q.Search,
			Filters: q.Filters,
		})
		if err != nil {
			return listview.Result[Sale]{}, err
		}
		return listview.Result[Sale]{Items: res.Items, Total: res.Page.Total}, nil
	}
}

// Detail fetches a full sale record including its lines.
func (s *Service) Detail(ctx context.Context, id int64) (Detail, error) {
	return upstream.Get[Detail](ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d", apiPath, id))
}

// Void cancels a completed sale on the server.
func (s *Service) Void(ctx context.Context, id int64, reason string) (Sale, error) {
	return upstream.Action[Sale](ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d/void", apiPath, id), voidRequest{Reason: reason})
}
