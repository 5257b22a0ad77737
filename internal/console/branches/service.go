package branches

import (
	"context"
	"fmt"

	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

const apiPath = "/api/branches"

// Service wraps the upstream branch resource.
type Service struct {
	client *upstream.Client
}

// NewService constructs a Service.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// Source adapts the upstream list endpoint for the list controller. The
// bearer token travels in the context so debounced and polled fetches carry
// the session that scheduled them.
func (s *Service) Source() listview.Source[Branch] {
	return func(ctx context.Context, q listview.Query) (listview.Result[Branch], error) {
		res, err := upstream.List[Branch](ctx, s.client, session.TokenFromContext(ctx), apiPath, upstream.ListQuery{
			Page:    q.Page,
			Size:    q.PageSize,
			Search:  q.Search,
			Filters: q.Filters,
		})
		if err != nil {
			return listview.Result[Branch]{}, err
		}
		return listview.Result[Branch]{Items: res.Items, Total: res.Page.Total}, nil
	}
}

// Create posts a new branch.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Branch, error) {
	return upstream.Create[Branch](ctx, s.client, session.TokenFromContext(ctx), apiPath, req)
}

// Update patches a branch.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Branch, error) {
	return upstream.Update[Branch](ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d", apiPath, id), req)
}

// Delete removes a branch.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return upstream.Delete(ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d", apiPath, id))
}
