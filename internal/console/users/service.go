package users

import (
	"context"
	"fmt"

	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

const apiPath = "/api/users"

// Service wraps the upstream user resource.
type Service struct {
	client *upstream.Client
}

// NewService constructs a Service.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// Source adapts the upstream list endpoint for the list controller.
func (s *Service) Source() listview.Source[User] {
	return func(ctx context.Context, q listview.Query) (listview.Result[User], error) {
		res, err := upstream.List[User](ctx, s.client, session.TokenFromContext(ctx), apiPath, upstream.ListQuery{
			Page:    q.Page,
			Size:    q.PageSize,
			Search:  q.Search,
			Filters: q.Filters,
		})
		if err != nil {
			return listview.Result[User]{}, err
		}
		return listview.Result[User]{Items: res.Items, Total: res.Page.Total}, nil
	}
}

// Create provisions a staff account.
func (s *Service) Create(ctx context.Context, req CreateRequest) (User, error) {
	return upstream.Create[User](ctx, s.client, session.TokenFromContext(ctx), apiPath, req)
}

// Update patches a staff account.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (User, error) {
	return upstream.Update[User](ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d", apiPath, id), req)
}

// Delete deactivates a staff account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return upstream.Delete(ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d", apiPath, id))
}
