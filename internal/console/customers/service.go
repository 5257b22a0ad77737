package customers

import (
	"context"
	"fmt"

	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

const apiPath = "/api/customers"

// Service wraps the upstream customer resource.
type Service struct {
	client *upstream.Client
}

// NewService constructs a Service.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// Source adapts the upstream list endpoint for the list controller.
func (s *Service) Source() listview.Source[Customer] {
	return func(ctx context.Context, q listview.Query) (listview.Result[Customer], error) {
		res, err := upstream.List[Customer](ctx, s.client, session.TokenFromContext(ctx), apiPath, upstream.ListQuery{
			Page:    q.Page,
			Size:    q.PageSize,
			Search:  q.Search,
			Filters: q.Filters,
		})
		if err != nil {
			return listview.Result[Customer]{}, err
		}
		return listview.Result[Customer]{Items: res.Items, Total: res.Page.Total}, nil
	}
}

// Create registers a customer.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Customer, error) {
	return upstream.Create[Customer](ctx, s.client, session.TokenFromContext(ctx), apiPath, req)
}

// Update patches a customer.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Customer, error) {
	return upstream.Update[Customer](ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d", apiPath, id), req)
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return upstream.Delete(ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d", apiPath, id))
}
