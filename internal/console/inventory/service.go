package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/meridian-pos/meridian-console/internal/invalidate"
	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

const (
	apiPath = "/api/products"

	// SummaryKey is the stale-mark key stock mutations invalidate.
	SummaryKey = "inventory:summary"
	// ValuationKey is the stale-mark key for the valuation aggregate.
	ValuationKey = "inventory:valuation"

	summaryCacheKey = "console:cache:inventory:summary"
	summaryCacheTTL = 60 * time.Second
)

// Service wraps the upstream product resource and its aggregates.
type Service struct {
	client *upstream.Client
	cache  *redis.Client
	marks  *invalidate.Marks
	group  singleflight.Group
}

// NewService constructs a Service.
func NewService(client *upstream.Client, cache *redis.Client, marks *invalidate.Marks) *Service {
	return &Service{client: client, cache: cache, marks: marks}
}

// Source adapts the upstream list endpoint for the list controller.
func (s *Service) Source() listview.Source[Product] {
	return func(ctx context.Context, q listview.Query) (listview.Result[Product], error) {
		res, err := upstream.List[Product](ctx, s.client, session.TokenFromContext(ctx), apiPath, upstream.ListQuery{
			Page:    q.Page,
			Size:    q.PageSize,
			Search:  q.Search,
			Filters: q.Filters,
		})
		if err != nil {
			return listview.Result[Product]{}, err
		}
		return listview.Result[Product]{Items: res.Items, Total: res.Page.Total}, nil
	}
}

// Create adds a product to the catalog.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Product, error) {
	return upstream.Create[Product](ctx, s.client, session.TokenFromContext(ctx), apiPath, req)
}

// Update patches a product.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Product, error) {
	return upstream.Update[Product](ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d", apiPath, id), req)
}

// Delete retires a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return upstream.Delete(ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d", apiPath, id))
}

// Adjust shifts a product's stock by a signed delta.
func (s *Service) Adjust(ctx context.Context, id int64, req AdjustRequest) (Product, error) {
	return upstream.Action[Product](ctx, s.client, session.TokenFromContext(ctx), fmt.Sprintf("%s/%d/adjust", apiPath, id), req)
}

// Summary returns the catalog aggregate. The figure is cached in Redis and
// refetched when a stock mutation has marked it stale; concurrent refreshes
// collapse into a single upstream call.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	token := session.TokenFromContext(ctx)
	if !s.marks.IsStale(ctx, SummaryKey) {
		if raw, err := s.cache.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var cached Summary
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.group.Do(summaryCacheKey, func() (any, error) {
		// Detached so a caller that lost the singleflight race and went away
		// does not cancel the shared refresh.
		ctx := context.WithoutCancel(ctx)
		sum, err := upstream.Get[Summary](ctx, s.client, token, apiPath+"/summary")
		if err != nil {
			return Summary{}, err
		}
		if raw, err := json.Marshal(sum); err == nil {
			s.cache.Set(ctx, summaryCacheKey, raw, summaryCacheTTL)
		}
		s.marks.Clear(ctx, SummaryKey)
		return sum, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}

// Valuation returns inventory value by category. Backends without the
// endpoint get a figure derived from the summary, flagged Derived.
func (s *Service) Valuation(ctx context.Context) (Valuation, error) {
	val, err := upstream.Get[Valuation](ctx, s.client, session.TokenFromContext(ctx), apiPath+"/valuation")
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) && !errors.Is(err, httpx.ErrNotImplemented) {
		return Valuation{}, err
	}
	sum, err := s.Summary(ctx)
	if err != nil {
		return Valuation{}, err
	}
	return Valuation{TotalValue: sum.TotalValue, Derived: true}, nil
}

// Movements returns the stock ledger for a product. Backends without the
// endpoint get an empty log, flagged Derived.
func (s *Service) Movements(ctx context.Context, productID int64) (MovementLog, error) {
	res, err := upstream.List[Movement](ctx, s.client, session.TokenFromContext(ctx),
		fmt.Sprintf("%s/%d/movements", apiPath, productID), upstream.ListQuery{})
	if err == nil {
		return MovementLog{Items: res.Items}, nil
	}
	if errors.Is(err, httpx.ErrNotFound) || errors.Is(err, httpx.ErrNotImplemented) {
		return MovementLog{Items: []Movement{}, Derived: true}, nil
	}
	return MovementLog{}, err
}
