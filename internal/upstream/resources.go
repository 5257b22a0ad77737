package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Page mirrors the backend pagination envelope.
type Page struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// ListQuery carries the conventional list parameters every resource accepts.
type ListQuery struct {
	Page    int
	Size    int
	Search  string
	Filters map[string]string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for key, value := range q.Filters {
		if key != "" && value != "" {
			v.Set(key, value)
		}
	}
	return v
}

// ListResult holds one page of entities with server-authoritative totals.
type ListResult[T any] struct {
	Items []T
	Page  Page
}

// Some backend resources return {items, pagination:{...}}, older ones
// {items, total}. Both shapes are accepted.
type listEnvelope[T any] struct {
	Items      []T   `json:"items"`
	Pagination *Page `json:"pagination"`
	Total      *int  `json:"total"`
}

// List fetches one page of a resource collection.
func List[T any](ctx context.Context, c *Client, token, path string, q ListQuery) (ListResult[T], error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, q.values(), nil)
	if err != nil {
		return ListResult[T]{}, err
	}
	var env listEnvelope[T]
	if err := c.do(req, token, &env); err != nil {
		return ListResult[T]{}, err
	}
	result := ListResult[T]{Items: env.Items}
	switch {
	case env.Pagination != nil:
		result.Page = *env.Pagination
	case env.Total != nil:
		result.Page = Page{Page: q.Page, Size: q.Size, Total: *env.Total}
	default:
		result.Page = Page{Page: q.Page, Size: q.Size, Total: len(env.Items)}
	}
	if result.Page.Page <= 0 {
		result.Page.Page = 1
	}
	return result, nil
}

// Get fetches a single entity.
func Get[T any](ctx context.Context, c *Client, token, path string) (T, error) {
	var out T
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return out, err
	}
	err = c.do(req, token, &out)
	return out, err
}

// Create POSTs a new entity and returns the server-confirmed one.
func Create[T any](ctx context.Context, c *Client, token, path string, payload any) (T, error) {
	var out T
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return out, err
	}
	err = c.do(req, token, &out)
	return out, err
}

// Update PATCHes an entity and returns the server-confirmed one.
func Update[T any](ctx context.Context, c *Client, token, path string, payload any) (T, error) {
	var out T
	req, err := c.newRequest(ctx, http.MethodPatch, path, nil, payload)
	if err != nil {
		return out, err
	}
	err = c.do(req, token, &out)
	return out, err
}

// Delete removes an entity.
func Delete(ctx context.Context, c *Client, token, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	return c.do(req, token, nil)
}

// Action POSTs a domain action (e.g. stock adjust) against an entity and
// returns the server-confirmed entity.
func Action[T any](ctx context.Context, c *Client, token, path string, payload any) (T, error) {
	var out T
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return out, err
	}
	err = c.do(req, token, &out)
	return out, err
}
