package upstream

import (
	"context"
	"errors"
	"net/http"

	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
)

// HealthStatus distinguishes an offline/degraded backend from data errors.
type HealthStatus struct {
	Reachable bool   `json:"reachable"`
	Status    string `json:"status"`
}

// Health probes the backend connectivity endpoint. A transport failure is
// reported as unreachable, not as an error.
func Health(ctx context.Context, c *Client) (HealthStatus, error) {
	var body struct {
		Status string `json:"status"`
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/api/health", nil, nil)
	if err != nil {
		return HealthStatus{}, err
	}
	if err := c.do(req, "", &body); err != nil {
		if errors.Is(err, httpx.ErrUnavailable) {
			return HealthStatus{Reachable: false, Status: "offline"}, nil
		}
		return HealthStatus{}, err
	}
	status := body.Status
	if status == "" {
		status = "ok"
	}
	return HealthStatus{Reachable: true, Status: status}, nil
}
