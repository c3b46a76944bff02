// package services defines the backend API operations built on the authenticated client
//
// Fixtures, metrics, user session and raw requests
package services

import (
	"context"

	"github.com/desertthunder/atlas/internal/client"
)

// Backend endpoints.
const (
	PathUpcomingFixtures = "/api/fixtures/upcoming"
	PathSaveMetric       = "/api/save-metric"
	PathLogout           = "/api/logout"
)

// Requester is the subset of [client.Client] the services depend on.
type Requester interface {
	Request(ctx context.Context, method, path string, opts *client.Options) (*client.Response, error)
	Get(ctx context.Context, path string, opts *client.Options) (*client.Response, error)
	Post(ctx context.Context, path string, body any, opts *client.Options) (*client.Response, error)
}

// UserSource reports the id of the signed-in user, if any.
type UserSource func() (int64, bool)

var _ Requester = (*client.Client)(nil)
