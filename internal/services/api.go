// API service for making raw HTTP requests to the backend
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/atlas/internal/client"
	"github.com/desertthunder/atlas/internal/shared"
)

// APIService performs raw requests through the authenticated client.
//
// Mutating requests still get CSRF handling; non-2xx responses are returned as an [APIResponse] rather than an error.
type APIService struct {
	api Requester
}

// NewAPIService creates a new API service instance.
func NewAPIService(api Requester) *APIService {
	return &APIService{api: api}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status is in the 2xx range.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPut, path, data)
}

// Patch performs a PATCH request with the given JSON data.
func (a *APIService) Patch(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPatch, path, data)
}

// Delete performs a DELETE request.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodDelete, path, nil)
}

// Do performs method against path with an optional JSON body.
func (a *APIService) Do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	opts := &client.Options{}
	if len(data) > 0 {
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: request body is not valid JSON", shared.ErrInvalidInput)
		}
		opts.Body = data
	}

	resp, err := a.api.Request(ctx, method, path, opts)

	var statusErr *client.StatusError
	switch {
	case errors.As(err, &statusErr):
		return newAPIResponse(statusErr.StatusCode, statusErr.Header, statusErr.Body), nil
	case err != nil:
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return newAPIResponse(resp.StatusCode, resp.Header, resp.Body), nil
}

func newAPIResponse(status int, header http.Header, body []byte) *APIResponse {
	r := &APIResponse{StatusCode: status, Headers: header, Body: body}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		r.IsJSON = true
		r.JSONData = jsonData
	}
	return r
}
