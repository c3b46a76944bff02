package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/atlas/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodGet)
}

// APIPost makes a direct POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodPost)
}

// APIPut makes a direct PUT request to the backend
func (r *Runner) APIPut(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodPut)
}

// APIPatch makes a direct PATCH request to the backend
func (r *Runner) APIPatch(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodPatch)
}

// APIDelete makes a direct DELETE request to the backend
func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodDelete)
}

// apiCall sends method to the path argument and prints the body.
//
// JSON bodies are pretty-printed unless --json asks for compact output. Non-2xx statuses are errors carrying the body.
func (r *Runner) apiCall(ctx context.Context, cmd *cli.Command, method string) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var data []byte
	if cmd.IsSet("data") {
		data = []byte(cmd.String("data"))
	}

	r.logger.Info("API request", "method", method, "path", path)

	resp, err := r.api.Do(ctx, method, path, data)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("json"))
	}

	if len(resp.Body) == 0 {
		return r.writePlain("✓ %s %s: %d\n", method, path, resp.StatusCode)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
