package services

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/atlas/internal/client"
	"github.com/desertthunder/atlas/internal/shared"
	"github.com/stretchr/testify/require"
)

func discardLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func newClient(t *testing.T, srv *httptest.Server) *client.Client {
	t.Helper()

	c, err := client.New(client.Config{BaseURL: srv.URL, Timeout: 5 * time.Second, Logger: discardLogger()})
	require.NoError(t, err)
	return c
}
