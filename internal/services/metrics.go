package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/atlas/internal/client"
	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/shared"
	"golang.org/x/time/rate"
)

const beaconTimeout = 10 * time.Second

// MetricsService records telemetry events.
type MetricsService struct {
	api     Requester
	enabled bool
	limiter *rate.Limiter
	logger  *log.Logger

	mu   sync.RWMutex
	user UserSource

	wg sync.WaitGroup
}

// NewMetricsService creates a metrics service from cfg.
func NewMetricsService(api Requester, cfg shared.MetricsConfig, logger *log.Logger) *MetricsService {
	limit := rate.Limit(cfg.Rate)
	if cfg.Rate <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &MetricsService{
		api:     api,
		enabled: cfg.Enabled,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// SetUserSource sets where the signed-in user id comes from.
func (m *MetricsService) SetUserSource(src UserSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = src
}

// Enabled reports whether events are sent at all.
func (m *MetricsService) Enabled() bool { return m.enabled }

func (m *MetricsService) event(event models.EventType, md models.Metadata) models.MetricEvent {
	e := models.MetricEvent{Event: event, EventMetadata: md}

	m.mu.RLock()
	src := m.user
	m.mu.RUnlock()

	if src != nil {
		if id, ok := src(); ok && id != 0 {
			e.UserID = &id
		}
	}
	return e
}

// Save posts an event and waits for the backend to accept it.
func (m *MetricsService) Save(ctx context.Context, event models.EventType, md models.Metadata) error {
	if !m.enabled {
		return nil
	}

	return m.send(ctx, m.event(event, md))
}

func (m *MetricsService) send(ctx context.Context, e models.MetricEvent) error {
	opts := &client.Options{Header: http.Header{"X-Request-Id": {shared.GenerateID()}}}
	if _, err := m.api.Post(ctx, PathSaveMetric, e, opts); err != nil {
		m.logger.Error("failed to capture metric event", "event", e.Event, "trigger", e.EventMetadata.TriggerID, "error", err)
		return fmt.Errorf("%w: %v", shared.ErrMetricCapture, err)
	}
	return nil
}

// Beacon sends an event in the background.
//
// The user id is read before returning, so a beacon sent just before logout still carries it. Events over the rate
// budget are dropped. Failures are logged only.
func (m *MetricsService) Beacon(event models.EventType, md models.Metadata) {
	if !m.enabled {
		return
	}
	if !m.limiter.Allow() {
		m.logger.Debug("metric beacon dropped", "event", event, "trigger", md.TriggerID)
		return
	}

	e := m.event(event, md)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), beaconTimeout)
		defer cancel()

		_ = m.send(ctx, e)
	}()
}

// Wait blocks until every outstanding beacon has finished.
func (m *MetricsService) Wait() {
	m.wg.Wait()
}
