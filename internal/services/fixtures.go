package services

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/shared"
	gocache "github.com/patrickmn/go-cache"
)

const upcomingKey = "fixtures:upcoming"

// FixturesService reads upcoming fixtures from the backend.
type FixturesService struct {
	api    Requester
	cache  *gocache.Cache
	logger *log.Logger
}

// NewFixturesService creates a service caching responses for ttl. A non-positive ttl disables caching.
func NewFixturesService(api Requester, ttl time.Duration, logger *log.Logger) *FixturesService {
	s := &FixturesService{api: api, logger: logger}
	if ttl > 0 {
		s.cache = gocache.New(ttl, 2*ttl)
	}
	return s
}

// Upcoming returns the upcoming fixtures, from cache when fresh.
//
// A payload is accepted when its status is "success" or it carries a fixtures list. Fixtures is never nil on
// success.
func (s *FixturesService) Upcoming(ctx context.Context) (*models.FixtureResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(upcomingKey); ok {
			s.logger.Debug("fixtures cache hit")
			return cached.(*models.FixtureResponse), nil
		}
	}

	resp, err := s.api.Get(ctx, PathUpcomingFixtures, nil)
	if err != nil {
		s.logger.Error("failed to fetch upcoming fixtures", "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrFixturesUnavailable, err)
	}

	var payload models.FixtureResponse
	if err := resp.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFixturesUnavailable, err)
	}

	if payload.Status != "success" && payload.Fixtures == nil {
		msg := payload.Message
		if msg == "" {
			msg = "failed to fetch fixtures"
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrFixturesUnavailable, msg)
	}
	if payload.Fixtures == nil {
		payload.Fixtures = []models.Fixture{}
	}

	if s.cache != nil {
		s.cache.SetDefault(upcomingKey, &payload)
	}
	return &payload, nil
}

// Invalidate drops cached fixtures so the next call goes to the backend.
func (s *FixturesService) Invalidate() {
	if s.cache != nil {
		s.cache.Delete(upcomingKey)
	}
}
