package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/atlas/internal/shared"
)

// UserService manages the backend session of the signed-in user.
type UserService struct {
	api    Requester
	logger *log.Logger
}

func NewUserService(api Requester, logger *log.Logger) *UserService {
	return &UserService{api: api, logger: logger}
}

// LogOut asks the backend to end the session.
func (s *UserService) LogOut(ctx context.Context) error {
	if _, err := s.api.Post(ctx, PathLogout, nil, nil); err != nil {
		s.logger.Error("failed to log user out", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrLogoutFailed, err)
	}
	return nil
}
