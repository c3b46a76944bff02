package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/atlas/internal/models"
)

// UserInfoCookie is the cookie the backend stores the signed-in user in.
const UserInfoCookie = "user_info"

// JWTCookie is the HttpOnly session credential.
const JWTCookie = "jwt"

var ErrNoUserData = errors.New("no user data found")

// ParseUserInfo decodes a raw user_info cookie value.
//
// The value is percent-decoded JSON. Name fields may still carry "+" for spaces from form encoding on the backend.
func ParseUserInfo(raw string) (*models.User, error) {
	if raw == "" {
		return nil, ErrNoUserData
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	var u models.User
	if err := json.Unmarshal([]byte(decoded), &u); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}

	u.Name = strings.ReplaceAll(u.Name, "+", " ")
	u.FirstName = strings.ReplaceAll(u.FirstName, "+", " ")
	u.LastName = strings.ReplaceAll(u.LastName, "+", " ")

	return &u, nil
}
