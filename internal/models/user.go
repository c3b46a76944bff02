package models

import "strings"

// User is the signed-in user as serialized into the user_info cookie.
type User struct {
	ID             int64   `json:"id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	ProfilePicture *string `json:"profilePicture"`
}

// DisplayName prefers the full name, then first and last names, then the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Email
}

// Initial is the upper-cased first letter of the display name, or "?".
func (u User) Initial() string {
	for _, r := range u.DisplayName() {
		return strings.ToUpper(string(r))
	}
	return "?"
}
