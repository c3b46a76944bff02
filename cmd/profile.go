package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/atlas/internal/shared"
	"github.com/urfave/cli/v3"
)

// Profile shows the signed-in user read from the user_info cookie.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	st := r.session.State()
	if !st.IsAuthenticated || st.User == nil {
		if st.Error != "" {
			return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, st.Error)
		}
		return fmt.Errorf("%w: run 'atlas auth login'", shared.ErrNotAuthenticated)
	}

	u := st.User
	if cmd.Bool("json") {
		return r.writeJSON(u, true)
	}

	r.writePlainHeader(fmt.Sprintf("(%s) %s", u.Initial(), u.DisplayName()))
	r.writePlain("ID:      %d\n", u.ID)
	if u.Email != "" {
		r.writePlain("Email:   %s\n", u.Email)
	}
	if u.FirstName != "" || u.LastName != "" {
		r.writePlain("Name:    %s %s\n", u.FirstName, u.LastName)
	}
	if u.ProfilePicture != nil && *u.ProfilePicture != "" {
		r.writePlain("Picture: %s\n", *u.ProfilePicture)
	}
	return nil
}
