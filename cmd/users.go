package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// UserCreate registers a user and its profile.
func (r *Runner) UserCreate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	user, profile, err := svc.RegisterUser(cmd.String("username"), cmd.String("email"), cmd.String("display-name"))
	if err != nil {
		return err
	}

	r.writePlain("%s created user %s\n", r.palette.OK("✓"), user.Username())
	r.writePlain("  user:    %s\n", user.ID())
	return r.writePlain("  profile: %s\n", profile.ID())
}

// UserDelete removes a user with its profile and playlists.
func (r *Runner) UserDelete(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	if err := svc.DeleteUser(id); err != nil {
		return err
	}
	return r.writePlain("%s deleted user %s\n", r.palette.OK("✓"), id)
}
