package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dottify/internal/formatter"
	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates a playlist owned by a profile.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	visibility, err := models.ParseVisibility(cmd.String("visibility"))
	if err != nil {
		return fmt.Errorf("%w: --visibility: %v", shared.ErrInvalidFlag, err)
	}

	svc, err := r.open()
	if err != nil {
		return err
	}

	owner, err := resolveProfile(svc, cmd.String("owner"))
	if err != nil {
		return fmt.Errorf("--owner: %w", err)
	}

	playlist := models.NewPlaylist(owner.ID(), cmd.String("name"))
	playlist.SetVisibility(visibility)

	if err := svc.CreatePlaylist(playlist); err != nil {
		return err
	}

	r.writePlain("%s created %s playlist %s\n", r.palette.OK("✓"), playlist.Visibility(), playlist.Name())
	return r.writePlain("  id: %s\n", playlist.ID())
}

// PlaylistAdd adds one or more songs to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	for _, songID := range cmd.StringSlice("song") {
		if err := svc.AddToPlaylist(id, songID); err != nil {
			return err
		}
		r.writePlain("%s added %s\n", r.palette.OK("✓"), songID)
	}
	return nil
}

// PlaylistRemove takes a song out of a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	songID := cmd.String("song")
	if err := svc.RemoveFromPlaylist(cmd.String("id"), songID); err != nil {
		return err
	}
	return r.writePlain("%s removed %s\n", r.palette.OK("✓"), songID)
}

// PlaylistShow prints a playlist and its songs.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	if cmd.Bool("json") {
		playlist, err := svc.Playlist(id)
		if err != nil {
			return err
		}
		songs, err := svc.PlaylistSongs(id)
		if err != nil {
			return err
		}
		return r.writeJSON(playlistView{
			ID:         playlist.ID(),
			Name:       playlist.Name(),
			OwnerID:    playlist.OwnerID(),
			Visibility: playlist.Visibility().String(),
			CreatedAt:  playlist.CreatedAt().Format(models.DateLayout),
			Songs:      newSongViews(songs),
		}, true)
	}

	listing, err := svc.PlaylistListing(id)
	if err != nil {
		return err
	}

	data, err := formatter.ExportToMarkdown(listing, "")
	if err != nil {
		return err
	}
	r.writePlainHeader(listing.Title)
	return r.writePlain("%s", data)
}

// PlaylistExport writes a playlist listing to disk.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	listing, err := svc.PlaylistListing(cmd.String("id"))
	if err != nil {
		return err
	}
	return r.writeExport(listing, cmd.String("format"), cmd.String("output"))
}
