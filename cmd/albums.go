package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/dottify/internal/formatter"
	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
	"github.com/desertthunder/dottify/internal/tasks"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

// AlbumCreate validates and stores a new album.
func (r *Runner) AlbumCreate(ctx context.Context, cmd *cli.Command) error {
	price, err := decimal.NewFromString(cmd.String("price"))
	if err != nil {
		return fmt.Errorf("%w: --price %q is not a number", shared.ErrInvalidFlag, cmd.String("price"))
	}

	released, err := models.ParseDate(cmd.String("release-date"))
	if err != nil {
		return fmt.Errorf("%w: --release-date: %v", shared.ErrInvalidFlag, err)
	}

	format, err := models.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: --format: %v", shared.ErrInvalidFlag, err)
	}

	svc, err := r.open()
	if err != nil {
		return err
	}

	album := models.NewAlbum(cmd.String("title"), cmd.String("artist"), price, released)
	album.SetFormat(format)
	album.SetCoverImage(cmd.String("cover"))

	if ref := cmd.String("account"); ref != "" {
		profile, err := resolveProfile(svc, ref)
		if err != nil {
			return fmt.Errorf("--account: %w", err)
		}
		album.SetArtistAccountID(profile.ID())
	}

	if err := svc.CreateAlbum(album); err != nil {
		return err
	}

	r.writePlain("%s created album %s\n", r.palette.OK("✓"), album.Title())
	r.writePlain("  id:   %s\n", album.ID())
	return r.writePlain("  slug: %s\n", album.Slug())
}

// AlbumRename changes an album title.
func (r *Runner) AlbumRename(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	album, err := svc.RenameAlbum(cmd.String("id"), cmd.String("title"))
	if err != nil {
		return err
	}
	return r.writePlain("%s renamed album to %s (slug: %s)\n", r.palette.OK("✓"), album.Title(), album.Slug())
}

// AlbumList lists albums matching the filter flags.
func (r *Runner) AlbumList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	format, err := models.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: --format: %v", shared.ErrInvalidFlag, err)
	}

	criteria := map[string]any{
		"artist_name":       cmd.String("artist"),
		"artist_account_id": cmd.String("account"),
	}
	if format != nil {
		criteria["format"] = string(*format)
	}

	albums, err := svc.Albums(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]albumView, 0, len(albums))
		for _, a := range albums {
			views = append(views, newAlbumView(a))
		}
		return r.writeJSON(views, true)
	}

	if len(albums) == 0 {
		return r.writePlain("%s\n", r.palette.Help("No albums found."))
	}

	r.writePlainHeader(fmt.Sprintf("Albums (%d)", len(albums)))
	for _, a := range albums {
		format := ""
		if a.Format() != nil {
			format = " [" + a.Format().Label() + "]"
		}
		r.writePlain("%s  %s - %s%s\n", a.ID(), a.ArtistName(), a.Title(), format)
	}
	return nil
}

// AlbumShow prints an album with its track listing, found by --id or --slug.
func (r *Runner) AlbumShow(ctx context.Context, cmd *cli.Command) error {
	id, slug := cmd.String("id"), cmd.String("slug")
	if id == "" && slug == "" {
		return fmt.Errorf("%w: either --id or --slug must be provided", shared.ErrMissingArgument)
	}

	svc, err := r.open()
	if err != nil {
		return err
	}

	var album *models.Album
	if id != "" {
		album, err = svc.Album(id)
	} else {
		album, err = svc.AlbumBySlug(slug)
	}
	if err != nil {
		return err
	}

	songs, err := svc.Songs(album.ID())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			albumView
			Songs []songView `json:"songs"`
		}{newAlbumView(album), newSongViews(songs)}, true)
	}

	data, err := formatter.ExportToMarkdown(formatter.AlbumListing(album, songs), "")
	if err != nil {
		return err
	}
	r.writePlainHeader(album.Title())
	return r.writePlain("%s", data)
}

// AlbumExport writes one album track listing to disk.
func (r *Runner) AlbumExport(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	listing, err := svc.AlbumListing(cmd.String("id"))
	if err != nil {
		return err
	}
	return r.writeExport(listing, cmd.String("format"), cmd.String("output"))
}

// AlbumExportAll writes many album listings into a directory with the export engine.
func (r *Runner) AlbumExportAll(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	albums, err := svc.Albums(map[string]any{"artist_name": cmd.String("artist")})
	if err != nil {
		return err
	}
	if len(albums) == 0 {
		return r.writePlain("%s\n", r.palette.Help("No albums to export."))
	}

	ids := make([]string, 0, len(albums))
	for _, a := range albums {
		ids = append(ids, a.ID())
	}

	progress := make(chan tasks.ProgressUpdate, len(ids)*3)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.engine.BulkExport(ctx, progress, ids, tasks.BulkExportOpts{
		Kind:       formatter.KindAlbum,
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainHeader("Export")
	r.writePlain("%s %d exported\n", r.palette.OK("✓"), result.SuccessfulExports)
	if result.FailedExports > 0 {
		r.writePlain("%s %d failed\n", r.palette.Err("✗"), result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  %s: %s\n", res.ID, res.Message)
			}
		}
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if path := cmd.String("metrics-file"); path != "" {
		if err := tasks.WriteMetrics(path); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		r.writePlain("Metrics:  %s\n", path)
	}
	return nil
}

// AlbumDelete removes an album and its songs.
func (r *Runner) AlbumDelete(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	if err := svc.DeleteAlbum(id); err != nil {
		return err
	}
	return r.writePlain("%s deleted album %s\n", r.palette.OK("✓"), id)
}

// writeExport writes a listing and prints the created files
func (r *Runner) writeExport(listing *formatter.Listing, format, output string) error {
	if output == "" {
		output = listing.ID
		if format == "txt" || format == "text" {
			output += "_tracks.txt"
		}
	}

	files, err := formatter.Write(listing, format, output, os.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	r.logger.Info("exported listing", "kind", listing.Kind, "id", listing.ID, "format", format)
	r.writePlain("%s exported %s\n", r.palette.OK("✓"), listing.Title)
	for _, f := range files {
		r.writePlain("  %s\n", f)
	}
	return nil
}
