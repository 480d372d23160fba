package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dottify/internal/formatter"
	"github.com/desertthunder/dottify/internal/models"
	"github.com/urfave/cli/v3"
)

// SongAdd adds a song to an album. Without --position it takes the next free track number.
func (r *Runner) SongAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	song := models.NewSong(cmd.String("album"), cmd.String("title"), int(cmd.Int("length")))
	if position := int(cmd.Int("position")); position > 0 {
		song.SetPosition(position)
	}

	if err := svc.AddSong(song); err != nil {
		return err
	}

	r.writePlain("%s added %s as track %d\n", r.palette.OK("✓"), song.Title(), song.Position())
	return r.writePlain("  id: %s\n", song.ID())
}

// SongList prints the songs of an album in track order.
func (r *Runner) SongList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	albumID := cmd.String("album")
	if _, err := svc.Album(albumID); err != nil {
		return err
	}

	songs, err := svc.Songs(albumID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(newSongViews(songs), true)
	}

	if len(songs) == 0 {
		return r.writePlain("%s\n", r.palette.Help("No songs found."))
	}

	r.writePlainHeader(fmt.Sprintf("Songs (%d)", len(songs)))
	for _, s := range songs {
		r.writePlain("%2d. %s [%s]  %s\n", s.Position(), s.Title(), formatter.FormatDuration(s.Length()), r.palette.Help(s.ID()))
	}
	return nil
}
