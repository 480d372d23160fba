package tasks

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/dottify/internal/formatter"
)

// ListingSource loads listings by ID. [catalog.Service] satisfies it.
type ListingSource interface {
	AlbumListing(id string) (*formatter.Listing, error)
	PlaylistListing(id string) (*formatter.Listing, error)
}

// ExportEngine exports listings loaded from a [ListingSource].
type ExportEngine struct {
	source ListingSource
	logger *log.Logger
}

// NewExportEngine creates a new ExportEngine reading from source.
func NewExportEngine(source ListingSource, logger *log.Logger) *ExportEngine {
	return &ExportEngine{source: source, logger: logger}
}

// load fetches one listing of the given kind
func (e *ExportEngine) load(kind formatter.Kind, id string) (*formatter.Listing, error) {
	if kind == formatter.KindPlaylist {
		return e.source.PlaylistListing(id)
	}
	return e.source.AlbumListing(id)
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
