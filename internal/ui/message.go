package ui

import (
	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/tasks"
)

// albumsFetchedMsg carries the album list loaded by [Model.Init].
type albumsFetchedMsg struct {
	albums []*models.Album
	err    error
}

// tracksFetchedMsg carries the songs of the selected album.
type tracksFetchedMsg struct {
	album *models.Album
	songs []*models.Song
	err   error
}

// progressUpdateMsg relays one [tasks.ProgressUpdate] from a running export.
type progressUpdateMsg tasks.ProgressUpdate

// exportCompleteMsg ends a running export.
type exportCompleteMsg struct {
	result *tasks.BulkExportResult
	err    error
}
