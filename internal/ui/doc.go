// Package ui implements an interactive catalog browser using bubbletea's Elm architecture.
//
// The browser walks through a multi-view workflow:
//  1. [AlbumListView] : Browse and filter albums
//  2. [TrackListView] : Preview an album's songs in track order
//  3. [ConfirmView] : Confirm exporting the album
//  4. [ExportView] : Monitor progress updates from the export engine
//  5. [ResultView] : Show the written files or the failure
//
// [Model] implements the standard Init/Update/View pattern. Catalog reads and exports run as [tea.Cmd] values,
// and export progress flows through a channel read one update at a time.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help from
// charmbracelet/bubbles/help.
package ui
