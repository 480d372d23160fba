// Package models defines the catalog records and the rules that apply to them before they are written.
//
// Records:
//   - [User] : An authentication identity (username, email)
//   - [Profile] : The catalog-facing profile linked one-to-one to a [User]
//   - [Album] : A release with a derived slug, optional owning [Profile], and format code
//   - [Song] : A track on exactly one [Album], ordered by position
//   - [Playlist] : A named set of songs owned by a [Profile]
//   - [Rating] : A star value in half-star steps
//   - [Comment] : Free text
//
// Every record implements [Model]. Validation and derivation are explicit steps rather than side effects of saving:
//
//   - Validate checks field values and returns a [*ValidationError] listing every failing field.
//   - Prepare fills derived values ([Album.Prepare] recomputes the slug, [Playlist.Prepare] stamps the creation time).
//   - [Song.PrepareForInsert] assigns the next position from the positions of sibling songs.
//
// Checks that need stored rows, such as uniqueness, live in the repositories.
package models
