package models

import "fmt"

// MinSongLength is the shortest song accepted, in seconds.
const MinSongLength = 10

// Song is a track on exactly one [Album]. Deleting the album deletes its songs.
//
// Position is the 1-based place of the song in the album's track listing. Zero means no position has been
// assigned yet; [Song.PrepareForInsert] assigns one when the song is first stored.
type Song struct {
	record
	albumID  string
	title    string
	length   int
	position int
}

// NewSong creates an unsaved [Song] without a position.
func NewSong(albumID, title string, length int) *Song {
	return &Song{record: newRecord(), albumID: albumID, title: title, length: length}
}

func (s *Song) AlbumID() string { return s.albumID }
func (s *Song) Title() string { return s.title }
func (s *Song) SetTitle(title string) { s.title = title }

// Length is the running time in seconds.
func (s *Song) Length() int { return s.length }
func (s *Song) SetLength(seconds int) { s.length = seconds }
func (s *Song) Position() int { return s.position }

// SetPosition supplies an explicit position. Repositories only honor it when the song is first inserted.
func (s *Song) SetPosition(position int) { s.position = position }

// Validate checks the song fields.
func (s *Song) Validate() error {
	v := &validator{}
	v.required("album", s.albumID)
	v.required("title", s.title).maxLen("title", s.title)
	v.check("length", s.length < MinSongLength, fmt.Sprintf("Ensure this value is greater than or equal to %d.", MinSongLength))
	v.check("position", s.position < 0, "Ensure this value is greater than or equal to 0.")
	return v.err()
}

// PrepareForInsert assigns the next position after siblingPositions, the positions already taken in the album.
//
// Nothing changes when the song is already stored or already has a position.
func (s *Song) PrepareForInsert(siblingPositions []int) {
	if s.Persisted() || s.position != 0 {
		return
	}
	s.position = NextPosition(siblingPositions)
}

// NextPosition returns one past the highest of positions, or 1 when there are none.
func NextPosition(positions []int) int {
	last := 0
	for _, p := range positions {
		if p > last {
			last = p
		}
	}
	return last + 1
}
