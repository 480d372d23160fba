package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Visibility controls who can see a [Playlist].
type Visibility int

const (
	VisibilityHidden Visibility = iota
	VisibilityUnlisted
	VisibilityPublic
)

var visibilityNames = []string{"Hidden", "Unlisted", "Public"}

func (v Visibility) String() string {
	if v.Valid() {
		return visibilityNames[v]
	}
	return "Visibility(" + strconv.Itoa(int(v)) + ")"
}

// Valid reports whether v is one of the defined levels.
func (v Visibility) Valid() bool {
	return v >= VisibilityHidden && v <= VisibilityPublic
}

// ParseVisibility accepts a level number ("0".."2") or name, case-insensitively.
func ParseVisibility(s string) (Visibility, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && Visibility(n).Valid() {
		return Visibility(n), nil
	}
	for i, name := range visibilityNames {
		if strings.EqualFold(s, name) {
			return Visibility(i), nil
		}
	}
	return VisibilityHidden, fmt.Errorf("unknown visibility %q", s)
}

// Playlist is a named set of songs owned by a [Profile]. Deleting the owner deletes the playlist.
//
// Membership is managed by the playlist repository; a song appears in a playlist at most once.
type Playlist struct {
	record
	name       string
	ownerID    string
	visibility Visibility
}

// NewPlaylist creates an unsaved, hidden [Playlist].
func NewPlaylist(ownerID, name string) *Playlist {
	return &Playlist{record: newRecord(), ownerID: ownerID, name: name, visibility: VisibilityHidden}
}

func (p *Playlist) Name() string { return p.name }
func (p *Playlist) SetName(name string) { p.name = name }
func (p *Playlist) OwnerID() string { return p.ownerID }
func (p *Playlist) Visibility() Visibility { return p.visibility }
func (p *Playlist) SetVisibility(v Visibility) { p.visibility = v }

// Validate checks the playlist fields.
func (p *Playlist) Validate() error {
	v := &validator{}
	v.required("name", p.name).maxLen("name", p.name)
	v.required("owner", p.ownerID)
	v.check("visibility_level", !p.visibility.Valid(), fmt.Sprintf("Value %d is not a valid choice.", int(p.visibility)))
	return v.err()
}

// Prepare stamps the creation time when it is missing.
func (p *Playlist) Prepare(now time.Time) {
	if p.createdAt.IsZero() {
		p.createdAt = now
	}
	if p.updatedAt.IsZero() {
		p.updatedAt = now
	}
}
