package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/dottify/internal/slug"
	"github.com/shopspring/decimal"
)

// Format is the release format code of an [Album].
type Format string

const (
	FormatSingle      Format = "SNGL"
	FormatRemaster    Format = "RMST"
	FormatDeluxe      Format = "DLUX"
	FormatCompilation Format = "COMP"
	FormatLive        Format = "LIVE"
)

var formatLabels = map[Format]string{
	FormatSingle:      "Single",
	FormatRemaster:    "Remaster",
	FormatDeluxe:      "Deluxe Edition",
	FormatCompilation: "Compilation",
	FormatLive:        "Live Recording",
}

// Formats lists the format codes in display order.
func Formats() []Format {
	return []Format{FormatSingle, FormatRemaster, FormatDeluxe, FormatCompilation, FormatLive}
}

// Valid reports whether f is a known format code.
func (f Format) Valid() bool {
	_, ok := formatLabels[f]
	return ok
}

// Label returns the display name of the format, or the raw code when unknown.
func (f Format) Label() string {
	if label, ok := formatLabels[f]; ok {
		return label
	}
	return string(f)
}

// ParseFormat accepts a format code or label, case-insensitively. The empty string means no format.
func ParseFormat(s string) (*Format, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, f := range Formats() {
		if strings.EqualFold(s, string(f)) || strings.EqualFold(s, f.Label()) {
			return &f, nil
		}
	}
	return nil, fmt.Errorf("unknown album format %q", s)
}

var (
	minRetailPrice = decimal.Zero
	maxRetailPrice = decimal.RequireFromString("999.99")
)

// Album is a release in the catalog.
//
// The slug is derived from the title by [Album.Prepare] on every save; a value set with [Album.SetSlug] does not
// survive the next save.
type Album struct {
	record
	title           string
	artistName      string
	retailPrice     decimal.Decimal
	artistAccountID string
	releaseDate     *time.Time
	slug            string
	format          *Format
	coverImage      string
}

// NewAlbum creates an unsaved [Album] with no format, owner, or cover.
func NewAlbum(title, artistName string, retailPrice decimal.Decimal, releaseDate time.Time) *Album {
	date := DateOf(releaseDate)
	return &Album{
		record:      newRecord(),
		title:       title,
		artistName:  artistName,
		retailPrice: retailPrice,
		releaseDate: &date,
	}
}

func (a *Album) Title() string { return a.title }
func (a *Album) SetTitle(title string) { a.title = title }
func (a *Album) ArtistName() string { return a.artistName }
func (a *Album) SetArtistName(name string) { a.artistName = name }
func (a *Album) RetailPrice() decimal.Decimal { return a.retailPrice }
func (a *Album) SetRetailPrice(price decimal.Decimal) { a.retailPrice = price }
func (a *Album) Slug() string { return a.slug }
func (a *Album) SetSlug(s string) { a.slug = s }
func (a *Album) CoverImage() string { return a.coverImage }
func (a *Album) SetCoverImage(path string) { a.coverImage = path }

// ArtistAccountID is the owning [Profile], or "" when the album has none.
func (a *Album) ArtistAccountID() string { return a.artistAccountID }
func (a *Album) SetArtistAccountID(id string) { a.artistAccountID = id }

// ReleaseDate is nil only for albums built without one; such albums fail validation.
func (a *Album) ReleaseDate() *time.Time { return a.releaseDate }

func (a *Album) SetReleaseDate(date *time.Time) {
	if date == nil {
		a.releaseDate = nil
		return
	}
	d := DateOf(*date)
	a.releaseDate = &d
}

// Format is nil when the album has no format.
func (a *Album) Format() *Format { return a.format }
func (a *Album) SetFormat(f *Format) { a.format = f }

// FormatCode returns the format code, or "" when there is none.
func (a *Album) FormatCode() string {
	if a.format == nil {
		return ""
	}
	return string(*a.format)
}

// Validate checks the album fields against today's date.
func (a *Album) Validate() error {
	return a.ValidateAt(Today())
}

// ValidateAt checks the album fields, measuring the release horizon from today.
func (a *Album) ValidateAt(today time.Time) error {
	v := &validator{}
	v.required("title", a.title).maxLen("title", a.title)
	v.required("artist_name", a.artistName).maxLen("artist_name", a.artistName)
	v.run("retail_price", ValidateDecimal(a.retailPrice, minRetailPrice, maxRetailPrice, 2))
	v.check("release_date", a.releaseDate == nil, "This field cannot be null.")
	v.run("release_date", ValidateReleaseDate(a.releaseDate, today))
	if a.format != nil {
		v.check("format", !a.format.Valid(), fmt.Sprintf("Value %q is not a valid choice.", string(*a.format)))
	}
	v.maxLen("cover_image", a.coverImage)
	return v.err()
}

// Prepare derives the slug from the current title and applies defaultCover when the album has no cover.
//
// The slug is overwritten unconditionally.
func (a *Album) Prepare(defaultCover string) {
	a.slug = slug.From(a.title)
	if a.coverImage == "" {
		a.coverImage = defaultCover
	}
}
