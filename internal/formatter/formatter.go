// package formatter exports album track listings and playlists to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/desertthunder/dottify/internal/models"
)

// Kind names what a [Listing] was built from
type Kind string

const (
	KindAlbum    Kind = "album"
	KindPlaylist Kind = "playlist"
)

// Track is one exported song
type Track struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Length   int    `json:"length"`
	Album    string `json:"album,omitempty"`
}

// Listing is an ordered set of tracks with the metadata of the album or playlist they came from.
type Listing struct {
	ID         string            `json:"id"`
	Kind       Kind              `json:"kind"`
	Title      string            `json:"title"`
	Subtitle   string            `json:"subtitle,omitempty"` // artist for albums, owner for playlists
	CoverImage string            `json:"cover_image,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	Tracks     []Track           `json:"tracks"`
}

// AlbumListing builds the track listing of an album. songs are expected in track order.
func AlbumListing(album *models.Album, songs []*models.Song) *Listing {
	details := map[string]string{
		"Price": album.RetailPrice().StringFixed(2),
	}
	if album.ReleaseDate() != nil {
		details["Released"] = album.ReleaseDate().Format(models.DateLayout)
	}
	if album.Format() != nil {
		details["Format"] = album.Format().Label()
	}

	listing := &Listing{
		ID:         album.ID(),
		Kind:       KindAlbum,
		Title:      album.Title(),
		Subtitle:   album.ArtistName(),
		CoverImage: album.CoverImage(),
		Details:    details,
		Tracks:     make([]Track, 0, len(songs)),
	}
	for _, s := range songs {
		listing.Tracks = append(listing.Tracks, Track{Position: s.Position(), Title: s.Title(), Length: s.Length()})
	}
	return listing
}

// PlaylistListing builds the listing of a playlist. albumTitles maps album IDs to titles and may be incomplete.
//
// Playlist songs are numbered in the order given rather than by their album position.
func PlaylistListing(playlist *models.Playlist, owner string, songs []*models.Song, albumTitles map[string]string) *Listing {
	listing := &Listing{
		ID:       playlist.ID(),
		Kind:     KindPlaylist,
		Title:    playlist.Name(),
		Subtitle: owner,
		Details: map[string]string{
			"Visibility": playlist.Visibility().String(),
			"Created":    playlist.CreatedAt().Format(models.DateLayout),
		},
		Tracks: make([]Track, 0, len(songs)),
	}
	for i, s := range songs {
		listing.Tracks = append(listing.Tracks, Track{
			Position: i + 1,
			Title:    s.Title(),
			Length:   s.Length(),
			Album:    albumTitles[s.AlbumID()],
		})
	}
	return listing
}

// FormatDuration renders seconds as m:ss
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// TotalLength sums the track lengths of l in seconds
func (l *Listing) TotalLength() int {
	total := 0
	for _, t := range l.Tracks {
		total += t.Length
	}
	return total
}

// ExportToCSV converts a Listing to CSV format with columns: Position, Title, Length, Album
func ExportToCSV(l *Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Length", "Album"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range l.Tracks {
		album := track.Album
		if l.Kind == KindAlbum {
			album = l.Title
		}
		record := []string{
			strconv.Itoa(track.Position),
			track.Title,
			strconv.Itoa(track.Length),
			album,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Listing to Markdown format with optional cover image
func ExportToMarkdown(l *Listing, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", l.Title)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if l.Subtitle != "" {
		label := "Artist"
		if l.Kind == KindPlaylist {
			label = "Owner"
		}
		fmt.Fprintf(&buf, "**%s**: %s\n", label, l.Subtitle)
	}

	for _, key := range sortedKeys(l.Details) {
		fmt.Fprintf(&buf, "**%s**: %s\n", key, l.Details[key])
	}

	fmt.Fprintf(&buf, "**Tracks**: %d (%s)\n\n", len(l.Tracks), FormatDuration(l.TotalLength()))

	buf.WriteString("## Tracks\n\n")
	for _, track := range l.Tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s%s [%s]\n", track.Position, track.Title, albumPart, FormatDuration(track.Length))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Listing to plain text format
func ExportToText(l *Listing) ([]byte, error) {
	var buf bytes.Buffer

	if l.Kind == KindAlbum {
		fmt.Fprintf(&buf, "Album: %s\n", l.Title)
		if l.Subtitle != "" {
			fmt.Fprintf(&buf, "Artist: %s\n", l.Subtitle)
		}
	} else {
		fmt.Fprintf(&buf, "Playlist: %s\n", l.Title)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(l.Tracks))

	for _, track := range l.Tracks {
		fmt.Fprintf(&buf, "%d. %s\n", track.Position, track.Title)
	}

	return buf.Bytes(), nil
}

// listingMetadata is the JSON form of a [Listing] without its tracks
type listingMetadata struct {
	ID          string            `json:"id"`
	Kind        Kind              `json:"kind"`
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle,omitempty"`
	CoverImage  string            `json:"cover_image,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
	TrackCount  int               `json:"track_count"`
	TotalLength int               `json:"total_length"`
}

// ToMetadataJSON generates a JSON representation of listing metadata (without tracks)
func ToMetadataJSON(l *Listing) ([]byte, error) {
	return json.MarshalIndent(listingMetadata{
		ID:          l.ID,
		Kind:        l.Kind,
		Title:       l.Title,
		Subtitle:    l.Subtitle,
		CoverImage:  l.CoverImage,
		Details:     l.Details,
		TrackCount:  len(l.Tracks),
		TotalLength: l.TotalLength(),
	}, "", "  ")
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a listing to CSV format with accompanying metadata JSON file.
//
// Defaults to the listing ID as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(l *Listing, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = l.ID
	}

	csvData, err := ExportToCSV(l)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(l)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a listing to Markdown format in a dedicated directory.
//
// Directory name defaults to the listing ID.
// When the listing's cover image is a readable local file it is copied next to the README; a missing cover is
// reported to warn and otherwise ignored.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover{ext}
func WriteMarkdownExport(l *Listing, outputDir string, warn io.Writer) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = l.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if l.CoverImage != "" {
		name := "cover" + filepath.Ext(l.CoverImage)
		coverPath := filepath.Join(outputDir, name)
		if err := copyFile(l.CoverImage, coverPath); err != nil {
			if warn != nil {
				fmt.Fprintf(warn, "Warning: failed to copy cover image: %v\n", err)
			}
		} else {
			coverImageFilename = name
			result.CoverImage = coverPath
			result.Files = append(result.Files, coverPath)
		}
	}

	mdData, err := ExportToMarkdown(l, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a listing to plain text format.
//
// Defaults to {listing.ID}_tracks.txt as the filename.
func WriteTextExport(l *Listing, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_tracks.txt", l.ID)
	}

	textData, err := ExportToText(l)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Formats lists the export formats accepted by [Write]
var Formats = []string{"csv", "markdown", "txt"}

// Write exports l in the named format under base and returns the files it created.
//
// base is a path prefix for csv, a directory for markdown, and a file path for txt; "" uses the listing ID.
func Write(l *Listing, format, base string, warn io.Writer) ([]string, error) {
	switch format {
	case "csv":
		res, err := WriteCSVExport(l, base)
		if err != nil {
			return nil, err
		}
		return []string{res.TracksFile, res.MetadataFile}, nil
	case "markdown", "md":
		res, err := WriteMarkdownExport(l, base, warn)
		if err != nil {
			return nil, err
		}
		return res.Files, nil
	case "txt", "text":
		path, err := WriteTextExport(l, base)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (expected one of %v)", format, Formats)
	}
}
