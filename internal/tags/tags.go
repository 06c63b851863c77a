package tags

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// Metadata is the embedded tag snapshot for one audio file. Zero track
// or disc numbers mean the tag is absent.
type Metadata struct {
	Title       string
	Album       string
	Artist      string
	AlbumArtist string
	Track       int
	Disc        int
	HasPicture  bool
}

// Read parses the embedded tags of the file at path. Files without any
// readable tag block return an empty Metadata and no error; callers fall
// back to filename-derived values.
func Read(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		// Untagged files are common and not an error condition.
		return Metadata{}, nil
	}

	track, _ := meta.Track()
	disc, _ := meta.Disc()
	return Metadata{
		Title:       strings.TrimSpace(meta.Title()),
		Album:       strings.TrimSpace(meta.Album()),
		Artist:      strings.TrimSpace(meta.Artist()),
		AlbumArtist: strings.TrimSpace(meta.AlbumArtist()),
		Track:       track,
		Disc:        disc,
		HasPicture:  meta.Picture() != nil,
	}, nil
}

// Score counts the non-empty descriptive fields, used to pick the most
// complete metadata source among candidate files.
func (m Metadata) Score() int {
	score := 0
	for _, value := range []string{m.Title, m.Album, m.Artist, m.AlbumArtist} {
		if value != "" {
			score++
		}
	}
	return score
}

// Picture is embedded cover art extracted from a tagged file.
type Picture struct {
	Data []byte
	// Ext is the file extension matching the picture MIME type, without
	// the dot ("jpg" or "png").
	Ext string
}

// ReadPicture extracts embedded cover art, returning nil when the file
// carries none.
func ReadPicture(path string) (*Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return nil, nil
	}
	pic := meta.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, nil
	}

	ext := "jpg"
	if strings.Contains(strings.ToLower(pic.MIMEType), "png") {
		ext = "png"
	}
	data := append([]byte(nil), pic.Data...)
	return &Picture{Data: data, Ext: ext}, nil
}
