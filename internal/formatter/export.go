package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/shared"
)

// exportDocument mirrors the streaming service's playlist export.
type exportDocument struct {
	Playlists []struct {
		Name             string `json:"name"`
		LastModifiedDate string `json:"lastModifiedDate"`
		Items            []struct {
			AddedDate string `json:"addedDate"`
			Track     *struct {
				TrackName  string `json:"trackName"`
				ArtistName string `json:"artistName"`
				TrackURI   string `json:"trackUri"`
			} `json:"track"`
		} `json:"items"`
	} `json:"playlists"`
}

// ReadExport opens and parses the export at path.
//
// A missing file wraps [shared.ErrInputNotFound]; a document that is not valid JSON wraps [shared.ErrInvalidInput].
func ReadExport(path string) (*models.Export, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrInputNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", shared.ErrInvalidInput, path)
	}

	return ParseExport(f)
}

// ParseExport decodes an export document. Items without a track (episodes, local files) are skipped.
func ParseExport(r io.Reader) (*models.Export, error) {
	var doc exportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	export := &models.Export{Playlists: make([]models.SourcePlaylist, 0, len(doc.Playlists))}
	for _, pl := range doc.Playlists {
		playlist := models.SourcePlaylist{
			Name:           pl.Name,
			LastModifiedAt: pl.LastModifiedDate,
			Tracks:         make([]models.SourceTrack, 0, len(pl.Items)),
		}
		for _, item := range pl.Items {
			if item.Track == nil {
				continue
			}
			playlist.Tracks = append(playlist.Tracks, models.SourceTrack{
				ArtistName: item.Track.ArtistName,
				TrackName:  item.Track.TrackName,
				SourceURI:  item.Track.TrackURI,
				AddedAt:    item.AddedDate,
			})
		}
		export.Playlists = append(export.Playlists, playlist)
	}
	return export, nil
}
