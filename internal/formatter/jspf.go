package formatter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/shared"
)

// Extension keys MusicBrainz uses in JSPF documents.
const (
	PlaylistExtensionKey = "https://musicbrainz.org/doc/jspf#playlist"
	TrackExtensionKey    = "https://musicbrainz.org/doc/jspf#track"
)

// DefaultExtension is the output file extension, without the dot.
const DefaultExtension = "jspf"

// JSPFDocument is the top-level JSPF object.
type JSPFDocument struct {
	Playlist JSPFPlaylist `json:"playlist"`
}

type JSPFPlaylist struct {
	Title     string                       `json:"title"`
	Date      string                       `json:"date"`
	Extension map[string]PlaylistExtension `json:"extension"`
	Track     []JSPFTrack                  `json:"track"`
}

type PlaylistExtension struct {
	Public         bool   `json:"public"`
	LastModifiedAt string `json:"last_modified_at"`
}

type JSPFTrack struct {
	Title      string                    `json:"title"`
	Creator    string                    `json:"creator"`
	Identifier string                    `json:"identifier"`
	Extension  map[string]TrackExtension `json:"extension"`
}

type TrackExtension struct {
	AddedAt string `json:"added_at"`
}

// ToJSPF converts an output playlist into a JSPF document. The track list is never null.
func ToJSPF(pl *models.OutputPlaylist) *JSPFDocument {
	tracks := make([]JSPFTrack, 0, len(pl.Tracks))
	for _, tr := range pl.Tracks {
		tracks = append(tracks, JSPFTrack{
			Title:      tr.Title,
			Creator:    tr.Creator,
			Identifier: tr.Identifier,
			Extension:  map[string]TrackExtension{TrackExtensionKey: {AddedAt: tr.AddedAt}},
		})
	}

	return &JSPFDocument{Playlist: JSPFPlaylist{
		Title: pl.Title,
		Date:  pl.LastModifiedAt,
		Extension: map[string]PlaylistExtension{
			PlaylistExtensionKey: {Public: pl.IsPublic, LastModifiedAt: pl.LastModifiedAt},
		},
		Track: tracks,
	}}
}

// MarshalJSPF encodes pl as indented JSPF.
func MarshalJSPF(pl *models.OutputPlaylist) ([]byte, error) {
	data, err := json.MarshalIndent(ToJSPF(pl), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSPF: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSPF writes pl to path. Errors wrap [shared.ErrWriteOutput].
func WriteJSPF(pl *models.OutputPlaylist, path string) error {
	data, err := MarshalJSPF(pl)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrWriteOutput, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrWriteOutput, err)
	}
	return nil
}
