// package models defines the data model for the export → JSPF conversion
package models

import "fmt"

// RecordingURLPrefix is the canonical URI prefix for a MusicBrainz recording.
const RecordingURLPrefix = "https://musicbrainz.org/recording/"

// SourceTrack is one entry of a playlist in the streaming export.
type SourceTrack struct {
	ArtistName string
	TrackName  string
	SourceURI  string
	AddedAt    string
}

func (t SourceTrack) String() string {
	return fmt.Sprintf("%s - %s", t.ArtistName, t.TrackName)
}

// SourcePlaylist is a playlist read from the export. Never mutated after parsing.
type SourcePlaylist struct {
	Name           string
	LastModifiedAt string
	Tracks         []SourceTrack
}

// Export is the whole parsed input document.
type Export struct {
	Playlists []SourcePlaylist
}

// TrackCount returns the number of tracks across all playlists.
func (e *Export) TrackCount() int {
	n := 0
	for _, pl := range e.Playlists {
		n += len(pl.Tracks)
	}
	return n
}

// RecordingCandidate is a recording returned by the external database.
//
// Fields may be empty when the response omitted them; the match selector decides which are required.
type RecordingCandidate struct {
	RecordingID       string
	Title             string
	PrimaryArtistName string
}

// Identifier builds the canonical recording URI.
func (c RecordingCandidate) Identifier() string {
	return RecordingURLPrefix + c.RecordingID
}

// Outcome is the result of resolving one [SourceTrack].
//
// The zero value is Unresolved.
type Outcome struct {
	Resolved  bool
	Exact     bool
	Candidate RecordingCandidate
	Strategy  string // Name of the strategy that produced the outcome
}

// Unresolved returns an outcome with no candidate.
func Unresolved() Outcome {
	return Outcome{}
}

// ResolvedWith returns a resolved outcome for c.
func ResolvedWith(c RecordingCandidate, exact bool) Outcome {
	return Outcome{Resolved: true, Exact: exact, Candidate: c}
}

// OutputTrack is a track in the output playlist.
type OutputTrack struct {
	Title      string
	Creator    string
	Identifier string
	AddedAt    string
}

// NewOutputTrack derives an [OutputTrack] from a source track and its resolved outcome.
//
// Inexact outcomes take title and creator from the candidate so the output reflects what the database records.
// Returns false when the outcome is unresolved.
func NewOutputTrack(src SourceTrack, o Outcome) (OutputTrack, bool) {
	if !o.Resolved {
		return OutputTrack{}, false
	}

	track := OutputTrack{
		Title:      src.TrackName,
		Creator:    src.ArtistName,
		Identifier: o.Candidate.Identifier(),
		AddedAt:    src.AddedAt,
	}
	if !o.Exact {
		track.Title = o.Candidate.Title
		track.Creator = o.Candidate.PrimaryArtistName
	}
	return track, true
}

// OutputPlaylist is the playlist written to one output document.
type OutputPlaylist struct {
	Title          string
	LastModifiedAt string
	IsPublic       bool
	Tracks         []OutputTrack
}

// NewOutputPlaylist copies playlist-level metadata verbatim; output playlists are never public.
func NewOutputPlaylist(src SourcePlaylist, tracks []OutputTrack) *OutputPlaylist {
	if tracks == nil {
		tracks = []OutputTrack{}
	}
	return &OutputPlaylist{
		Title:          src.Name,
		LastModifiedAt: src.LastModifiedAt,
		IsPublic:       false,
		Tracks:         tracks,
	}
}

// Failure reasons recorded for dropped tracks.
const (
	ReasonNoMatch = "no_match"
	ReasonError   = "error"
)

// TrackFailure records a dropped track.
type TrackFailure struct {
	Track  SourceTrack
	Reason string
	Err    error
}

// PlaylistReport summarises the conversion of one playlist.
type PlaylistReport struct {
	Name     string
	Path     string
	Total    int
	Resolved int
	Exact    int
	Inexact  int
	Failures []TrackFailure
	WriteErr error // Set when the file for this playlist alone could not be written
}

// Failed returns the number of dropped tracks.
func (r *PlaylistReport) Failed() int {
	return r.Total - r.Resolved
}

// RunReport summarises a whole conversion run.
type RunReport struct {
	RunID     string
	Playlists []PlaylistReport
}

// Totals returns resolved and total track counts across all playlists.
func (r *RunReport) Totals() (resolved, total int) {
	for _, pl := range r.Playlists {
		resolved += pl.Resolved
		total += pl.Total
	}
	return resolved, total
}
