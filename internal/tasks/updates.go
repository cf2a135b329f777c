package tasks

import (
	"fmt"

	"github.com/desertthunder/jspfx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	ResolveTracks Phase = iota
	WritePlaylist
)

func (p Phase) String() string {
	switch p {
	case ResolveTracks:
		return "resolve_tracks"
	case WritePlaylist:
		return "write_playlist"
	default:
		return ""
	}
}

func resolvingTrackUpdate(step, total int, tr models.SourceTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, tr),
		Data:    tr,
	}
}

func trackResolvedUpdate(step, total int, o models.Outcome) ProgressUpdate {
	kind := "exact"
	if !o.Exact {
		kind = "inexact"
	}
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s (%s, %s)", step, total, o.Candidate.PrimaryArtistName, o.Candidate.Title, kind, o.Strategy),
		Data:    o,
	}
}

func trackDroppedUpdate(step, total int, f models.TrackFailure) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, f.Track, f.Reason)
	if f.Err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, f.Track, f.Err)
	}
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    f,
	}
}

func playlistWrittenUpdate(step, total int, r *models.PlaylistReport) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] %s: %d of %d tracks resolved → %s", step, total, r.Name, r.Resolved, r.Total, r.Path)
	if r.WriteErr != nil {
		msg = fmt.Sprintf("[%d/%d] %s: not written: %v", step, total, r.Name, r.WriteErr)
	}
	return ProgressUpdate{
		Phase:   WritePlaylist,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    r,
	}
}
