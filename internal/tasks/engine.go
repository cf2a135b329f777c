package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jspfx/internal/formatter"
	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/shared"
)

// Resolver maps one source track to an outcome. Implemented by [resolver.Sequencer].
type Resolver interface {
	Resolve(ctx context.Context, track models.SourceTrack) (models.Outcome, error)
}

// EngineOpts configures a [PlaylistEngine].
type EngineOpts struct {
	Resolver  Resolver
	Extension string      // Output extension, defaults to "jspf"
	Logger    *log.Logger // Defaults to a discarding logger
	// WaitForProgress makes every progress send block until it is received or ctx is done.
	// Leave it unset when nothing drains the channel.
	WaitForProgress bool
}

// PlaylistEngine resolves tracks and writes one JSPF document per playlist.
type PlaylistEngine struct {
	resolver  Resolver
	extension string
	logger    *log.Logger
	wait      bool
}

// NewPlaylistEngine creates a new PlaylistEngine.
func NewPlaylistEngine(opts EngineOpts) *PlaylistEngine {
	ext := opts.Extension
	if ext == "" {
		ext = formatter.DefaultExtension
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.Discard()
	}
	return &PlaylistEngine{resolver: opts.Resolver, extension: ext, logger: logger, wait: opts.WaitForProgress}
}

// sendProgress sends a progress update through the channel, dropping it when the channel is full
// unless the engine waits for progress.
func (e *PlaylistEngine) sendProgress(ctx context.Context, progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	if e.wait {
		select {
		case progress <- update:
		case <-ctx.Done():
		}
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ConvertAll converts every playlist of export into outDir, sequentially.
//
// The returned report covers the playlists processed so far, even when err is non-nil.
func (e *PlaylistEngine) ConvertAll(ctx context.Context, export *models.Export, outDir string, progress chan<- ProgressUpdate) (*models.RunReport, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}
	if err := formatter.EnsureDir(outDir); err != nil {
		return nil, err
	}

	report := &models.RunReport{RunID: shared.GenerateID()}
	logger := shared.WithLogger(e.logger, "run", report.RunID)
	logger.Info("starting conversion", "playlists", len(export.Playlists), "tracks", export.TrackCount(), "output", outDir)

	for i, pl := range export.Playlists {
		plReport, err := e.convert(ctx, pl, outDir, progress, logger)
		if plReport != nil {
			report.Playlists = append(report.Playlists, *plReport)
		}
		if err != nil {
			return report, fmt.Errorf("playlist %q: %w", pl.Name, err)
		}
		e.sendProgress(ctx, progress, playlistWrittenUpdate(i+1, len(export.Playlists), plReport))
	}

	resolved, total := report.Totals()
	logger.Info("conversion finished", "resolved", resolved, "total", total)
	return report, nil
}

// Convert resolves the tracks of pl and writes its JSPF document into outDir, which must exist.
func (e *PlaylistEngine) Convert(ctx context.Context, pl models.SourcePlaylist, outDir string, progress chan<- ProgressUpdate) (*models.PlaylistReport, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}
	report, err := e.convert(ctx, pl, outDir, progress, e.logger)
	if err != nil {
		return report, err
	}
	e.sendProgress(ctx, progress, playlistWrittenUpdate(1, 1, report))
	return report, nil
}

func (e *PlaylistEngine) convert(ctx context.Context, pl models.SourcePlaylist, outDir string, progress chan<- ProgressUpdate, logger *log.Logger) (*models.PlaylistReport, error) {
	logger = shared.WithLogger(logger, "playlist", pl.Name)
	total := len(pl.Tracks)
	report := &models.PlaylistReport{Name: pl.Name, Total: total}
	tracks := make([]models.OutputTrack, 0, total)

	for i, track := range pl.Tracks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		e.sendProgress(ctx, progress, resolvingTrackUpdate(i+1, total, track))

		o, err := e.resolver.Resolve(ctx, track)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			e.drop(ctx, report, progress, logger, i+1, models.TrackFailure{Track: track, Reason: models.ReasonError, Err: err})
			continue
		}

		out, ok := models.NewOutputTrack(track, o)
		if !ok {
			e.drop(ctx, report, progress, logger, i+1, models.TrackFailure{Track: track, Reason: models.ReasonNoMatch})
			continue
		}

		tracks = append(tracks, out)
		report.Resolved++
		if o.Exact {
			report.Exact++
		} else {
			report.Inexact++
		}
		logger.Info("resolved", "track", track.String(), "recording", o.Candidate.RecordingID, "exact", o.Exact, "strategy", o.Strategy)
		e.sendProgress(ctx, progress, trackResolvedUpdate(i+1, total, o))
	}

	path, err := formatter.AllocatePath(outDir, pl.Name, e.extension)
	if err != nil {
		return e.writeFailed(report, logger, err)
	}
	if err := formatter.WriteJSPF(models.NewOutputPlaylist(pl, tracks), path); err != nil {
		return e.writeFailed(report, logger, err)
	}
	report.Path = path

	logger.Info("wrote playlist", "path", path, "resolved", report.Resolved, "total", report.Total)
	return report, nil
}

// writeFailed records a failure tied to this playlist's file name so the run can continue.
// Any other write failure is returned and aborts the run.
func (e *PlaylistEngine) writeFailed(report *models.PlaylistReport, logger *log.Logger, err error) (*models.PlaylistReport, error) {
	if !formatter.IsNameError(err) {
		return report, err
	}
	report.WriteErr = err
	logger.Error("playlist not written", "err", err)
	return report, nil
}

func (e *PlaylistEngine) drop(ctx context.Context, report *models.PlaylistReport, progress chan<- ProgressUpdate, logger *log.Logger, step int, f models.TrackFailure) {
	report.Failures = append(report.Failures, f)
	if f.Err != nil {
		logger.Error("track dropped", "track", f.Track.String(), "uri", f.Track.SourceURI, "err", f.Err)
	} else {
		logger.Warn("track dropped", "track", f.Track.String(), "uri", f.Track.SourceURI, "reason", f.Reason)
	}
	e.sendProgress(ctx, progress, trackDroppedUpdate(step, report.Total, f))
}
