package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/jspfx/internal/formatter"
	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/repositories"
	"github.com/desertthunder/jspfx/internal/shared"
	"github.com/desertthunder/jspfx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Convert reads the export, resolves every track and writes one JSPF file per playlist.
//
// Only a missing or unreadable input, an output directory that cannot be created and write failures abort the run.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	input := cmd.String("input")
	outDir := cmd.String("output")
	if outDir == "" {
		outDir = config.Output.Directory
	}

	export, err := formatter.ReadExport(input)
	if err != nil {
		return err
	}
	r.logger.Info("read export", "path", input, "playlists", len(export.Playlists), "tracks", export.TrackCount())

	db, err := shared.NewMemoryDatabase()
	if err != nil {
		return fmt.Errorf("failed to open resolution memo: %w", err)
	}
	defer db.Close()
	repo := repositories.NewResolutionRepository(db)

	seq := r.newSequencer(cmd, config, r.newQuerier(cmd, config), repositories.NewResolutionMemo(repo))
	engine := tasks.NewPlaylistEngine(tasks.EngineOpts{
		Resolver:  seq,
		Extension:       config.Output.Extension,
		Logger:          r.logger,
		WaitForProgress: true,
	})

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.printProgress(update)
		}
	}()

	report, err := engine.ConvertAll(ctx, export, outDir, progressCh)
	close(progressCh)
	<-done

	if report != nil {
		r.printSummary(report)
	}
	if err != nil {
		return err
	}

	if entries, hits, err := repo.Stats(ctx); err == nil {
		r.logger.Debug("resolution memo", "entries", entries, "hits", hits)
	}

	if path := cmd.String("report"); path != "" {
		if err := formatter.WriteReport(report, path); err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", path)
	}
	return nil
}

func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	switch update.Data.(type) {
	case models.Outcome:
		r.writePlain("   %s\n", r.styles.OK(update.Message))
	case models.TrackFailure:
		r.writePlain("   %s\n", r.styles.Err(update.Message))
	case *models.PlaylistReport:
		r.writePlain("📝 %s\n\n", update.Message)
	}
}

func (r *Runner) printSummary(report *models.RunReport) {
	r.writePlain("\n")
	r.writePlainHeader("Conversion Complete!")

	for _, pl := range report.Playlists {
		line := fmt.Sprintf("%s: %d/%d resolved (%d exact, %d inexact)", pl.Name, pl.Resolved, pl.Total, pl.Exact, pl.Inexact)
		if pl.Failed() > 0 {
			line = r.styles.Warn(line)
		}
		r.writePlain("%s\n", line)
		if pl.WriteErr != nil {
			r.writePlain("  %s\n", r.styles.Err(fmt.Sprintf("not written: %v", pl.WriteErr)))
		} else if pl.Path != "" {
			r.writePlain("  %s\n", r.styles.Help(pl.Path))
		}
	}

	resolved, total := report.Totals()
	r.writePlain("\nTotal: %d/%d tracks resolved\n", resolved, total)

	for _, pl := range report.Playlists {
		if len(pl.Failures) == 0 {
			continue
		}
		r.writePlain("\nUnresolved in %s:\n", pl.Name)
		for _, f := range pl.Failures {
			r.writePlain("  - %s (%s)\n", f.Track, f.Reason)
		}
	}
}
