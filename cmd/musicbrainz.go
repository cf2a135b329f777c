package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/resolver"
	"github.com/desertthunder/jspfx/internal/services"
	"github.com/desertthunder/jspfx/internal/shared"
	"github.com/urfave/cli/v3"
)

// MusicBrainzLookup lists the recordings linked to a streaming URI.
func (r *Runner) MusicBrainzLookup(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	uri := cmd.String("uri")
	recordings := services.NewRecordingService(r.newQuerier(cmd, config))

	r.logger.Debug("url lookup", "uri", uri)
	candidates, err := recordings.LookupURL(ctx, uri)
	if err != nil {
		return err
	}
	return r.writeCandidates(cmd, candidates)
}

// MusicBrainzSearch runs the same fielded query the search strategies use.
func (r *Runner) MusicBrainzSearch(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	clean := resolver.Escape
	if cmd.Bool("strip") {
		clean = resolver.Strip
	}
	query := resolver.BuildQuery(cmd.String("artist"), cmd.String("title"), clean)
	if query == "" {
		return fmt.Errorf("%w: --artist or --title must be provided", shared.ErrMissingArgument)
	}

	limit := int(cmd.Int("limit"))
	if limit == 0 {
		limit = config.MusicBrainz.SearchLimit
	}

	r.logger.Debug("recording search", "query", query, "limit", limit)
	recordings := services.NewRecordingService(r.newQuerier(cmd, config))
	candidates, err := recordings.SearchRecordings(ctx, query, limit)
	if err != nil {
		return err
	}

	if !cmd.Bool("json") {
		r.writePlain("%s\n", r.styles.Help("query: "+query))
	}
	return r.writeCandidates(cmd, candidates)
}

type candidateOutput struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
}

func (r *Runner) writeCandidates(cmd *cli.Command, candidates []models.RecordingCandidate) error {
	if cmd.Bool("json") {
		out := make([]candidateOutput, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, candidateOutput{Identifier: c.Identifier(), Title: c.Title, Artist: c.PrimaryArtistName})
		}
		return r.writeJSON(out, true)
	}

	if len(candidates) == 0 {
		r.writePlain("%s\n", r.styles.Warn("No recordings found"))
		return nil
	}

	r.writePlain("Found %d recording(s):\n\n", len(candidates))
	for i, c := range candidates {
		r.writePlain("%d. %s - %s\n", i+1, c.PrimaryArtistName, c.Title)
		r.writePlain("   %s\n", r.styles.Help(c.Identifier()))
	}
	return nil
}
