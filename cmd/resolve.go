package main

import (
	"context"

	"github.com/desertthunder/jspfx/internal/models"
	"github.com/urfave/cli/v3"
)

type resolveOutput struct {
	Resolved   bool   `json:"resolved"`
	Exact      bool   `json:"exact"`
	Strategy   string `json:"strategy,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Title      string `json:"title,omitempty"`
	Creator    string `json:"creator,omitempty"`
}

// Resolve runs the strategy sequence for one track and prints the outcome.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	track := models.SourceTrack{
		ArtistName: cmd.String("artist"),
		TrackName:  cmd.String("title"),
		SourceURI:  cmd.String("uri"),
	}

	seq := r.newSequencer(cmd, config, r.newQuerier(cmd, config), nil)
	o, err := seq.Resolve(ctx, track)
	if err != nil {
		return err
	}

	out := resolveOutput{Resolved: o.Resolved, Exact: o.Exact, Strategy: o.Strategy}
	if tr, ok := models.NewOutputTrack(track, o); ok {
		out.Identifier, out.Title, out.Creator = tr.Identifier, tr.Title, tr.Creator
	}

	if cmd.Bool("json") {
		return r.writeJSON(out, true)
	}

	if !out.Resolved {
		r.writePlain("%s %s\n", r.styles.Err("✗ no match:"), track)
		return nil
	}

	kind := "exact"
	if !out.Exact {
		kind = "inexact"
	}
	r.writePlain("%s via %s\n", r.styles.OK("✓ "+kind+" match"), out.Strategy)
	r.writePlain("  Title:      %s\n", out.Title)
	r.writePlain("  Creator:    %s\n", out.Creator)
	r.writePlain("  Identifier: %s\n", out.Identifier)
	return nil
}
