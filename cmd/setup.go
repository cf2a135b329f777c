package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/jspfx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if fileExists(path) {
		return fmt.Errorf("%w: %s already exists", shared.ErrInvalidArgument, path)
	}

	r.logger.Info("creating config file from template", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("%s\n", r.styles.OK("✓ Configuration written to "+path))
	r.writePlain("\nNext steps:\n")
	r.writePlain("1. Set musicbrainz.contact to an email or URL MusicBrainz can reach you at\n")
	r.writePlain("2. Run 'jspfx convert --input Playlist1.json --config %s'\n", path)
	return nil
}
