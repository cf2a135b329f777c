// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Enable debug logging",
	}
}

func noPaceFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-pace",
		Usage: "Do not limit requests to the configured rate (local mirrors only)",
	}
}

func fuzzyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "fuzzy",
		Usage: "Try a free-text search ordered by edit distance after the other strategies",
	}
}

// convertCommand converts a whole export into JSPF files
func convertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert every playlist of an export into a JSPF file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Path to the streaming export",
				Value:   "./Playlist1.json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: output.directory from config)",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a run report (.csv, .md or .txt)",
			},
			configFlag(),
			verboseFlag(),
			fuzzyFlag(),
			noPaceFlag(),
		},
		Action: r.Convert,
	}
}

// resolveCommand resolves one track without writing anything
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve a single track to a MusicBrainz recording",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "artist",
				Aliases:  []string{"a"},
				Usage:    "Artist name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Track title",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "uri",
				Usage: "Streaming service URI used for the back-link lookup",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			configFlag(),
			verboseFlag(),
			fuzzyFlag(),
			noPaceFlag(),
		},
		Action: r.Resolve,
	}
}

// musicbrainzCommand exposes the raw lookups used by the resolver
func musicbrainzCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "musicbrainz",
		Aliases: []string{"mb"},
		Usage:   "Query MusicBrainz directly",
		Commands: []*cli.Command{
			{
				Name:  "lookup",
				Usage: "List recordings linked to a streaming URI",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "uri",
						Usage:    "Streaming service URI",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					configFlag(),
					verboseFlag(),
					noPaceFlag(),
				},
				Action: r.MusicBrainzLookup,
			},
			{
				Name:  "search",
				Usage: "Search recordings by artist and title",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "artist",
						Aliases: []string{"a"},
						Usage:   "Artist name",
					},
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Track title",
					},
					&cli.BoolFlag{
						Name:  "strip",
						Usage: "Delete reserved query characters instead of escaping them",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results (default: musicbrainz.search_limit)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					configFlag(),
					verboseFlag(),
					noPaceFlag(),
				},
				Action: r.MusicBrainzSearch,
			},
		},
	}
}

// setupCommand handles first-run configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml with default values",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
