package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jspfx/internal/resolver"
	"github.com/desertthunder/jspfx/internal/services"
	"github.com/desertthunder/jspfx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	querier    services.Querier
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	envFiles   []string
	styles     *Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	// Config overrides the file named by --config.
	Config *shared.Config
	// Querier replaces the MusicBrainz client, pacing included.
	Querier    services.Querier
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	// EnvFiles are dotenv files applied over the config. Defaults to ".env".
	EnvFiles []string
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.EnvFiles == nil {
		opts.EnvFiles = []string{".env"}
	}

	return &Runner{
		config:     opts.Config,
		querier:    opts.Querier,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		envFiles:   opts.EnvFiles,
		styles:     defaultPalette(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		convertCommand, resolveCommand, musicbrainzCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the runner's config or reads the file named by --config.
//
// A missing file falls back to defaults unless the flag was given explicitly.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	config := r.config
	if config == nil {
		path := cmd.String("config")
		loaded, err := shared.LoadConfig(path)
		switch {
		case err == nil:
			r.logger.Debug("loaded config", "path", path)
			config = loaded
		case errors.Is(err, shared.ErrMissingConfig) && !cmd.IsSet("config"):
			r.logger.Debug("config file not found, using defaults", "path", path)
			config = shared.DefaultConfig()
		default:
			return nil, err
		}
	}

	if err := shared.ApplyEnv(config, r.envFiles...); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// newQuerier builds the MusicBrainz client, paced unless --no-pace is set.
func (r *Runner) newQuerier(cmd *cli.Command, config *shared.Config) services.Querier {
	if r.querier != nil {
		return r.querier
	}

	client := r.httpClient
	if timeout := config.MusicBrainz.Timeout(); timeout > 0 {
		c := *client
		c.Timeout = timeout
		client = &c
	}

	mb := services.NewMusicBrainzService(services.MusicBrainzOpts{
		BaseURL:     config.MusicBrainz.BaseURL,
		UserAgent:   config.MusicBrainz.FullUserAgent(),
		MaxAttempts: config.MusicBrainz.MaxAttempts,
		HTTPClient:  client,
	})
	if cmd.Bool("no-pace") {
		r.logger.Warn("request pacing disabled")
		return mb
	}
	return services.NewPacedQuerier(mb, config.MusicBrainz.RequestsPerSecond)
}

// newSequencer wires the default strategies over q. The memo may be nil.
func (r *Runner) newSequencer(cmd *cli.Command, config *shared.Config, q services.Querier, memo resolver.Memo) *resolver.Sequencer {
	recordings := services.NewRecordingService(q)
	strategies := resolver.DefaultStrategies(recordings, resolver.StrategyOpts{
		SearchLimit: config.MusicBrainz.SearchLimit,
		Fuzzy:       config.Resolver.Fuzzy || cmd.Bool("fuzzy"),
	})
	seq := resolver.NewSequencer(resolver.SequencerOpts{Strategies: strategies, Memo: memo, Logger: r.logger})
	r.logger.Debug("resolution strategies", "order", seq.Strategies())
	return seq
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", r.styles.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
