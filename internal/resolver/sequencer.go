package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/shared"
)

// Memo remembers resolved outcomes by source URI for the length of one run.
type Memo interface {
	Get(ctx context.Context, sourceURI string) (models.Outcome, bool, error)
	Put(ctx context.Context, sourceURI string, o models.Outcome) error
}

// SequencerOpts configures a [Sequencer].
type SequencerOpts struct {
	Strategies []Strategy
	Memo       Memo        // Optional
	Logger     *log.Logger // Defaults to a discarding logger
}

// Sequencer resolves tracks by running strategies in order.
type Sequencer struct {
	strategies []Strategy
	memo       Memo
	logger     *log.Logger
}

// NewSequencer creates a Sequencer. Strategies run in the order given.
func NewSequencer(opts SequencerOpts) *Sequencer {
	logger := opts.Logger
	if logger == nil {
		logger = shared.Discard()
	}
	return &Sequencer{strategies: opts.Strategies, memo: opts.Memo, logger: logger}
}

// Strategies returns the strategy names in run order.
func (s *Sequencer) Strategies() []string {
	names := make([]string, len(s.strategies))
	for i, st := range s.strategies {
		names[i] = st.Name()
	}
	return names
}

// Resolve returns the first outcome a strategy's candidates resolve to.
//
// Exhausting every strategy returns Unresolved with a nil error. The error is non-nil only when a strict strategy
// failed transiently (wrapping [shared.ErrTransientFailure]) or ctx was cancelled.
func (s *Sequencer) Resolve(ctx context.Context, track models.SourceTrack) (models.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return models.Unresolved(), err
	}

	if o, ok := s.recall(ctx, track); ok {
		return o, nil
	}

	for _, st := range s.strategies {
		logger := s.logger.With("strategy", st.Name(), "track", track.String())

		candidates, err := st.Attempt(ctx, track)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.Unresolved(), ctxErr
			}
			if st.Strict() && errors.Is(err, shared.ErrTransientFailure) {
				return models.Unresolved(), fmt.Errorf("%s strategy: %w", st.Name(), err)
			}
			logger.Warn("strategy failed, trying next", "err", err)
			continue
		}

		o := Select(candidates, track.ArtistName, track.TrackName, st.Rule())
		if !o.Resolved {
			logger.Debug("no match", "candidates", len(candidates))
			continue
		}

		o.Strategy = st.Name()
		logger.Debug("matched", "recording", o.Candidate.RecordingID, "exact", o.Exact)
		s.remember(ctx, track, o)
		return o, nil
	}

	return models.Unresolved(), nil
}

func (s *Sequencer) recall(ctx context.Context, track models.SourceTrack) (models.Outcome, bool) {
	if s.memo == nil || track.SourceURI == "" {
		return models.Outcome{}, false
	}
	o, ok, err := s.memo.Get(ctx, track.SourceURI)
	if err != nil {
		s.logger.Warn("memo lookup failed", "uri", track.SourceURI, "err", err)
		return models.Outcome{}, false
	}
	if ok {
		s.logger.Debug("memo hit", "uri", track.SourceURI, "recording", o.Candidate.RecordingID)
	}
	return o, ok
}

func (s *Sequencer) remember(ctx context.Context, track models.SourceTrack, o models.Outcome) {
	if s.memo == nil || track.SourceURI == "" {
		return
	}
	if err := s.memo.Put(ctx, track.SourceURI, o); err != nil {
		s.logger.Warn("memo write failed", "uri", track.SourceURI, "err", err)
	}
}
