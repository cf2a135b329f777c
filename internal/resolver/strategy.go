package resolver

import (
	"context"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/services"
)

// Strategy names.
const (
	StrategyURL            = "url"
	StrategySearch         = "search"
	StrategySearchStripped = "search-stripped"
	StrategyFuzzy          = "fuzzy"
)

// Strategy is one way of finding recording candidates for a track.
type Strategy interface {
	Name() string
	// Rule tells the selector how to classify this strategy's candidates.
	Rule() Rule
	// Strict strategies end resolution of the track on a transient failure instead of falling through.
	Strict() bool
	// Attempt returns candidates in response order. Zero candidates and a nil error is a semantic miss.
	Attempt(ctx context.Context, track models.SourceTrack) ([]models.RecordingCandidate, error)
}

// Recordings is the part of [services.RecordingService] strategies depend on.
type Recordings interface {
	LookupURL(ctx context.Context, uri string) ([]models.RecordingCandidate, error)
	SearchRecordings(ctx context.Context, query string, limit int) ([]models.RecordingCandidate, error)
}

var _ Recordings = (*services.RecordingService)(nil)

// StrategyOpts configures [DefaultStrategies].
type StrategyOpts struct {
	SearchLimit int  // Maximum candidates per search; 0 leaves the server default
	Fuzzy       bool // Append the fuzzy strategy
}

// DefaultStrategies returns url, search and search-stripped in that order, followed by fuzzy when enabled.
func DefaultStrategies(r Recordings, opts StrategyOpts) []Strategy {
	strategies := []Strategy{
		NewURLStrategy(r),
		NewSearchStrategy(StrategySearch, r, Escape, opts.SearchLimit),
		NewSearchStrategy(StrategySearchStripped, r, Strip, opts.SearchLimit),
	}
	if opts.Fuzzy {
		strategies = append(strategies, NewFuzzyStrategy(r, opts.SearchLimit))
	}
	return strategies
}

// URLStrategy looks up recordings linked to the track's source URI.
type URLStrategy struct {
	recordings Recordings
}

func NewURLStrategy(r Recordings) *URLStrategy {
	return &URLStrategy{recordings: r}
}

func (s *URLStrategy) Name() string { return StrategyURL }
func (s *URLStrategy) Rule() Rule   { return RuleSoleCandidate }
func (s *URLStrategy) Strict() bool { return true }

// Attempt skips the lookup for tracks without a source URI.
func (s *URLStrategy) Attempt(ctx context.Context, track models.SourceTrack) ([]models.RecordingCandidate, error) {
	if strings.TrimSpace(track.SourceURI) == "" {
		return nil, nil
	}
	return s.recordings.LookupURL(ctx, track.SourceURI)
}

// SearchStrategy runs a fielded artist and recording search.
type SearchStrategy struct {
	name       string
	recordings Recordings
	clean      Cleaner
	limit      int
}

// NewSearchStrategy creates a search strategy that passes both fields through clean before querying.
func NewSearchStrategy(name string, r Recordings, clean Cleaner, limit int) *SearchStrategy {
	return &SearchStrategy{name: name, recordings: r, clean: clean, limit: limit}
}

func (s *SearchStrategy) Name() string { return s.name }
func (s *SearchStrategy) Rule() Rule   { return RuleTitleArtist }
func (s *SearchStrategy) Strict() bool { return false }

// Attempt does not query when both fields are blank after cleaning.
func (s *SearchStrategy) Attempt(ctx context.Context, track models.SourceTrack) ([]models.RecordingCandidate, error) {
	query := BuildQuery(track.ArtistName, track.TrackName, s.clean)
	if query == "" {
		return nil, nil
	}
	return s.recordings.SearchRecordings(ctx, query, s.limit)
}

// FuzzyStrategy runs an unfielded search and orders the results by edit distance to "artist title".
type FuzzyStrategy struct {
	recordings Recordings
	limit      int
}

func NewFuzzyStrategy(r Recordings, limit int) *FuzzyStrategy {
	return &FuzzyStrategy{recordings: r, limit: limit}
}

func (s *FuzzyStrategy) Name() string { return StrategyFuzzy }
func (s *FuzzyStrategy) Rule() Rule   { return RuleTitleArtist }
func (s *FuzzyStrategy) Strict() bool { return false }

func (s *FuzzyStrategy) Attempt(ctx context.Context, track models.SourceTrack) ([]models.RecordingCandidate, error) {
	query := FreeText(track.ArtistName, track.TrackName)
	if query == "" {
		return nil, nil
	}

	candidates, err := s.recordings.SearchRecordings(ctx, query, s.limit)
	if err != nil {
		return nil, err
	}

	want := fuzzyKey(track.ArtistName, track.TrackName)
	slices.SortStableFunc(candidates, func(a, b models.RecordingCandidate) int {
		da := levenshtein.ComputeDistance(want, fuzzyKey(a.PrimaryArtistName, a.Title))
		db := levenshtein.ComputeDistance(want, fuzzyKey(b.PrimaryArtistName, b.Title))
		return da - db
	})
	return candidates, nil
}

func fuzzyKey(artist, title string) string {
	return strings.ToLower(strings.TrimSpace(artist) + " " + strings.TrimSpace(title))
}
