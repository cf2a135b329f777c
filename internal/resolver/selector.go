package resolver

import (
	"github.com/desertthunder/jspfx/internal/models"
)

// Rule selects how a strategy's candidates are classified.
type Rule int

const (
	// RuleTitleArtist compares title and primary artist byte for byte; the first candidate is the fallback.
	RuleTitleArtist Rule = iota
	// RuleSoleCandidate takes the first candidate as an exact match.
	RuleSoleCandidate
)

func (r Rule) String() string {
	switch r {
	case RuleTitleArtist:
		return "title_artist"
	case RuleSoleCandidate:
		return "sole_candidate"
	default:
		return ""
	}
}

// usable reports whether c carries the fields the rule needs.
func usable(c models.RecordingCandidate, rule Rule) bool {
	if c.RecordingID == "" {
		return false
	}
	if rule == RuleSoleCandidate {
		return true
	}
	return c.Title != "" && c.PrimaryArtistName != ""
}

// Select classifies candidates against the wanted artist and title.
//
// Unusable candidates are treated as absent. With [RuleTitleArtist] the first exact candidate wins regardless of
// position; without one, the first usable candidate is returned as inexact. An empty sequence is Unresolved.
func Select(candidates []models.RecordingCandidate, wantArtist, wantTitle string, rule Rule) models.Outcome {
	var fallback *models.RecordingCandidate
	for i := range candidates {
		c := candidates[i]
		if !usable(c, rule) {
			continue
		}
		if rule == RuleSoleCandidate {
			return models.ResolvedWith(c, true)
		}
		if c.Title == wantTitle && c.PrimaryArtistName == wantArtist {
			return models.ResolvedWith(c, true)
		}
		if fallback == nil {
			fallback = &candidates[i]
		}
	}

	if fallback == nil {
		return models.Unresolved()
	}
	return models.ResolvedWith(*fallback, false)
}
