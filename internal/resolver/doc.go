// Package resolver maps a source track to a MusicBrainz recording.
//
// # Strategies
//
// A [Sequencer] runs an ordered list of [Strategy] values and stops at the first one whose candidates the
// selector accepts. [DefaultStrategies] builds the fixed order:
//  1. url: back-link lookup on the track's source URI
//  2. search: fielded lucene search with reserved characters escaped
//  3. search-stripped: the same query with reserved characters deleted
//  4. fuzzy (optional): free-text search re-ordered by edit distance
//
// Strictness is a property of each strategy. A strict strategy that fails transiently ends resolution of the
// track with an error; any other failure falls through to the next strategy.
//
// # Selection
//
// [Select] classifies candidates as an exact match, a best-effort inexact match or no match. Candidates missing
// the fields a [Rule] requires are skipped.
package resolver
