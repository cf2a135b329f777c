// Package services implements the client for the MusicBrainz ws/2 web service.
//
// # Querier
//
// [Querier] issues a single categorized request and returns the raw response. [MusicBrainzService] implements it
// with a bounded retry loop:
//   - transport errors, 429 and 5xx responses are retried, up to [DefaultMaxAttempts] attempts total
//   - 404 is returned as a semantic miss with [QueryResult.NotFound] set
//   - any other 4xx is not retried
//
// Exhausted retries return a [QueryError] wrapping [shared.ErrTransientFailure]; non-retryable failures wrap
// [shared.ErrFatalFailure]. Both keep the last raw status and body.
//
// # Pacing
//
// The client does not rate-limit. [PacedQuerier] decorates any Querier with a token bucket so that callers stay
// within the one request per second budget MusicBrainz asks of anonymous clients.
//
// # Recordings
//
// [RecordingService] parses url lookups and recording searches into [models.RecordingCandidate] values.
// Unparseable bodies yield no candidates.
package services
