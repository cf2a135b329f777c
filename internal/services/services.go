package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// RequestKind selects which MusicBrainz resource a query targets.
type RequestKind int

const (
	// KindURLLookup finds recordings linked to an external URL (back-link lookup).
	KindURLLookup RequestKind = iota
	// KindRecordingSearch runs a lucene text search over recordings.
	KindRecordingSearch
)

func (k RequestKind) String() string {
	switch k {
	case KindURLLookup:
		return "url"
	case KindRecordingSearch:
		return "recording"
	default:
		return ""
	}
}

// Querier issues a single categorized query to the external database.
type Querier interface {
	// Query performs one logical request (possibly several attempts) and returns the raw response.
	//
	// A nil error means the service answered: the body may still contain zero matches, and NotFound marks a semantic miss.
	// Errors wrap [shared.ErrTransientFailure] or [shared.ErrFatalFailure], or are a context error.
	Query(ctx context.Context, kind RequestKind, params url.Values) (*QueryResult, error)
}

// QueryResult is a successful response from the database.
type QueryResult struct {
	Kind       RequestKind
	StatusCode int
	Body       []byte
	Attempts   int
	NotFound   bool
}

// QueryError describes a query that did not produce a usable response.
//
// Class is either [shared.ErrTransientFailure] or [shared.ErrFatalFailure] so callers can use [errors.Is].
type QueryError struct {
	Kind       RequestKind
	Class      error
	Attempts   int
	StatusCode int    // Last HTTP status, zero when no response was received
	Body       []byte // Last raw response body, if any
	Err        error  // Last transport error, if any
}

func (e *QueryError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%v: %s query after %d attempt(s): %v", e.Class, e.Kind, e.Attempts, e.Err)
	default:
		return fmt.Sprintf("%v: %s query after %d attempt(s): status %d", e.Class, e.Kind, e.Attempts, e.StatusCode)
	}
}

func (e *QueryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Class}
	}
	return []error{e.Class, e.Err}
}

// AttemptsOf returns the number of attempts recorded in err, or zero.
func AttemptsOf(err error) int {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Attempts
	}
	return 0
}
