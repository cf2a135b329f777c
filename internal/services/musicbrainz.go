// MusicBrainz web service (ws/2) [Querier] implementation
//
// Response types based on https://musicbrainz.org/doc/MusicBrainz_API
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/jspfx/internal/shared"
)

const (
	defaultMBBaseURL   = "https://musicbrainz.org/ws/2"
	defaultMBUserAgent = "jspfx/0.3.0 ( https://github.com/desertthunder/jspfx )"

	// DefaultMaxAttempts is the total number of attempts per query, the first included.
	DefaultMaxAttempts = 5
)

// MusicBrainzService implements [Querier] against the MusicBrainz web service.
//
// Retries are immediate and bounded; pacing is left to the caller (see [PacedQuerier]).
type MusicBrainzService struct {
	baseURL     string
	userAgent   string
	maxAttempts int
	httpClient  *http.Client
}

// MusicBrainzOpts contains configuration options for creating a MusicBrainzService.
type MusicBrainzOpts struct {
	BaseURL     string
	UserAgent   string
	MaxAttempts int
	HTTPClient  *http.Client
}

// NewMusicBrainzService creates a new MusicBrainz client, filling unset options with defaults.
func NewMusicBrainzService(opts MusicBrainzOpts) *MusicBrainzService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultMBBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultMBUserAgent
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &MusicBrainzService{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		userAgent:   opts.UserAgent,
		maxAttempts: opts.MaxAttempts,
		httpClient:  opts.HTTPClient,
	}
}

// Name returns the service name.
func (m *MusicBrainzService) Name() string {
	return "MusicBrainz"
}

// Query issues one categorized request, retrying transient failures up to the attempt budget.
//
// Transient: transport errors, unreadable bodies, 429 and 5xx. 404 is a semantic miss and is
// returned with NotFound set. Any other non-2xx status is fatal and never retried.
func (m *MusicBrainzService) Query(ctx context.Context, kind RequestKind, params url.Values) (*QueryResult, error) {
	endpoint, err := m.endpoint(kind, params)
	if err != nil {
		return nil, &QueryError{Kind: kind, Class: shared.ErrFatalFailure, Err: err}
	}

	last := &QueryError{Kind: kind, Class: shared.ErrTransientFailure}
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		last.Attempts = attempt

		status, body, err := m.doRequest(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			last.StatusCode, last.Body, last.Err = status, body, err
			continue
		}

		switch {
		case status >= 200 && status < 300:
			return &QueryResult{Kind: kind, StatusCode: status, Body: body, Attempts: attempt}, nil
		case status == http.StatusNotFound:
			return &QueryResult{Kind: kind, StatusCode: status, Body: body, Attempts: attempt, NotFound: true}, nil
		case status == http.StatusTooManyRequests || status >= 500:
			last.StatusCode, last.Body, last.Err = status, body, nil
		default:
			return nil, &QueryError{Kind: kind, Class: shared.ErrFatalFailure, Attempts: attempt, StatusCode: status, Body: body}
		}
	}

	return nil, last
}

func (m *MusicBrainzService) endpoint(kind RequestKind, params url.Values) (string, error) {
	resource := kind.String()
	if resource == "" {
		return "", fmt.Errorf("%w: unknown request kind %d", shared.ErrInvalidArgument, kind)
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("fmt", "json")

	endpoint := fmt.Sprintf("%s/%s?%s", m.baseURL, resource, q.Encode())
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return "", fmt.Errorf("%w: bad endpoint: %v", shared.ErrInvalidArgument, err)
	}
	return endpoint, nil
}

// doRequest performs a single GET. A non-nil error means no usable response was received.
func (m *MusicBrainzService) doRequest(ctx context.Context, endpoint string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", m.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}
