package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/desertthunder/jspfx/internal/shared"
)

type cannedQuerier struct {
	res    *QueryResult
	err    error
	kind   RequestKind
	params url.Values
	calls  int
}

func (c *cannedQuerier) Query(ctx context.Context, kind RequestKind, params url.Values) (*QueryResult, error) {
	c.calls++
	c.kind, c.params = kind, params
	return c.res, c.err
}

func ok(body string) *QueryResult {
	return &QueryResult{StatusCode: http.StatusOK, Body: []byte(body), Attempts: 1}
}

func TestRecordingService(t *testing.T) {
	t.Run("LookupURL", func(t *testing.T) {
		t.Run("Returns Linked Recordings", func(t *testing.T) {
			q := &cannedQuerier{res: ok(`{
				"id": "u1",
				"resource": "https://open.spotify.com/track/1",
				"relations": [
					{"type": "free streaming", "target-type": "recording",
					 "recording": {"id": "abc", "title": "Song B", "artist-credit": [{"name": "Artist A", "artist": {"id": "a1", "name": "Artist A"}}]}},
					{"type": "free streaming", "target-type": "release", "release": {"id": "r1"}},
					{"type": "free streaming", "target-type": "recording", "recording": {"id": "def", "title": "Song B"}}
				]}`)}

			got, err := NewRecordingService(q).LookupURL(context.Background(), "https://open.spotify.com/track/1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if q.kind != KindURLLookup {
				t.Errorf("expected url lookup, got %v", q.kind)
			}
			if q.params.Get("inc") != "recording-rels" || q.params.Get("resource") != "https://open.spotify.com/track/1" {
				t.Errorf("unexpected params %v", q.params)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 recordings, got %d", len(got))
			}
			if got[0].RecordingID != "abc" || got[0].PrimaryArtistName != "Artist A" {
				t.Errorf("unexpected first candidate %+v", got[0])
			}
			if got[1].PrimaryArtistName != "" {
				t.Errorf("expected missing artist to stay empty, got %q", got[1].PrimaryArtistName)
			}
		})

		t.Run("Not Found Yields No Candidates", func(t *testing.T) {
			q := &cannedQuerier{res: &QueryResult{StatusCode: http.StatusNotFound, NotFound: true}}

			got, err := NewRecordingService(q).LookupURL(context.Background(), "x")
			if err != nil || len(got) != 0 {
				t.Errorf("expected no candidates and no error, got %v %v", got, err)
			}
		})

		t.Run("Malformed Body Yields No Candidates", func(t *testing.T) {
			q := &cannedQuerier{res: ok(`<html>oops</html>`)}

			got, err := NewRecordingService(q).LookupURL(context.Background(), "x")
			if err != nil || len(got) != 0 {
				t.Errorf("expected no candidates and no error, got %v %v", got, err)
			}
		})

		t.Run("Propagates Query Errors", func(t *testing.T) {
			q := &cannedQuerier{err: &QueryError{Kind: KindURLLookup, Class: shared.ErrTransientFailure, Attempts: 5}}

			_, err := NewRecordingService(q).LookupURL(context.Background(), "x")
			if !errors.Is(err, shared.ErrTransientFailure) {
				t.Errorf("expected transient failure, got %v", err)
			}
		})
	})

	t.Run("SearchRecordings", func(t *testing.T) {
		t.Run("Keeps Response Order", func(t *testing.T) {
			q := &cannedQuerier{res: ok(`{"count": 2, "offset": 0, "recordings": [
				{"id": "x1", "score": 100, "title": "Song B (Remix)", "artist-credit": [{"name": "Artist A", "artist": {"name": "Artist A"}}]},
				{"id": "x2", "score": 90, "title": "Song B", "artist-credit": [{"name": "", "artist": {"name": "Artist A"}}]}
			]}`)}

			got, err := NewRecordingService(q).SearchRecordings(context.Background(), `artist:"Artist A"`, 10)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if q.kind != KindRecordingSearch {
				t.Errorf("expected recording search, got %v", q.kind)
			}
			if q.params.Get("limit") != "10" || q.params.Get("query") != `artist:"Artist A"` {
				t.Errorf("unexpected params %v", q.params)
			}
			if len(got) != 2 || got[0].RecordingID != "x1" || got[1].RecordingID != "x2" {
				t.Fatalf("unexpected candidates %+v", got)
			}
			if got[1].PrimaryArtistName != "Artist A" {
				t.Errorf("expected fallback to artist name, got %q", got[1].PrimaryArtistName)
			}
		})

		t.Run("Zero Limit Omits Parameter", func(t *testing.T) {
			q := &cannedQuerier{res: ok(`{"recordings": []}`)}

			got, err := NewRecordingService(q).SearchRecordings(context.Background(), "q", 0)
			if err != nil || len(got) != 0 {
				t.Errorf("expected empty result, got %v %v", got, err)
			}
			if _, ok := q.params["limit"]; ok {
				t.Error("limit should be omitted")
			}
		})
	})
}

func TestPacedQuerier(t *testing.T) {
	t.Run("Forwards Calls", func(t *testing.T) {
		q := &cannedQuerier{res: ok(`{}`)}
		paced := NewPacedQuerier(q, 0)

		for range 3 {
			if _, err := paced.Query(context.Background(), KindRecordingSearch, nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if q.calls != 3 {
			t.Errorf("expected 3 forwarded calls, got %d", q.calls)
		}
	})

	t.Run("Spaces Requests", func(t *testing.T) {
		q := &cannedQuerier{res: ok(`{}`)}
		paced := NewPacedQuerier(q, 20)

		start := time.Now()
		for range 3 {
			if _, err := paced.Query(context.Background(), KindRecordingSearch, nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
			t.Errorf("expected calls to be paced at 20/s, took %v", elapsed)
		}
	})

	t.Run("Honours Context", func(t *testing.T) {
		q := &cannedQuerier{res: ok(`{}`)}
		paced := NewPacedQuerier(q, 0.001)

		if _, err := paced.Query(context.Background(), KindRecordingSearch, nil); err != nil {
			t.Fatalf("first call should pass immediately: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if _, err := paced.Query(ctx, KindRecordingSearch, nil); err == nil {
			t.Error("expected limiter wait to fail")
		}
		if q.calls != 1 {
			t.Errorf("expected the second call not to be forwarded, got %d calls", q.calls)
		}
	})
}
