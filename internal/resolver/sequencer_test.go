package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/services"
	"github.com/desertthunder/jspfx/internal/shared"
	tu "github.com/desertthunder/jspfx/internal/testing"
)

const (
	linkedABC = `{"id":"u","resource":"uri:track:1","relations":[
		{"type":"free streaming","target-type":"recording","recording":{"id":"abc","title":"Song B","artist-credit":[{"name":"Artist A"}]}}]}`
	remixXYZ = `{"count":1,"recordings":[{"id":"xyz","score":100,"title":"Song B (Remix)","artist-credit":[{"name":"Artist A"}]}]}`
)

var songB = models.SourceTrack{ArtistName: "Artist A", TrackName: "Song B", SourceURI: "uri:track:1", AddedAt: "2024-01-01T00:00:00Z"}

func newSequencer(q services.Querier, memo Memo) *Sequencer {
	recordings := services.NewRecordingService(q)
	return NewSequencer(SequencerOpts{
		Strategies: DefaultStrategies(recordings, StrategyOpts{SearchLimit: 5}),
		Memo:       memo,
	})
}

func transient() error {
	return &services.QueryError{Kind: services.KindURLLookup, Class: shared.ErrTransientFailure, Attempts: 5, Err: errors.New("timeout")}
}

type mapMemo struct {
	entries map[string]models.Outcome
	gets    int
}

func (m *mapMemo) Get(ctx context.Context, uri string) (models.Outcome, bool, error) {
	m.gets++
	o, ok := m.entries[uri]
	return o, ok, nil
}

func (m *mapMemo) Put(ctx context.Context, uri string, o models.Outcome) error {
	m.entries[uri] = o
	return nil
}

func TestSequencer(t *testing.T) {
	t.Run("Strategies In Order", func(t *testing.T) {
		seq := newSequencer(&tu.StubQuerier{T: t}, nil)
		want := []string{StrategyURL, StrategySearch, StrategySearchStripped}
		got := seq.Strategies()
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("strategy %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("Fuzzy Is Appended Last", func(t *testing.T) {
		strategies := DefaultStrategies(services.NewRecordingService(&tu.StubQuerier{T: t}), StrategyOpts{Fuzzy: true})
		if len(strategies) != 4 || strategies[3].Name() != StrategyFuzzy {
			t.Errorf("expected fuzzy as fourth strategy, got %d strategies", len(strategies))
		}
	})

	t.Run("Back-link Match Stops The Sequence", func(t *testing.T) {
		q := &tu.StubQuerier{T: t, MaxCalls: 1, Responses: []tu.QueryResponse{tu.JSONResult(linkedABC)}}

		o, err := newSequencer(q, nil).Resolve(context.Background(), songB)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !o.Resolved || !o.Exact {
			t.Fatalf("expected exact resolution, got %+v", o)
		}
		if o.Candidate.RecordingID != "abc" || o.Strategy != StrategyURL {
			t.Errorf("unexpected outcome %+v", o)
		}
		if len(q.Calls) != 1 || q.Calls[0].Kind != services.KindURLLookup {
			t.Errorf("expected a single url lookup, got %+v", q.Calls)
		}
		if q.Calls[0].Params.Get("resource") != "uri:track:1" {
			t.Errorf("expected lookup on source uri, got %v", q.Calls[0].Params)
		}
	})

	t.Run("Falls Through To Escaped Search", func(t *testing.T) {
		q := &tu.StubQuerier{T: t, MaxCalls: 2, Responses: []tu.QueryResponse{
			tu.NotFoundResult(),
			tu.JSONResult(remixXYZ),
		}}

		o, err := newSequencer(q, nil).Resolve(context.Background(), songB)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !o.Resolved || o.Exact {
			t.Fatalf("expected inexact resolution, got %+v", o)
		}
		if o.Candidate.RecordingID != "xyz" || o.Strategy != StrategySearch {
			t.Errorf("unexpected outcome %+v", o)
		}
		if got := q.Calls[1].Params.Get("query"); got != `artist:"Artist A" AND recording:"Song B"` {
			t.Errorf("unexpected search query %q", got)
		}
		if got := q.Calls[1].Params.Get("limit"); got != "5" {
			t.Errorf("expected limit 5, got %q", got)
		}
	})

	t.Run("Stripped Search Runs Last", func(t *testing.T) {
		q := &tu.StubQuerier{T: t, Responses: []tu.QueryResponse{
			tu.JSONResult(`{"relations":[]}`),
			tu.JSONResult(`{"recordings":[]}`),
			tu.JSONResult(remixXYZ),
		}}
		track := songB
		track.TrackName = "Song (B)"

		o, err := newSequencer(q, nil).Resolve(context.Background(), track)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if o.Strategy != StrategySearchStripped {
			t.Errorf("expected search-stripped, got %s", o.Strategy)
		}
		if got := q.Calls[1].Params.Get("query"); got != `artist:"Artist A" AND recording:"Song \(B\)"` {
			t.Errorf("unexpected escaped query %q", got)
		}
		if got := q.Calls[2].Params.Get("query"); got != `artist:"Artist A" AND recording:"Song B"` {
			t.Errorf("unexpected stripped query %q", got)
		}
	})

	t.Run("Exhaustion Is Unresolved", func(t *testing.T) {
		q := &tu.StubQuerier{T: t, MaxCalls: 3}

		o, err := newSequencer(q, nil).Resolve(context.Background(), songB)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if o.Resolved {
			t.Errorf("expected unresolved, got %+v", o)
		}
		if len(q.Calls) != 3 {
			t.Errorf("expected every strategy to run, got %d calls", len(q.Calls))
		}
	})

	t.Run("Transient Back-link Failure Ends The Track", func(t *testing.T) {
		q := &tu.StubQuerier{T: t, MaxCalls: 1, Responses: []tu.QueryResponse{tu.ErrorResult(transient())}}

		o, err := newSequencer(q, nil).Resolve(context.Background(), songB)
		if !errors.Is(err, shared.ErrTransientFailure) {
			t.Fatalf("expected transient failure, got %v", err)
		}
		if o.Resolved {
			t.Errorf("expected unresolved outcome, got %+v", o)
		}
	})

	t.Run("Fatal Back-link Failure Falls Through", func(t *testing.T) {
		fatal := &services.QueryError{Kind: services.KindURLLookup, Class: shared.ErrFatalFailure, Attempts: 1, StatusCode: 400}
		q := &tu.StubQuerier{T: t, Responses: []tu.QueryResponse{tu.ErrorResult(fatal), tu.JSONResult(remixXYZ)}}

		o, err := newSequencer(q, nil).Resolve(context.Background(), songB)
		if err != nil {
			t.Fatalf("expected fall through, got %v", err)
		}
		if o.Strategy != StrategySearch {
			t.Errorf("expected search to resolve, got %+v", o)
		}
	})

	t.Run("Transient Search Failure Falls Through", func(t *testing.T) {
		q := &tu.StubQuerier{T: t, Responses: []tu.QueryResponse{
			tu.NotFoundResult(),
			tu.ErrorResult(transient()),
			tu.JSONResult(remixXYZ),
		}}

		o, err := newSequencer(q, nil).Resolve(context.Background(), songB)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if o.Strategy != StrategySearchStripped {
			t.Errorf("expected search-stripped to resolve, got %+v", o)
		}
	})

	t.Run("Malformed Back-link Candidates Fall Through", func(t *testing.T) {
		q := &tu.StubQuerier{T: t, Responses: []tu.QueryResponse{
			tu.JSONResult(`{"relations":[{"target-type":"recording","recording":{"title":"Song B"}}]}`),
			tu.JSONResult(remixXYZ),
		}}

		o, err := newSequencer(q, nil).Resolve(context.Background(), songB)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if o.Strategy != StrategySearch {
			t.Errorf("expected search to resolve, got %+v", o)
		}
	})

	t.Run("Unparseable Body Falls Through", func(t *testing.T) {
		q := &tu.StubQuerier{T: t, Responses: []tu.QueryResponse{
			tu.JSONResult(`<html>`),
			tu.JSONResult(remixXYZ),
		}}

		o, err := newSequencer(q, nil).Resolve(context.Background(), songB)
		if err != nil || o.Strategy != StrategySearch {
			t.Errorf("expected search to resolve, got %+v %v", o, err)
		}
	})

	t.Run("Track Without URI Skips Lookup", func(t *testing.T) {
		q := &tu.StubQuerier{T: t, MaxCalls: 1, Responses: []tu.QueryResponse{tu.JSONResult(remixXYZ)}}
		track := songB
		track.SourceURI = ""

		o, err := newSequencer(q, nil).Resolve(context.Background(), track)
		if err != nil || !o.Resolved {
			t.Fatalf("expected resolution, got %+v %v", o, err)
		}
		if q.Calls[0].Kind != services.KindRecordingSearch {
			t.Errorf("expected first call to be a search, got %v", q.Calls[0].Kind)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		q := &tu.StubQuerier{T: t}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newSequencer(q, nil).Resolve(ctx, songB)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(q.Calls) != 0 {
			t.Errorf("expected no queries, got %d", len(q.Calls))
		}
	})

	t.Run("Memo", func(t *testing.T) {
		t.Run("Repeated URI Is Served From Memo", func(t *testing.T) {
			memo := &mapMemo{entries: map[string]models.Outcome{}}
			q := &tu.StubQuerier{T: t, MaxCalls: 1, Responses: []tu.QueryResponse{tu.JSONResult(linkedABC)}}
			seq := newSequencer(q, memo)

			first, err := seq.Resolve(context.Background(), songB)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			second, err := seq.Resolve(context.Background(), songB)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if first != second {
				t.Errorf("expected identical outcomes, got %+v and %+v", first, second)
			}
			if len(q.Calls) != 1 {
				t.Errorf("expected one query, got %d", len(q.Calls))
			}
		})

		t.Run("Unresolved Is Not Remembered", func(t *testing.T) {
			memo := &mapMemo{entries: map[string]models.Outcome{}}
			q := &tu.StubQuerier{T: t}

			if _, err := newSequencer(q, memo).Resolve(context.Background(), songB); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(memo.entries) != 0 {
				t.Errorf("expected empty memo, got %v", memo.entries)
			}
		})
	})
}

type fixedRecordings struct {
	candidates []models.RecordingCandidate
	query      string
}

func (f *fixedRecordings) LookupURL(ctx context.Context, uri string) ([]models.RecordingCandidate, error) {
	return nil, nil
}

func (f *fixedRecordings) SearchRecordings(ctx context.Context, query string, limit int) ([]models.RecordingCandidate, error) {
	f.query = query
	return append([]models.RecordingCandidate(nil), f.candidates...), nil
}

func TestFuzzyStrategy(t *testing.T) {
	t.Run("Orders By Edit Distance", func(t *testing.T) {
		r := &fixedRecordings{candidates: []models.RecordingCandidate{
			candidate("far", "Completely Unrelated Composition Number Nine", "Nobody Whatsoever"),
			candidate("near", "Song B.", "Artist A"),
			candidate("mid", "Song B (Extended Mix)", "Artist A"),
		}}

		got, err := NewFuzzyStrategy(r, 0).Attempt(context.Background(), songB)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.query != "Artist A Song B" {
			t.Errorf("unexpected free-text query %q", r.query)
		}
		if got[0].RecordingID != "near" || got[1].RecordingID != "mid" || got[2].RecordingID != "far" {
			t.Errorf("unexpected order %v", got)
		}

		o := Select(got, songB.ArtistName, songB.TrackName, NewFuzzyStrategy(r, 0).Rule())
		if o.Exact || o.Candidate.RecordingID != "near" {
			t.Errorf("expected inexact near, got %+v", o)
		}
	})

	t.Run("Blank Track Is Skipped", func(t *testing.T) {
		r := &fixedRecordings{}
		got, err := NewFuzzyStrategy(r, 0).Attempt(context.Background(), models.SourceTrack{TrackName: "?!"})
		if err != nil || got != nil || r.query != "" {
			t.Errorf("expected no query, got %v %v %q", got, err, r.query)
		}
	})
}
