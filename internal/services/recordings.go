package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/desertthunder/jspfx/internal/models"
)

// MusicBrainzArtist represents an artist in MusicBrainz responses.
type MusicBrainzArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MusicBrainzArtistCredit represents one entry of an artist-credit list.
type MusicBrainzArtistCredit struct {
	Name       string            `json:"name"`
	JoinPhrase string            `json:"joinphrase,omitempty"`
	Artist     MusicBrainzArtist `json:"artist"`
}

// MusicBrainzRecording represents a recording in MusicBrainz responses.
type MusicBrainzRecording struct {
	ID           string                    `json:"id"`
	Title        string                    `json:"title"`
	Length       int                       `json:"length,omitempty"`
	Score        int                       `json:"score,omitempty"`
	ArtistCredit []MusicBrainzArtistCredit `json:"artist-credit,omitempty"`
}

// PrimaryArtist returns the first credited artist name, or "" when there is no credit.
func (r MusicBrainzRecording) PrimaryArtist() string {
	if len(r.ArtistCredit) == 0 {
		return ""
	}
	if r.ArtistCredit[0].Name != "" {
		return r.ArtistCredit[0].Name
	}
	return r.ArtistCredit[0].Artist.Name
}

// Candidate converts the recording, keeping missing fields empty.
func (r MusicBrainzRecording) Candidate() models.RecordingCandidate {
	return models.RecordingCandidate{
		RecordingID:       r.ID,
		Title:             r.Title,
		PrimaryArtistName: r.PrimaryArtist(),
	}
}

// MusicBrainzRelation represents an entry of a resource's relations list.
type MusicBrainzRelation struct {
	Type       string                `json:"type"`
	TargetType string                `json:"target-type"`
	Recording  *MusicBrainzRecording `json:"recording,omitempty"`
}

// MusicBrainzURL is the response of a url lookup with recording relations.
type MusicBrainzURL struct {
	ID        string                `json:"id"`
	Resource  string                `json:"resource"`
	Relations []MusicBrainzRelation `json:"relations"`
}

// MusicBrainzSearchResponse is the response of a recording search.
type MusicBrainzSearchResponse struct {
	Count      int                    `json:"count"`
	Offset     int                    `json:"offset"`
	Recordings []MusicBrainzRecording `json:"recordings"`
}

// RecordingService turns raw [Querier] responses into recording candidates.
type RecordingService struct {
	q Querier
}

// NewRecordingService creates a RecordingService on top of q.
func NewRecordingService(q Querier) *RecordingService {
	return &RecordingService{q: q}
}

// LookupURL returns the recordings linked to uri, in response order.
//
// Unknown URLs and unparseable bodies yield no candidates and no error.
func (s *RecordingService) LookupURL(ctx context.Context, uri string) ([]models.RecordingCandidate, error) {
	params := url.Values{}
	params.Set("resource", uri)
	params.Set("inc", "recording-rels")

	res, err := s.q.Query(ctx, KindURLLookup, params)
	if err != nil {
		return nil, err
	}
	if res.NotFound {
		return nil, nil
	}

	var lookup MusicBrainzURL
	if err := json.Unmarshal(res.Body, &lookup); err != nil {
		return nil, nil
	}

	var candidates []models.RecordingCandidate
	for _, rel := range lookup.Relations {
		if rel.TargetType != "recording" || rel.Recording == nil {
			continue
		}
		candidates = append(candidates, rel.Recording.Candidate())
	}
	return candidates, nil
}

// SearchRecordings runs a lucene query and returns candidates in response order.
//
// A limit of zero leaves the server default.
func (s *RecordingService) SearchRecordings(ctx context.Context, query string, limit int) ([]models.RecordingCandidate, error) {
	params := url.Values{}
	params.Set("query", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	res, err := s.q.Query(ctx, KindRecordingSearch, params)
	if err != nil {
		return nil, err
	}
	if res.NotFound {
		return nil, nil
	}

	var search MusicBrainzSearchResponse
	if err := json.Unmarshal(res.Body, &search); err != nil {
		return nil, nil
	}

	candidates := make([]models.RecordingCandidate, 0, len(search.Recordings))
	for _, rec := range search.Recordings {
		candidates = append(candidates, rec.Candidate())
	}
	return candidates, nil
}
