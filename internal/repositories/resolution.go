package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/shared"
)

// Resolution is a resolved source URI stored for the current run.
type Resolution struct {
	ID          string
	SourceURI   string
	RecordingID string
	Title       string
	Artist      string
	Exact       bool
	Strategy    string
	Hits        int
	CreatedAt   time.Time
}

// NewResolution builds a Resolution from a resolved outcome.
func NewResolution(sourceURI string, o models.Outcome) *Resolution {
	return &Resolution{
		SourceURI:   sourceURI,
		RecordingID: o.Candidate.RecordingID,
		Title:       o.Candidate.Title,
		Artist:      o.Candidate.PrimaryArtistName,
		Exact:       o.Exact,
		Strategy:    o.Strategy,
	}
}

// Outcome converts the row back into a resolved outcome.
func (r *Resolution) Outcome() models.Outcome {
	o := models.ResolvedWith(models.RecordingCandidate{
		RecordingID:       r.RecordingID,
		Title:             r.Title,
		PrimaryArtistName: r.Artist,
	}, r.Exact)
	o.Strategy = r.Strategy
	return o
}

// Validate checks required fields.
func (r *Resolution) Validate() error {
	if r.SourceURI == "" {
		return fmt.Errorf("source uri is required")
	}
	if r.RecordingID == "" {
		return fmt.Errorf("recording id is required")
	}
	return nil
}

// ResolutionRepository stores resolutions keyed by source URI.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a new ResolutionRepository with the given database connection
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Create inserts res with a generated ID.
func (r *ResolutionRepository) Create(ctx context.Context, res *Resolution) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	res.ID = shared.GenerateID()
	res.CreatedAt = time.Now()

	query := `
		INSERT INTO resolutions (id, source_uri, recording_id, title, artist, exact, strategy, hits, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		res.SourceURI,
		res.RecordingID,
		res.Title,
		res.Artist,
		res.Exact,
		res.Strategy,
		res.Hits,
		res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resolution: %w", err)
	}
	return nil
}

// GetBySourceURI returns the resolution for uri. A missing row wraps [sql.ErrNoRows].
func (r *ResolutionRepository) GetBySourceURI(ctx context.Context, uri string) (*Resolution, error) {
	query := `
		SELECT id, source_uri, recording_id, title, artist, exact, strategy, hits, created_at
		FROM resolutions
		WHERE source_uri = ?
	`

	res, err := scanResolution(r.db.QueryRowContext(ctx, query, uri))
	if err != nil {
		return nil, fmt.Errorf("resolution for %s: %w", uri, err)
	}
	return res, nil
}

// RecordHit increments the hit counter for uri.
func (r *ResolutionRepository) RecordHit(ctx context.Context, uri string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE resolutions SET hits = hits + 1 WHERE source_uri = ?`, uri)
	if err != nil {
		return fmt.Errorf("failed to record hit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found: %s", uri)
	}
	return nil
}

// List returns every resolution in insertion order.
func (r *ResolutionRepository) List(ctx context.Context) ([]*Resolution, error) {
	query := `
		SELECT id, source_uri, recording_id, title, artist, exact, strategy, hits, created_at
		FROM resolutions
		ORDER BY rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*Resolution
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return resolutions, nil
}

// Stats returns the number of stored resolutions and the total number of memo hits.
func (r *ResolutionRepository) Stats(ctx context.Context) (entries, hits int, err error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM resolutions`)
	if err := row.Scan(&entries, &hits); err != nil {
		return 0, 0, fmt.Errorf("failed to read stats: %w", err)
	}
	return entries, hits, nil
}

func scanResolution(s scanner) (*Resolution, error) {
	var res Resolution
	err := s.Scan(
		&res.ID,
		&res.SourceURI,
		&res.RecordingID,
		&res.Title,
		&res.Artist,
		&res.Exact,
		&res.Strategy,
		&res.Hits,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ResolutionMemo adapts [ResolutionRepository] to the sequencer's memo.
//
// Only resolved outcomes are stored; a second Put for the same URI is ignored.
type ResolutionMemo struct {
	repo *ResolutionRepository
}

// NewResolutionMemo creates a new ResolutionMemo with the given repository
func NewResolutionMemo(repo *ResolutionRepository) *ResolutionMemo {
	return &ResolutionMemo{repo: repo}
}

// Get returns the stored outcome for uri and counts the hit.
func (m *ResolutionMemo) Get(ctx context.Context, uri string) (models.Outcome, bool, error) {
	res, err := m.repo.GetBySourceURI(ctx, uri)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Outcome{}, false, nil
	}
	if err != nil {
		return models.Outcome{}, false, err
	}

	if err := m.repo.RecordHit(ctx, uri); err != nil {
		return models.Outcome{}, false, err
	}
	return res.Outcome(), true, nil
}

// Put stores a resolved outcome. Unresolved outcomes are ignored.
func (m *ResolutionMemo) Put(ctx context.Context, uri string, o models.Outcome) error {
	if !o.Resolved {
		return nil
	}

	err := m.repo.Create(ctx, NewResolution(uri, o))
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}
