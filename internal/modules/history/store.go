// README: Analysis history backed by PostgreSQL.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"guardian/internal/modules/analysis"
)

var ErrNotFound = errors.New("analysis not found")

// Entry is a stored analysis as read back for the history endpoint. Analyzer
// outputs come back as raw JSON keyed by track.
type Entry struct {
	ID          string                     `json:"id"`
	Family      analysis.Family            `json:"family"`
	Track       analysis.Track             `json:"track"`
	Confidence  float64                    `json:"confidence"`
	Reasoning   string                     `json:"reasoning"`
	Headline    string                     `json:"headline"`
	FullText    string                     `json:"full_text"`
	ActionItems []string                   `json:"action_items"`
	VoiceText   string                     `json:"voice_text"`
	PerTrackRaw map[string]json.RawMessage `json:"per_track_raw"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// Store implements analysis.Recorder.
type Store struct {
	db *pgxpool.Pool
}

var _ analysis.Recorder = (*Store)(nil)

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Save(ctx context.Context, rec analysis.Record) error {
	actions, err := json.Marshal(nonNilStrings(rec.Report.ActionItems))
	if err != nil {
		return fmt.Errorf("encode action items: %w", err)
	}
	raw := rec.Report.PerTrackRaw
	if raw == nil {
		raw = map[analysis.Track]analysis.AnalyzerOutput{}
	}
	perTrack, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode analyzer outputs: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO analysis_history (
			id, family, track, confidence, reasoning,
			headline, full_text, action_items, voice_text, per_track_raw, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID,
		string(rec.Family),
		string(rec.Detection.Track),
		rec.Detection.Confidence,
		rec.Detection.Reasoning,
		rec.Report.Headline,
		rec.Report.FullText,
		actions,
		rec.Report.VoiceText,
		perTrack,
		rec.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, family, track, confidence, reasoning,
		       headline, full_text, action_items, voice_text, per_track_raw, created_at
		FROM analysis_history
		WHERE id = $1`, id)

	var (
		e        Entry
		family   string
		track    string
		actions  []byte
		perTrack []byte
	)
	if err := row.Scan(&e.ID, &family, &track, &e.Confidence, &e.Reasoning,
		&e.Headline, &e.FullText, &actions, &e.VoiceText, &perTrack, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e.Family = analysis.Family(family)
	e.Track = analysis.Track(track)
	if err := json.Unmarshal(actions, &e.ActionItems); err != nil {
		return nil, fmt.Errorf("decode action items: %w", err)
	}
	if err := json.Unmarshal(perTrack, &e.PerTrackRaw); err != nil {
		return nil, fmt.Errorf("decode analyzer outputs: %w", err)
	}
	return &e, nil
}

// ListRecent returns the newest entries of a family, newest first.
func (s *Store) ListRecent(ctx context.Context, f analysis.Family, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, track, confidence, headline, created_at
		FROM analysis_history
		WHERE family = $1
		ORDER BY created_at DESC
		LIMIT $2`, string(f), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e := Entry{Family: f}
		var track string
		if err := rows.Scan(&e.ID, &track, &e.Confidence, &e.Headline, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Track = analysis.Track(track)
		out = append(out, e)
	}
	return out, rows.Err()
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
