// Package postgres upserts the training table into PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/okian/courtside/internal/domain/matchup"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/pkg/logger"
)

const (
	defaultTable     = "matchup_features"
	defaultBatchSize = 1000
)

// Sink writes matchup records, one row per game keyed by game id.
type Sink struct {
	db        *sql.DB
	table     string
	batchSize int
	logger    logger.Logger
}

// New wraps an open database handle.
func New(db *sql.DB, opts ...Option) *Sink {
	s := &Sink{
		db:        db,
		table:     defaultTable,
		batchSize: defaultBatchSize,
		logger:    logger.Get().Named("postgres"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*Sink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	return New(db, opts...), nil
}

// Close closes the database handle.
func (s *Sink) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateTableQuery returns the DDL for table.
func CreateTableQuery(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			game_id       text PRIMARY KEY,
			game_date     date NOT NULL,
			season        text NOT NULL,
			home_team_id  text NOT NULL,
			away_team_id  text NOT NULL,
			neutral_venue boolean NOT NULL,
			home_win      boolean NOT NULL,
			home_pts      double precision NOT NULL,
			away_pts      double precision NOT NULL,
			features      jsonb NOT NULL,
			run_id        uuid NOT NULL,
			written_at    timestamptz NOT NULL DEFAULT now()
		)`, pq.QuoteIdentifier(table))
}

// UpsertQuery returns the batched UNNEST upsert for table.
func UpsertQuery(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (
			game_id, game_date, season, home_team_id, away_team_id,
			neutral_venue, home_win, home_pts, away_pts, features, run_id
		)
		SELECT g, d, s, h, a, n, w, hp, ap, f, $11::uuid
		FROM UNNEST(
			$1::text[], $2::date[], $3::text[], $4::text[], $5::text[],
			$6::boolean[], $7::boolean[], $8::float8[], $9::float8[], $10::jsonb[]
		) AS t(g, d, s, h, a, n, w, hp, ap, f)
		ON CONFLICT (game_id)
		DO UPDATE SET
			game_date = EXCLUDED.game_date,
			season = EXCLUDED.season,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			neutral_venue = EXCLUDED.neutral_venue,
			home_win = EXCLUDED.home_win,
			home_pts = EXCLUDED.home_pts,
			away_pts = EXCLUDED.away_pts,
			features = EXCLUDED.features,
			run_id = EXCLUDED.run_id,
			written_at = now()`, pq.QuoteIdentifier(table))
}

// BatchArgs builds the positional arguments of UpsertQuery for records.
func BatchArgs(runID string, records []model.MatchupRecord) ([]any, error) {
	n := len(records)
	gameIDs := make([]string, n)
	dates := make([]string, n)
	seasons := make([]string, n)
	homeIDs := make([]string, n)
	awayIDs := make([]string, n)
	neutral := make([]bool, n)
	homeWin := make([]bool, n)
	homePts := make([]float64, n)
	awayPts := make([]float64, n)
	features := make([]string, n)

	for i := range records {
		r := &records[i]
		doc, err := FeatureDocument(r)
		if err != nil {
			return nil, fmt.Errorf("encode features of %s: %w", r.GameID, err)
		}
		gameIDs[i] = r.GameID
		dates[i] = r.GameDate.Format(matchup.DateLayout)
		seasons[i] = r.Season
		homeIDs[i] = r.HomeTeamID
		awayIDs[i] = r.AwayTeamID
		neutral[i] = r.Neutral
		homeWin[i] = r.HomeWin
		homePts[i] = r.HomePoints
		awayPts[i] = r.AwayPoints
		features[i] = doc
	}

	return []any{
		pq.Array(gameIDs), pq.Array(dates), pq.Array(seasons), pq.Array(homeIDs), pq.Array(awayIDs),
		pq.Array(neutral), pq.Array(homeWin), pq.Array(homePts), pq.Array(awayPts), pq.Array(features),
		runID,
	}, nil
}

// FeatureDocument encodes a record's values as a JSON object; null values
// encode as JSON null.
func FeatureDocument(r *model.MatchupRecord) (string, error) {
	doc := make(map[string]*float64, len(r.Values))
	for k, v := range r.Values {
		if v.Valid {
			f := v.Float64
			doc[k] = &f
		} else {
			doc[k] = nil
		}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EnsureTable creates the destination table when missing.
func (s *Sink) EnsureTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, CreateTableQuery(s.table)); err != nil {
		return fmt.Errorf("%w: create table: %w", ErrWrite, err)
	}
	return nil
}

// Upsert writes every record of f in one transaction and returns the row count.
func (s *Sink) Upsert(ctx context.Context, runID string, f *model.MatchupFrame) (int, error) {
	if len(f.Records) == 0 {
		return 0, nil
	}

	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %w", ErrWrite, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := UpsertQuery(s.table)
	written := 0
	for lo := 0; lo < len(f.Records); lo += s.batchSize {
		hi := min(lo+s.batchSize, len(f.Records))
		args, err := BatchArgs(runID, f.Records[lo:hi])
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrWrite, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("%w: batch %d: %w", ErrWrite, lo/s.batchSize, err)
		}
		written += hi - lo
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrWrite, err)
	}

	s.logger.Info(ctx, "training table upserted",
		logger.String("table", s.table),
		logger.Int("rows", written),
		logger.Duration("took", time.Since(start)),
	)
	return written, nil
}
