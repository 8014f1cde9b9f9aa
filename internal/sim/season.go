package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// CurrentSeason returns the single active season, or ErrNoActiveSeason when
// bootstrap has not run.
func (s *Service) CurrentSeason(ctx context.Context) (Season, error) {
	return scanSeason(s.db.QueryRow(ctx, `
		SELECT id, name, started_at, ends_at, is_active, meta_modules
		FROM seasons
		WHERE is_active
		ORDER BY id DESC
		LIMIT 1
	`))
}

// EnsureSeason bootstraps the first season if none is active.
func (s *Service) EnsureSeason(ctx context.Context) (Season, error) {
	season, err := s.CurrentSeason(ctx)
	if err == nil {
		return season, nil
	}
	if err != ErrNoActiveSeason {
		return Season{}, err
	}

	ends := time.Now().UTC().Add(time.Duration(s.bal.SeasonLengthDays) * 24 * time.Hour)
	row := s.db.QueryRow(ctx, `
		INSERT INTO seasons (name, started_at, ends_at, is_active, meta_modules)
		VALUES ($1, now(), $2, true, '[]'::jsonb)
		RETURNING id, name, started_at, ends_at, is_active, meta_modules
	`, "Season 1", ends)
	next, err := scanSeason(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// Another replica bootstrapped first; adopt its season.
			s.log.Info("season bootstrap lost the race, adopting existing season")
			return s.CurrentSeason(ctx)
		}
		return Season{}, err
	}
	return next, nil
}

// DaysRemaining reports whole days until the season ends, rounded up and
// floored at zero. Derived, never persisted.
func (se Season) DaysRemaining(now time.Time) int {
	remaining := se.EndsAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// EndSeason flips the active season to ended and creates its successor in
// the same transaction. Returns ErrNoActiveSeason when no season is active;
// callers treat that as a benign race, not corruption. Must only be invoked
// under the season lease.
func (s *Service) EndSeason(ctx context.Context) (Season, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return Season{}, err
	}
	defer tx.Rollback(ctx)

	var oldID int64
	var oldName string
	var rawMeta []byte
	err = tx.QueryRow(ctx, `
		SELECT id, name, meta_modules
		FROM seasons
		WHERE is_active
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE
	`).Scan(&oldID, &oldName, &rawMeta)
	if err == pgx.ErrNoRows {
		return Season{}, ErrNoActiveSeason
	}
	if err != nil {
		return Season{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE seasons
		SET is_active = false, updated_at = now()
		WHERE id = $1
	`, oldID); err != nil {
		return Season{}, err
	}

	// Legacy-module carryover is data on the season record, applied verbatim.
	ends := time.Now().UTC().Add(time.Duration(s.bal.SeasonLengthDays) * 24 * time.Hour)
	row := tx.QueryRow(ctx, `
		INSERT INTO seasons (name, started_at, ends_at, is_active, meta_modules)
		VALUES ($1, now(), $2, true, $3::jsonb)
		RETURNING id, name, started_at, ends_at, is_active, meta_modules
	`, fmt.Sprintf("Season %d", oldID+1), ends, string(rawMeta))
	next, err := scanSeason(row)
	if err != nil {
		return Season{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Season{}, err
	}
	s.log.Info("season rotated", "ended_id", oldID, "ended_name", oldName, "next_id", next.ID)
	return next, nil
}

// CheckSeasonEnd rotates the season when its end time has passed. The
// proactive counterpart to the operator-triggered EndSeason.
func (s *Service) CheckSeasonEnd(ctx context.Context) error {
	season, err := s.CurrentSeason(ctx)
	if err == ErrNoActiveSeason {
		s.log.Warn("season check with no active season")
		return nil
	}
	if err != nil {
		return err
	}
	if time.Now().UTC().Before(season.EndsAt) {
		return nil
	}
	_, err = s.EndSeason(ctx)
	if err == ErrNoActiveSeason {
		// Another worker rotated between our read and the lock.
		return nil
	}
	return err
}

func scanSeason(row pgx.Row) (Season, error) {
	var out Season
	var rawMeta []byte
	err := row.Scan(&out.ID, &out.Name, &out.StartedAt, &out.EndsAt, &out.IsActive, &rawMeta)
	if err == pgx.ErrNoRows {
		return Season{}, ErrNoActiveSeason
	}
	if err != nil {
		return Season{}, err
	}
	if len(rawMeta) > 0 {
		if err := json.Unmarshal(rawMeta, &out.MetaModules); err != nil {
			return Season{}, fmt.Errorf("decode meta modules: %w", err)
		}
	}
	return out, nil
}
