package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DeathExecutor performs the terminal transition for one rig. It must be
// safe to invoke twice for the same player: the evaluator may re-select a
// player whose death did not land before the next pass.
type DeathExecutor interface {
	ExecuteDeath(ctx context.Context, playerID string) error
}

// EvaluateDeaths selects every living player whose corrupted-subsystem count
// has reached the death threshold and runs the executor once per player.
// One player's failure is tagged and logged, not propagated; the rest of the
// pass continues.
func (s *Service) EvaluateDeaths(ctx context.Context) ([]DeathResult, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id
		FROM players p
		JOIN player_systems ps ON ps.player_id = p.id
		WHERE p.is_alive AND ps.health <= 0
		GROUP BY p.id
		HAVING COUNT(*) >= $1
	`, s.bal.DeathThreshold)
	if err != nil {
		return nil, err
	}

	var doomed []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		doomed = append(doomed, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return s.executeDeaths(ctx, doomed), nil
}

func (s *Service) executeDeaths(ctx context.Context, doomed []string) []DeathResult {
	results := make([]DeathResult, 0, len(doomed))
	for _, id := range doomed {
		err := s.deaths.ExecuteDeath(ctx, id)
		if err != nil {
			s.log.Error("death execution failed", "player_id", id, "err", err)
		}
		results = append(results, DeathResult{PlayerID: id, Err: err})
	}
	return results
}

// Reaper is the shipped DeathExecutor: flips is_alive, zeroes heat, and
// journals an obituary ripple in one transaction. The is_alive guard makes
// a repeat invocation a no-op.
type Reaper struct {
	db  DB
	log *slog.Logger
}

func NewReaper(db DB, logger *slog.Logger) *Reaper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reaper{db: db, log: logger}
}

func (r *Reaper) ExecuteDeath(ctx context.Context, playerID string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var handle string
	err = tx.QueryRow(ctx, `
		UPDATE players
		SET is_alive = false,
		    heat_level = 0,
		    died_at = now(),
		    updated_at = now()
		WHERE id = $1 AND is_alive
		RETURNING handle
	`, playerID).Scan(&handle)
	if err == pgx.ErrNoRows {
		// Already dead; an earlier attempt landed.
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO world_events (id, event_type, narrative, created_at, expires_at, is_active)
		VALUES ($1, 'rig_flatline', $2, now(), $3, true)
	`, uuid.NewString(),
		"Signal lost: "+handle+"'s rig flatlined on the grid.",
		time.Now().UTC().Add(24*time.Hour),
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
