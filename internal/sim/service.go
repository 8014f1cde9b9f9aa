// Package sim advances the shared world state: subsystem decay and cascade
// damage, rig death, daily glitch rotation, season lifecycle, and weekly
// world-fabric regeneration. Every exported tick method is idempotent or
// clamped so that a rare duplicate run under a stale lease stays harmless.
package sim

import (
	"context"
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"gridfall/internal/balance"
)

// DB is the narrow pool surface the service issues queries through.
// *pgxpool.Pool satisfies it; tests substitute a mock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Service struct {
	db     DB
	log    *slog.Logger
	bal    balance.Balance
	deaths DeathExecutor
	mu     sync.Mutex
	rand   *mathrand.Rand
}

func NewService(db DB, logger *slog.Logger, bal balance.Balance) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		db:   db,
		log:  logger,
		bal:  bal,
		rand: mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
	s.deaths = NewReaper(db, logger)
	return s
}

// SetDeathExecutor swaps the death collaborator. Test hook; the default is
// the transactional Reaper.
func (s *Service) SetDeathExecutor(d DeathExecutor) {
	s.deaths = d
}

func (s *Service) Balance() balance.Balance {
	return s.bal
}

// EnsurePlayer creates a player and its six subsystem rows at full health.
// Re-running for an existing handle returns ErrPlayerExists.
func (s *Service) EnsurePlayer(ctx context.Context, handle string) (string, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var playerID string
	err = tx.QueryRow(ctx, `
		INSERT INTO players (handle, is_alive, heat_level)
		VALUES ($1, true, 0)
		ON CONFLICT (handle) DO NOTHING
		RETURNING id
	`, handle).Scan(&playerID)
	if err == pgx.ErrNoRows {
		return "", ErrPlayerExists
	}
	if err != nil {
		return "", err
	}

	for _, system := range AllSystems {
		if _, err := tx.Exec(ctx, `
			INSERT INTO player_systems (player_id, system_type, health)
			VALUES ($1, $2, 100)
			ON CONFLICT (player_id, system_type) DO NOTHING
		`, playerID, string(system)); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return playerID, nil
}

// PlayerSystems returns the six subsystem rows with their derived status.
func (s *Service) PlayerSystems(ctx context.Context, playerID string) ([]SystemView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT system_type, health
		FROM player_systems
		WHERE player_id = $1
		ORDER BY system_type
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SystemView
	for rows.Next() {
		var v SystemView
		if err := rows.Scan(&v.SystemType, &v.Health); err != nil {
			return nil, err
		}
		v.Status = StatusForHealth(v.Health)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Service) nextIntn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Intn(n)
}
