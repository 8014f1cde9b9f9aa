package sim

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulateCascadeSingleFailure(t *testing.T) {
	damage := accumulateCascade([]failingSystem{
		{playerID: "p1", system: SystemQuantumProcessor},
	}, 5)

	assert.Equal(t, map[cascadeTarget]int{
		{playerID: "p1", system: SystemEnergyDistribution}: 5,
	}, damage)
}

func TestAccumulateCascadeStacksAdditively(t *testing.T) {
	// neural_core and security_protocols both list data_pathways as adjacent,
	// so data_pathways takes a double hit in the same tick.
	damage := accumulateCascade([]failingSystem{
		{playerID: "p1", system: SystemNeuralCore},
		{playerID: "p1", system: SystemSecurityProtocols},
	}, 5)

	assert.Equal(t, 10, damage[cascadeTarget{playerID: "p1", system: SystemDataPathways}])
	assert.Equal(t, 5, damage[cascadeTarget{playerID: "p1", system: SystemMemoryBanks}])
	assert.Equal(t, 5, damage[cascadeTarget{playerID: "p1", system: SystemNeuralCore}])
}

func TestAccumulateCascadeKeepsPlayersSeparate(t *testing.T) {
	damage := accumulateCascade([]failingSystem{
		{playerID: "p1", system: SystemNeuralCore},
		{playerID: "p2", system: SystemNeuralCore},
	}, 3)

	assert.Equal(t, 3, damage[cascadeTarget{playerID: "p1", system: SystemMemoryBanks}])
	assert.Equal(t, 3, damage[cascadeTarget{playerID: "p2", system: SystemMemoryBanks}])
	assert.Len(t, damage, 4)
}

// expectNeutralEffects satisfies the ActiveEffects queries a tick issues
// before touching health: today's glitch with an empty payload and no
// active season, leaving every factor at 1.0.
func expectNeutralEffects(mock pgxmock.PgxPoolIface) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	mock.ExpectQuery(`SELECT id, glitch_date, glitch_id, glitch_name, effects`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "glitch_date", "glitch_id", "glitch_name", "effects"}).
			AddRow(int64(1), today, "patch_tuesday", "Patch Tuesday", []byte(`{}`)))
	mock.ExpectQuery(`FROM seasons`).WillReturnError(pgx.ErrNoRows)
}

func TestApplyDecayTickClampsAtZero(t *testing.T) {
	svc, mock := newMockService(t)

	expectNeutralEffects(mock)
	mock.ExpectExec(`UPDATE player_systems ps\s+SET health = GREATEST\(0, ps\.health - \$1\)`).
		WithArgs(2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 12))

	affected, err := svc.ApplyDecayTick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyHeatDecayTickClampsAtZero(t *testing.T) {
	svc, mock := newMockService(t)

	expectNeutralEffects(mock)
	mock.ExpectExec(`UPDATE players\s+SET heat_level = GREATEST\(0, heat_level - \$1\)`).
		WithArgs(5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 7))

	affected, err := svc.ApplyHeatDecayTick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
