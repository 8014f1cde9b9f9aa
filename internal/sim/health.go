package sim

import "context"

// ApplyDecayTick subtracts one hour of degradation from every subsystem of
// every living rig, scaled by the active degradation-rate factor and clamped
// at zero. Runs as a single bulk statement: partial application across rigs
// is tolerable and self-corrects on the next tick.
func (s *Service) ApplyDecayTick(ctx context.Context) (int64, error) {
	eff, err := s.ActiveEffects(ctx)
	if err != nil {
		return 0, err
	}
	decay := ApplyFactor(s.bal.DegradationPerHour, eff.DegradationRate)
	if decay <= 0 {
		return 0, nil
	}

	cmd, err := s.db.Exec(ctx, `
		UPDATE player_systems ps
		SET health = GREATEST(0, ps.health - $1),
		    updated_at = now()
		FROM players p
		WHERE p.id = ps.player_id
		  AND p.is_alive
		  AND ps.health > 0
	`, decay)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// ApplyCascadeTick makes every subsystem below the cascade threshold inflict
// fixed damage on its adjacent systems. Damage from multiple failing
// neighbors stacks additively within the tick.
func (s *Service) ApplyCascadeTick(ctx context.Context) (int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ps.player_id, ps.system_type
		FROM player_systems ps
		JOIN players p ON p.id = ps.player_id
		WHERE p.is_alive AND ps.health < $1
	`, s.bal.CascadeThreshold)
	if err != nil {
		return 0, err
	}

	var failing []failingSystem
	for rows.Next() {
		var f failingSystem
		if err := rows.Scan(&f.playerID, &f.system); err != nil {
			rows.Close()
			return 0, err
		}
		failing = append(failing, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	damage := accumulateCascade(failing, s.bal.CascadeDamage)

	var affected int64
	for tgt, dmg := range damage {
		cmd, err := s.db.Exec(ctx, `
			UPDATE player_systems
			SET health = GREATEST(0, health - $1),
			    updated_at = now()
			WHERE player_id = $2 AND system_type = $3 AND health > 0
		`, dmg, tgt.playerID, string(tgt.system))
		if err != nil {
			return affected, err
		}
		affected += cmd.RowsAffected()
	}
	return affected, nil
}

type failingSystem struct {
	playerID string
	system   SystemType
}

type cascadeTarget struct {
	playerID string
	system   SystemType
}

// accumulateCascade spreads perHit damage from every failing subsystem to
// its adjacent systems. A target adjacent to multiple failing neighbors
// collects the sum.
func accumulateCascade(failing []failingSystem, perHit int) map[cascadeTarget]int {
	damage := make(map[cascadeTarget]int)
	for _, f := range failing {
		for _, adj := range CascadeTargets(f.system) {
			damage[cascadeTarget{f.playerID, adj}] += perHit
		}
	}
	return damage
}

// ApplyHeatDecayTick cools every living rig's heat toward zero by the hourly
// step scaled with the heat-decay factor.
func (s *Service) ApplyHeatDecayTick(ctx context.Context) (int64, error) {
	eff, err := s.ActiveEffects(ctx)
	if err != nil {
		return 0, err
	}
	step := ApplyFactor(s.bal.HeatDecayPerHour, eff.HeatDecay)
	if step <= 0 {
		return 0, nil
	}

	cmd, err := s.db.Exec(ctx, `
		UPDATE players
		SET heat_level = GREATEST(0, heat_level - $1),
		    updated_at = now()
		WHERE is_alive AND heat_level > 0
	`, step)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
