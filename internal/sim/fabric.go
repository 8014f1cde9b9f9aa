package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// topologyLayout is the persisted shape of one weekly network map.
type topologyLayout struct {
	Nodes []topologyNode `json:"nodes"`
	Links [][2]int       `json:"links"`
}

type topologyNode struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Security int    `json:"security"`
}

var nodeKinds = []string{"datafort", "relay", "honeypot", "blacksite", "exchange"}

// RotateTopology regenerates the network map once per week. If a topology
// already exists for the current week this is a no-op; the unique week key
// reduces a stray concurrent caller to the same outcome.
func (s *Service) RotateTopology(ctx context.Context) (bool, error) {
	week := weekStart(time.Now().UTC())

	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM net_topologies WHERE week_start = $1)
	`, week).Scan(&exists)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	layout := s.generateLayout()
	raw, err := json.Marshal(layout)
	if err != nil {
		return false, fmt.Errorf("marshal topology: %w", err)
	}
	cmd, err := s.db.Exec(ctx, `
		INSERT INTO net_topologies (week_start, layout)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (week_start) DO NOTHING
	`, week, string(raw))
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (s *Service) generateLayout() topologyLayout {
	n := s.bal.TopologyNodes
	layout := topologyLayout{Nodes: make([]topologyNode, n)}
	for i := 0; i < n; i++ {
		layout.Nodes[i] = topologyNode{
			Index:    i,
			Kind:     nodeKinds[s.nextIntn(len(nodeKinds))],
			Security: 10 + s.nextIntn(90),
		}
		if i > 0 {
			// Spanning chain keeps the grid connected.
			layout.Links = append(layout.Links, [2]int{i - 1, i})
		}
	}
	for i := 0; i < s.bal.TopologyExtraLinks; i++ {
		a, b := s.nextIntn(n), s.nextIntn(n)
		if a != b {
			layout.Links = append(layout.Links, [2]int{a, b})
		}
	}
	return layout
}

// weekStart normalizes to the Monday 00:00 UTC of t's week.
func weekStart(t time.Time) time.Time {
	t = t.Truncate(24 * time.Hour)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// rippleRule derives one candidate world event from an aggregate signal.
type rippleRule struct {
	eventType string
	narrative string
	triggered func(sig fabricSignals, s *Service) bool
}

type fabricSignals struct {
	avgHeat       float64
	deaths24h     int
	corruptedRigs int
	livingPlayers int
}

var rippleRules = []rippleRule{
	{
		eventType: "surveillance_sweep",
		narrative: "Corporate trace daemons sweep the grid. Lay low until the heat passes.",
		triggered: func(sig fabricSignals, s *Service) bool {
			return sig.livingPlayers > 0 && sig.avgHeat >= float64(s.bal.RippleHeatAverage)
		},
	},
	{
		eventType: "blackout_mourning",
		narrative: "Too many rigs flatlined tonight. The net dims its lights.",
		triggered: func(sig fabricSignals, s *Service) bool {
			return sig.deaths24h >= s.bal.RippleDeaths24h
		},
	},
	{
		eventType: "grid_decay",
		narrative: "Corrupted subsystems bleed static into every channel.",
		triggered: func(sig fabricSignals, s *Service) bool {
			return sig.corruptedRigs >= s.bal.RippleCorruptedRigs
		},
	},
}

// GenerateRipples derives world events from aggregate player-activity
// signals. A rule only fires while no active event of its type exists;
// pre-existing events are left untouched.
func (s *Service) GenerateRipples(ctx context.Context) (int, error) {
	sig, err := s.readSignals(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, rule := range rippleRules {
		if !rule.triggered(sig, s) {
			continue
		}
		var exists bool
		err := s.db.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM world_events
				WHERE event_type = $1 AND is_active AND expires_at > now()
			)
		`, rule.eventType).Scan(&exists)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		expires := time.Now().UTC().Add(time.Duration(s.bal.RippleWindowHours) * time.Hour)
		if _, err := s.db.Exec(ctx, `
			INSERT INTO world_events (id, event_type, narrative, created_at, expires_at, is_active)
			VALUES ($1, $2, $3, now(), $4, true)
		`, uuid.NewString(), rule.eventType, rule.narrative, expires); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// ExpireRipples deactivates world events whose window has passed.
func (s *Service) ExpireRipples(ctx context.Context) (int64, error) {
	cmd, err := s.db.Exec(ctx, `
		UPDATE world_events
		SET is_active = false
		WHERE is_active AND expires_at <= now()
	`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// ActiveRipples lists currently-active world events, newest first.
func (s *Service) ActiveRipples(ctx context.Context) ([]Ripple, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, event_type, narrative, created_at, expires_at, is_active
		FROM world_events
		WHERE is_active AND expires_at > now()
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ripple
	for rows.Next() {
		var r Ripple
		if err := rows.Scan(&r.ID, &r.EventType, &r.Narrative, &r.CreatedAt, &r.ExpiresAt, &r.IsActive); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Service) readSignals(ctx context.Context) (fabricSignals, error) {
	var sig fabricSignals
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE is_alive),
		       COALESCE(AVG(heat_level) FILTER (WHERE is_alive), 0)::float8,
		       COUNT(*) FILTER (WHERE NOT is_alive AND died_at > now() - interval '24 hours')
		FROM players
	`).Scan(&sig.livingPlayers, &sig.avgHeat, &sig.deaths24h)
	if err != nil {
		return sig, err
	}
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM player_systems ps
		JOIN players p ON p.id = ps.player_id
		WHERE p.is_alive AND ps.health <= 0
	`).Scan(&sig.corruptedRigs)
	return sig, err
}
