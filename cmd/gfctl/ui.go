package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	cl "gridfall/internal/cli"
	"gridfall/internal/sim"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printSeason(status cl.SeasonStatus) {
	accent.Printf("%s\n", status.Season.Name)
	neutral.Printf("  started:   %s\n", status.Season.StartedAt.Format(time.RFC3339))
	neutral.Printf("  ends:      %s\n", status.Season.EndsAt.Format(time.RFC3339))
	if status.DaysRemaining <= 7 {
		warn.Printf("  remaining: %d day(s)\n", status.DaysRemaining)
	} else {
		neutral.Printf("  remaining: %d day(s)\n", status.DaysRemaining)
	}
	if len(status.Season.MetaModules) > 0 {
		neutral.Println("  meta modules:")
		for _, m := range status.Season.MetaModules {
			neutral.Printf("    - %s\n", m.Name)
		}
	}
}

func printRipples(ripples []sim.Ripple) {
	if len(ripples) == 0 {
		neutral.Println("The grid is quiet.")
		return
	}
	for _, r := range ripples {
		accent.Printf("[%s]\n", r.EventType)
		neutral.Printf("  %s\n", r.Narrative)
		neutral.Printf("  expires %s\n", r.ExpiresAt.Format(time.RFC3339))
	}
}

func printEffects(e sim.Effects) {
	rows := []struct {
		name   string
		factor float64
	}{
		{"energy cost", e.EnergyCost},
		{"hack reward", e.HackReward},
		{"degradation rate", e.DegradationRate},
		{"repair cost", e.RepairCost},
		{"passive income", e.PassiveIncome},
		{"detection chance", e.DetectionChance},
		{"xp gain", e.XPGain},
		{"heat decay", e.HeatDecay},
	}
	for _, row := range rows {
		line := fmt.Sprintf("  %-18s ×%.2f", row.name, row.factor)
		switch {
		case row.factor > 1.0:
			warn.Println(line)
		case row.factor < 1.0:
			success.Println(line)
		default:
			neutral.Println(line)
		}
	}
}

func printGlitch(g sim.DailyGlitch) {
	accent.Printf("%s (%s)\n", g.Name, g.GlitchID)
	for key, factor := range g.Effects {
		neutral.Printf("  %s ×%.2f\n", key, factor)
	}
}
