package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cl "gridfall/internal/cli"
	"gridfall/internal/config"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "gfctl",
		Short:        "Gridfall operator CLI",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "ops API base URL")

	root.AddCommand(
		newSeasonCmd(&apiBase),
		newRipplesCmd(&apiBase),
		newEffectsCmd(&apiBase),
		newGlitchCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func cmdContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newSeasonCmd(apiBase *string) *cobra.Command {
	season := &cobra.Command{
		Use:   "season",
		Short: "Show the active season",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			status, err := newClient(apiBase).Season(ctx)
			if err != nil {
				return err
			}
			printSeason(status)
			return nil
		},
	}
	season.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End the active season and start its successor",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			next, err := newClient(apiBase).EndSeason(ctx)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Season rotated. Now active: %s (ends %s)", next.Name, next.EndsAt.Format(time.RFC3339)))
			return nil
		},
	})
	return season
}

func newRipplesCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ripples",
		Short: "List active world events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			ripples, err := newClient(apiBase).Ripples(ctx)
			if err != nil {
				return err
			}
			printRipples(ripples)
			return nil
		},
	}
}

func newEffectsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "effects",
		Short: "Show the composed modifier vector",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			effects, err := newClient(apiBase).Effects(ctx)
			if err != nil {
				return err
			}
			printEffects(effects)
			return nil
		},
	}
}

func newGlitchCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "glitch",
		Short: "Show today's glitch",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			glitch, err := newClient(apiBase).Glitch(ctx)
			if err != nil {
				return err
			}
			printGlitch(glitch)
			return nil
		},
	}
}
