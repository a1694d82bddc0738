package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trivia-service/internal/config"
	"trivia-service/internal/logging"
)

// NewScoresCmd prints a player's recent game scores.
func NewScoresCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scores <player>",
		Short: "Show the most recent scores of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg, logging.New(cfg.Log.Level, "scores"), false)
			if err != nil {
				return err
			}
			defer d.Close()

			entries, err := d.service.RecentScores(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "no games recorded for %s\n", args[0])
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %d\n", e.RecordedAt.Format("2006-01-02 15:04"), e.Score)
			}
			return nil
		},
	}
}
