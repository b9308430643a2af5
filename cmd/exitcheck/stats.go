package main

import (
	"encoding/json"
	"fmt"

	"github.com/phrazzld/exitcheck/internal/domain/pattern"
	"github.com/phrazzld/exitcheck/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print the statistics summary as JSON",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	stores, release, err := openStores(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer release()

	stats := service.NewStatsService(stores.Events, stores.Items, stores.Streaks,
		pattern.NewAnalyzer(pattern.Params{Weekdays: cfg.Analytics.WeekdaySet()}), log,
		service.WithStatsSettings(service.SettingsFromConfig(cfg.Checklist)))
	summary, err := stats.Summary(cmd.Context())
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
