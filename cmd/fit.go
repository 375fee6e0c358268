package cmd

import (
	"github.com/huangsam/hrzones/core"
	"github.com/huangsam/hrzones/internal/contract"
	"github.com/spf13/cobra"
)

// fitCmd reports a single activity from a local FIT file.
var fitCmd = &cobra.Command{
	Use:   "fit <file.fit>",
	Short: "Report training zones of an activity recorded in a FIT file",
	Long: `Decode heart-rate, speed and cadence records from a FIT activity file and
produce the same summary and report as 'hrzones report', without contacting Strava.

Examples:
  hrzones fit morning-run.fit
  hrzones fit ride.fit --output csv --output-file ride.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		deps, cleanup, err := newReportDeps(false)
		if err != nil {
			contract.LogFatal("Cannot prepare report", err)
		}
		err = core.ExecuteFitReport(rootCtx, cfg, deps, args[0])
		cleanup()
		if err != nil {
			contract.LogFatal("FIT report failed", err)
		}
	},
}
