package cmd

import (
	"github.com/huangsam/hrzones/core"
	"github.com/huangsam/hrzones/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd runs the authorization flow and reports the most recent activities.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Authorize with Strava and report training zones of recent activities",
	Long: `Open a one-shot loopback listener, send you to the Strava consent page and,
once the redirect arrives, fetch the heart-rate, speed and cadence streams of
your most recent activities.

For each activity the samples are classified into five zones:
- S    below 137 bpm
- GA1  137 up to 151 bpm
- GA2  151 up to 165 bpm
- EB   165 up to 172 bpm
- SB   above 179 bpm

Samples from 172 to 179 bpm belong to no zone and are counted separately.

Outputs:
- A per-zone summary on stdout or in --output-file
- Charts, index.html and manifest.yaml in --output-dir
- A run record in the history store, unless --history-backend none

Any failure aborts the run before output is written.

Examples:
  # Report the latest activity
  hrzones report

  # Report the last 5 activities as JSON, without opening a browser
  hrzones report --limit 5 --output json --browser no

  # Give up if the redirect does not arrive in 2 minutes
  hrzones report --timeout 2m`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		deps, cleanup, err := newReportDeps(true)
		if err != nil {
			contract.LogFatal("Cannot prepare report", err)
		}
		err = core.ExecuteReport(rootCtx, cfg, deps)
		cleanup()
		if err != nil {
			contract.LogFatal("Report failed", err)
		}
	},
}
