package cmd

import (
	"github.com/huangsam/hrzones/core"
	"github.com/huangsam/hrzones/internal/contract"
	"github.com/spf13/cobra"
)

// zonesCmd displays the zone boundary table.
var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Display the heart-rate zone boundaries",
	Long: `Show the five training zones, their heart-rate ranges and the unclassified
band between EB and SB.

No authorization is performed - this is purely informational.

Examples:
  hrzones zones
  hrzones zones --output json`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteZonesTable(cfg); err != nil {
			contract.LogFatal("Cannot display zones", err)
		}
	},
}
