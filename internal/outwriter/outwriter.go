// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReports prints per-activity zone summaries using the configured output format.
func (ow *OutWriter) WriteReports(reports []schema.ActivityReport, cfg *contract.Config, duration time.Duration) error {
	return WriteActivityReports(reports, cfg, duration)
}

// WriteZones prints the zone definitions using the configured output format.
func (ow *OutWriter) WriteZones(cfg *contract.Config) error {
	return PrintZoneDefinitions(cfg)
}

const (
	fallbackTermWidth = 80
	minNameWidth      = 15
	maxNameWidth      = 60
	fixedColumnsWidth = 40 // Type + Start + Samples with borders
)

// getMaxNameWidth calculates how wide an activity name may be in table output.
func getMaxNameWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = fallbackTermWidth
		} else {
			termWidth = detected
		}
	}
	return max(minNameWidth, min(maxNameWidth, termWidth-fixedColumnsWidth))
}
