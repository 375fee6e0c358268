package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/internal/parquet"
	"github.com/huangsam/hrzones/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteActivityReports outputs the reports, dispatching on the configured output format.
func WriteActivityReports(reports []schema.ActivityReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, reports)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, reports, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteReportParquet(reports, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.Logger().Debug("Wrote Parquet report")
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTables(w, reports, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

var reportCSVHeader = []string{
	"activity_id",
	"activity_name",
	"activity_type",
	"start_date",
	"aligned",
	"unclassified",
	"zone",
	"count",
	"share",
	"hr_mean",
	"hr_min",
	"hr_max",
	"hr_p50",
	"cadence_mean",
	"speed_kmh_mean",
}

func writeReportCSV(w io.Writer, reports []schema.ActivityReport, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, reportCSVHeader, func(cw *csv.Writer) error {
		for _, r := range reports {
			for _, z := range r.Zones {
				rec := []string{
					strconv.FormatInt(r.Activity.ID, 10),
					r.Activity.Name,
					r.Activity.Type,
					r.Activity.StartDate.Format(contract.DateTimeFormat),
					strconv.Itoa(r.Aligned),
					strconv.Itoa(r.Unclassified),
					z.Zone,
					strconv.Itoa(z.Count),
					fmtFloat(z.Share),
					fmtFloat(z.HeartRateMean),
					fmtFloat(z.HeartRateMin),
					fmtFloat(z.HeartRateMax),
					fmtFloat(z.HeartRateP50),
					fmtFloat(z.CadenceMean),
					fmtFloat(z.SpeedKmhMean),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeReportTables renders one table per activity followed by a run summary.
func writeReportTables(w io.Writer, reports []schema.ActivityReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	nameWidth := getMaxNameWidth(cfg)
	totalAligned, totalUnclassified := 0, 0

	for _, r := range reports {
		start := "-"
		if !r.Activity.StartDate.IsZero() {
			start = r.Activity.StartDate.Local().Format(time.DateTime)
		}
		if _, err := fmt.Fprintf(w, "\n%s [%s] %s (id %d)\n",
			contract.TruncateName(r.Activity.Name, nameWidth), r.Activity.Type, start, r.Activity.ID); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Zone", "Range", "Samples", "Share %", "HR Mean", "HR Min", "HR Max", "HR P50", "Cadence", "Speed km/h"})
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, z := range r.Zones {
			label := z.Zone
			if cfg.UseColors {
				label = contract.GetColorLabel(z.Zone)
			}
			row := []string{label, zoneRange(z.Zone), strconv.Itoa(z.Count), fmtFloat(z.Share)}
			if z.Count == 0 {
				row = append(row, "-", "-", "-", "-", "-", "-")
			} else {
				row = append(row,
					fmtFloat(z.HeartRateMean),
					fmtFloat(z.HeartRateMin),
					fmtFloat(z.HeartRateMax),
					fmtFloat(z.HeartRateP50),
					fmtFloat(z.CadenceMean),
					fmtFloat(z.SpeedKmhMean),
				)
			}
			data = append(data, row)
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Aligned samples: %d, unclassified (172-179 bpm): %d\n", r.Aligned, r.Unclassified); err != nil {
			return err
		}
		totalAligned += r.Aligned
		totalUnclassified += r.Unclassified
	}

	if _, err := fmt.Fprintf(w, "\nShowing %d activities (aligned samples: %d, unclassified: %d)\n",
		len(reports), totalAligned, totalUnclassified); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Report completed in %v. History backend: %s\n", duration.Round(time.Millisecond), cfg.HistoryBackend)
	return err
}

func zoneRange(name string) string {
	if z, ok := schema.ParseZone(name); ok {
		return schema.ZoneBoundaries[z].Range()
	}
	return ""
}
