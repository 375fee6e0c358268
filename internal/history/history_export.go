package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/internal/parquet"
	"github.com/huangsam/hrzones/schema"
)

// Reader is the read side of a history store.
type Reader interface {
	GetStatus() (schema.HistoryStatus, error)
	GetAllRuns() ([]schema.RunRecord, error)
	GetAllZoneSummaries() ([]schema.ZoneSummaryRecord, error)
}

// ExportHistory writes every run and zone summary to two Parquet files named
// after outputFile and reports progress to w.
func ExportHistory(store Reader, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total zone summaries: %d\n", status.TotalZoneSummaries)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	summaries, err := store.GetAllZoneSummaries()
	if err != nil {
		return fmt.Errorf("failed to retrieve zone summaries: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	zonesFile := outputFile + ".zone_summaries.parquet"
	if err := parquet.WriteZoneSummariesParquet(parquet.ConvertZoneSummaryRecords(summaries), zonesFile); err != nil {
		return fmt.Errorf("failed to write zone summaries: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d zone summaries to: %s\n", len(summaries), zonesFile)
	return nil
}

// PrintHistoryStatus prints status information to w.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Local().Format(contract.DateTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Local().Format(contract.DateTimeFormat))
		_, _ = fmt.Fprintf(w, "Total Activities: %d\n", status.TotalActivities)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range []string{runsTable, zoneSummaryTable} {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
