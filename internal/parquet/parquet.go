// Package parquet provides data structures and functions for exporting hrzones
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/hrzones/schema"
	"github.com/parquet-go/parquet-go"
)

// Run maps to the hrzones_runs table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	RunUUID       string     `parquet:"run_uuid,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	ActivityCount int32      `parquet:"activity_count,snappy"`

	// Source is "strava" or "fit"
	Source string `parquet:"source,snappy,dict"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ZoneSummary maps to the hrzones_zone_summaries table.
type ZoneSummary struct {
	RunID         int64     `parquet:"run_id,snappy"`
	ActivityID    int64     `parquet:"activity_id,snappy"`
	ActivityName  string    `parquet:"activity_name,snappy"`
	ActivityStart time.Time `parquet:"activity_start,snappy"`
	Zone          string    `parquet:"zone,snappy,dict"`
	SampleCount   int32     `parquet:"sample_count,snappy"`
	Unclassified  int32     `parquet:"unclassified,snappy"`
	HeartRateMean float64   `parquet:"hr_mean,snappy"`
	HeartRateMin  float64   `parquet:"hr_min,snappy"`
	HeartRateMax  float64   `parquet:"hr_max,snappy"`
	CadenceMean   float64   `parquet:"cadence_mean,snappy"`
	SpeedKmhMean  float64   `parquet:"speed_kmh_mean,snappy"`
}

// ReportRow is one zone of one activity in a freshly computed report.
type ReportRow struct {
	ActivityID    int64     `parquet:"activity_id,snappy"`
	ActivityName  string    `parquet:"activity_name,snappy"`
	ActivityType  string    `parquet:"activity_type,snappy,dict"`
	ActivityStart time.Time `parquet:"activity_start,snappy"`
	Aligned       int32     `parquet:"aligned,snappy"`
	Unclassified  int32     `parquet:"unclassified,snappy"`
	Zone          string    `parquet:"zone,snappy,dict"`
	Count         int32     `parquet:"count,snappy"`
	Share         float64   `parquet:"share,snappy"`
	HeartRateMean float64   `parquet:"hr_mean,snappy"`
	HeartRateMin  float64   `parquet:"hr_min,snappy"`
	HeartRateMax  float64   `parquet:"hr_max,snappy"`
	HeartRateP50  float64   `parquet:"hr_p50,snappy"`
	CadenceMean   float64   `parquet:"cadence_mean,snappy"`
	SpeedKmhMean  float64   `parquet:"speed_kmh_mean,snappy"`
}

// writeFile writes rows to outputPath with a schema inferred from T's struct tags.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to flush parquet file: %w", err)
	}
	return file.Close()
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteZoneSummariesParquet writes zone summaries to a Parquet file.
func WriteZoneSummariesParquet(data []ZoneSummary, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteReportParquet writes one row per activity and zone to a Parquet file.
func WriteReportParquet(reports []schema.ActivityReport, outputPath string) error {
	return writeFile(ConvertActivityReports(reports), outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	out := make([]Run, len(records))
	for i, r := range records {
		out[i] = Run{
			RunID:         r.RunID,
			RunUUID:       r.RunUUID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			ActivityCount: r.ActivityCount,
			Source:        r.Source,
			ConfigParams:  r.ConfigParams,
		}
	}
	return out
}

// ConvertZoneSummaryRecords converts schema.ZoneSummaryRecord to ZoneSummary for Parquet export.
func ConvertZoneSummaryRecords(records []schema.ZoneSummaryRecord) []ZoneSummary {
	out := make([]ZoneSummary, len(records))
	for i, r := range records {
		out[i] = ZoneSummary(r)
	}
	return out
}

// ConvertActivityReports flattens reports into ReportRow values.
func ConvertActivityReports(reports []schema.ActivityReport) []ReportRow {
	var out []ReportRow
	for _, r := range reports {
		for _, z := range r.Zones {
			out = append(out, ReportRow{
				ActivityID:    r.Activity.ID,
				ActivityName:  r.Activity.Name,
				ActivityType:  r.Activity.Type,
				ActivityStart: r.Activity.StartDate,
				Aligned:       int32(r.Aligned),
				Unclassified:  int32(r.Unclassified),
				Zone:          z.Zone,
				Count:         int32(z.Count),
				Share:         z.Share,
				HeartRateMean: z.HeartRateMean,
				HeartRateMin:  z.HeartRateMin,
				HeartRateMax:  z.HeartRateMax,
				HeartRateP50:  z.HeartRateP50,
				CadenceMean:   z.CadenceMean,
				SpeedKmhMean:  z.SpeedKmhMean,
			})
		}
	}
	return out
}
