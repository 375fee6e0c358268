package schema

import "time"

// RunRecord represents a row from the hrzones_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	ActivityCount int32
	Source        string // "strava" or "fit"
	ConfigParams  *string
}

// ZoneSummaryRecord represents a row from the hrzones_zone_summaries table.
type ZoneSummaryRecord struct {
	RunID         int64
	ActivityID    int64
	ActivityName  string
	ActivityStart time.Time
	Zone          string
	SampleCount   int32
	Unclassified  int32
	HeartRateMean float64
	HeartRateMin  float64
	HeartRateMax  float64
	CadenceMean   float64
	SpeedKmhMean  float64
}
