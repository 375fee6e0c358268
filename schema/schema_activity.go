package schema

import "time"

// Activity identifies one remote exercise session.
type Activity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	StartDate time.Time `json:"start_date"`
}

// StreamSet maps stream names to positional samples. Equal indices across
// streams are treated as co-temporal; lengths are not checked here.
type StreamSet map[StreamType][]float64

// Has reports whether the stream is present.
func (s StreamSet) Has(t StreamType) bool {
	_, ok := s[t]
	return ok
}

// ActivityZones is the per-activity result of classification and aggregation.
type ActivityZones struct {
	Activity     Activity    `json:"activity"`
	HeartRates   []float64   `json:"-"` // raw heart-rate stream for the overall box plot
	Buckets      ZoneBuckets `json:"-"`
	Aligned      int         `json:"aligned"`
	Unclassified int         `json:"unclassified"`
}

// ActivityReport pairs an activity with its zone summaries for the writers.
type ActivityReport struct {
	Activity     Activity      `json:"activity"`
	Aligned      int           `json:"aligned"`
	Unclassified int           `json:"unclassified"`
	Zones        []ZoneSummary `json:"zones"`
}
