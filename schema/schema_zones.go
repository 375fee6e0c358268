package schema

import (
	"fmt"
	"math"
)

// Zone is one of the five ordered heart-rate training bands.
type Zone int

// Zones in ascending heart-rate order.
const (
	ZoneS Zone = iota
	ZoneGA1
	ZoneGA2
	ZoneEB
	ZoneSB
)

// ZoneCount is the number of classified zones.
const ZoneCount = 5

// AllZones lists every zone in ascending order.
var AllZones = [ZoneCount]Zone{ZoneS, ZoneGA1, ZoneGA2, ZoneEB, ZoneSB}

var zoneNames = [ZoneCount]string{"S", "GA1", "GA2", "EB", "SB"}

// String returns the short zone label used in charts and tables.
func (z Zone) String() string {
	if !z.Valid() {
		return fmt.Sprintf("Zone(%d)", int(z))
	}
	return zoneNames[z]
}

// Valid reports whether z is one of the five known zones.
func (z Zone) Valid() bool {
	return z >= ZoneS && z <= ZoneSB
}

// ParseZone maps a label like "GA1" back to its zone.
func ParseZone(name string) (Zone, bool) {
	for i, n := range zoneNames {
		if n == name {
			return Zone(i), true
		}
	}
	return 0, false
}

// ZoneBoundary describes the heart-rate interval of one zone.
// Finite upper bounds are exclusive.
type ZoneBoundary struct {
	Zone           Zone
	Lower          float64
	Upper          float64
	LowerInclusive bool
	Description    string
}

// Contains reports whether hr falls inside the boundary.
func (b ZoneBoundary) Contains(hr float64) bool {
	if b.LowerInclusive {
		if !(hr >= b.Lower) {
			return false
		}
	} else if !(hr > b.Lower) {
		return false
	}
	return hr < b.Upper || math.IsInf(b.Upper, 1)
}

// Range renders the interval in the notation printed by `hrzones zones`.
func (b ZoneBoundary) Range() string {
	switch {
	case math.IsInf(b.Lower, -1):
		return fmt.Sprintf("< %g", b.Upper)
	case math.IsInf(b.Upper, 1):
		return fmt.Sprintf("> %g", b.Lower)
	default:
		return fmt.Sprintf("[%g, %g)", b.Lower, b.Upper)
	}
}

// ZoneBoundaries is the fixed zone table. The band from 172 up to and
// including 179 belongs to no zone; samples there are dropped.
var ZoneBoundaries = [ZoneCount]ZoneBoundary{
	{Zone: ZoneS, Lower: math.Inf(-1), Upper: 137, LowerInclusive: true, Description: "Recovery"},
	{Zone: ZoneGA1, Lower: 137, Upper: 151, LowerInclusive: true, Description: "Basic endurance 1"},
	{Zone: ZoneGA2, Lower: 151, Upper: 165, LowerInclusive: true, Description: "Basic endurance 2"},
	{Zone: ZoneEB, Lower: 165, Upper: 172, LowerInclusive: true, Description: "Development"},
	{Zone: ZoneSB, Lower: 179, Upper: math.Inf(1), Description: "Peak"},
}

// UnclassifiedLabel is used wherever a sample outside every zone needs a name.
const UnclassifiedLabel = "unclassified"

// Sample is one aligned (heart rate, speed, cadence) triple. Speed is in m/s.
type Sample struct {
	HeartRate float64
	Speed     float64
	Cadence   float64
}

// ZoneBucket holds the samples classified into one zone for one activity.
// The three slices are index-aligned and each has length Count.
type ZoneBucket struct {
	Count      int       `json:"count"`
	HeartRates []float64 `json:"heart_rates"`
	Cadences   []float64 `json:"cadences"`
	SpeedsKmh  []float64 `json:"speeds_kmh"`
}

// ZoneBuckets is indexed by Zone.
type ZoneBuckets [ZoneCount]ZoneBucket

// Total returns the sum of all zone counts.
func (b ZoneBuckets) Total() int {
	total := 0
	for _, bucket := range b {
		total += bucket.Count
	}
	return total
}

// ZoneSummary is the statistical digest of one ZoneBucket.
type ZoneSummary struct {
	Zone          string  `json:"zone"`
	Count         int     `json:"count"`
	Share         float64 `json:"share"` // percent of aligned samples
	HeartRateMean float64 `json:"heart_rate_mean"`
	HeartRateMin  float64 `json:"heart_rate_min"`
	HeartRateMax  float64 `json:"heart_rate_max"`
	HeartRateP50  float64 `json:"heart_rate_p50"`
	CadenceMean   float64 `json:"cadence_mean"`
	SpeedKmhMean  float64 `json:"speed_kmh_mean"`
}
