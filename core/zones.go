package core

import (
	"fmt"
	"iter"
	"slices"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ClassifyZone maps a heart-rate sample to its zone. The second return value
// is false for samples that fall into no zone (172 to 179 inclusive, or NaN).
func ClassifyZone(hr float64) (schema.Zone, bool) {
	for _, b := range schema.ZoneBoundaries {
		if b.Contains(hr) {
			return b.Zone, true
		}
	}
	return 0, false
}

// MetersPerSecondToKmh converts a speed sample from m/s to km/h.
// The division order is kept as is so results match historical reports bit for bit.
func MetersPerSecondToKmh(v float64) float64 {
	return v / 1000 / (1.0 / 3600)
}

// DefaultCadence returns n zero cadence values.
func DefaultCadence(n int) []float64 {
	return make([]float64, n)
}

// resolveCadence substitutes DefaultCadence when cadence is absent (nil).
// The default is sized to the heart-rate stream, not the speed stream. This is
// intentional: alignment truncates to the shortest stream afterwards, so a longer
// default never produces extra samples.
func resolveCadence(hr, cadence []float64) []float64 {
	if cadence == nil {
		return DefaultCadence(len(hr))
	}
	return cadence
}

// Align lazily pairs the three streams position by position. A nil cadence means
// the stream is absent and zeros are used instead. The sequence stops at the end
// of the shortest stream; trailing samples of longer streams are discarded.
func Align(hr, speed, cadence []float64) iter.Seq[schema.Sample] {
	cadence = resolveCadence(hr, cadence)
	return func(yield func(schema.Sample) bool) {
		n := min(len(hr), len(speed), len(cadence))
		for i := range n {
			if !yield(schema.Sample{HeartRate: hr[i], Speed: speed[i], Cadence: cadence[i]}) {
				return
			}
		}
	}
}

// AlignStreams aligns the heartrate, velocity_smooth and cadence streams of one activity.
func AlignStreams(streams schema.StreamSet) iter.Seq[schema.Sample] {
	var cadence []float64
	if streams.Has(schema.StreamCadence) {
		cadence = streams[schema.StreamCadence]
		if cadence == nil {
			cadence = []float64{}
		}
	}
	return Align(streams[schema.StreamHeartRate], streams[schema.StreamVelocity], cadence)
}

// AggregateZones classifies every aligned sample and fills the zone buckets.
// Unclassified samples contribute nothing to any bucket. It returns the buckets,
// the number of aligned samples and the number of unclassified samples, so
// buckets.Total() + unclassified == aligned always holds.
func AggregateZones(samples iter.Seq[schema.Sample]) (schema.ZoneBuckets, int, int) {
	var buckets schema.ZoneBuckets
	aligned, unclassified := 0, 0
	for s := range samples {
		aligned++
		zone, ok := ClassifyZone(s.HeartRate)
		if !ok {
			unclassified++
			continue
		}
		b := &buckets[zone]
		b.Count++
		b.HeartRates = append(b.HeartRates, s.HeartRate)
		b.Cadences = append(b.Cadences, s.Cadence)
		b.SpeedsKmh = append(b.SpeedsKmh, MetersPerSecondToKmh(s.Speed))
	}
	return buckets, aligned, unclassified
}

// AnalyzeActivity aligns and aggregates the streams of one activity.
// Heart rate and velocity are required; cadence is optional.
func AnalyzeActivity(activity schema.Activity, streams schema.StreamSet) (schema.ActivityZones, error) {
	for _, required := range []schema.StreamType{schema.StreamHeartRate, schema.StreamVelocity} {
		if !streams.Has(required) {
			return schema.ActivityZones{}, fmt.Errorf("%w: activity %d has no %s stream", contract.ErrMissingStream, activity.ID, required)
		}
	}
	buckets, aligned, unclassified := AggregateZones(AlignStreams(streams))
	return schema.ActivityZones{
		Activity:     activity,
		HeartRates:   streams[schema.StreamHeartRate],
		Buckets:      buckets,
		Aligned:      aligned,
		Unclassified: unclassified,
	}, nil
}

// SummarizeZones computes the per-zone statistics of one activity.
// Empty zones are reported with a zero count and zero statistics.
func SummarizeZones(az schema.ActivityZones) []schema.ZoneSummary {
	out := make([]schema.ZoneSummary, 0, schema.ZoneCount)
	for _, zone := range schema.AllZones {
		b := az.Buckets[zone]
		s := schema.ZoneSummary{Zone: zone.String(), Count: b.Count}
		if b.Count > 0 {
			if az.Aligned > 0 {
				s.Share = float64(b.Count) / float64(az.Aligned) * 100
			}
			s.HeartRateMean = stat.Mean(b.HeartRates, nil)
			s.HeartRateMin = floats.Min(b.HeartRates)
			s.HeartRateMax = floats.Max(b.HeartRates)
			sorted := slices.Clone(b.HeartRates)
			slices.Sort(sorted)
			s.HeartRateP50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
			s.CadenceMean = stat.Mean(b.Cadences, nil)
			s.SpeedKmhMean = stat.Mean(b.SpeedsKmh, nil)
		}
		out = append(out, s)
	}
	return out
}

// BuildActivityReport pairs an activity with its zone summaries.
func BuildActivityReport(az schema.ActivityZones) schema.ActivityReport {
	return schema.ActivityReport{
		Activity:     az.Activity,
		Aligned:      az.Aligned,
		Unclassified: az.Unclassified,
		Zones:        SummarizeZones(az),
	}
}

// BuildActivityReports applies BuildActivityReport to every result in order.
func BuildActivityReports(results []schema.ActivityZones) []schema.ActivityReport {
	reports := make([]schema.ActivityReport, 0, len(results))
	for _, az := range results {
		reports = append(reports, BuildActivityReport(az))
	}
	return reports
}
