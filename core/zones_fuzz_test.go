package core

import (
	"math"
	"testing"

	"github.com/huangsam/hrzones/schema"
)

// FuzzClassifyZone checks that a sample lands in exactly one zone or in the gap.
func FuzzClassifyZone(f *testing.F) {
	for _, seed := range []float64{0, 136.9, 137, 151, 165, 171.99, 172, 179, 179.0001, 250, -1, math.NaN(), math.Inf(1)} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, hr float64) {
		zone, ok := ClassifyZone(hr)
		matches := 0
		for _, b := range schema.ZoneBoundaries {
			if b.Contains(hr) {
				matches++
			}
		}
		if ok {
			if matches != 1 || !schema.ZoneBoundaries[zone].Contains(hr) {
				t.Fatalf("hr %v classified as %s but boundaries matched %d times", hr, zone, matches)
			}
			return
		}
		if matches != 0 {
			t.Fatalf("hr %v unclassified but inside %d zones", hr, matches)
		}
		if !math.IsNaN(hr) && (hr < 172 || hr > 179) {
			t.Fatalf("hr %v unclassified outside the gap", hr)
		}
	})
}

// FuzzAggregateZones checks the count invariant for arbitrary stream lengths.
func FuzzAggregateZones(f *testing.F) {
	f.Add(uint8(6), uint8(6), uint8(0), float64(100), float64(7))
	f.Add(uint8(5), uint8(3), uint8(0), float64(170), float64(2))
	f.Add(uint8(10), uint8(10), uint8(4), float64(120), float64(9))

	f.Fuzz(func(t *testing.T, nHR, nSpeed, nCadence uint8, base, step float64) {
		hr := make([]float64, nHR)
		for i := range hr {
			hr[i] = base + float64(i)*step
		}
		speed := make([]float64, nSpeed)
		var cadence []float64
		if nCadence > 0 {
			cadence = make([]float64, nCadence)
		}

		buckets, aligned, unclassified := AggregateZones(Align(hr, speed, cadence))
		wantAligned := min(int(nHR), int(nSpeed))
		if cadence != nil {
			wantAligned = min(wantAligned, len(cadence))
		}
		if aligned != wantAligned {
			t.Fatalf("aligned = %d, want %d", aligned, wantAligned)
		}
		if buckets.Total()+unclassified != aligned {
			t.Fatalf("total %d + unclassified %d != aligned %d", buckets.Total(), unclassified, aligned)
		}
	})
}

// BenchmarkAggregateZones benchmarks aggregation of a one-hour activity.
func BenchmarkAggregateZones(b *testing.B) {
	const n = 3600
	hr := make([]float64, n)
	speed := make([]float64, n)
	cadence := make([]float64, n)
	for i := range n {
		hr[i] = 120 + float64(i%80)
		speed[i] = 3
		cadence[i] = 85
	}

	for b.Loop() {
		AggregateZones(Align(hr, speed, cadence))
	}
}

// BenchmarkSummarizeZones benchmarks the per-zone statistics.
func BenchmarkSummarizeZones(b *testing.B) {
	hr := make([]float64, 3600)
	speed := make([]float64, len(hr))
	for i := range hr {
		hr[i] = 120 + float64(i%80)
		speed[i] = 3
	}
	az, err := AnalyzeActivity(schema.Activity{ID: 1}, schema.StreamSet{
		schema.StreamHeartRate: hr,
		schema.StreamVelocity:  speed,
	})
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		SummarizeZones(az)
	}
}
