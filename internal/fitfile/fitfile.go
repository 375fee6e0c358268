// Package fitfile turns a recorded FIT activity file into the same stream set
// the remote service returns, so it can go through the zone pipeline offline.
package fitfile

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/hrzones/schema"
	"github.com/tormoder/fit"
)

// DecodeFile opens and decodes the FIT file at path.
func DecodeFile(path string) (schema.Activity, schema.StreamSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.Activity{}, nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer func() { _ = f.Close() }()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Decode(f, name)
}

// Decode reads an activity FIT file. Records without a valid heart rate are
// skipped; an invalid speed becomes 0. The cadence stream is only present if
// at least one kept record carries a cadence value.
func Decode(r io.Reader, name string) (schema.Activity, schema.StreamSet, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return schema.Activity{}, nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return schema.Activity{}, nil, fmt.Errorf("activity FIT expected: %w", err)
	}

	var (
		start      time.Time
		stamps     []time.Time
		heartRates []float64
		speeds     []float64
		cadences   []float64
		hasCadence bool
	)
	for _, rec := range activity.Records {
		hr, ok := extractHeartRate(rec)
		if !ok {
			continue
		}
		ts := validTimeOrZero(rec.Timestamp)
		if start.IsZero() && !ts.IsZero() {
			start = ts
		}
		speed, _ := extractSpeed(rec)
		cad, cadOK := extractCadence(rec)
		hasCadence = hasCadence || cadOK

		stamps = append(stamps, ts)
		heartRates = append(heartRates, hr)
		speeds = append(speeds, speed)
		cadences = append(cadences, cad)
	}
	if len(heartRates) == 0 {
		return schema.Activity{}, nil, fmt.Errorf("FIT file has no heart-rate records")
	}

	act := schema.Activity{Name: name, StartDate: start}
	if len(activity.Sessions) > 0 {
		session := activity.Sessions[0]
		act.Type = fmt.Sprint(session.Sport)
		if st := validTimeOrZero(session.StartTime); !st.IsZero() {
			act.StartDate = st
		}
	}
	if !act.StartDate.IsZero() {
		act.ID = act.StartDate.Unix()
	}

	// Elapsed time is measured from StartDate so both describe the same origin.
	times := make([]float64, len(stamps))
	for i, ts := range stamps {
		if !ts.IsZero() && !act.StartDate.IsZero() {
			times[i] = ts.Sub(act.StartDate).Seconds()
		}
	}

	streams := schema.StreamSet{
		schema.StreamTime:      times,
		schema.StreamHeartRate: heartRates,
		schema.StreamVelocity:  speeds,
	}
	if hasCadence {
		streams[schema.StreamCadence] = cadences
	}
	return act, streams, nil
}

func extractHeartRate(rec *fit.RecordMsg) (float64, bool) {
	if rec.HeartRate == math.MaxUint8 {
		return 0, false
	}
	return float64(rec.HeartRate), true
}

func extractCadence(rec *fit.RecordMsg) (float64, bool) {
	cad256 := rec.GetCadence256Scaled()
	if isFinite(cad256) && cad256 > 0 {
		return cad256, true
	}
	if rec.Cadence == math.MaxUint8 {
		return 0, false
	}
	return float64(rec.Cadence), true
}

func extractSpeed(rec *fit.RecordMsg) (float64, bool) {
	speed := rec.GetEnhancedSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed, true
	}
	speed = rec.GetSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed, true
	}
	return 0, false
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
