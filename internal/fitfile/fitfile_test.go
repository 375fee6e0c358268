package fitfile

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/hrzones/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"
)

type testRecord struct {
	offset  time.Duration
	hr      uint8
	speed   uint16 // mm/s
	cadence uint8
}

func buildTestFIT(t *testing.T, start time.Time, records []testRecord) []byte {
	t.Helper()
	return buildTestFITWithSession(t, time.Time{}, start, records)
}

// buildTestFITWithSession adds a session starting at sessionStart unless it is zero.
func buildTestFITWithSession(t *testing.T, sessionStart, start time.Time, records []testRecord) []byte {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	require.NoError(t, err)

	activity, err := file.Activity()
	require.NoError(t, err)

	for _, r := range records {
		rec := fit.NewRecordMsg()
		rec.Timestamp = start.Add(r.offset)
		rec.HeartRate = r.hr
		rec.Speed = r.speed
		rec.Cadence = r.cadence
		activity.Records = append(activity.Records, rec)
	}
	if !sessionStart.IsZero() {
		session := fit.NewSessionMsg()
		session.StartTime = sessionStart
		session.Timestamp = start.Add(records[len(records)-1].offset)
		session.Sport = fit.SportRunning
		activity.Sessions = append(activity.Sessions, session)
	}

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	start := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	data := buildTestFIT(t, start, []testRecord{
		{0, 130, 2500, 80},
		{time.Second, math.MaxUint8, 2600, 81}, // no heart rate, dropped
		{2 * time.Second, 176, math.MaxUint16, 82},
		{3 * time.Second, 185, 3000, math.MaxUint8},
	})

	act, streams, err := Decode(bytes.NewReader(data), "morning")
	require.NoError(t, err)

	assert.Equal(t, "morning", act.Name)
	assert.Equal(t, start.Unix(), act.ID)
	assert.True(t, act.StartDate.Equal(start))

	assert.Equal(t, []float64{130, 176, 185}, streams[schema.StreamHeartRate])
	assert.Equal(t, []float64{0, 2, 3}, streams[schema.StreamTime])
	require.Len(t, streams[schema.StreamVelocity], 3)
	assert.InDelta(t, 2.5, streams[schema.StreamVelocity][0], 1e-9)
	assert.Zero(t, streams[schema.StreamVelocity][1], "invalid speed becomes 0")
	assert.InDelta(t, 3.0, streams[schema.StreamVelocity][2], 1e-9)
	assert.Equal(t, []float64{80, 82, 0}, streams[schema.StreamCadence])
}

func TestDecodeElapsedFromSessionStart(t *testing.T) {
	sessionStart := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	firstRecord := sessionStart.Add(10 * time.Second)
	data := buildTestFITWithSession(t, sessionStart, firstRecord, []testRecord{
		{0, 130, 2500, 80},
		{5 * time.Second, 140, 2500, 80},
	})

	act, streams, err := Decode(bytes.NewReader(data), "warmup")
	require.NoError(t, err)
	assert.True(t, act.StartDate.Equal(sessionStart))
	assert.Equal(t, sessionStart.Unix(), act.ID)
	assert.Equal(t, []float64{10, 15}, streams[schema.StreamTime])
}

func TestDecodeWithoutCadence(t *testing.T) {
	start := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	data := buildTestFIT(t, start, []testRecord{
		{0, 140, 2000, math.MaxUint8},
		{time.Second, 150, 2000, math.MaxUint8},
	})

	_, streams, err := Decode(bytes.NewReader(data), "easy")
	require.NoError(t, err)
	assert.False(t, streams.Has(schema.StreamCadence))
	assert.Len(t, streams[schema.StreamHeartRate], 2)
}

func TestDecodeNoHeartRate(t *testing.T) {
	start := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	data := buildTestFIT(t, start, []testRecord{{0, math.MaxUint8, 2000, 80}})

	_, _, err := Decode(bytes.NewReader(data), "strap-off")
	assert.ErrorContains(t, err, "no heart-rate records")
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not a fit file")), "x")
	assert.Error(t, err)
}

func TestDecodeFile(t *testing.T) {
	start := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "long_run.fit")
	require.NoError(t, os.WriteFile(path, buildTestFIT(t, start, []testRecord{{0, 140, 2000, 80}}), 0o600))

	act, streams, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "long_run", act.Name)
	assert.Len(t, streams[schema.StreamHeartRate], 1)

	_, _, err = DecodeFile(filepath.Join(t.TempDir(), "missing.fit"))
	assert.Error(t, err)
}
