package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/hrzones/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveActivity(t *testing.T) {
	m := NewMetrics()

	var az schema.ActivityZones
	az.Buckets[schema.ZoneGA1].Count = 4
	az.Buckets[schema.ZoneSB].Count = 2
	az.Unclassified = 3

	m.ObserveActivity(az)
	m.ObserveActivity(az)

	assert.Equal(t, 8.0, testutil.ToFloat64(m.samples.WithLabelValues("GA1")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.samples.WithLabelValues("SB")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.samples.WithLabelValues("S")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.unclassified))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activities))
}

func TestObserveRun(t *testing.T) {
	m := NewMetrics()
	m.ObserveRun(time.Time{})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.lastRun))

	m.ObserveRun(time.Unix(1700000000, 0))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.lastRun))
}

func TestZonesPreRegistered(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, schema.ZoneCount, testutil.CollectAndCount(m.samples))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	var az schema.ActivityZones
	az.Buckets[schema.ZoneEB].Count = 7
	m.ObserveActivity(az)

	path := filepath.Join(t.TempDir(), "hrzones.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `hrzones_samples_total{zone="EB"} 7`)
	assert.Contains(t, out, "hrzones_activities_total 1")
	assert.True(t, strings.Contains(out, "# HELP hrzones_samples_unclassified_total"))
}
