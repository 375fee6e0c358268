//go:build basic

// Package integration contains integration tests for hrzones.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or with database containers: go test -tags database ./integration
package integration

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/hrzones/core"
	"github.com/huangsam/hrzones/internal/report"
	"github.com/huangsam/hrzones/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"
)

var noHistory = []string{"HRZONES_HISTORY_BACKEND=none"}

// TestZonesVerification checks the printed zone table against the boundaries in code.
func TestZonesVerification(t *testing.T) {
	out, err := runCommand(t, noHistory, "zones", "--output", "json")
	require.NoError(t, err)

	var model schema.ZonesRenderModel
	require.NoError(t, json.Unmarshal([]byte(out), &model))
	require.Len(t, model.Zones, schema.ZoneCount)
	for i, z := range model.Zones {
		assert.Equal(t, schema.ZoneBoundaries[i].Zone.String(), z.Zone)
		assert.Equal(t, schema.ZoneBoundaries[i].Range(), z.Range)
	}
}

func writeFIT(t *testing.T, dir string, hr []uint8) string {
	t.Helper()
	file, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, true))
	require.NoError(t, err)
	activity, err := file.Activity()
	require.NoError(t, err)

	start := time.Date(2024, 7, 14, 8, 0, 0, 0, time.UTC)
	for i, v := range hr {
		rec := fit.NewRecordMsg()
		rec.Timestamp = start.Add(time.Duration(i) * time.Second)
		rec.HeartRate = v
		rec.Speed = uint16(2000 + 10*i)
		rec.Cadence = 85
		activity.Records = append(activity.Records, rec)
	}

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))
	path := filepath.Join(dir, "long-run.fit")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// TestFitVerification runs hrzones fit and verifies the CSV counts against direct classification.
func TestFitVerification(t *testing.T) {
	dir := t.TempDir()
	var hr []uint8
	for v := 120; v <= 200; v++ {
		hr = append(hr, uint8(v))
	}
	fitPath := writeFIT(t, dir, hr)
	outputDir := filepath.Join(dir, "report")

	out, err := runCommand(t, noHistory, "fit", fitPath, "--output", "csv", "--output-dir", outputDir)
	require.NoError(t, err)

	want := map[string]int{}
	for _, v := range hr {
		if z, ok := core.ClassifyZone(float64(v)); ok {
			want[z.String()]++
		}
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+schema.ZoneCount)
	header := records[0]
	zoneCol := indexOf(header, "zone")
	countCol := indexOf(header, "count")
	unclassifiedCol := indexOf(header, "unclassified")

	total := 0
	for _, rec := range records[1:] {
		count, err := strconv.Atoi(rec[countCol])
		require.NoError(t, err)
		assert.Equal(t, want[rec[zoneCol]], count, rec[zoneCol])
		assert.Equal(t, "8", rec[unclassifiedCol], "172 through 179 inclusive")
		total += count
	}
	assert.Equal(t, len(hr)-8, total)

	manifest, err := report.ReadManifest(outputDir)
	require.NoError(t, err)
	require.Len(t, manifest.Activities, 1)
	for _, chart := range manifest.Activities[0].Charts {
		assert.FileExists(t, filepath.Join(outputDir, filepath.FromSlash(chart)))
	}
	assert.FileExists(t, filepath.Join(outputDir, report.IndexFile))
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
