// Package report assembles per-activity charts, an HTML index and a YAML manifest.
package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

// Top-level files written next to the activity directories.
const (
	IndexFile    = "index.html"
	ManifestFile = "manifest.yaml"
)

// Manifest lists everything an Assemble call wrote.
type Manifest struct {
	GeneratedAt time.Time       `yaml:"generated_at"`
	Source      string          `yaml:"source"`
	Activities  []ManifestEntry `yaml:"activities"`
}

// ManifestEntry describes one activity directory.
type ManifestEntry struct {
	ID           int64          `yaml:"id"`
	Name         string         `yaml:"name"`
	Type         string         `yaml:"type,omitempty"`
	StartDate    time.Time      `yaml:"start_date"`
	Dir          string         `yaml:"dir"`
	Aligned      int            `yaml:"aligned"`
	Unclassified int            `yaml:"unclassified"`
	Counts       map[string]int `yaml:"counts"`
	Charts       []string       `yaml:"charts"`
}

// Assembler writes report artifacts below a single output directory.
type Assembler struct {
	outputDir string
	width     vg.Length
	height    vg.Length
	now       func() time.Time
}

// NewAssembler creates an Assembler rooted at outputDir.
func NewAssembler(outputDir string) *Assembler {
	return &Assembler{
		outputDir: outputDir,
		width:     6 * vg.Inch,
		height:    4 * vg.Inch,
		now:       time.Now,
	}
}

// ActivityDir returns the directory name used for one activity.
func ActivityDir(a schema.Activity) string {
	date := "undated"
	if !a.StartDate.IsZero() {
		date = a.StartDate.Format(time.DateOnly)
	}
	return date + "_" + strconv.FormatInt(a.ID, 10)
}

// Assemble renders the charts of every activity, then the index and manifest.
func (a *Assembler) Assemble(results []schema.ActivityZones, source string) (Manifest, error) {
	manifest := Manifest{GeneratedAt: a.now().UTC(), Source: source}

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return manifest, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, az := range results {
		entry, err := a.writeActivity(az)
		if err != nil {
			return manifest, err
		}
		manifest.Activities = append(manifest.Activities, entry)
	}

	if err := a.writeIndex(manifest); err != nil {
		return manifest, err
	}
	if err := a.writeManifest(manifest); err != nil {
		return manifest, err
	}
	contract.Logger().Debug("Assembled report",
		zap.String("dir", a.outputDir),
		zap.Int("activities", len(manifest.Activities)))
	return manifest, nil
}

func (a *Assembler) writeActivity(az schema.ActivityZones) (ManifestEntry, error) {
	dir := ActivityDir(az.Activity)
	if err := os.MkdirAll(filepath.Join(a.outputDir, dir), 0o755); err != nil {
		return ManifestEntry{}, fmt.Errorf("failed to create activity directory: %w", err)
	}

	charts := []struct {
		name  string
		write func(string, schema.ActivityZones, vg.Length, vg.Length) error
	}{
		{CountChartFile, writeCount},
		{CadenceSpeedChartFile, writeCadenceSpeed},
		{HeartRateChartFile, writeHeartRate},
	}

	entry := ManifestEntry{
		ID:           az.Activity.ID,
		Name:         az.Activity.Name,
		Type:         az.Activity.Type,
		StartDate:    az.Activity.StartDate,
		Dir:          dir,
		Aligned:      az.Aligned,
		Unclassified: az.Unclassified,
		Counts:       make(map[string]int, schema.ZoneCount),
	}
	for i, b := range az.Buckets {
		entry.Counts[schema.Zone(i).String()] = b.Count
	}
	for _, c := range charts {
		rel := filepath.ToSlash(filepath.Join(dir, c.name))
		if err := c.write(filepath.Join(a.outputDir, dir, c.name), az, a.width, a.height); err != nil {
			return entry, fmt.Errorf("failed to render %s for activity %d: %w", c.name, az.Activity.ID, err)
		}
		entry.Charts = append(entry.Charts, rel)
	}
	return entry, nil
}

func (a *Assembler) writeManifest(m Manifest) error {
	f, err := os.Create(filepath.Join(a.outputDir, ManifestFile))
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadManifest loads a manifest written by Assemble.
func ReadManifest(outputDir string) (Manifest, error) {
	var m Manifest
	raw, err := os.ReadFile(filepath.Join(outputDir, ManifestFile))
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"zones": func() []schema.Zone { return schema.AllZones[:] },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format(time.DateTime)
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Heart rate zones</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.2em 0.6em; text-align: right; }
img { max-width: 48%; margin: 0.5em 0; }
</style>
</head>
<body>
<h1>Heart rate zones</h1>
<p>Generated {{ date .GeneratedAt }} from {{ .Source }}.</p>
{{ range .Activities }}
<section>
<h2>{{ .Name }} <small>{{ .Type }} {{ date .StartDate }} (id {{ .ID }})</small></h2>
<table>
<tr>{{ range zones }}<th>{{ . }}</th>{{ end }}<th>unclassified</th><th>aligned</th></tr>
<tr>{{ $counts := .Counts }}{{ range zones }}<td>{{ index $counts .String }}</td>{{ end }}<td>{{ .Unclassified }}</td><td>{{ .Aligned }}</td></tr>
</table>
{{ range .Charts }}<a href="{{ . }}"><img src="{{ . }}" alt="{{ . }}"></a>
{{ end }}
</section>
{{ else }}
<p>No activities.</p>
{{ end }}
</body>
</html>
`))

func (a *Assembler) writeIndex(m Manifest) error {
	f, err := os.Create(filepath.Join(a.outputDir, IndexFile))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := indexTemplate.Execute(f, m); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}
	return f.Close()
}
