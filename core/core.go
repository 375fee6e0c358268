// Package core has core logic for zone classification, aggregation and report runs.
package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/hrzones/internal/callback"
	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/internal/fitfile"
	"github.com/huangsam/hrzones/internal/observability"
	"github.com/huangsam/hrzones/internal/outwriter"
	"github.com/huangsam/hrzones/internal/report"
	"github.com/huangsam/hrzones/schema"
	"go.uber.org/zap"
)

// Sources recorded with each run.
const (
	SourceStrava = "strava"
	SourceFit    = "fit"
)

// ReportDeps holds the collaborators of a report run. Nil History, Publisher
// and Metrics are skipped.
type ReportDeps struct {
	Auth      contract.Authenticator
	History   contract.HistoryStore
	Publisher contract.Publisher
	Metrics   *observability.Metrics

	// OpenURL opens the authorization page when browser opening is enabled.
	OpenURL func(url string) error

	// Prompt receives the authorization instructions. Defaults to os.Stderr.
	Prompt io.Writer
}

func (d ReportDeps) prompt() io.Writer {
	if d.Prompt != nil {
		return d.Prompt
	}
	return os.Stderr
}

// ExecuteReport runs the authorization flow and produces the report for the
// most recent activities. It is the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, deps ReportDeps) error {
	start := time.Now()
	if deps.Auth == nil {
		return fmt.Errorf("no authenticator configured")
	}

	listener := callback.New(callback.Config{
		Host:    cfg.CallbackHost,
		Port:    cfg.CallbackPort,
		Path:    cfg.CallbackPath,
		Timeout: cfg.Timeout,
	}, RedirectHandler(deps.Auth, cfg.Limit, cfg.StreamTypes))
	if err := listener.Listen(); err != nil {
		return err
	}
	defer func() { _ = listener.Close() }()

	authURL := deps.Auth.AuthorizationURL(listener.RedirectURL())
	_, _ = fmt.Fprintf(deps.prompt(), "🔑 Authorize hrzones in your browser:\n   %s\n⏳ Waiting for the redirect on %s\n", authURL, listener.RedirectURL())
	if cfg.OpenBrowser && deps.OpenURL != nil {
		if err := deps.OpenURL(authURL); err != nil {
			contract.LogWarn("Cannot open browser", err)
		}
	}

	results, err := listener.Wait(ctx)
	if err != nil {
		return err
	}
	return finishRun(ctx, cfg, deps, results, SourceStrava, start)
}

// ExecuteFitReport produces the report for one activity recorded in a FIT file.
func ExecuteFitReport(ctx context.Context, cfg *contract.Config, deps ReportDeps, path string) error {
	start := time.Now()
	activity, streams, err := fitfile.DecodeFile(path)
	if err != nil {
		return err
	}
	zones, err := AnalyzeActivity(activity, streams)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return finishRun(ctx, cfg, deps, []schema.ActivityZones{zones}, SourceFit, start)
}

// ExecuteZonesTable displays the zone boundary table.
// This is a static display that does not require authorization.
func ExecuteZonesTable(cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteZones(cfg)
}

// finishRun records, publishes and writes the results of a successful fetch.
// Sinks that are not part of the report itself only log their failures.
func finishRun(ctx context.Context, cfg *contract.Config, deps ReportDeps, results []schema.ActivityZones, source string, start time.Time) error {
	reports := BuildActivityReports(results)

	recordHistory(deps.History, cfg, source, start, reports)
	observeMetrics(deps.Metrics, cfg, results)
	if deps.Publisher != nil {
		if err := deps.Publisher.Publish(ctx, reports); err != nil {
			contract.LogWarn("Cannot publish reports", err)
		}
	}

	if err := outwriter.NewOutWriter().WriteReports(reports, cfg, time.Since(start)); err != nil {
		return err
	}
	manifest, err := report.NewAssembler(cfg.OutputDir).Assemble(results, source)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "📊 Report for %d activities written to %s\n", len(manifest.Activities), cfg.OutputDir)
	return nil
}

// recordHistory stores the run. The run starts at the original start time even
// though it is only written after the fetch succeeded.
func recordHistory(store contract.HistoryStore, cfg *contract.Config, source string, start time.Time, reports []schema.ActivityReport) {
	if store == nil {
		return
	}
	runID, err := store.BeginRun(start, source, configParams(cfg))
	if err != nil {
		contract.LogWarn("Failed to begin history run", err)
		return
	}
	recorded := 0
	for _, r := range reports {
		if err := store.RecordActivityZones(runID, r); err != nil {
			contract.LogWarn(fmt.Sprintf("Failed to record activity %d", r.Activity.ID), err)
			continue
		}
		recorded++
	}
	if err := store.EndRun(runID, time.Now(), recorded); err != nil {
		contract.LogWarn("Failed to end history run", err)
	}
	contract.Logger().Debug("Recorded run", zap.Int64("run", runID), zap.Int("activities", recorded))
}

func observeMetrics(m *observability.Metrics, cfg *contract.Config, results []schema.ActivityZones) {
	if m == nil {
		return
	}
	for _, az := range results {
		m.ObserveActivity(az)
	}
	m.ObserveRun(time.Now())
	if cfg.MetricsFile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		contract.LogWarn("Cannot write metrics file", err)
	}
}

// configParams captures the settings that shape a run.
func configParams(cfg *contract.Config) map[string]any {
	streams := make([]string, 0, len(cfg.StreamTypes))
	for _, s := range cfg.StreamTypes {
		streams = append(streams, string(s))
	}
	return map[string]any{
		"limit":     cfg.Limit,
		"streams":   strings.Join(streams, ","),
		"output":    string(cfg.Output),
		"precision": cfg.Precision,
	}
}
