package cmd

import (
	"fmt"

	"github.com/huangsam/hrzones/core"
	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/internal/history"
	"github.com/huangsam/hrzones/internal/observability"
	"github.com/huangsam/hrzones/internal/publish"
	"github.com/huangsam/hrzones/internal/strava"
	"github.com/pkg/browser"
)

// newReportDeps wires the run collaborators from the validated config.
// The returned cleanup closes the history store and the publisher.
func newReportDeps(withAuth bool) (core.ReportDeps, func(), error) {
	deps := core.ReportDeps{
		Metrics: observability.NewMetrics(),
		OpenURL: browser.OpenURL,
	}

	if withAuth {
		clientID, clientSecret, err := strava.ResolveCredentials(cfg.ClientID, cfg.ClientSecret, cfg.CredentialsFile)
		if err != nil {
			return deps, func() {}, err
		}
		deps.Auth = strava.NewAuthenticator(strava.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			APIURL:       cfg.APIURL,
			AuthURL:      cfg.AuthURL,
			TokenURL:     cfg.TokenURL,
		})
	}

	store, err := history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		return deps, func() {}, fmt.Errorf("failed to initialize history: %w", err)
	}
	deps.History = store
	deps.Publisher = publish.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)

	cleanup := func() {
		if err := deps.Publisher.Close(); err != nil {
			contract.LogWarn("Cannot close publisher", err)
		}
		if err := store.Close(); err != nil {
			contract.LogWarn("Cannot close history store", err)
		}
	}
	return deps, cleanup, nil
}
