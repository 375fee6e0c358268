// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/hrzones/schema"
)

// Fatal fault categories. Callers wrap these with fmt.Errorf and %w.
var (
	// ErrProtocolFault means the authorization redirect was malformed or carried no code.
	ErrProtocolFault = errors.New("protocol fault")

	// ErrContractViolation means the remote service returned fewer activities than requested.
	ErrContractViolation = errors.New("contract violation")

	// ErrMissingStream means a required stream (heartrate or velocity_smooth) was absent.
	ErrMissingStream = errors.New("missing stream")

	// ErrCallbackTimeout means no redirect arrived within the configured timeout.
	ErrCallbackTimeout = errors.New("callback timeout")
)

// Authenticator turns an authorization code into an authenticated ActivityClient.
// This allows the fetch pipeline to be tested without the remote service.
type Authenticator interface {
	// AuthorizationURL returns the URL the user must visit to grant access.
	AuthorizationURL(redirectURL string) string

	// Exchange trades the one-time code for an access credential.
	Exchange(ctx context.Context, code string) (ActivityClient, error)
}

// ActivityClient defines the remote operations needed by the fetch pipeline.
type ActivityClient interface {
	// ListActivities returns up to limit of the most recent activities, newest first.
	ListActivities(ctx context.Context, limit int) ([]schema.Activity, error)

	// GetStreams returns the requested streams of one activity keyed by type.
	GetStreams(ctx context.Context, activityID int64, types []schema.StreamType) (schema.StreamSet, error)
}

// HistoryStore defines the interface for tracking report runs and their zone summaries.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, source string, configParams map[string]any) (int64, error)

	// RecordActivityZones stores the zone summaries of one activity
	RecordActivityZones(runID int64, report schema.ActivityReport) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, activityCount int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}

// Publisher emits finished activity reports to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, reports []schema.ActivityReport) error
	Close() error
}
