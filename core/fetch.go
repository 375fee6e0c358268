package core

import (
	"context"
	"fmt"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"go.uber.org/zap"
)

// FetchActivityZones lists the most recent activities and, strictly in the order
// returned, fetches and aggregates each one before requesting the next.
// Receiving fewer than limit activities is a contract violation. Any failure
// discards everything fetched so far.
func FetchActivityZones(ctx context.Context, client contract.ActivityClient, limit int, types []schema.StreamType) ([]schema.ActivityZones, error) {
	log := contract.Logger()

	activities, err := client.ListActivities(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	if len(activities) < limit {
		return nil, fmt.Errorf("%w: requested %d activities, received %d", contract.ErrContractViolation, limit, len(activities))
	}
	activities = activities[:limit]

	results := make([]schema.ActivityZones, 0, len(activities))
	for _, act := range activities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Debug("Fetching streams", zap.Int64("activity", act.ID), zap.String("name", act.Name))
		streams, err := client.GetStreams(ctx, act.ID, types)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch streams for activity %d: %w", act.ID, err)
		}
		zones, err := AnalyzeActivity(act, streams)
		if err != nil {
			return nil, err
		}
		log.Debug("Aggregated activity",
			zap.Int64("activity", act.ID),
			zap.Int("aligned", zones.Aligned),
			zap.Int("unclassified", zones.Unclassified))
		results = append(results, zones)
	}
	return results, nil
}

// RedirectHandler returns the work performed when the authorization redirect arrives:
// exchange the code, then fetch and aggregate the activities.
func RedirectHandler(auth contract.Authenticator, limit int, types []schema.StreamType) func(ctx context.Context, code string) ([]schema.ActivityZones, error) {
	return func(ctx context.Context, code string) ([]schema.ActivityZones, error) {
		client, err := auth.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
		}
		return FetchActivityZones(ctx, client, limit, types)
	}
}
