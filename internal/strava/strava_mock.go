package strava

import (
	"context"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"github.com/stretchr/testify/mock"
)

// MockAuthenticator is a mock implementation of Authenticator for testing.
type MockAuthenticator struct {
	mock.Mock
}

var _ contract.Authenticator = &MockAuthenticator{} // Compile-time check

// AuthorizationURL implements the Authenticator interface.
func (m *MockAuthenticator) AuthorizationURL(redirectURL string) string {
	args := m.Called(redirectURL)
	return args.String(0)
}

// Exchange implements the Authenticator interface.
func (m *MockAuthenticator) Exchange(ctx context.Context, code string) (contract.ActivityClient, error) {
	args := m.Called(ctx, code)
	client, _ := args.Get(0).(contract.ActivityClient)
	return client, args.Error(1)
}

// MockActivityClient is a mock implementation of ActivityClient for testing.
type MockActivityClient struct {
	mock.Mock
}

var _ contract.ActivityClient = &MockActivityClient{} // Compile-time check

// ListActivities implements the ActivityClient interface.
func (m *MockActivityClient) ListActivities(ctx context.Context, limit int) ([]schema.Activity, error) {
	args := m.Called(ctx, limit)
	activities, _ := args.Get(0).([]schema.Activity)
	return activities, args.Error(1)
}

// GetStreams implements the ActivityClient interface.
func (m *MockActivityClient) GetStreams(ctx context.Context, activityID int64, types []schema.StreamType) (schema.StreamSet, error) {
	args := m.Called(ctx, activityID, types)
	streams, _ := args.Get(0).(schema.StreamSet)
	return streams, args.Error(1)
}
