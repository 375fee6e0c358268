package history

import (
	"time"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of HistoryStore for testing.
type MockStore struct {
	mock.Mock
}

var (
	_ contract.HistoryStore = &MockStore{} // Compile-time check
	_ Reader                = &MockStore{} // Compile-time check
	_ Reader                = &StoreImpl{} // Compile-time check
)

// BeginRun implements the HistoryStore interface.
func (m *MockStore) BeginRun(startTime time.Time, source string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, source, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordActivityZones implements the HistoryStore interface.
func (m *MockStore) RecordActivityZones(runID int64, report schema.ActivityReport) error {
	args := m.Called(runID, report)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockStore) EndRun(runID int64, endTime time.Time, activityCount int) error {
	args := m.Called(runID, endTime, activityCount)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the Reader interface.
func (m *MockStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllZoneSummaries implements the Reader interface.
func (m *MockStore) GetAllZoneSummaries() ([]schema.ZoneSummaryRecord, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.ZoneSummaryRecord)
	return rows, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
