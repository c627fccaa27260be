package iosink

import (
	"context"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/schema"
	"github.com/stretchr/testify/mock"
)

// MockSinkManager is a mock implementation of SinkManager for testing.
type MockSinkManager struct {
	mock.Mock
}

var _ contract.SinkManager = &MockSinkManager{} // Compile-time check

// GetRunStore implements the SinkManager interface.
func (m *MockSinkManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// RecordRun implements the RunStore interface.
func (m *MockRunStore) RecordRun(run schema.RunRecord, values []schema.FlatValue) (int64, error) {
	args := m.Called(run, values)
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.SinkStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SinkStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllMetricValues implements the RunStore interface.
func (m *MockRunStore) GetAllMetricValues() ([]schema.MetricValueRecord, error) {
	args := m.Called()
	values, _ := args.Get(0).([]schema.MetricValueRecord)
	return values, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockUploader is a mock implementation of ReportUploader for testing.
type MockUploader struct {
	mock.Mock
}

var _ contract.ReportUploader = &MockUploader{} // Compile-time check

// Upload implements the ReportUploader interface.
func (m *MockUploader) Upload(ctx context.Context, key string, content []byte) error {
	args := m.Called(ctx, key, content)
	return args.Error(0)
}
