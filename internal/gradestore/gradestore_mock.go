package gradestore

import (
	"github.com/huangsam/gradekit/internal/contract"
	"github.com/stretchr/testify/mock"

	"github.com/huangsam/gradekit/schema"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// SaveRun implements the HistoryStore interface.
func (m *MockHistoryStore) SaveRun(report *schema.Report) (int64, error) {
	args := m.Called(report)
	return args.Get(0).(int64), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.GradingRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.GradingRunRecord)
	return runs, args.Error(1)
}

// Purge implements the HistoryStore interface.
func (m *MockHistoryStore) Purge() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
