package gradestore

import (
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetGradeStore implements the StoreManager interface.
func (m *MockStoreManager) GetGradeStore() contract.GradeStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.GradeStore)
	return store
}

// MockGradeStore is a mock implementation of GradeStore for testing.
type MockGradeStore struct {
	mock.Mock
}

var _ contract.GradeStore = &MockGradeStore{} // Compile-time check

// BeginRun implements the GradeStore interface.
func (m *MockGradeStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the GradeStore interface.
func (m *MockGradeStore) EndRun(runID int64, endTime time.Time, totalRepos int) error {
	args := m.Called(runID, endTime, totalRepos)
	return args.Error(0)
}

// RecordReport implements the GradeStore interface.
func (m *MockGradeStore) RecordReport(runID int64, report schema.GradeReport) error {
	args := m.Called(runID, report)
	return args.Error(0)
}

// GetStatus implements the GradeStore interface.
func (m *MockGradeStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// GetAllRuns implements the GradeStore interface.
func (m *MockGradeStore) GetAllRuns() ([]schema.GradeRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.GradeRunRecord)
	return runs, args.Error(1)
}

// GetAllReports implements the GradeStore interface.
func (m *MockGradeStore) GetAllReports() ([]schema.GradeReportRecord, error) {
	args := m.Called()
	reports, _ := args.Get(0).([]schema.GradeReportRecord)
	return reports, args.Error(1)
}

// GetAllMilestoneScores implements the GradeStore interface.
func (m *MockGradeStore) GetAllMilestoneScores() ([]schema.MilestoneScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.MilestoneScoreRecord)
	return scores, args.Error(1)
}

// Close implements the GradeStore interface.
func (m *MockGradeStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
