package gradestore

import (
	"fmt"
	"os"
	"sync"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
)

// StoreManagerImpl manages the grade store instance.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointer during initialization
	grades       contract.GradeStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetGradeStore returns the grade archive store.
func (mgr *StoreManagerImpl) GetGradeStore() contract.GradeStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.grades
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetGradeDBFilePath returns the path to the SQLite DB file for grade storage.
func GetGradeDBFilePath() string {
	return contract.GetGradeDBFilePath()
}

// InitStore initializes the global store manager. An empty backend
// disables archiving by installing a no-op store.
func InitStore(backend schema.StoreBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		if backend == "" {
			backend = schema.NoneBackend
		}
		store, err := NewGradeStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize grade store: %w", err)
			return
		}
		Manager.grades = store
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.grades != nil {
			_ = Manager.grades.Close()
		}
	})
}

// ClearStore clears the grade archive for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the grade tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.StoreBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropGradeTables("mysql", connStr)

	case schema.PostgreSQLBackend:
		return dropGradeTables("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropGradeTables connects to the SQL database and drops the grade tables.
func dropGradeTables(driverName, connStr string) error {
	for _, table := range []string{milestoneScoresTable, gradeReportsTable, gradeRunsTable} {
		if err := dropSQLTable(driverName, connStr, table); err != nil {
			return err
		}
	}
	return nil
}
