// Package history persists a local, append-only log of past zencheck
// runs: which fixture was checked, whether it passed, and the
// diagnostics recorded. This is purely a driver-level convenience (the
// checker core in internal/check never touches it) built on the
// teacher pack's gorm + sqlite combo (db/sqlite.go), the same way
// morfx persists transaction history.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenpine82/Zen-C-fork/internal/diag"
)

// Run is one recorded invocation of check_program against a single
// fixture file.
type Run struct {
	ID          string `gorm:"primaryKey"`
	File        string
	Passed      bool
	ErrorCount  int
	Diagnostics datatypes.JSON
	CreatedAt   time.Time
}

// Store wraps the gorm handle to the local sqlite run-history database.
type Store struct {
	db *gorm.DB
}

// Open connects to (creating if necessary) the sqlite database at dsn
// and ensures the Run table exists.
func Open(dsn string) (*Store, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("migrating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends one run to the history store. A write failure is
// returned to the caller but must never be treated as a checker error:
// the pass itself already completed and its exit code is final.
func (s *Store) Record(file string, exitCode int, diags []diag.Diagnostic) error {
	payload, err := json.Marshal(diags)
	if err != nil {
		return fmt.Errorf("marshaling diagnostics: %w", err)
	}

	run := Run{
		ID:          uuid.NewString(),
		File:        file,
		Passed:      exitCode == 0,
		ErrorCount:  len(diags),
		Diagnostics: datatypes.JSON(payload),
		CreatedAt:   time.Now(),
	}
	return s.db.Create(&run).Error
}

// Recent returns the most recent limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	var runs []Run
	err := s.db.Order("created_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
