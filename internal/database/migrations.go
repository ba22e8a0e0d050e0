package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for filtering and sorting
		{"tasks", "idx_tasks_assigner_id", "assigner_id"},
		{"tasks", "idx_tasks_manager_id", "manager_id"},
		{"tasks", "idx_tasks_deadline", "deadline"},

		// Report review list is ordered by creation time
		{"reports", "idx_reports_task_id", "task_id"},
		{"reports", "idx_reports_created_at", "created_at"},

		// Attendance lookup per user
		{"stamps", "idx_stamps_user_id", "user_id"},
		{"stamps", "idx_stamps_clock_in", "clock_in"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}
