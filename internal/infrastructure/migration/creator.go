package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// CreateMigration creates a new pair of up/down migration files using a
// timestamp version, e.g. 20260901120000_add_sheet_notes.up.sql.
func CreateMigration(migrationsPath, name string) (string, string, error) {
	if strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("migration name is required")
	}

	if err := os.MkdirAll(migrationsPath, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := time.Now().UTC().Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	upPath := filepath.Join(migrationsPath, base+".up.sql")
	downPath := filepath.Join(migrationsPath, base+".down.sql")

	upContent := fmt.Sprintf("-- Migration: %s\n-- Write the forward migration here.\n", name)
	downContent := fmt.Sprintf("-- Migration: %s (rollback)\n-- Write the rollback here.\n", name)

	if err := os.WriteFile(upPath, []byte(upContent), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write up migration: %w", err)
	}
	if err := os.WriteFile(downPath, []byte(downContent), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write down migration: %w", err)
	}

	return upPath, downPath, nil
}

// ListMigrations returns the distinct migration versions found in the
// migrations directory, sorted ascending.
func ListMigrations(migrationsPath string) ([]string, error) {
	entries, err := os.ReadDir(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	seen := make(map[string]bool)
	var migrations []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationFilePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		key := matches[1] + "_" + matches[2]
		if !seen[key] {
			seen[key] = true
			migrations = append(migrations, key)
		}
	}

	sort.Strings(migrations)
	return migrations, nil
}

// sanitizeName converts a migration name into a safe snake_case file name
func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}
