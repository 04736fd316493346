package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/nutriconsulta/backend/internal/models"
)

// SchemaMigrationsTable records applied migration files. It is shared with
// cmd/migrate.
const SchemaMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// Migration is a forward SQL file in the migrations directory.
type Migration struct {
	Version string
	Name    string
	Path    string
}

// RollbackPath is the file that undoes m.
func (m Migration) RollbackPath() string {
	return strings.TrimSuffix(m.Path, ".sql") + "_rollback.sql"
}

// MigrationFiles lists the forward migrations in dir ordered by name.
// Files are named VERSION_description.sql; *_rollback.sql files are skipped.
func MigrationFiles(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		migrations = append(migrations, Migration{
			Version: strings.SplitN(name, "_", 2)[0],
			Name:    name,
			Path:    filepath.Join(dir, name),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})
	return migrations, nil
}

// RunMigrations executes all SQL migration files in the migrations directory
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" {
		log.Printf("Using GORM auto-migration for SQLite")
		return db.AutoMigrate(models.All()...)
	}

	migrations, err := MigrationFiles(migrationsDir)
	if err != nil {
		return err
	}

	if err := db.Exec(SchemaMigrationsTable).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Table("schema_migrations").Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Printf("Skipping migration %s (already applied)", m.Name)
			continue
		}

		content, err := os.ReadFile(m.Path)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", m.Name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
			}
			if err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("Applied migration %s", m.Name)
	}

	return nil
}
