package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/nutriconsulta/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the SQL migration files")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(database.SchemaMigrationsTable); err != nil {
		log.Fatalf("failed to create migrations table: %v", err)
	}

	migrations, err := database.MigrationFiles(*migrationsDir)
	if err != nil {
		log.Fatal(err)
	}

	if *rollback {
		if err := rollbackLast(db, migrations); err != nil {
			log.Fatal(err)
		}
		return
	}

	for _, m := range migrations {
		var applied bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version).Scan(&applied)
		if err != nil {
			log.Fatalf("failed to check migration status: %v", err)
		}
		if applied {
			fmt.Printf("Migration already applied: %s\n", m.Name)
			continue
		}

		fmt.Printf("Applying migration: %s\n", m.Path)
		if err := apply(db, m.Path, func(tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name)
			return err
		}); err != nil {
			log.Fatalf("failed to apply migration %s: %v", m.Name, err)
		}
		fmt.Printf("Successfully applied migration: %s\n", m.Name)
	}

	fmt.Println("All migrations applied successfully.")
}

func rollbackLast(db *sql.DB, migrations []database.Migration) error {
	var version, name string
	err := db.QueryRow(`
		SELECT version, name
		FROM schema_migrations
		ORDER BY version DESC
		LIMIT 1
	`).Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	var target *database.Migration
	for i := range migrations {
		if migrations[i].Version == version {
			target = &migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration file for version %s not found", version)
	}

	rollbackPath := target.RollbackPath()
	if _, err := os.Stat(rollbackPath); err != nil {
		return fmt.Errorf("rollback file not found: %s", rollbackPath)
	}

	if err := apply(db, rollbackPath, func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version)
		return err
	}); err != nil {
		return fmt.Errorf("failed to roll back %s: %w", name, err)
	}

	fmt.Printf("Successfully rolled back migration: %s\n", name)
	return nil
}

// apply runs the SQL file at path and then record in one transaction.
func apply(db *sql.DB, path string, record func(*sql.Tx) error) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.Exec(string(content)); err != nil {
		tx.Rollback()
		return err
	}
	if err := record(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
