package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const versionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name    TEXT NOT NULL
)`

// migration is one numbered NNNN_name.{up,down}.sql pair.
type migration struct {
	version int
	name    string
	up      string
	down    string
}

// MigrateUp applies every migration newer than the recorded schema version.
// Each step runs in its own transaction together with its version row.
func MigrateUp(db *sql.DB) error {
	steps, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	for _, m := range steps {
		if applied[m.version] {
			continue
		}
		err := migrateTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.up); err != nil {
				return err
			}
			_, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name)
			return err
		})
		if err != nil {
			return fmt.Errorf("storage: migrate up %04d_%s: %w", m.version, m.name, err)
		}
	}
	return nil
}

// MigrateDown reverts every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	steps, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	slices.Reverse(steps)
	for _, m := range steps {
		if !applied[m.version] {
			continue
		}
		err := migrateTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.down); err != nil {
				return err
			}
			_, err := tx.Exec(`DELETE FROM schema_migrations WHERE version = ?`, m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("storage: migrate down %04d_%s: %w", m.version, m.name, err)
		}
	}
	return nil
}

// SchemaVersion is the highest applied migration, 0 for an empty database.
func SchemaVersion(db *sql.DB) (int, error) {
	applied, err := appliedVersions(db)
	if err != nil {
		return 0, err
	}
	top := 0
	for v := range applied {
		top = max(top, v)
	}
	return top, nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	if _, err := db.Exec(versionTable); err != nil {
		return nil, fmt.Errorf("storage: create schema_migrations: %w", err)
	}
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("storage: read schema version: %w", err)
	}
	defer rows.Close()
	out := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}

func loadMigrations() ([]migration, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("storage: list migrations: %w", err)
	}
	steps := make([]migration, 0, len(names))
	for _, upPath := range names {
		base := strings.TrimSuffix(path.Base(upPath), ".up.sql")
		num, name, ok := strings.Cut(base, "_")
		version, err := strconv.Atoi(num)
		if !ok || err != nil {
			return nil, fmt.Errorf("storage: migration %s: want NNNN_name.up.sql", upPath)
		}
		up, err := migrationFiles.ReadFile(upPath)
		if err != nil {
			return nil, err
		}
		down, err := migrationFiles.ReadFile(strings.TrimSuffix(upPath, ".up.sql") + ".down.sql")
		if err != nil {
			return nil, fmt.Errorf("storage: migration %s has no down file: %w", base, err)
		}
		steps = append(steps, migration{version: version, name: name, up: string(up), down: string(down)})
	}
	slices.SortFunc(steps, func(a, b migration) int { return a.version - b.version })
	return steps, nil
}

func migrateTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
