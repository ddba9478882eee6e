package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/tutord/internal/model"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateUpRecordsVersionOnce(t *testing.T) {
	db := openRawDB(t)

	if v, err := SchemaVersion(db); err != nil || v != 0 {
		t.Fatalf("fresh schema version = %d, %v; want 0", v, err)
	}
	for i := 0; i < 2; i++ {
		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up #%d: %v", i+1, err)
		}
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&rows); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	steps, err := loadMigrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if rows != len(steps) {
		t.Fatalf("schema_migrations has %d rows, want %d", rows, len(steps))
	}
	if v, _ := SchemaVersion(db); v != steps[len(steps)-1].version {
		t.Fatalf("schema version = %d, want %d", v, steps[len(steps)-1].version)
	}
}

func TestMigrateDownThenUpKeepsRepositoryUsable(t *testing.T) {
	db := openRawDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if v, _ := SchemaVersion(db); v != 0 {
		t.Fatalf("version after down = %d, want 0", v)
	}
	var tables int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'blocks'`).Scan(&tables); err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if tables != 0 {
		t.Fatalf("blocks table survived migrate down")
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up again: %v", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	if err := repo.SaveBlock(ctx, model.NewBlock("lesson-1", "Algebra with Mina", "chapter 4", now)); err != nil {
		t.Fatalf("save after remigrate: %v", err)
	}
	got, err := repo.GetBlock(ctx, "lesson-1")
	if err != nil {
		t.Fatalf("get after remigrate: %v", err)
	}
	if got.Name != "Algebra with Mina" {
		t.Fatalf("name = %q", got.Name)
	}
}

func TestMigrationsArePairedAndOrdered(t *testing.T) {
	steps, err := loadMigrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(steps) == 0 {
		t.Fatal("no embedded migrations")
	}
	for i, m := range steps {
		if m.up == "" || m.down == "" {
			t.Fatalf("migration %d has an empty side", m.version)
		}
		if i > 0 && steps[i-1].version >= m.version {
			t.Fatalf("versions out of order: %d then %d", steps[i-1].version, m.version)
		}
	}
}
