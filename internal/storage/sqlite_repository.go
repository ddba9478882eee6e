package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/tutord/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens path and brings the schema up to date.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const blockColumns = `id, name, content, properties, is_pinned, is_deleted, created_at, updated_at`

// SaveBlock inserts or overwrites a block. New blocks go to the end of the
// collection; existing ones keep their position.
func (r *SQLiteRepository) SaveBlock(ctx context.Context, in model.Block) error {
	props, err := encodeProperties(in.Properties)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO blocks (id, position, name, content, properties, is_pinned, is_deleted, created_at, updated_at)
		VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM blocks), ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			content = excluded.content,
			properties = excluded.properties,
			is_pinned = excluded.is_pinned,
			is_deleted = excluded.is_deleted,
			updated_at = excluded.updated_at`,
		in.ID, in.Name, in.Content, props, boolInt(in.IsPinned), boolInt(in.IsDeleted),
		mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetBlock(ctx context.Context, id string) (model.Block, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM blocks WHERE id = ?`, id)
	b, err := scanBlock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Block{}, ErrNotFound
		}
		return model.Block{}, err
	}
	return b, nil
}

func (r *SQLiteRepository) DeleteBlock(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListBlocks(ctx context.Context, filter BlockListFilter) ([]model.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks`
	args := make([]any, 0, 2)
	if !filter.IncludeDeleted {
		query += ` WHERE is_deleted = 0`
	}
	query += ` ORDER BY position ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Block, 0)
	for rows.Next() {
		b, scanErr := scanBlock(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ReplaceBlocks swaps the stored collection for blocks in one transaction.
func (r *SQLiteRepository) ReplaceBlocks(ctx context.Context, blocks []model.Block) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return replaceBlocks(ctx, tx, blocks)
	})
}

func replaceBlocks(ctx context.Context, ex execer, blocks []model.Block) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM blocks`); err != nil {
		return err
	}
	for i, b := range blocks {
		props, err := encodeProperties(b.Properties)
		if err != nil {
			return err
		}
		if _, err := ex.ExecContext(ctx, `
			INSERT INTO blocks (id, position, name, content, properties, is_pinned, is_deleted, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, i, b.Name, b.Content, props, boolInt(b.IsPinned), boolInt(b.IsDeleted),
			mustTime(b.CreatedAt), mustTime(b.UpdatedAt),
		); err != nil {
			return fmt.Errorf("insert block %s: %w", b.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) SaveTag(ctx context.Context, in model.Tag) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tags (id, position, name, color)
		VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM tags), ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, color = excluded.color`,
		in.ID, in.Name, in.Color,
	)
	return err
}

func (r *SQLiteRepository) GetTag(ctx context.Context, id string) (model.Tag, error) {
	var out model.Tag
	err := r.db.QueryRowContext(ctx, `SELECT id, name, color FROM tags WHERE id = ?`, id).
		Scan(&out.ID, &out.Name, &out.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Tag{}, ErrNotFound
		}
		return model.Tag{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteTag(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTags(ctx context.Context, filter TagListFilter) ([]model.Tag, error) {
	query := `SELECT id, name, color FROM tags ORDER BY position ASC, id ASC`
	args := make([]any, 0, 2)
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveCustomView(ctx context.Context, in model.CustomView) error {
	ids, err := json.Marshal(nonNil(in.PropertyIDs))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO custom_views (id, position, name, property_ids)
		VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM custom_views), ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, property_ids = excluded.property_ids`,
		in.ID, in.Name, string(ids),
	)
	return err
}

func (r *SQLiteRepository) DeleteCustomView(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_views WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListCustomViews(ctx context.Context) ([]model.CustomView, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, property_ids FROM custom_views ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CustomView, 0)
	for rows.Next() {
		var v model.CustomView
		var raw string
		if err := rows.Scan(&v.ID, &v.Name, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &v.PropertyIDs); err != nil {
			return nil, fmt.Errorf("%w: custom view %s: %w", ErrMalformed, v.ID, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SaveHistory writes one day's bucket, replacing the stored row. Merging is
// the caller's job.
func (r *SQLiteRepository) SaveHistory(ctx context.Context, in model.Top3History) error {
	return saveHistory(ctx, r.db, in)
}

func saveHistory(ctx context.Context, ex execer, in model.Top3History) error {
	if !in.Date.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidDay, in.Date)
	}
	raw, err := json.Marshal(nonNil(in.Blocks))
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO top3_history (date, blocks) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET blocks = excluded.blocks`,
		in.Date.String(), string(raw),
	)
	return err
}

// ListHistory returns buckets newest first. Since keeps dates on or after it.
func (r *SQLiteRepository) ListHistory(ctx context.Context, filter HistoryListFilter) ([]model.Top3History, error) {
	query := `SELECT date, blocks FROM top3_history`
	args := make([]any, 0, 3)
	if filter.Since != "" {
		query += ` WHERE date >= ?`
		args = append(args, filter.Since)
	}
	query += ` ORDER BY date DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Top3History, 0)
	for rows.Next() {
		var date, raw string
		if err := rows.Scan(&date, &raw); err != nil {
			return nil, err
		}
		h := model.Top3History{Date: model.Day(date)}
		if err := json.Unmarshal([]byte(raw), &h.Blocks); err != nil {
			return nil, fmt.Errorf("%w: history %s: %w", ErrMalformed, date, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// SaveWorkspace replaces every table with w in a single transaction.
func (r *SQLiteRepository) SaveWorkspace(ctx context.Context, w model.Workspace) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := replaceBlocks(ctx, tx, w.Blocks); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tags`); err != nil {
			return err
		}
		for i, t := range w.Tags {
			if _, err := tx.ExecContext(ctx, `INSERT INTO tags (id, position, name, color) VALUES (?, ?, ?, ?)`,
				t.ID, i, t.Name, t.Color); err != nil {
				return fmt.Errorf("insert tag %s: %w", t.ID, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM custom_views`); err != nil {
			return err
		}
		for i, v := range w.CustomViews {
			ids, err := json.Marshal(nonNil(v.PropertyIDs))
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO custom_views (id, position, name, property_ids) VALUES (?, ?, ?, ?)`,
				v.ID, i, v.Name, string(ids)); err != nil {
				return fmt.Errorf("insert custom view %s: %w", v.ID, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM top3_history`); err != nil {
			return err
		}
		for _, h := range w.History {
			if err := saveHistory(ctx, tx, h); err != nil {
				return fmt.Errorf("insert history %s: %w", h.Date, err)
			}
		}
		return nil
	})
}

// LoadWorkspace reads everything, soft-deleted blocks included. A row that
// no longer decodes yields an error wrapping ErrMalformed.
func (r *SQLiteRepository) LoadWorkspace(ctx context.Context) (model.Workspace, error) {
	var (
		w   model.Workspace
		err error
	)
	if w.Blocks, err = r.ListBlocks(ctx, BlockListFilter{IncludeDeleted: true}); err != nil {
		return model.Workspace{}, err
	}
	if w.Tags, err = r.ListTags(ctx, TagListFilter{}); err != nil {
		return model.Workspace{}, err
	}
	if w.CustomViews, err = r.ListCustomViews(ctx); err != nil {
		return model.Workspace{}, err
	}
	if w.History, err = r.ListHistory(ctx, HistoryListFilter{}); err != nil {
		return model.Workspace{}, err
	}
	return w, nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func encodeProperties(props []model.Property) (string, error) {
	raw, err := json.Marshal(nonNil(props))
	if err != nil {
		return "", fmt.Errorf("encode properties: %w", err)
	}
	return string(raw), nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlock(s scanner) (model.Block, error) {
	var out model.Block
	var props string
	var pinned, deleted int
	var created, updated string
	if err := s.Scan(&out.ID, &out.Name, &out.Content, &props, &pinned, &deleted, &created, &updated); err != nil {
		return model.Block{}, err
	}
	if err := json.Unmarshal([]byte(props), &out.Properties); err != nil {
		return model.Block{}, fmt.Errorf("%w: block %s: %w", ErrMalformed, out.ID, err)
	}
	if out.Properties == nil {
		out.Properties = []model.Property{}
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Block{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return model.Block{}, err
	}
	out.IsPinned = pinned == 1
	out.IsDeleted = deleted == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
