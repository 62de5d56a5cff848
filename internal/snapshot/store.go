package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/menutree/internal/apperr"
	"github.com/starford/menutree/internal/menu"
)

const (
	metaChecksum = "checksum"
	metaSavedAt  = "saved_at"
)

// Store is the snapshot persistence contract used by the catalog.
type Store interface {
	Save(ctx context.Context, tree menu.Tree, checksum string) (bool, error)
	Load(ctx context.Context) (menu.Tree, string, error)
	Checksum(ctx context.Context) (string, error)
}

var _ Store = (*DB)(nil)

// Checksum returns the checksum of the saved snapshot, or apperr.ErrNotFound
// if nothing has been saved yet.
func (db *DB) Checksum(ctx context.Context) (string, error) {
	var cs string
	err := db.conn.QueryRowContext(ctx, `SELECT value FROM meta WHERE name = ?`, metaChecksum).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("snapshot: checksum: %w", err)
	}
	return cs, nil
}

// Save replaces the stored tree in one transaction. It is a no-op returning
// false when checksum equals the stored one.
func (db *DB) Save(ctx context.Context, tree menu.Tree, checksum string) (bool, error) {
	current, err := db.Checksum(ctx)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	if err == nil && current == checksum {
		return false, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return false, fmt.Errorf("snapshot: clear nodes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO nodes (key, parent_key, position, label, icon) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("snapshot: prepare node insert: %w", err)
	}
	defer stmt.Close()

	var insert func(nodes []menu.Node, parent string) error
	insert = func(nodes []menu.Node, parent string) error {
		for i, n := range nodes {
			if _, err := stmt.ExecContext(ctx, n.Key, parent, i, n.Label, n.Icon); err != nil {
				return fmt.Errorf("snapshot: insert node %q: %w", n.Key, err)
			}
			if err := insert(n.Children, n.Key); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(tree, ""); err != nil {
		return false, err
	}

	upsert := `INSERT INTO meta (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, metaChecksum, checksum); err != nil {
		return false, fmt.Errorf("snapshot: save checksum: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, metaSavedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return false, fmt.Errorf("snapshot: save timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("snapshot: commit: %w", err)
	}
	return true, nil
}

type nodeRow struct {
	key   string
	label string
	icon  string
}

// Load rebuilds the stored tree in its original order together with its checksum.
func (db *DB) Load(ctx context.Context) (menu.Tree, string, error) {
	cs, err := db.Checksum(ctx)
	if err != nil {
		return nil, "", err
	}

	rows, err := db.conn.QueryContext(ctx, `SELECT key, parent_key, label, icon FROM nodes ORDER BY parent_key, position`)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot: load nodes: %w", err)
	}
	defer rows.Close()

	children := make(map[string][]nodeRow)
	for rows.Next() {
		var r nodeRow
		var parent string
		if err := rows.Scan(&r.key, &parent, &r.label, &r.icon); err != nil {
			return nil, "", fmt.Errorf("snapshot: scan node: %w", err)
		}
		children[parent] = append(children[parent], r)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("snapshot: load nodes: %w", err)
	}

	var build func(parent string) []menu.Node
	build = func(parent string) []menu.Node {
		rs := children[parent]
		if len(rs) == 0 {
			return nil
		}
		out := make([]menu.Node, len(rs))
		for i, r := range rs {
			out[i] = menu.Node{
				Key:      r.key,
				Label:    r.label,
				Icon:     r.icon,
				Children: build(r.key),
			}
		}
		return out
	}

	tree := menu.Tree(build(""))
	if tree == nil {
		tree = menu.Tree{}
	}
	return tree, cs, nil
}
