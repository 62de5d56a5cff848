// Package testutil provides shared test helpers for setting up tree documents,
// snapshot databases and loaded catalogs.
package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/menutree/internal/catalog"
	"github.com/starford/menutree/internal/snapshot"
	"github.com/starford/menutree/internal/storage"
)

// MenuJSON is a small tree shared by handler tests.
const MenuJSON = `[
  {"key": "1", "label": "Navigation One", "icon": "MailOutlined", "children": [
    {"key": "sub1", "label": "Option 1"},
    {"key": "sub2", "label": "Option 2"},
    {"key": "mail", "label": "Mail Settings", "children": [
      {"key": "mail/in", "label": "Inbox rules"}
    ]}
  ]},
  {"key": "link", "label": "Ant Design", "icon": "LinkOutlined"}
]`

// TestDB creates a temporary snapshot database that is automatically cleaned up.
func TestDB(t *testing.T) *snapshot.DB {
	t.Helper()
	db, err := snapshot.Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestTreeDir creates a temporary directory holding doc under name.
func TestTreeDir(t *testing.T, name, doc string) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(name, []byte(doc)); err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// QuietLogger logs errors only.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestCatalog returns a loaded catalog over doc stored as menu.json.
func TestCatalog(t *testing.T, doc string) *catalog.Service {
	t.Helper()
	_, store := TestTreeDir(t, "menu.json", doc)
	svc, err := catalog.NewService(store, TestDB(t), catalog.Options{
		Path:   "menu.json",
		Logger: QuietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc
}
