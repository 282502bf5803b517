package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func mkdir(path string) error {
	return os.Mkdir(path, 0o755)
}

func TestWatchReportsWatchedFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "Inventory.txt")
	other := filepath.Join(dir, "notes.txt")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 10)
	err := Watch(ctx, []string{target}, func(path string) { changed <- path }, nil)
	assert.NoError(t, err)

	assert.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	assert.NoError(t, os.WriteFile(target, []byte("Name\n"), 0o644))

	select {
	case path := <-changed:
		want, _ := filepath.Abs(target)
		assert.Equal(t, want, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "Balance.txt")
	err := Watch(context.Background(), []string{missing}, func(string) {}, nil)
	assert.Error(t, err)
}

func TestWatchSeesSQLiteCommitsFromAnotherConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.db")
	mine, err := NewSQLite(path)
	assert.NoError(t, err)
	defer mine.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 10)
	assert.NoError(t, Watch(ctx, mine.Paths(), func(p string) { changed <- p }, nil))

	other, err := NewSQLite(path)
	assert.NoError(t, err)
	defer other.Close()
	assert.NoError(t, other.Save(ctx, Inventory, inventoryHeader, []Row{
		{"Widgets", "01/03/2024 09:00:00", "1", "10", "2"},
	}))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for a commit made by another connection")
	}

	rows, err := mine.Load(ctx, Inventory)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
}
