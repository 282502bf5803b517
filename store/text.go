package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/robinvdvleuten/warehouse/telemetry"
)

// FileNames maps each collection to its file inside the data directory.
var FileNames = map[Collection]string{
	Balance:   "Balance.txt",
	Inventory: "Inventory.txt",
	History:   "History.txt",
	Shipments: "Shipments.txt",
}

// Text is a Gateway keeping one comma-delimited file per collection.
type Text struct {
	dir string
	mu  sync.Mutex
}

// NewText creates a text gateway rooted at dir. The directory is created if
// it does not exist.
func NewText(dir string) (*Text, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, persistenceError("open", "", err)
	}
	return &Text{dir: dir}, nil
}

// Path returns the file backing c.
func (t *Text) Path(c Collection) string {
	return filepath.Join(t.dir, FileNames[c])
}

// Paths returns every collection file.
func (t *Text) Paths() []string {
	paths := make([]string, 0, len(Collections))
	for _, c := range Collections {
		paths = append(paths, t.Path(c))
	}
	return paths
}

func (t *Text) Load(ctx context.Context, c Collection) ([]Row, error) {
	if !c.Valid() {
		return nil, unknownCollection("load", c)
	}
	timer := telemetry.StartTimer(ctx, "store.load "+string(c))
	defer timer.End()

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.Path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("load", c, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows []Row
	header := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, persistenceError("load", c, err)
		}
		if header {
			header = false
			continue
		}
		rows = append(rows, Row(record))
	}
	return rows, nil
}

func (t *Text) Save(ctx context.Context, c Collection, header Row, rows []Row) error {
	if !c.Valid() {
		return unknownCollection("save", c)
	}
	timer := telemetry.StartTimer(ctx, "store.save "+string(c))
	defer timer.End()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return persistenceError("save", c, err)
	}

	target := t.Path(c)
	tmp, err := os.CreateTemp(t.dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return persistenceError("save", c, err)
	}
	// Removing after a successful rename fails harmlessly.
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return persistenceError("save", c, err)
	}
	if err := writeRows(tmp, header, rows); err != nil {
		_ = tmp.Close()
		return persistenceError("save", c, err)
	}
	if err := tmp.Close(); err != nil {
		return persistenceError("save", c, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return persistenceError("save", c, err)
	}
	return nil
}

// Header returns the first record of the file backing c, or nil when the
// file is missing or empty.
func (t *Text) Header(ctx context.Context, c Collection) (Row, error) {
	if !c.Valid() {
		return nil, unknownCollection("load", c)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.Path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("load", c, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	record, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("load", c, err)
	}
	return Row(record), nil
}

func writeRows(w io.Writer, header Row, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(header))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *Text) Close() error {
	return nil
}
