// Package store persists the warehouse collections. A Gateway moves rows of
// strings in and out of durable storage; it knows nothing about what the
// fields mean. Two backends are provided: NewText keeps one delimited text
// file per collection and NewSQLite keeps one table per collection in a
// single database file.
//
// Saves overwrite the whole collection. Loads skip the header row.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Collection names one persisted collection.
type Collection string

const (
	Balance   Collection = "balance"
	Inventory Collection = "inventory"
	History   Collection = "history"
	Shipments Collection = "shipments"
)

// Collections lists every collection in the order they are loaded and saved.
var Collections = []Collection{Inventory, Balance, History, Shipments}

// Valid reports whether c is one of the known collections.
func (c Collection) Valid() bool {
	switch c {
	case Balance, Inventory, History, Shipments:
		return true
	}
	return false
}

// Row is one persisted record, fields in header order.
type Row []string

// Gateway loads and saves collections.
type Gateway interface {
	// Load returns every data row of c. A collection that was never saved
	// is empty, not an error.
	Load(ctx context.Context, c Collection) ([]Row, error)

	// Save replaces the content of c with header followed by rows.
	Save(ctx context.Context, c Collection, header Row, rows []Row) error

	Close() error
}

// Watchable is implemented by gateways backed by files on disk.
type Watchable interface {
	Paths() []string
}

// HeaderReader is implemented by gateways that keep the header each
// collection was last saved with. A collection never saved has no header.
type HeaderReader interface {
	Header(ctx context.Context, c Collection) (Row, error)
}

// HeaderMismatchError reports a stored header that differs from the one the
// rows are decoded with.
type HeaderMismatchError struct {
	Collection Collection
	Got        Row
	Want       Row
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("%s header is %q, expected %q",
		e.Collection, strings.Join(e.Got, ","), strings.Join(e.Want, ","))
}

// ErrPersistence is the sentinel every gateway failure unwraps to.
var ErrPersistence = errors.New("persistence failure")

// PersistenceError reports a failed load or save.
type PersistenceError struct {
	Op         string // "load", "save" or "open"
	Collection Collection
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

// Unwrap returns both the sentinel and the cause, so errors.Is matches
// ErrPersistence as well as errors such as fs.ErrPermission.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

func persistenceError(op string, c Collection, err error) error {
	return &PersistenceError{Op: op, Collection: c, Err: err}
}

func unknownCollection(op string, c Collection) error {
	return persistenceError(op, c, fmt.Errorf("unknown collection %q", string(c)))
}
