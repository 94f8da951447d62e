// Package store defines the storage backends behind the record collections.
//
// Two layers live here. KV is the synchronous local key-value storage
// (one value per key, like browser local storage). Backend is the
// collection-level document interface the records package talks to; it is
// implemented by the local snapshot backend over a KV, by the remote
// document stores (SQLite, Redis), and by the Fallback and Mirror
// compositions that combine a remote with local storage.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Mode is the persisted database mode flag.
type Mode string

const (
	// ModeLocal keeps every collection in local key-value storage.
	ModeLocal Mode = "local"
	// ModeRemote targets the remote document store. The persisted value is
	// "firebase" for compatibility with data written by the web client.
	ModeRemote Mode = "firebase"
)

// ParseMode parses a persisted mode flag. "remote" is accepted as an alias
// of "firebase".
func ParseMode(s string) (Mode, error) {
	switch s {
	case string(ModeLocal):
		return ModeLocal, nil
	case string(ModeRemote), "remote":
		return ModeRemote, nil
	default:
		return "", fmt.Errorf("unknown db mode: %q (supported: local, firebase)", s)
	}
}

// Order is the read order of a collection.
type Order int

const (
	// InsertionOrder returns documents oldest first.
	InsertionOrder Order = iota
	// NewestFirst returns the most recently inserted documents first.
	NewestFirst
)

// Namespace names a collection and its ordering.
type Namespace struct {
	Name  string
	Order Order
}

// Document is a single record as stored: a flat JSON object. Numbers are
// kept as json.Number so ids and counters survive round trips unchanged.
type Document map[string]any

var (
	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrNoCollection is returned by List when the collection has never
	// been written.
	ErrNoCollection = errors.New("collection does not exist")

	// ErrCorrupt is returned by List when the stored snapshot cannot be
	// parsed.
	ErrCorrupt = errors.New("collection snapshot is corrupt")
)

// KV is synchronous local key-value storage. Values are opaque bytes.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Keys lists the stored keys in sorted order.
	Keys() ([]string, error)
}

// Backend stores whole collections of documents.
type Backend interface {
	// Mode reports which persisted mode this backend serves.
	Mode() Mode

	// List returns every document in the collection in its read order.
	List(ctx context.Context, ns Namespace) ([]Document, error)

	// Insert stores a new document and returns it as stored. A document
	// without an id is assigned one.
	Insert(ctx context.Context, ns Namespace, doc Document) (Document, error)

	// Update overlays fields on the document with the given id and returns
	// the merged document, or ErrNotFound.
	Update(ctx context.Context, ns Namespace, id string, fields Document) (Document, error)

	// Delete removes the document with the given id. It reports whether the
	// document existed; a missing id is not an error.
	Delete(ctx context.Context, ns Namespace, id string) (bool, error)

	// Replace overwrites the whole collection with docs.
	Replace(ctx context.Context, ns Namespace, docs []Document) error

	// Drop removes the collection so that List reports ErrNoCollection.
	Drop(ctx context.Context, ns Namespace) error
}
