// Package records implements the hub's record collections on top of a
// store.Backend: default filling, validation, seed data and the
// collection-specific queries.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wuroud/islamic-hub/model"
	"github.com/wuroud/islamic-hub/schema"
	"github.com/wuroud/islamic-hub/store"
)

// ErrInvalid is returned when a record or patch fails validation.
var ErrInvalid = errors.New("invalid record")

// Collection is one named collection of records of kind T.
type Collection[T model.Record[T]] struct {
	ns      store.Namespace
	backend store.Backend
	seed    func() []T
	log     *slog.Logger
	now     func() time.Time
}

func newCollection[T model.Record[T]](ns store.Namespace, b store.Backend, seed func() []T, log *slog.Logger, now func() time.Time) *Collection[T] {
	return &Collection[T]{
		ns:      ns,
		backend: b,
		seed:    seed,
		log:     log.With("collection", ns.Name),
		now:     now,
	}
}

// Name returns the collection's storage key.
func (c *Collection[T]) Name() string { return c.ns.Name }

// Get returns every record in stored order. A collection that was never
// written, cannot be parsed, or holds a record that does not decode yields
// the seed set instead; Get never fails.
func (c *Collection[T]) Get(ctx context.Context) []T {
	docs, err := c.backend.List(ctx, c.ns)
	switch {
	case errors.Is(err, store.ErrNoCollection):
		return c.seed()
	case err != nil:
		c.log.Warn("reading collection failed, serving seed records", "error", err)
		return c.seed()
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := fromDocument[T](doc)
		if err != nil {
			c.log.Warn("undecodable record, serving seed records", "id", store.IDOf(doc), "error", err)
			return c.seed()
		}
		out = append(out, rec)
	}
	return out
}

// Find returns the record with the given id, or store.ErrNotFound.
func (c *Collection[T]) Find(ctx context.Context, id model.ID) (T, error) {
	for _, rec := range c.Get(ctx) {
		if rec.RecordID() == id {
			return rec, nil
		}
	}
	var zero T
	return zero, store.ErrNotFound
}

// Add fills in defaults, validates and stores rec, returning the record as
// stored with its assigned id. Any id or creation time on rec is ignored.
func (c *Collection[T]) Add(ctx context.Context, rec T) (T, error) {
	var zero T
	doc, err := toDocument(rec.WithDefaults(c.now()))
	if err != nil {
		return zero, err
	}
	delete(doc, "id")
	delete(doc, "createdAt")
	if err := schema.Validate(rec.Schema(), doc); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if _, err := c.seedOn(ctx, store.ErrNoCollection, store.ErrCorrupt); err != nil {
		return zero, err
	}
	stored, err := c.backend.Insert(ctx, c.ns, doc)
	if err != nil {
		return zero, fmt.Errorf("add to %s: %w", c.ns.Name, err)
	}
	out, err := fromDocument[T](stored)
	if err != nil {
		return zero, err
	}
	c.log.Debug("record added", "id", out.RecordID())
	return out, nil
}

// Update overlays fields on the record with the given id and returns the
// merged record. It returns store.ErrNotFound, leaving the collection
// unchanged, when no record has that id.
func (c *Collection[T]) Update(ctx context.Context, id model.ID, fields map[string]any) (T, error) {
	var zero T
	if err := schema.ValidatePatch(zero.Schema(), fields); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.seedOn(ctx, store.ErrNoCollection, store.ErrCorrupt); err != nil {
		return zero, err
	}
	merged, err := c.backend.Update(ctx, c.ns, id.String(), store.Document(fields))
	if err != nil {
		return zero, err
	}
	return fromDocument[T](merged)
}

// Delete removes the record with the given id and reports whether it
// existed. Deleting an unknown id is not an error.
func (c *Collection[T]) Delete(ctx context.Context, id model.ID) (bool, error) {
	if _, err := c.seedOn(ctx, store.ErrNoCollection, store.ErrCorrupt); err != nil {
		return false, err
	}
	existed, err := c.backend.Delete(ctx, c.ns, id.String())
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", c.ns.Name, err)
	}
	if existed {
		c.log.Debug("record deleted", "id", id)
	}
	return existed, nil
}

// Clear removes the collection. The next Get returns the seed set.
func (c *Collection[T]) Clear(ctx context.Context) error {
	if err := c.backend.Drop(ctx, c.ns); err != nil {
		return fmt.Errorf("clear %s: %w", c.ns.Name, err)
	}
	c.log.Info("collection cleared")
	return nil
}

// replace validates recs and overwrites the collection with them.
func (c *Collection[T]) replace(ctx context.Context, recs []T) error {
	if err := validateAll(c.ns.Name, recs); err != nil {
		return err
	}
	docs := make([]store.Document, 0, len(recs))
	for _, rec := range recs {
		doc, err := toDocument(rec)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if err := c.backend.Replace(ctx, c.ns, docs); err != nil {
		return fmt.Errorf("replace %s: %w", c.ns.Name, err)
	}
	return nil
}

// validateAll checks that every record has a unique id and satisfies its
// schema.
func validateAll[T model.Record[T]](name string, recs []T) error {
	seen := make(map[model.ID]int, len(recs))
	for i, rec := range recs {
		id := rec.RecordID()
		if id == "" {
			return fmt.Errorf("%w: %s[%d]: missing id", ErrInvalid, name, i)
		}
		if j, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s[%d]: duplicate id %s (also at %d)", ErrInvalid, name, i, id, j)
		}
		seen[id] = i
		doc, err := toDocument(rec)
		if err != nil {
			return err
		}
		if err := schema.Validate(rec.Schema(), doc); err != nil {
			return fmt.Errorf("%w: %s[%d]: %v", ErrInvalid, name, i, err)
		}
	}
	return nil
}

// seedOn writes the seed set when listing the collection fails with one of
// targets, and reports whether it did. Mutations call it first so that
// they apply to the records Get has been showing.
func (c *Collection[T]) seedOn(ctx context.Context, targets ...error) (bool, error) {
	_, err := c.backend.List(ctx, c.ns)
	if err == nil {
		return false, nil
	}
	matched := false
	for _, t := range targets {
		if errors.Is(err, t) {
			matched = true
			break
		}
	}
	if !matched {
		return false, fmt.Errorf("read %s: %w", c.ns.Name, err)
	}
	if err := c.replace(ctx, c.seed()); err != nil {
		return false, fmt.Errorf("seed %s: %w", c.ns.Name, err)
	}
	c.log.Info("collection seeded")
	return true, nil
}

func (c *Collection[T]) count(ctx context.Context) int { return len(c.Get(ctx)) }

// toDocument converts a record to its stored form.
func toDocument(v any) (store.Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc store.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument[T any](doc store.Document) (T, error) {
	var out T
	b, err := json.Marshal(doc)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}
