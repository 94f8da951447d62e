package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Local keeps each collection as one JSON array under the collection's
// key in a KV. Every mutation reads the whole snapshot, changes it and
// writes it back; there is no index.
type Local struct {
	mu  sync.Mutex
	kv  KV
	now func() time.Time
}

// LocalOption configures a Local backend.
type LocalOption func(*Local)

// WithClock sets the clock used to derive ids.
func WithClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

func NewLocal(kv KV, opts ...LocalOption) *Local {
	l := &Local{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Local) Mode() Mode { return ModeLocal }

// KV returns the underlying key-value storage.
func (l *Local) KV() KV { return l.kv }

func (l *Local) load(name string) ([]Document, error) {
	raw, ok, err := l.kv.Get(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoCollection
	}
	docs, err := decodeSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return docs, nil
}

// loadForWrite treats a never-written collection as empty.
func (l *Local) loadForWrite(name string) ([]Document, error) {
	docs, err := l.load(name)
	if errors.Is(err, ErrNoCollection) {
		return []Document{}, nil
	}
	return docs, err
}

func (l *Local) save(name string, docs []Document) error {
	if docs == nil {
		docs = []Document{}
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return l.kv.Set(name, b)
}

func (l *Local) List(_ context.Context, ns Namespace) ([]Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ns.Name)
}

func (l *Local) Insert(_ context.Context, ns Namespace, doc Document) (Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	docs, err := l.loadForWrite(ns.Name)
	if err != nil {
		return nil, err
	}
	stored, err := cloneDocument(doc)
	if err != nil {
		return nil, err
	}
	if IDOf(stored) == "" {
		stored["id"] = l.nextID(docs)
	}
	if ns.Order == NewestFirst {
		docs = append([]Document{stored}, docs...)
	} else {
		docs = append(docs, stored)
	}
	if err := l.save(ns.Name, docs); err != nil {
		return nil, err
	}
	return stored, nil
}

// nextID derives an id from the clock in milliseconds, bumped past any
// id already taken so two inserts in the same millisecond do not collide.
func (l *Local) nextID(docs []Document) json.Number {
	id := l.now().UnixMilli()
	taken := make(map[string]bool, len(docs))
	for _, d := range docs {
		taken[IDOf(d)] = true
	}
	for taken[strconv.FormatInt(id, 10)] {
		id++
	}
	return json.Number(strconv.FormatInt(id, 10))
}

func (l *Local) Update(_ context.Context, ns Namespace, id string, fields Document) (Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	docs, err := l.loadForWrite(ns.Name)
	if err != nil {
		return nil, err
	}
	for i, d := range docs {
		if IDOf(d) != id {
			continue
		}
		merged, err := cloneDocument(merge(d, fields))
		if err != nil {
			return nil, err
		}
		docs[i] = merged
		if err := l.save(ns.Name, docs); err != nil {
			return nil, err
		}
		return merged, nil
	}
	return nil, ErrNotFound
}

func (l *Local) Delete(_ context.Context, ns Namespace, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	docs, err := l.loadForWrite(ns.Name)
	if err != nil {
		return false, err
	}
	kept := docs[:0]
	existed := false
	for _, d := range docs {
		if IDOf(d) == id {
			existed = true
			continue
		}
		kept = append(kept, d)
	}
	return existed, l.save(ns.Name, kept)
}

func (l *Local) Replace(_ context.Context, ns Namespace, docs []Document) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(ns.Name, docs)
}

func (l *Local) Drop(_ context.Context, ns Namespace) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kv.Remove(ns.Name)
}
