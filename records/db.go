package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wuroud/islamic-hub/model"
	"github.com/wuroud/islamic-hub/store"
)

// Collection namespaces. Articles and blogs read newest first, as the
// pages list them.
var (
	ArticlesNS   = store.Namespace{Name: "articles", Order: store.NewestFirst}
	BlogsNS      = store.Namespace{Name: "blogs", Order: store.NewestFirst}
	CategoriesNS = store.Namespace{Name: "categories", Order: store.InsertionOrder}
	UsersNS      = store.Namespace{Name: "users", Order: store.InsertionOrder}
)

// ExportVersion is written into every export.
const ExportVersion = "1.0"

// Options configures a DB.
type Options struct {
	Logger *slog.Logger
	// Now is the clock used for default dates and export times.
	Now func() time.Time
}

// DB groups the four collections over one backend. It is built once; the
// backend's mode is fixed for its lifetime.
type DB struct {
	Articles   Articles
	Blogs      *Collection[model.Blog]
	Categories *Collection[model.Category]
	Users      Users

	backend store.Backend
	log     *slog.Logger
	now     func() time.Time
}

// New creates a DB over backend.
func New(backend store.Backend, opts Options) *DB {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &DB{
		Articles:   Articles{newCollection(ArticlesNS, backend, model.SeedArticles, log, now)},
		Blogs:      newCollection(BlogsNS, backend, model.SeedBlogs, log, now),
		Categories: newCollection(CategoriesNS, backend, model.SeedCategories, log, now),
		Users:      Users{newCollection(UsersNS, backend, model.SeedUsers, log, now)},
		backend:    backend,
		log:        log,
		now:        now,
	}
}

// Mode reports the mode of the backend the DB was built with.
func (db *DB) Mode() store.Mode { return db.backend.Mode() }

type collection interface {
	Name() string
	Clear(ctx context.Context) error
	seedOn(ctx context.Context, targets ...error) (bool, error)
	count(ctx context.Context) int
}

func (db *DB) collections() []collection {
	return []collection{db.Articles, db.Blogs, db.Categories, db.Users}
}

// Init writes the seed set of every collection that has never been
// written.
func (db *DB) Init(ctx context.Context) error {
	for _, c := range db.collections() {
		if _, err := c.seedOn(ctx, store.ErrNoCollection); err != nil {
			return err
		}
	}
	db.log.Info("database ready", "mode", db.Mode())
	return nil
}

// Snapshot is the export format. On import a nil collection is left
// untouched.
type Snapshot struct {
	Articles   []model.Article  `json:"articles"`
	Blogs      []model.Blog     `json:"blogs"`
	Categories []model.Category `json:"categories"`
	Users      []model.User     `json:"users"`
	ExportDate time.Time        `json:"exportDate"`
	Mode       store.Mode       `json:"mode"`
	Version    string           `json:"version"`
}

// Export returns every collection as Get shows it.
func (db *DB) Export(ctx context.Context) Snapshot {
	return Snapshot{
		Articles:   db.Articles.Get(ctx),
		Blogs:      db.Blogs.Get(ctx),
		Categories: db.Categories.Get(ctx),
		Users:      db.Users.Get(ctx),
		ExportDate: db.now().UTC(),
		Mode:       db.Mode(),
		Version:    ExportVersion,
	}
}

// Import validates every provided collection and then replaces each of
// them. Nothing is written if any record is invalid.
func (db *DB) Import(ctx context.Context, snap Snapshot) error {
	var steps []func() error
	if snap.Articles != nil {
		if err := validateAll(ArticlesNS.Name, snap.Articles); err != nil {
			return err
		}
		steps = append(steps, func() error { return db.Articles.replace(ctx, snap.Articles) })
	}
	if snap.Blogs != nil {
		if err := validateAll(BlogsNS.Name, snap.Blogs); err != nil {
			return err
		}
		steps = append(steps, func() error { return db.Blogs.replace(ctx, snap.Blogs) })
	}
	if snap.Categories != nil {
		if err := validateAll(CategoriesNS.Name, snap.Categories); err != nil {
			return err
		}
		steps = append(steps, func() error { return db.Categories.replace(ctx, snap.Categories) })
	}
	if snap.Users != nil {
		if err := validateAll(UsersNS.Name, snap.Users); err != nil {
			return err
		}
		steps = append(steps, func() error { return db.Users.replace(ctx, snap.Users) })
	}

	for _, run := range steps {
		if err := run(); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	db.log.Info("data imported", "collections", len(steps))
	return nil
}

// Stats summarizes the stored data.
type Stats struct {
	TotalArticles   int        `json:"totalArticles"`
	TotalBlogs      int        `json:"totalBlogs"`
	TotalCategories int        `json:"totalCategories"`
	TotalUsers      int        `json:"totalUsers"`
	Mode            store.Mode `json:"mode"`
	// DBSize is the size of the JSON export in bytes.
	DBSize      int       `json:"dbSize"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (db *DB) Stats(ctx context.Context) (Stats, error) {
	b, err := json.Marshal(db.Export(ctx))
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalArticles:   db.Articles.count(ctx),
		TotalBlogs:      db.Blogs.count(ctx),
		TotalCategories: db.Categories.count(ctx),
		TotalUsers:      db.Users.count(ctx),
		Mode:            db.Mode(),
		DBSize:          len(b),
		LastUpdated:     db.now().UTC(),
	}, nil
}

// ClearAll removes every collection. Subsequent reads return seed
// records until something is written.
func (db *DB) ClearAll(ctx context.Context) error {
	var errs []error
	for _, c := range db.collections() {
		errs = append(errs, c.Clear(ctx))
	}
	return errors.Join(errs...)
}

// ResetToDefaults removes every collection and writes the seed sets.
func (db *DB) ResetToDefaults(ctx context.Context) error {
	if err := db.ClearAll(ctx); err != nil {
		return err
	}
	if err := db.Init(ctx); err != nil {
		return err
	}
	db.log.Info("database reset to defaults")
	return nil
}
