package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"
)

// Options selects and configures the backends. It is read once when the
// store is opened; changing the mode means opening a new store.
type Options struct {
	// Mode picks local or remote storage.
	Mode Mode

	// Local is the local KV backend:
	//
	//	"file"   - one JSON file per key in DataDir (default)
	//	"memory" - in-memory (ephemeral, for testing)
	Local   string
	DataDir string
	// KV, when set, is used as local storage instead of opening Local.
	KV KV

	// Remote is the remote document store used in ModeRemote:
	//
	//	"sqlite" - SQLite database at RemoteDBPath (default DataDir/remote.db)
	//	"redis"  - Redis at RedisURL
	Remote       string
	RemoteDBPath string
	RedisURL     string
	RedisPrefix  string

	// Timeout bounds each remote call.
	Timeout time.Duration

	// Mirror keeps local storage authoritative in ModeRemote and copies
	// writes to the remote instead of reading from it.
	Mirror bool

	Logger *slog.Logger
}

// Stores is an opened set of backends.
type Stores struct {
	// KV is the local key-value storage, always available.
	KV KV
	// Backend serves the collections in the selected mode.
	Backend Backend

	closers []io.Closer
}

// Close releases the remote connection, if any.
func (s *Stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// NewKV creates a local KV by backend name.
func NewKV(backend, dataDir string) (KV, error) {
	switch backend {
	case "file", "":
		return NewFileKV(dataDir)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown local store: %q (supported: file, memory)", backend)
	}
}

// Open builds the local KV and the backend for the selected mode. When the
// remote store cannot be opened in ModeRemote, Open logs a warning and
// serves local storage instead.
func Open(ctx context.Context, opts Options) (*Stores, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	kv := opts.KV
	if kv == nil {
		var err error
		if kv, err = NewKV(opts.Local, opts.DataDir); err != nil {
			return nil, err
		}
	}
	local := NewLocal(kv)
	stores := &Stores{KV: kv, Backend: local}

	switch opts.Mode {
	case ModeLocal, "":
		log.Info("using local storage", "store", opts.Local, "data_dir", opts.DataDir)
		return stores, nil
	case ModeRemote:
	default:
		return nil, fmt.Errorf("unknown db mode: %q", opts.Mode)
	}

	remote, closer, err := openRemote(ctx, opts)
	if err != nil {
		if errors.Is(err, errUnknownRemote) {
			return nil, err
		}
		log.Warn("remote store unavailable, falling back to local storage",
			"remote", opts.Remote, "error", err)
		return stores, nil
	}
	stores.closers = append(stores.closers, closer)

	if opts.Mirror {
		stores.Backend = NewMirror(local, remote, opts.Timeout, log)
		log.Info("using local storage mirrored to remote store", "remote", opts.Remote)
	} else {
		stores.Backend = NewFallback(remote, local, opts.Timeout, log)
		log.Info("using remote store", "remote", opts.Remote)
	}
	return stores, nil
}

var errUnknownRemote = errors.New("unknown remote store")

func openRemote(ctx context.Context, opts Options) (Backend, io.Closer, error) {
	switch opts.Remote {
	case "sqlite", "":
		path := opts.RemoteDBPath
		if path == "" {
			path = filepath.Join(opts.DataDir, "remote.db")
		}
		s, err := OpenSqliteDocuments(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "redis":
		r, err := OpenRedisDocuments(ctx, RedisOptions{
			URL:            opts.RedisURL,
			Prefix:         opts.RedisPrefix,
			ConnectTimeout: opts.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q (supported: sqlite, redis)", errUnknownRemote, opts.Remote)
	}
}
