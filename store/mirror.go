package store

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Mirror keeps local storage as the source of truth for reads and writes
// and copies each write to a remote backend on a best-effort basis. The
// remote copy uses the id assigned locally. Remote failures are logged and
// never reach the caller.
type Mirror struct {
	local   Backend
	remote  Backend
	timeout time.Duration
	log     *slog.Logger
}

func NewMirror(local, remote Backend, timeout time.Duration, log *slog.Logger) *Mirror {
	if log == nil {
		log = slog.Default()
	}
	return &Mirror{local: local, remote: remote, timeout: timeout, log: log}
}

// Mode reports the remote mode: mirroring is only active when the remote
// mode is selected.
func (m *Mirror) Mode() Mode { return ModeRemote }

func (m *Mirror) sync(ctx context.Context, op string, ns Namespace, fn func(ctx context.Context) error) {
	// Detached from the caller's cancellation; the local write is done.
	ctx = context.WithoutCancel(ctx)
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	if err := fn(ctx); err != nil {
		m.log.Warn("remote mirror failed", "op", op, "collection", ns.Name, "error", err)
		return
	}
	m.log.Debug("remote mirror synced", "op", op, "collection", ns.Name)
}

func (m *Mirror) List(ctx context.Context, ns Namespace) ([]Document, error) {
	return m.local.List(ctx, ns)
}

func (m *Mirror) Insert(ctx context.Context, ns Namespace, doc Document) (Document, error) {
	stored, err := m.local.Insert(ctx, ns, doc)
	if err != nil {
		return nil, err
	}
	m.sync(ctx, "insert", ns, func(ctx context.Context) error {
		_, err := m.remote.Insert(ctx, ns, stored)
		return err
	})
	return stored, nil
}

func (m *Mirror) Update(ctx context.Context, ns Namespace, id string, fields Document) (Document, error) {
	merged, err := m.local.Update(ctx, ns, id, fields)
	if err != nil {
		return nil, err
	}
	m.sync(ctx, "update", ns, func(ctx context.Context) error {
		_, err := m.remote.Update(ctx, ns, id, fields)
		if errors.Is(err, ErrNotFound) {
			_, err = m.remote.Insert(ctx, ns, merged)
		}
		return err
	})
	return merged, nil
}

func (m *Mirror) Delete(ctx context.Context, ns Namespace, id string) (bool, error) {
	existed, err := m.local.Delete(ctx, ns, id)
	if err != nil {
		return false, err
	}
	m.sync(ctx, "delete", ns, func(ctx context.Context) error {
		_, err := m.remote.Delete(ctx, ns, id)
		return err
	})
	return existed, nil
}

func (m *Mirror) Replace(ctx context.Context, ns Namespace, docs []Document) error {
	if err := m.local.Replace(ctx, ns, docs); err != nil {
		return err
	}
	m.sync(ctx, "replace", ns, func(ctx context.Context) error {
		return m.remote.Replace(ctx, ns, docs)
	})
	return nil
}

func (m *Mirror) Drop(ctx context.Context, ns Namespace) error {
	if err := m.local.Drop(ctx, ns); err != nil {
		return err
	}
	m.sync(ctx, "drop", ns, func(ctx context.Context) error {
		return m.remote.Drop(ctx, ns)
	})
	return nil
}
