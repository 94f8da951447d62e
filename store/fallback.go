package store

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Fallback sends every call to a remote backend and, when the remote call
// fails, logs the failure and serves the same call from local storage.
// Callers never see a remote error: the result is always either the
// remote's answer or the local one. There is no retry.
type Fallback struct {
	remote  Backend
	local   Backend
	timeout time.Duration
	log     *slog.Logger
}

// NewFallback combines remote and local. A zero timeout leaves remote
// calls bounded only by the caller's context.
func NewFallback(remote, local Backend, timeout time.Duration, log *slog.Logger) *Fallback {
	if log == nil {
		log = slog.Default()
	}
	return &Fallback{remote: remote, local: local, timeout: timeout, log: log}
}

func (f *Fallback) Mode() Mode { return ModeRemote }

// masked reports whether err is a remote failure to hide behind local
// storage. Not-found and no-collection are answers, not failures.
func masked(err error) bool {
	return err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNoCollection)
}

func (f *Fallback) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, f.timeout)
}

func (f *Fallback) warn(op string, ns Namespace, err error) {
	f.log.Warn("remote store call failed, using local storage",
		"op", op, "collection", ns.Name, "error", err)
}

func (f *Fallback) List(ctx context.Context, ns Namespace) ([]Document, error) {
	rctx, cancel := f.remoteCtx(ctx)
	defer cancel()
	docs, err := f.remote.List(rctx, ns)
	if masked(err) {
		f.warn("list", ns, err)
		return f.local.List(ctx, ns)
	}
	return docs, err
}

func (f *Fallback) Insert(ctx context.Context, ns Namespace, doc Document) (Document, error) {
	rctx, cancel := f.remoteCtx(ctx)
	defer cancel()
	stored, err := f.remote.Insert(rctx, ns, doc)
	if masked(err) {
		f.warn("insert", ns, err)
		return f.local.Insert(ctx, ns, doc)
	}
	return stored, err
}

func (f *Fallback) Update(ctx context.Context, ns Namespace, id string, fields Document) (Document, error) {
	rctx, cancel := f.remoteCtx(ctx)
	defer cancel()
	merged, err := f.remote.Update(rctx, ns, id, fields)
	if masked(err) {
		f.warn("update", ns, err)
		return f.local.Update(ctx, ns, id, fields)
	}
	return merged, err
}

func (f *Fallback) Delete(ctx context.Context, ns Namespace, id string) (bool, error) {
	rctx, cancel := f.remoteCtx(ctx)
	defer cancel()
	existed, err := f.remote.Delete(rctx, ns, id)
	if masked(err) {
		f.warn("delete", ns, err)
		return f.local.Delete(ctx, ns, id)
	}
	return existed, err
}

func (f *Fallback) Replace(ctx context.Context, ns Namespace, docs []Document) error {
	rctx, cancel := f.remoteCtx(ctx)
	defer cancel()
	err := f.remote.Replace(rctx, ns, docs)
	if masked(err) {
		f.warn("replace", ns, err)
		return f.local.Replace(ctx, ns, docs)
	}
	return err
}

func (f *Fallback) Drop(ctx context.Context, ns Namespace) error {
	rctx, cancel := f.remoteCtx(ctx)
	defer cancel()
	err := f.remote.Drop(rctx, ns)
	if masked(err) {
		f.warn("drop", ns, err)
		return f.local.Drop(ctx, ns)
	}
	return err
}
