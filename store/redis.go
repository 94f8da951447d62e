package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDocuments is a remote document store kept in Redis.
//
// Keys (all under the configured prefix):
//
//	collections          SET   names of collections that exist
//	<collection>         HASH  id -> JSON document
//	<collection>:order   ZSET  id scored by insertion sequence
//	<collection>:seq     STRING insertion sequence counter
type RedisDocuments struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// RedisOptions configures the Redis document store.
type RedisOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Prefix is prepended to all keys (e.g., "wuroud:")
	Prefix string

	// ConnectTimeout bounds the initial ping.
	ConnectTimeout time.Duration
}

// OpenRedisDocuments connects to Redis and verifies the connection.
func OpenRedisDocuments(ctx context.Context, opts RedisOptions) (*RedisDocuments, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	client := redis.NewClient(redisOpts)

	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &RedisDocuments{client: client, prefix: opts.Prefix, now: time.Now}, nil
}

func (r *RedisDocuments) Close() error {
	return r.client.Close()
}

func (r *RedisDocuments) Mode() Mode { return ModeRemote }

func (r *RedisDocuments) registryKey() string { return r.prefix + "collections" }
func (r *RedisDocuments) docsKey(name string) string { return r.prefix + name }
func (r *RedisDocuments) orderKey(name string) string { return r.prefix + name + ":order" }
func (r *RedisDocuments) seqKey(name string) string { return r.prefix + name + ":seq" }

func (r *RedisDocuments) List(ctx context.Context, ns Namespace) ([]Document, error) {
	exists, err := r.client.SIsMember(ctx, r.registryKey(), ns.Name).Result()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNoCollection
	}

	var ids []string
	if ns.Order == NewestFirst {
		ids, err = r.client.ZRevRange(ctx, r.orderKey(ns.Name), 0, -1).Result()
	} else {
		ids, err = r.client.ZRange(ctx, r.orderKey(ns.Name), 0, -1).Result()
	}
	if err != nil {
		return nil, err
	}
	docs := []Document{}
	if len(ids) == 0 {
		return docs, nil
	}
	values, err := r.client.HMGet(ctx, r.docsKey(ns.Name), ids...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Ordered id without a document; skip it.
			continue
		}
		doc, err := decodeDocument([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrCorrupt, ns.Name, ids[i], err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *RedisDocuments) put(ctx context.Context, name string, doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	id := IDOf(doc)
	seq, err := r.client.Incr(ctx, r.seqKey(name)).Result()
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, r.registryKey(), name)
		pipe.HSet(ctx, r.docsKey(name), id, b)
		pipe.ZAddNX(ctx, r.orderKey(name), redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	return err
}

func (r *RedisDocuments) Insert(ctx context.Context, ns Namespace, doc Document) (Document, error) {
	stored, err := stampRemote(doc, r.now())
	if err != nil {
		return nil, err
	}
	if err := r.put(ctx, ns.Name, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Optimistic transactions give up after this many conflicting writers.
const maxUpdateRetries = 10

// Update merges fields into the stored document inside a WATCH
// transaction, retrying when another client changes the collection first.
func (r *RedisDocuments) Update(ctx context.Context, ns Namespace, id string, fields Document) (Document, error) {
	key := r.docsKey(ns.Name)
	var merged Document
	txf := func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, key, id).Result()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		doc, err := decodeDocument([]byte(raw))
		if err != nil {
			return fmt.Errorf("%w: %s/%s: %v", ErrCorrupt, ns.Name, id, err)
		}
		merged, err = cloneDocument(merge(doc, fields))
		if err != nil {
			return err
		}
		b, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, b)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return merged, nil
	}
	return nil, fmt.Errorf("update %s/%s: too many concurrent writers", ns.Name, id)
}

func (r *RedisDocuments) Delete(ctx context.Context, ns Namespace, id string) (bool, error) {
	var removed *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, r.registryKey(), ns.Name)
		removed = pipe.HDel(ctx, r.docsKey(ns.Name), id)
		pipe.ZRem(ctx, r.orderKey(ns.Name), id)
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed.Val() > 0, nil
}

// Replace stores docs so that List returns them in the given order.
func (r *RedisDocuments) Replace(ctx context.Context, ns Namespace, docs []Document) error {
	now := r.now()
	stored := make([]Document, len(docs))
	for i := range docs {
		d := docs[i]
		if ns.Order == NewestFirst {
			d = docs[len(docs)-1-i]
		}
		s, err := stampRemote(d, now)
		if err != nil {
			return err
		}
		stored[i] = s
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.docsKey(ns.Name), r.orderKey(ns.Name))
		pipe.SAdd(ctx, r.registryKey(), ns.Name)
		for i, doc := range stored {
			b, err := json.Marshal(doc)
			if err != nil {
				return err
			}
			id := IDOf(doc)
			pipe.HSet(ctx, r.docsKey(ns.Name), id, b)
			pipe.ZAdd(ctx, r.orderKey(ns.Name), redis.Z{Score: float64(i + 1), Member: id})
		}
		pipe.Set(ctx, r.seqKey(ns.Name), len(stored), 0)
		return nil
	})
	return err
}

func (r *RedisDocuments) Drop(ctx context.Context, ns Namespace) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.docsKey(ns.Name), r.orderKey(ns.Name), r.seqKey(ns.Name))
		pipe.SRem(ctx, r.registryKey(), ns.Name)
		return nil
	})
	return err
}
