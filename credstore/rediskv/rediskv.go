package rediskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/library-session/credstore"
	"github.com/redis/go-redis/v9"
)

var _ credstore.KV = (*KV)(nil)

// KV is a Redis-backed credstore.KV. Every entry is a plain string key
// under prefix; writes run in a MULTI/EXEC transaction.
type KV struct {
	client redis.UniversalClient
	prefix string
}

// New creates a Redis KV with the default "libsession:" prefix.
func New(client redis.UniversalClient) *KV {
	return NewWithPrefix(client, "libsession:")
}

// NewWithPrefix creates a Redis KV with a custom key prefix, typically
// scoped per console origin.
func NewWithPrefix(client redis.UniversalClient, prefix string) *KV {
	return &KV{
		client: client,
		prefix: prefix,
	}
}

func (kv *KV) SetAll(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := kv.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, kv.prefix+k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (kv *KV) GetAll(ctx context.Context, keys []string) (map[string]string, error) {
	found := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	values, err := kv.client.MGet(ctx, kv.keys(keys)...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return found, nil
		}
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, v := range values {
		if s, ok := v.(string); ok {
			found[keys[i]] = s
		}
	}
	return found, nil
}

func (kv *KV) DeleteAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := kv.client.Del(ctx, kv.keys(keys)...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (kv *KV) keys(keys []string) []string {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = kv.prefix + k
	}
	return prefixed
}
