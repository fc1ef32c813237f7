package memkv

import (
	"context"
	"sync"

	"github.com/jrsteele09/library-session/credstore"
	apperrors "github.com/jrsteele09/library-session/internal/errors"
)

var _ credstore.KV = (*KV)(nil)

// KV is an in-process credstore.KV. SetFailing emulates a disabled or
// full storage medium.
type KV struct {
	entries map[string]string
	failing bool
	lock    sync.RWMutex
}

func New() *KV {
	return &KV{
		entries: make(map[string]string),
	}
}

func (kv *KV) SetAll(_ context.Context, entries map[string]string) error {
	kv.lock.Lock()
	defer kv.lock.Unlock()

	if kv.failing {
		return apperrors.ErrStorageUnavailable
	}
	for k, v := range entries {
		kv.entries[k] = v
	}
	return nil
}

func (kv *KV) GetAll(_ context.Context, keys []string) (map[string]string, error) {
	kv.lock.RLock()
	defer kv.lock.RUnlock()

	if kv.failing {
		return nil, apperrors.ErrStorageUnavailable
	}
	found := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := kv.entries[k]; ok {
			found[k] = v
		}
	}
	return found, nil
}

func (kv *KV) DeleteAll(_ context.Context, keys []string) error {
	kv.lock.Lock()
	defer kv.lock.Unlock()

	if kv.failing {
		return apperrors.ErrStorageUnavailable
	}
	for _, k := range keys {
		delete(kv.entries, k)
	}
	return nil
}

// SetFailing toggles failure of every subsequent call.
func (kv *KV) SetFailing(failing bool) {
	kv.lock.Lock()
	defer kv.lock.Unlock()
	kv.failing = failing
}

// Put writes a single entry, bypassing failure injection. Used to seed
// partial or corrupt state.
func (kv *KV) Put(key, value string) {
	kv.lock.Lock()
	defer kv.lock.Unlock()
	kv.entries[key] = value
}

// Delete removes a single entry, bypassing failure injection.
func (kv *KV) Delete(key string) {
	kv.lock.Lock()
	defer kv.lock.Unlock()
	delete(kv.entries, key)
}

// Get reads a single entry, bypassing failure injection.
func (kv *KV) Get(key string) (string, bool) {
	kv.lock.RLock()
	defer kv.lock.RUnlock()
	v, ok := kv.entries[key]
	return v, ok
}

// Len returns the number of stored entries.
func (kv *KV) Len() int {
	kv.lock.RLock()
	defer kv.lock.RUnlock()
	return len(kv.entries)
}
