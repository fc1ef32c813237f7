package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jrsteele09/library-session/identity"
	apperrors "github.com/jrsteele09/library-session/internal/errors"
	"github.com/jrsteele09/library-session/session"
)

// Entry names of the three persisted values. Hosts substituting another
// medium must keep this shape.
const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeyExpiresAt = "expiresAt"
)

var allKeys = []string{KeyToken, KeyUser, KeyExpiresAt}

// KV is a durable string key-value medium. Multi-key writes and deletes
// must be atomic for the backend's readers.
type KV interface {
	SetAll(ctx context.Context, entries map[string]string) error
	GetAll(ctx context.Context, keys []string) (map[string]string, error)
	DeleteAll(ctx context.Context, keys []string) error
}

// Store persists the session tuple across restarts.
type Store interface {
	// Save writes token, identity and expiry, replacing any prior value
	Save(ctx context.Context, sess session.Session) error

	// SaveExpiry overwrites only the expiry entry
	SaveExpiry(ctx context.Context, expiresAt time.Time) error

	// Load returns nil when nothing is stored and ErrMalformedPersistedState
	// when the entries are partial or corrupt
	Load(ctx context.Context) (*session.Session, error)

	// Clear removes all entries; clearing an empty store is not an error
	Clear(ctx context.Context) error
}

type kvStore struct {
	kv   KV
	lock sync.Mutex
}

var _ Store = (*kvStore)(nil)

// New returns a Store over kv.
func New(kv KV) Store {
	return &kvStore{kv: kv}
}

func (s *kvStore) Save(ctx context.Context, sess session.Session) error {
	user, err := json.Marshal(sess.Identity)
	if err != nil {
		return apperrors.Wrapf(err, "[Save] marshal identity")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.kv.SetAll(ctx, map[string]string{
		KeyToken:     sess.Token,
		KeyUser:      string(user),
		KeyExpiresAt: strconv.FormatInt(sess.ExpiresAtEpochMs(), 10),
	}); err != nil {
		return storageErr("Save", err)
	}
	return nil
}

func (s *kvStore) SaveExpiry(ctx context.Context, expiresAt time.Time) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.kv.SetAll(ctx, map[string]string{
		KeyExpiresAt: strconv.FormatInt(expiresAt.UnixMilli(), 10),
	}); err != nil {
		return storageErr("SaveExpiry", err)
	}
	return nil
}

func (s *kvStore) Load(ctx context.Context) (*session.Session, error) {
	s.lock.Lock()
	entries, err := s.kv.GetAll(ctx, allKeys)
	s.lock.Unlock()
	if err != nil {
		return nil, storageErr("Load", err)
	}

	if len(entries) == 0 {
		return nil, nil
	}
	return decode(entries)
}

func (s *kvStore) Clear(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.kv.DeleteAll(ctx, allKeys); err != nil {
		return storageErr("Clear", err)
	}
	return nil
}

func decode(entries map[string]string) (*session.Session, error) {
	token, hasToken := entries[KeyToken]
	user, hasUser := entries[KeyUser]
	expiry, hasExpiry := entries[KeyExpiresAt]
	if !hasToken || !hasUser || !hasExpiry {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedPersistedState, "[Load] missing entries")
	}
	if token == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedPersistedState, "[Load] empty token")
	}

	ms, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedPersistedState, "[Load] expiry %q", expiry)
	}

	var id identity.Identity
	if err := json.Unmarshal([]byte(user), &id); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedPersistedState, "[Load] identity")
	}
	if id.ID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedPersistedState, "[Load] identity without id")
	}

	return &session.Session{
		Token:     token,
		Identity:  id.Normalized(),
		ExpiresAt: session.FromEpochMs(ms),
	}, nil
}

func storageErr(op string, err error) error {
	if apperrors.Is(err, apperrors.ErrStorageUnavailable) {
		return apperrors.Wrapf(err, "[%s]", op)
	}
	return fmt.Errorf("[%s] %w: %v", op, apperrors.ErrStorageUnavailable, err)
}
