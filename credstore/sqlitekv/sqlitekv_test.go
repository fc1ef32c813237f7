package sqlitekv_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/library-session/credstore"
	"github.com/jrsteele09/library-session/credstore/sqlitekv"
	"github.com/jrsteele09/library-session/identity"
	"github.com/jrsteele09/library-session/session"
	"github.com/stretchr/testify/require"
)

func openKV(t *testing.T, path, scope string) *sqlitekv.KV {
	t.Helper()
	kv, err := sqlitekv.Open(path, scope)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestKV_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t, filepath.Join(t.TempDir(), "kv.db"), "console")

	require.NoError(t, kv.SetAll(ctx, map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, kv.SetAll(ctx, map[string]string{"b": "3"}))

	got, err := kv.GetAll(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "3"}, got)

	require.NoError(t, kv.DeleteAll(ctx, []string{"a", "b", "c"}))
	got, err = kv.GetAll(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestKV_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")
	first := openKV(t, path, "first")

	require.NoError(t, first.SetAll(ctx, map[string]string{"token": "t1"}))

	second := openKV(t, path, "second")
	got, err := second.GetAll(ctx, []string{"token"})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestKV_SessionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	sess := session.Session{
		Token:     "tok",
		Identity:  identity.Identity{ID: "u-1", Email: "ada@example.com", Role: identity.RoleMember},
		ExpiresAt: time.UnixMilli(1767225600000),
	}

	kv, err := sqlitekv.Open(path, "console")
	require.NoError(t, err)
	require.NoError(t, credstore.New(kv).Save(ctx, sess))
	require.NoError(t, kv.Close())

	reopened := openKV(t, path, "console")
	loaded, err := credstore.New(reopened).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, sess.Token, loaded.Token)
	require.Equal(t, sess.Identity, loaded.Identity)
	require.True(t, sess.ExpiresAt.Equal(loaded.ExpiresAt))
}

func TestOpen_RequiresScope(t *testing.T) {
	_, err := sqlitekv.Open(filepath.Join(t.TempDir(), "kv.db"), "")
	require.Error(t, err)
}
