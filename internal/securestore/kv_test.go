package securestore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savemoney-app/savemoney/internal/cryptox"
	"github.com/savemoney-app/savemoney/internal/devicekey"
	"github.com/savemoney-app/savemoney/internal/logging"
)

type testStack struct {
	keys   *devicekey.Engine
	cipher *cryptox.Cipher
	kv     *KVStore
	cols   *CollectionStore
	dir    string
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	log := logging.NewTextLogger(io.Discard, slog.LevelError)

	keys := devicekey.NewEngine(devicekey.FileStore{Path: filepath.Join(dir, "device.json")}, log)
	require.NoError(t, keys.Initialize(ctx))
	key, err := keys.SessionKey(ctx)
	require.NoError(t, err)
	cipher, err := cryptox.NewCipher(key)
	require.NoError(t, err)

	kv, err := OpenKV(filepath.Join(dir, "kv.db"), keys, cipher, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	cols, err := OpenCollections(ctx, filepath.Join(dir, "collections.db"), keys, cipher, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cols.Close() })

	return &testStack{keys: keys, cipher: cipher, kv: kv, cols: cols, dir: dir}
}

type prefs struct {
	Theme string `json:"theme"`
	Limit int    `json:"limit"`
}

func TestKV_SetGetRoundTrip(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	in := prefs{Theme: "dark", Limit: 10}
	require.NoError(t, s.kv.SetItem(ctx, "settings", "prefs", in))

	var out prefs
	ok, err := s.kv.GetItem(ctx, "settings", "prefs", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)
}

func TestKV_MissingIsNotAnError(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	var out prefs
	ok, err := s.kv.GetItem(ctx, "settings", "absent", &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, out)

	// unknown store as well
	ok, err = s.kv.GetItem(ctx, "no-such-store", "prefs", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKV_Overwrite(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	require.NoError(t, s.kv.SetItem(ctx, "settings", "prefs", prefs{Theme: "dark"}))
	require.NoError(t, s.kv.SetItem(ctx, "settings", "prefs", prefs{Theme: "light"}))

	var out prefs
	ok, err := s.kv.GetItem(ctx, "settings", "prefs", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", out.Theme)
}

func TestKV_Remove(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	require.NoError(t, s.kv.SetItem(ctx, "settings", "prefs", prefs{Theme: "dark"}))
	require.NoError(t, s.kv.RemoveItem(ctx, "settings", "prefs"))

	var out prefs
	ok, err := s.kv.GetItem(ctx, "settings", "prefs", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	// removing again is a no-op
	require.NoError(t, s.kv.RemoveItem(ctx, "settings", "prefs"))
}

func TestKV_StoresAreIsolated(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	require.NoError(t, s.kv.SetItem(ctx, "auth", "session", prefs{Theme: "a"}))

	var out prefs
	ok, err := s.kv.GetItem(ctx, "recovery", "session", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
