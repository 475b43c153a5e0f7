package devicekey

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savemoney-app/savemoney/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func newFileEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	return NewEngine(FileStore{Path: filepath.Join(dir, "device.json")}, testLogger())
}

func TestInitialize_Idempotent(t *testing.T) {
	ctx := context.Background()
	e := newFileEngine(t, t.TempDir())

	require.NoError(t, e.Initialize(ctx))
	id1, err := e.Identity(ctx)
	require.NoError(t, err)

	require.NoError(t, e.Initialize(ctx))
	id2, err := e.Identity(ctx)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.NotEmpty(t, id1.UUID)
	assert.NotEmpty(t, id1.Fingerprint)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	ctx := context.Background()
	e := newFileEngine(t, t.TempDir())

	p1, err := e.DeriveKey(ctx, "users")
	require.NoError(t, err)
	p2, err := e.DeriveKey(ctx, "users")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Len(t, p1, 64) // hex of a 256-bit digest

	other, err := e.DeriveKey(ctx, "expenses")
	require.NoError(t, err)
	assert.NotEqual(t, p1, other)
}

func TestDeriveKey_StableAcrossEngines(t *testing.T) {
	// a new engine over the same persisted identity derives the same keys
	ctx := context.Background()
	dir := t.TempDir()

	e1 := newFileEngine(t, dir)
	p1, err := e1.DeriveKey(ctx, "users")
	require.NoError(t, err)
	k1, err := e1.SessionKey(ctx)
	require.NoError(t, err)

	e2 := newFileEngine(t, dir)
	p2, err := e2.DeriveKey(ctx, "users")
	require.NoError(t, err)
	k2, err := e2.SessionKey(ctx)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, k1, k2)
}

func TestDeriveKey_DiffersPerIdentity(t *testing.T) {
	ctx := context.Background()

	e1 := newFileEngine(t, t.TempDir())
	e2 := newFileEngine(t, t.TempDir())

	p1, err := e1.DeriveKey(ctx, "users")
	require.NoError(t, err)
	p2, err := e2.DeriveKey(ctx, "users")
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)

	k1, err := e1.SessionKey(ctx)
	require.NoError(t, err)
	k2, err := e2.SessionKey(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
	assert.Len(t, k1, 32)
}

func TestSessionKey_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	e := newFileEngine(t, t.TempDir())

	k1, err := e.SessionKey(ctx)
	require.NoError(t, err)
	for i := range k1 {
		k1[i] = 0
	}
	k2, err := e.SessionKey(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestFileStore_LoadMissing(t *testing.T) {
	s := FileStore{Path: filepath.Join(t.TempDir(), "absent.json")}
	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := FileStore{Path: filepath.Join(t.TempDir(), "device.json")}
	want := DeviceIdentity{Fingerprint: "linux/amd64/host", UUID: "u-1"}
	require.NoError(t, s.Save(want))

	got, ok, err := s.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
