package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/oidauth/internal/adapters/outbound/filestore"
	"github.com/sufield/oidauth/internal/domain"
)

func newStore(t *testing.T) *filestore.TrustStore {
	t.Helper()
	globalDir := t.TempDir()
	repoDir := t.TempDir()
	return filestore.New(globalDir, repoDir)
}

func TestGetGlobal_AbsentIsNilNotError(t *testing.T) {
	t.Parallel()
	store := newStore(t)

	bundle, err := store.GetGlobal(context.Background())

	require.NoError(t, err)
	assert.Nil(t, bundle)
}

func TestSetThenGetGlobal_RoundTrips(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	bundle := &domain.CABundle{CACert: []byte("ca-bytes"), ServerCert: []byte("cert-bytes"), ServerKey: []byte("key-bytes")}
	require.NoError(t, store.SetGlobal(ctx, bundle))

	got, err := store.GetGlobal(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bundle.CACert, got.CACert)
	assert.Equal(t, bundle.ServerCert, got.ServerCert)
	assert.Equal(t, bundle.ServerKey, got.ServerKey)
}

func TestClearGlobal_RemovesBundle(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetGlobal(ctx, &domain.CABundle{CACert: []byte("ca-bytes")}))
	require.NoError(t, store.ClearGlobal(ctx))

	got, err := store.GetGlobal(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetThenGetRepo_RoundTrips(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	bundle := &domain.CABundle{CACert: []byte("repo-ca")}
	require.NoError(t, store.SetRepo(ctx, "repo-x", bundle))

	got, err := store.GetRepo(ctx, "repo-x")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bundle.CACert, got.CACert)

	// A different repo id remains unconfigured.
	other, err := store.GetRepo(ctx, "repo-y")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestClearRepo_RemovesOnlyThatRepo(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetRepo(ctx, "repo-x", &domain.CABundle{CACert: []byte("x")}))
	require.NoError(t, store.SetRepo(ctx, "repo-y", &domain.CABundle{CACert: []byte("y")}))

	require.NoError(t, store.ClearRepo(ctx, "repo-x"))

	gotX, err := store.GetRepo(ctx, "repo-x")
	require.NoError(t, err)
	assert.Nil(t, gotX)

	gotY, err := store.GetRepo(ctx, "repo-y")
	require.NoError(t, err)
	require.NotNil(t, gotY)
	assert.Equal(t, []byte("y"), gotY.CACert)
}

func TestSetGlobal_RejectsBundleWithNoCA(t *testing.T) {
	t.Parallel()
	store := newStore(t)

	err := store.SetGlobal(context.Background(), &domain.CABundle{ServerCert: []byte("cert-only")})

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestGetGlobal_UnreadableFileTreatedAsUnconfigured(t *testing.T) {
	t.Parallel()
	globalDir := t.TempDir()
	store := filestore.New(globalDir, t.TempDir())

	// Simulate a CA file whose permissions make it unreadable.
	path := filepath.Join(globalDir, "pulp-global-repo.ca")
	require.NoError(t, os.WriteFile(path, []byte("ca-bytes"), 0o000))
	t.Cleanup(func() { os.Chmod(path, 0o644) })

	if os.Geteuid() == 0 {
		t.Skip("root ignores file permission bits")
	}

	bundle, err := store.GetGlobal(context.Background())
	require.NoError(t, err)
	assert.Nil(t, bundle)
}

func TestSetGlobal_WriteIsAtomic_NoTempFileLeftBehind(t *testing.T) {
	t.Parallel()
	globalDir := t.TempDir()
	store := filestore.New(globalDir, t.TempDir())
	require.NoError(t, store.SetGlobal(context.Background(), &domain.CABundle{CACert: []byte("ca")}))

	got, err := store.GetGlobal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("ca"), got.CACert)

	// Only the renamed CA file remains; no ".tmp-*" file is left behind.
	entries, err := os.ReadDir(globalDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pulp-global-repo.ca", entries[0].Name())
}
