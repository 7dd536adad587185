package repostore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/oidauth/internal/adapters/outbound/filestore"
	"github.com/sufield/oidauth/internal/adapters/outbound/repostore"
	"github.com/sufield/oidauth/internal/domain"
)

func TestResolve_NoMatch_ReturnsNilNoError(t *testing.T) {
	t.Parallel()
	s := repostore.New("/pulp/repos/")
	s.Seed([]*domain.Repository{{ID: "x", RelativePath: "repos/pulp/pulp/fedora-14"}})

	repo, err := s.Resolve(context.Background(), "/pulp/repos/unrelated/path")

	require.NoError(t, err)
	assert.Nil(t, repo)
}

func TestRelativePath_StripsMountPointAndLeadingSlashes(t *testing.T) {
	t.Parallel()
	s := repostore.New("/pulp/repos/")

	got := s.RelativePath("/pulp/repos/repos/pulp/pulp/fedora-14/x86_64/")

	assert.Equal(t, "repos/pulp/pulp/fedora-14/x86_64/", got)
}

func TestResolve_ExactAndPrefixPaths(t *testing.T) {
	t.Parallel()
	s := repostore.New("/pulp/repos/")
	s.Seed([]*domain.Repository{{ID: "x", RelativePath: "repos/pulp/pulp/fedora-14"}})

	repo, err := s.Resolve(context.Background(), "/pulp/repos/repos/pulp/pulp/fedora-14/x86_64/os")
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Equal(t, "x", repo.ID)
}

func TestResolve_LongestPrefixWins(t *testing.T) {
	t.Parallel()
	s := repostore.New("/pulp/repos/")
	s.Seed([]*domain.Repository{
		{ID: "short", RelativePath: "repos/pulp"},
		{ID: "long", RelativePath: "repos/pulp/pulp/fedora-14"},
	})

	repo, err := s.Resolve(context.Background(), "/pulp/repos/repos/pulp/pulp/fedora-14/x86_64/os")
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Equal(t, "long", repo.ID)
}

func TestGet_UnknownID_ReturnsNilNoError(t *testing.T) {
	t.Parallel()
	s := repostore.New("/pulp/repos/")

	repo, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, repo)
}

func TestLoadListingFile_ParsesValidLines(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "repos.listing")
	content := "repo-x:repos/pulp/pulp/fedora-14\n" +
		"# a comment\n" +
		"\n" +
		"repo-y:repos/pulp/pulp/fedora-13\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := repostore.New("/pulp/repos/")
	require.NoError(t, s.LoadListingFile(path))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestLoadListingFile_SkipsMalformedLines(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "repos.listing")
	content := "repo-x:repos/pulp/pulp/fedora-14\n" +
		"this-line-has-no-colon\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := repostore.New("/pulp/repos/")
	require.NoError(t, s.LoadListingFile(path))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLoadListingFile_MissingFile_ReturnsResolverError(t *testing.T) {
	t.Parallel()
	s := repostore.New("/pulp/repos/")
	err := s.LoadListingFile(filepath.Join(t.TempDir(), "missing.listing"))
	assert.ErrorIs(t, err, domain.ErrResolver)
}

func TestHydrateConsumerCertData_FillsBundleFromTrustStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	trust := filestore.New(t.TempDir(), t.TempDir())
	require.NoError(t, trust.SetRepo(ctx, "repo-x", &domain.CABundle{CACert: []byte("ca-pem")}))

	s := repostore.New("/pulp/repos/")
	s.Seed([]*domain.Repository{
		{ID: "repo-x", RelativePath: "repos/pulp/pulp/fedora-14"},
		{ID: "repo-y", RelativePath: "repos/pulp/pulp/fedora-13"},
	})

	require.NoError(t, s.HydrateConsumerCertData(ctx, trust))

	x, err := s.Get(ctx, "repo-x")
	require.NoError(t, err)
	require.True(t, x.HasPerRepoAuth())
	assert.Equal(t, []byte("ca-pem"), x.ConsumerCertData.CACert)

	y, err := s.Get(ctx, "repo-y")
	require.NoError(t, err)
	assert.False(t, y.HasPerRepoAuth())
}
