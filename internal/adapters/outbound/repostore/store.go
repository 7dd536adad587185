// Package repostore implements the Repository Resolver and the narrow
// abstract repository read path the engine depends on, backed by a
// flat text file of the form "repo_id:relative_path" per line — the
// on-disk format the original repository-listing file uses, read here
// without pulling in the rest of the repository CRUD subsystem (out of
// scope).
package repostore

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sufield/oidauth/internal/domain"
	"github.com/sufield/oidauth/internal/observability"
	"github.com/sufield/oidauth/internal/ports"
)

// Store is an in-memory, read-mostly index of repository descriptors,
// rebuilt wholesale by LoadListingFile, Seed or HydrateConsumerCertData
// and swapped atomically so concurrent readers never see a partial index.
type Store struct {
	mountPoint string

	mu    sync.RWMutex
	byID  map[string]*domain.Repository
	paths []*domain.Repository // sorted by RelativePath length, descending
}

// New constructs an empty Store. mountPoint is the fixed path prefix
// (e.g. "/pulp/repos/") request paths are resolved under.
func New(mountPoint string) *Store {
	return &Store{
		mountPoint: strings.Trim(mountPoint, "/"),
		byID:       make(map[string]*domain.Repository),
	}
}

// LoadListingFile reads repo_id:relative_path pairs from path and
// rebuilds the index. It only learns which repo ids and relative paths
// exist; call HydrateConsumerCertData afterward to fill in each
// repository's CA bundle from the Trust Store.
func (s *Store) LoadListingFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening repository listing: %v", domain.ErrResolver, err)
	}
	defer f.Close()

	var repos []*domain.Repository
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			observability.Component("repostore").Warn("malformed listing line, skipping", "line", line)
			continue
		}
		id := strings.TrimSpace(line[:idx])
		relativePath := strings.TrimSpace(line[idx+1:])
		repo := &domain.Repository{ID: id, RelativePath: relativePath}
		if err := repo.Validate(); err != nil {
			observability.Component("repostore").Warn("invalid listing entry, skipping", "line", line, "error", err)
			continue
		}
		repos = append(repos, repo)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: reading repository listing: %v", domain.ErrResolver, err)
	}

	s.replace(repos)
	return nil
}

// Seed installs repos directly, bypassing the listing file. Used by
// tests and by callers assembling the index from another source.
func (s *Store) Seed(repos []*domain.Repository) {
	s.replace(repos)
}

// HydrateConsumerCertData fills in ConsumerCertData for every repository
// currently in the index by looking up its per-repo CA bundle in trust.
// The listing file (LoadListingFile) only knows repo ids and relative
// paths, not CA material; this step is what lets a repository loaded
// from the listing file actually engage the per-repo trust tier in
// authz.Engine.Authenticate, which gates on Repository.HasPerRepoAuth.
func (s *Store) HydrateConsumerCertData(ctx context.Context, trust ports.TrustStore) error {
	current, err := s.List(ctx)
	if err != nil {
		return err
	}

	hydrated := make([]*domain.Repository, len(current))
	for i, r := range current {
		bundle, err := trust.GetRepo(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("%w: loading CA bundle for repo %q: %v", domain.ErrResolver, r.ID, err)
		}
		cp := *r
		cp.ConsumerCertData = bundle
		hydrated[i] = &cp
	}

	s.replace(hydrated)
	return nil
}

func (s *Store) replace(repos []*domain.Repository) {
	byID := make(map[string]*domain.Repository, len(repos))
	sorted := make([]*domain.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].NormalizedRelativePath()) > len(sorted[j].NormalizedRelativePath())
	})
	for _, r := range repos {
		byID[r.ID] = r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = byID
	s.paths = sorted
}

// Get returns the repository with the given id, or (nil, nil) if none
// is known.
func (s *Store) Get(ctx context.Context, repoID string) (*domain.Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[repoID], nil
}

// List returns every known repository.
func (s *Store) List(ctx context.Context) ([]*domain.Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Repository, len(s.paths))
	copy(out, s.paths)
	return out, nil
}

// RelativePath strips the store's configured mount point from
// requestPath, returning the same mount-relative path Resolve matches
// repository RelativePath values against. Entitlement templates are
// mount-relative too, so callers matching a template against a request
// path must use this, not the raw request path.
func (s *Store) RelativePath(requestPath string) string {
	trimmed := strings.TrimPrefix(requestPath, "/")
	trimmed = strings.TrimPrefix(trimmed, s.mountPoint)
	trimmed = strings.TrimPrefix(trimmed, "/")
	return trimmed
}

// Resolve finds the repository whose relative path is the longest
// prefix of requestPath under the store's mount point. Ties are broken
// by longest match; collisions beyond that are resolved by listing
// order, which is stable but otherwise unspecified.
func (s *Store) Resolve(ctx context.Context, requestPath string) (*domain.Repository, error) {
	trimmed := s.RelativePath(requestPath)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, repo := range s.paths {
		rp := repo.NormalizedRelativePath()
		if rp == "" {
			continue
		}
		if trimmed == rp || strings.HasPrefix(trimmed, rp+"/") {
			return repo, nil
		}
	}
	return nil, nil
}

var (
	_ ports.RepositoryResolver = (*Store)(nil)
	_ ports.RepositoryStore    = (*Store)(nil)
)
