// Package filestore implements the Trust Store against the local
// filesystem: CA bundles persisted as PEM files under a global
// location and a per-repository location, written atomically
// (temp file + rename) so readers never observe a torn write.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sufield/oidauth/internal/assert"
	"github.com/sufield/oidauth/internal/domain"
	"github.com/sufield/oidauth/internal/observability"
	"github.com/sufield/oidauth/internal/ports"
)

const (
	globalCAFileName   = "pulp-global-repo.ca"
	globalCertFileName = "pulp-global-repo.cert"
	globalKeyFileName  = "pulp-global-repo.key"
)

// TrustStore implements ports.TrustStore on top of os.ReadFile /
// os.Rename. The absence of a bundle's CA file on disk is
// authoritative: it means "no CA configured at this tier", not an
// error.
type TrustStore struct {
	globalCertLocation string
	repoCertLocation   string
	log                observability.Logger

	mu sync.Mutex
}

// New constructs a TrustStore rooted at the two configured locations.
// Both directories must already exist; New does not create them.
func New(globalCertLocation, repoCertLocation string) *TrustStore {
	return &TrustStore{
		globalCertLocation: globalCertLocation,
		repoCertLocation:   repoCertLocation,
		log:                observability.Component("filestore"),
	}
}

func (s *TrustStore) repoDir(repoID string) string {
	return filepath.Join(s.repoCertLocation, repoID)
}

func repoFileNames(repoID string) (ca, cert, key string) {
	return "pulp-" + repoID + ".ca", "pulp-" + repoID + ".cert", "pulp-" + repoID + ".key"
}

// SetGlobal writes the global CA bundle atomically. It does not flip
// any global-enabled switch: that flag lives in the snapshot
// internal/authz publishes, and this method only persists the bundle
// material.
func (s *TrustStore) SetGlobal(ctx context.Context, bundle *domain.CABundle) error {
	if err := bundle.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeBundle(s.globalCertLocation, globalCAFileName, globalCertFileName, globalKeyFileName, bundle)
}

// ClearGlobal removes the global CA bundle's files from disk.
func (s *TrustStore) ClearGlobal(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeBundle(s.globalCertLocation, globalCAFileName, globalCertFileName, globalKeyFileName)
}

// GetGlobal reads the global CA bundle. It returns (nil, nil) if no CA
// file is present.
func (s *TrustStore) GetGlobal(ctx context.Context) (*domain.CABundle, error) {
	return s.readBundle(s.globalCertLocation, globalCAFileName, globalCertFileName, globalKeyFileName)
}

// SetRepo writes repoID's CA bundle atomically under its own
// subdirectory, creating the subdirectory if needed.
func (s *TrustStore) SetRepo(ctx context.Context, repoID string, bundle *domain.CABundle) error {
	if err := bundle.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	dir := s.repoDir(repoID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating repo cert directory: %v", domain.ErrConfiguration, err)
	}
	ca, cert, key := repoFileNames(repoID)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeBundle(dir, ca, cert, key, bundle)
}

// ClearRepo removes repoID's CA bundle files.
func (s *TrustStore) ClearRepo(ctx context.Context, repoID string) error {
	ca, cert, key := repoFileNames(repoID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeBundle(s.repoDir(repoID), ca, cert, key)
}

// GetRepo reads repoID's CA bundle. It returns (nil, nil) if no CA file
// is present for that repository.
func (s *TrustStore) GetRepo(ctx context.Context, repoID string) (*domain.CABundle, error) {
	ca, cert, key := repoFileNames(repoID)
	return s.readBundle(s.repoDir(repoID), ca, cert, key)
}

func (s *TrustStore) writeBundle(dir, caName, certName, keyName string, bundle *domain.CABundle) error {
	if err := writeAtomic(filepath.Join(dir, caName), bundle.CACert); err != nil {
		return fmt.Errorf("%w: writing CA file: %v", domain.ErrConfiguration, err)
	}
	if len(bundle.ServerCert) > 0 {
		if err := writeAtomic(filepath.Join(dir, certName), bundle.ServerCert); err != nil {
			return fmt.Errorf("%w: writing server cert: %v", domain.ErrConfiguration, err)
		}
	}
	if len(bundle.ServerKey) > 0 {
		if err := writeAtomic(filepath.Join(dir, keyName), bundle.ServerKey); err != nil {
			return fmt.Errorf("%w: writing server key: %v", domain.ErrConfiguration, err)
		}
	}
	return nil
}

func (s *TrustStore) removeBundle(dir, caName, certName, keyName string) error {
	for _, name := range []string{caName, certName, keyName} {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: removing %s: %v", domain.ErrConfiguration, path, err)
		}
	}
	return nil
}

func (s *TrustStore) readBundle(dir, caName, certName, keyName string) (*domain.CABundle, error) {
	caPath := filepath.Clean(filepath.Join(dir, caName))
	caBytes, err := os.ReadFile(caPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		s.log.Warn("CA file unreadable, treating tier as unconfigured", "path", caPath, "error", err)
		return nil, nil
	}

	bundle := &domain.CABundle{CACert: caBytes}
	if certBytes, err := os.ReadFile(filepath.Clean(filepath.Join(dir, certName))); err == nil {
		bundle.ServerCert = certBytes
	}
	if keyBytes, err := os.ReadFile(filepath.Clean(filepath.Join(dir, keyName))); err == nil {
		bundle.ServerKey = keyBytes
	}
	return bundle, nil
}

// writeAtomic writes data to path by creating a temp file in the same
// directory and renaming it over the target, so readers never observe
// a partially written file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	assert.Invariant(filepath.Dir(tmpName) == dir, "atomic rename requires the temp file to share a directory with its target")
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var _ ports.TrustStore = (*TrustStore)(nil)
