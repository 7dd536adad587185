package domain

import (
	"fmt"
	"strings"
)

// Repository is a content repository descriptor: an opaque identifier,
// a human name, the URL path segment that roots its content under the
// service's mount point, and an optional per-repository CA bundle.
//
// Invariant: RelativePath values do not alias one another
// by prefix in a way that changes resolution; when two repositories'
// RelativePath values are both prefixes of a request path, the longest
// one wins (see repostore.Store.Resolve).
type Repository struct {
	ID               string
	Name             string
	RelativePath     string
	ConsumerCertData *CABundle
}

// HasPerRepoAuth reports whether this repository carries a CA bundle
// that should be consulted as a trust tier.
func (r *Repository) HasPerRepoAuth() bool {
	return r != nil && r.ConsumerCertData.HasCA()
}

// NormalizedRelativePath returns RelativePath with its leading slash (if
// any) trimmed, matching the "no leading slash" invariant persisted
// repository descriptors are expected to hold.
func (r *Repository) NormalizedRelativePath() string {
	return strings.TrimPrefix(r.RelativePath, "/")
}

// Validate checks that the descriptor carries the fields the resolver
// and trust store require.
func (r *Repository) Validate() error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRepository)
	}
	if r.RelativePath == "" {
		return fmt.Errorf("%w: missing relative_path for repo %q", ErrInvalidRepository, r.ID)
	}
	return nil
}
