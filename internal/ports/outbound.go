package ports

import (
	"context"
	"crypto/x509"

	"github.com/sufield/oidauth/internal/domain"
)

// TrustStore owns the authoritative CA material for both the global and
// per-repository trust tiers, persisted to disk as PEM files.
//
// Error Contract:
//   - Set* returns an error and leaves existing on-disk state intact if
//     the write fails (I/O error, invalid bundle).
//   - Get* never fails on "not present" — it returns a nil bundle.
//   - Get* never surfaces a missing or unreadable CA file as an error
//     either: that degrades the tier to "absent" (nil bundle), with a
//     WARN-level observability event when the file exists but cannot
//     be read, not a deny of every tier. The file's contents are not
//     parsed here: a readable CA file that holds no valid PEM comes
//     back as a bundle as-is, without a WARN event, and chain
//     verification against it fails. A non-nil error from Get* is reserved for the
//     store being unreachable altogether (e.g. a non-filesystem
//     implementation that cannot be consulted at all) — the one case
//     in which the Authorization Engine denies every active tier at
//     ERROR, per spec.md §7's ConfigurationError policy.
type TrustStore interface {
	SetGlobal(ctx context.Context, bundle *domain.CABundle) error
	ClearGlobal(ctx context.Context) error
	GetGlobal(ctx context.Context) (*domain.CABundle, error)

	SetRepo(ctx context.Context, repoID string, bundle *domain.CABundle) error
	ClearRepo(ctx context.Context, repoID string) error
	GetRepo(ctx context.Context, repoID string) (*domain.CABundle, error)
}

// CertificateVerifier transforms raw PEM bytes into a ClientCredential
// and answers chain-of-trust and entitlement-extraction questions.
//
// Error Contract:
//   - Parse returns domain.ErrCertParse if the PEM decodes to zero
//     certificates or is otherwise malformed.
//   - VerifySignedBy never returns an error; verification failure of any
//     kind (expired, wrong issuer, bad signature, malformed CA) reports
//     as false.
//   - ExtractEntitlements never returns an error for an absent or
//     partially corrupt extension; it degrades to fewer entitlements,
//     never to a failure of the whole call.
type CertificateVerifier interface {
	Parse(pemBytes []byte) (*domain.ClientCredential, error)
	VerifySignedBy(cred *domain.ClientCredential, caPEM []byte) bool
	ExtractEntitlements(cert *x509.Certificate) (domain.EntitlementSet, error)
}

// URLMatcher decides whether a decoded request path is covered by a
// given entitlement template.
type URLMatcher interface {
	// Match reports whether requestPath is covered by template, honoring
	// $identifier substitution and trailing-slash "prefix, any suffix"
	// semantics.
	Match(template, requestPath string) bool
}

// RepositoryResolver finds the repository, if any, whose relative path
// is the longest prefix of a request path.
//
// Error Contract:
//   - Resolve returns domain.ErrResolver if the repository index cannot
//     be consulted at all (as opposed to "no repository matched", which
//     is a nil, nil return).
type RepositoryResolver interface {
	Resolve(ctx context.Context, requestPath string) (*domain.Repository, error)

	// RelativePath strips the resolver's configured mount point from
	// requestPath, returning the same mount-relative coordinate space
	// Resolve matches repositories against. The Authorization Engine
	// matches entitlement templates against this, not the raw request
	// path, since templates (and relative_path) are mount-relative.
	RelativePath(requestPath string) string
}

// RepositoryStore is the narrow abstract repository read path the
// engine depends on: lookup by id, used once a resolver has already
// picked a candidate.
//
// Error Contract:
//   - Get returns (nil, nil) if no repository with that id is known.
//   - Get returns domain.ErrResolver if the underlying index is
//     unavailable.
type RepositoryStore interface {
	Get(ctx context.Context, repoID string) (*domain.Repository, error)
	List(ctx context.Context) ([]*domain.Repository, error)
}

// Authorizer is the Authorization Engine's public contract: decide,
// for one request, whether the presenting client is entitled to it.
type Authorizer interface {
	Authenticate(ctx context.Context, request Request) bool
}

// ConfigLoader loads application configuration from a well-known
// location.
type ConfigLoader interface {
	Load(ctx context.Context, path string) (*Config, error)
}
