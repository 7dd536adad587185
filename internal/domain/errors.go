package domain

import "errors"

// Sentinel errors for the authorization engine's failure taxonomy.
// Use errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping
// with context. Every category here corresponds to one row of the
// error taxonomy table and collapses to a deny decision exactly once,
// at the Authorization Engine's boundary.

var (
	// ErrConfiguration indicates a CA file is missing or malformed for a
	// tier that is currently active. The affected tier is treated as an
	// authoritative deny; the trust store logs a WARN event.
	ErrConfiguration = errors.New("configuration error: CA material unavailable for an active tier")

	// ErrCertParse indicates the client-presented PEM is absent or
	// malformed (zero certificates found, or the PEM block is not
	// decodable).
	ErrCertParse = errors.New("certificate parse error")

	// ErrChainVerify indicates chain verification failed: expired,
	// untrusted, wrong issuer, or signature mismatch.
	ErrChainVerify = errors.New("certificate chain verification failed")

	// ErrEntitlementDecode indicates the custom entitlement extension was
	// present but its ASN.1 payload was corrupt.
	ErrEntitlementDecode = errors.New("entitlement extension decode error")

	// ErrResolver indicates the repository index could not be consulted.
	ErrResolver = errors.New("repository resolver unavailable")
)

// Validation errors for individual value objects.

var (
	// ErrInvalidCABundle indicates a CA bundle has no usable CA
	// certificate material.
	ErrInvalidCABundle = errors.New("CA bundle has no certificate material")

	// ErrInvalidRepository indicates a repository descriptor is missing a
	// required field (id or relative path).
	ErrInvalidRepository = errors.New("repository descriptor is invalid")

	// ErrInvalidEntitlement indicates an entitlement tuple is missing its
	// path template.
	ErrInvalidEntitlement = errors.New("entitlement is invalid")

	// ErrInvalidClientCredential indicates a client credential was
	// constructed without a parsed certificate.
	ErrInvalidClientCredential = errors.New("client credential is invalid")
)
