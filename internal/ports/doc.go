// Package ports declares the interfaces that separate the
// authorization core (internal/domain, internal/authz) from its
// adapters (filestore, x509cert, pathmatch, repostore) and from the
// configuration surface that bootstraps them. No implementation lives
// here; no third-party imports either, beyond what the standard
// library's crypto/x509 package already requires to describe a
// certificate.
package ports
