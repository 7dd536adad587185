// Package domain holds the value objects and sentinel errors of the
// OID-entitlement authorization engine: CA bundles, repository
// descriptors, entitlements, client credentials, and process-wide
// policy state. Nothing in this package imports a third-party library
// or talks to disk, the network, or a clock beyond what a caller hands
// it; all of that lives in ports and adapters.
package domain
