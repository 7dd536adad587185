package x509cert

import "encoding/asn1"

// entitlementRootOID is the fixed OID prefix that identifies entitlement
// blocks in a client certificate. The vendor arc (2312) is
// the one the original Pulp/Candlepin content-certificate scheme this
// system descends from actually used; it is reused here rather than
// invented so the on-wire shape matches real content certificates.
var entitlementRootOID = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 2312, 9, 2}

// Sub-OID suffixes carrying each entitlement field, relative to
// entitlementRootOID + <entitlement number>.
const (
	subOIDName        = 1
	subOIDLabel       = 2
	subOIDDownloadURL = 6
)

// matchEntitlementOID reports whether id is a recognized entitlement
// field extension, returning the entitlement number and the field
// suffix when it is.
func matchEntitlementOID(id asn1.ObjectIdentifier) (number int, field int, ok bool) {
	root := entitlementRootOID
	if len(id) != len(root)+2 {
		return 0, 0, false
	}
	for i, component := range root {
		if id[i] != component {
			return 0, 0, false
		}
	}
	return id[len(root)], id[len(root)+1], true
}
