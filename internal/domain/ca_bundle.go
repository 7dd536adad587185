package domain

import "fmt"

// CABundle is a discriminated, three-field record in place of a loose
// "consumer_cert_data" mapping. Only CACert is ever
// consulted by the authorization path; ServerCert and
// ServerKey are carried through verbatim for persistence by the trust
// store, and nothing else in this module reads them.
//
// All three fields are PEM-encoded bytes, or nil when the bundle owns
// no value for that slot. A bundle with an empty CACert is not usable
// as a trust anchor; callers should treat it the same as "no bundle".
type CABundle struct {
	CACert     []byte
	ServerCert []byte
	ServerKey  []byte
}

// HasCA reports whether the bundle carries CA certificate material.
func (b *CABundle) HasCA() bool {
	return b != nil && len(b.CACert) > 0
}

// Clone returns a deep copy of the bundle so callers can't alias the
// original's backing arrays.
func (b *CABundle) Clone() *CABundle {
	if b == nil {
		return nil
	}
	out := &CABundle{}
	if b.CACert != nil {
		out.CACert = append([]byte(nil), b.CACert...)
	}
	if b.ServerCert != nil {
		out.ServerCert = append([]byte(nil), b.ServerCert...)
	}
	if b.ServerKey != nil {
		out.ServerKey = append([]byte(nil), b.ServerKey...)
	}
	return out
}

// Validate checks that the bundle has at least CA material; callers
// that only need a trust anchor (as opposed to a full server identity)
// call this before installing a bundle into the trust store.
func (b *CABundle) Validate() error {
	if !b.HasCA() {
		return fmt.Errorf("%w", ErrInvalidCABundle)
	}
	return nil
}
