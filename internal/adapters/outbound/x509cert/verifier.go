package x509cert

import (
	"crypto/x509"

	"github.com/sufield/oidauth/internal/domain"
)

// VerifySignedBy chain-verifies cred's leaf certificate against the
// single trust anchor carried in caPEM, honoring any intermediates
// present in the client's own certificate chain. It returns false for any
// verification failure — expired, wrong issuer, bad signature, or a
// malformed CA — never an error.
func (v *Verifier) VerifySignedBy(cred *domain.ClientCredential, caPEM []byte) bool {
	if cred == nil || cred.Leaf == nil || len(caPEM) == 0 {
		return false
	}

	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(caPEM) {
		return false
	}

	intermediates := x509.NewCertPool()
	for _, c := range cred.Intermediates() {
		intermediates.AddCert(c)
	}

	_, err := cred.Leaf.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	return err == nil
}
