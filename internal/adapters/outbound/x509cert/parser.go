// Package x509cert implements certificate parsing and verification:
// PEM decoding, chain verification against a supplied CA, and
// extraction of the custom entitlement extension.
package x509cert

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/sufield/oidauth/internal/domain"
	"github.com/sufield/oidauth/internal/ports"
)

// Verifier implements ports.CertificateVerifier using the standard
// library's X.509 decoder and path-building verifier.
type Verifier struct{}

// NewVerifier constructs a Verifier. It holds no state: every method is
// a pure function of its arguments.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Parse decodes a PEM blob that may contain a certificate and a private
// key in either order, ignores any private key material,
// and returns every certificate found, leaf first. It rejects input
// with zero certificates.
func (v *Verifier) Parse(pemBytes []byte) (*domain.ClientCredential, error) {
	var certs []*x509.Certificate

	rest := pemBytes
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			// Private key (RSA/EC/PKCS8) or anything else: ignored.
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCertParse, err)
		}
		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: no certificate found in PEM input", domain.ErrCertParse)
	}

	entitlements, err := v.ExtractEntitlements(certs[0])
	if err != nil {
		return nil, err
	}

	cred, err := domain.NewClientCredential(pemBytes, certs, entitlements)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCertParse, err)
	}
	return cred, nil
}

var _ ports.CertificateVerifier = (*Verifier)(nil)
