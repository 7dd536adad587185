// Package testsupport builds throwaway X.509 material for tests across
// the module: a self-signed CA, leaf certificates signed by it, and
// leaves carrying the custom entitlement extension. Nothing here is
// production code; it exists so tests don't depend on committed
// fixture PEM blobs with finite expiry dates.
package testsupport

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

// entitlementRootOID mirrors x509cert.entitlementRootOID; duplicated
// here to avoid a test-only dependency cycle between the adapter
// package and its own test helpers.
var entitlementRootOID = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 2312, 9, 2}

// CA is a throwaway certificate authority for tests.
type CA struct {
	Cert    *x509.Certificate
	Key     *rsa.PrivateKey
	CertPEM []byte
}

// NewCA generates a self-signed CA certificate valid for one day.
func NewCA(t *testing.T, commonName string) *CA {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create CA cert: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse CA cert: %v", err)
	}

	return &CA{
		Cert:    cert,
		Key:     key,
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
	}
}

// Entitlement is the test-side description of one entitlement block to
// embed in a generated leaf certificate.
type Entitlement struct {
	Number      int
	Name        string
	Label       string
	DownloadURL string
}

// LeafOptions configures NewLeaf.
type LeafOptions struct {
	CommonName   string
	NotBefore    time.Time
	NotAfter     time.Time
	Entitlements []Entitlement
}

// NewLeaf generates a certificate signed by ca, carrying the requested
// entitlement extensions: one extension per (entitlement number, field)
// pair, value a bare ASN.1 IA5String.
func NewLeaf(t *testing.T, ca *CA, opts LeafOptions) (certPEM []byte, keyPEM []byte, cert *x509.Certificate) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate leaf key: %v", err)
	}

	notBefore := opts.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now().Add(-time.Hour)
	}
	notAfter := opts.NotAfter
	if notAfter.IsZero() {
		notAfter = time.Now().Add(24 * time.Hour)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: opts.CommonName},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtraExtensions: entitlementExtensions(t, opts.Entitlements),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, ca.Cert, &key.PublicKey, ca.Key)
	if err != nil {
		t.Fatalf("create leaf cert: %v", err)
	}
	parsed, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse leaf cert: %v", err)
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyDER := x509.MarshalPKCS1PrivateKey(key)
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, parsed
}

func entitlementExtensions(t *testing.T, ents []Entitlement) []pkix.Extension {
	t.Helper()

	var exts []pkix.Extension
	for _, e := range ents {
		exts = append(exts,
			asn1StringExtension(t, entOID(e.Number, 1), e.Name),
			asn1StringExtension(t, entOID(e.Number, 2), e.Label),
			asn1StringExtension(t, entOID(e.Number, 6), e.DownloadURL),
		)
	}
	return exts
}

func entOID(number, field int) asn1.ObjectIdentifier {
	oid := make(asn1.ObjectIdentifier, len(entitlementRootOID)+2)
	copy(oid, entitlementRootOID)
	oid[len(entitlementRootOID)] = number
	oid[len(entitlementRootOID)+1] = field
	return oid
}

func asn1StringExtension(t *testing.T, id asn1.ObjectIdentifier, value string) pkix.Extension {
	t.Helper()
	encoded, err := asn1.MarshalWithParams(value, "ia5")
	if err != nil {
		t.Fatalf("marshal entitlement field: %v", err)
	}
	return pkix.Extension{Id: id, Value: encoded}
}
