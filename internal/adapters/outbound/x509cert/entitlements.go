package x509cert

import (
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"sort"

	"github.com/sufield/oidauth/internal/domain"
)

// ExtractEntitlements reads every extension under entitlementRootOID,
// groups the name/label/download_url fields by entitlement number, and
// returns them in ascending number order.
//
// An absent extension yields an empty set, not an error. A present-but-corrupt
// field is skipped with its entitlement number remaining eligible for
// whatever fields did decode; this never raises ErrEntitlementDecode
// across the ports.CertificateVerifier boundary — a corrupt field
// degrades to "no entitlement for that slot", not a process-wide failure.
func (v *Verifier) ExtractEntitlements(cert *x509.Certificate) (domain.EntitlementSet, error) {
	if cert == nil {
		return domain.NewEntitlementSet(nil), nil
	}

	type fields struct {
		name, label, downloadURL string
		has                      bool
	}
	byNumber := map[int]*fields{}

	for _, ext := range cert.Extensions {
		number, field, ok := matchEntitlementOID(ext.Id)
		if !ok {
			continue
		}
		value, decodeErr := decodeASN1String(ext.Value)
		if decodeErr != nil {
			// Corrupt sub-field: ignore it, keep the rest (see doc comment).
			continue
		}
		f, exists := byNumber[number]
		if !exists {
			f = &fields{}
			byNumber[number] = f
		}
		f.has = true
		switch field {
		case subOIDName:
			f.name = value
		case subOIDLabel:
			f.label = value
		case subOIDDownloadURL:
			f.downloadURL = value
		}
	}

	numbers := make([]int, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	items := make([]domain.Entitlement, 0, len(numbers))
	for _, n := range numbers {
		f := byNumber[n]
		if f.downloadURL == "" {
			// No usable template: nothing for the URL Matcher to match
			// against, so this slot contributes nothing.
			continue
		}
		items = append(items, domain.Entitlement{
			ProductID:    fmt.Sprintf("%d", n),
			ProductName:  f.name,
			PathTemplate: f.downloadURL,
		})
		_ = f.label // carried in the certificate but not consulted
	}

	return domain.NewEntitlementSet(items), nil
}

// decodeASN1String decodes an extension value that may be a bare ASN.1
// string (UTF8String/IA5String/PrintableString) as Candlepin-style
// content certificates encode it. asn1.RawValue accepts any universal
// string tag, so this does not need to know which specific string type
// the encoder chose.
func decodeASN1String(value []byte) (string, error) {
	var raw asn1.RawValue
	if _, err := asn1.Unmarshal(value, &raw); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEntitlementDecode, err)
	}
	return string(raw.Bytes), nil
}
