package main

import (
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/a-h/pkixverify/pkix"
)

var (
	oidSubjectAltName  = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidNameConstraints = asn1.ObjectIdentifier{2, 5, 29, 30}
)

// loadCertChain reads every CERTIFICATE PEM block from path, in file order.
// By convention the first block is the end-entity certificate and the rest
// are its issuers, most specific first.
func loadCertChain(path string) ([]*x509.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, raw = pem.Decode(raw)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing certificate in %q: %w", path, err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("%q contains no CERTIFICATE blocks", path)
	}
	return certs, nil
}

// findExtensionValue returns the raw DER value of the extension with the
// given OID, and whether it was present.
func findExtensionValue(cert *x509.Certificate, oid asn1.ObjectIdentifier) ([]byte, bool) {
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(oid) {
			return ext.Value, true
		}
	}
	return nil, false
}

// backCertFromX509 builds the pkix.BackCert view this package needs from a
// parsed *x509.Certificate: the raw subject Name and, if present, the raw
// subjectAltName extension value.
func backCertFromX509(cert *x509.Certificate) (pkix.BackCert, error) {
	subject, err := pkix.NewInput(cert.RawSubject)
	if err != nil {
		return pkix.BackCert{}, fmt.Errorf("subject of %q: %w", cert.Subject, err)
	}

	bc := pkix.BackCert{Subject: subject}
	if raw, ok := findExtensionValue(cert, oidSubjectAltName); ok {
		san, err := pkix.NewInput(raw)
		if err != nil {
			return pkix.BackCert{}, fmt.Errorf("subjectAltName of %q: %w", cert.Subject, err)
		}
		bc.SubjectAltName = &san
	}
	return bc, nil
}

// backCertChain wires a slice of certificates (end entity first, as
// loadCertChain returns them) into a doubly linked BackCert chain: firstChild
// is the certificate directly below the one carrying the name constraints
// being checked, and walking Child from there reaches the end entity.
func backCertChain(certs []*x509.Certificate) ([]*pkix.BackCert, error) {
	chain := make([]*pkix.BackCert, len(certs))
	for i, cert := range certs {
		bc, err := backCertFromX509(cert)
		if err != nil {
			return nil, err
		}
		bc.IsEndEntity = i == 0
		chain[i] = &bc
	}
	// certs is ordered end-entity first, issuer last; BackCert.Child points
	// towards the end entity, so chain[i] is the parent of chain[i-1].
	for i := len(chain) - 1; i > 0; i-- {
		chain[i].Child = chain[i-1]
		chain[i-1].Parent = chain[i]
	}
	return chain, nil
}

func parseKeyPurpose(s string) (pkix.KeyPurposeID, error) {
	switch s {
	case "", "any":
		return pkix.KeyPurposeAny, nil
	case "serverAuth":
		return pkix.KeyPurposeServerAuth, nil
	case "clientAuth":
		return pkix.KeyPurposeClientAuth, nil
	case "codeSigning":
		return pkix.KeyPurposeCodeSigning, nil
	case "emailProtection":
		return pkix.KeyPurposeEmailProtection, nil
	case "ocspSigning":
		return pkix.KeyPurposeOCSPSigning, nil
	default:
		return 0, fmt.Errorf("unknown key purpose %q", s)
	}
}
