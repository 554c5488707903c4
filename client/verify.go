package main

import (
	"crypto/x509"
	certpkix "crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/a-h/pkixverify/pkix"
)

var (
	oidSubjectAltName  = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidNameConstraints = asn1.ObjectIdentifier{2, 5, 29, 30}
)

// CertVerifier holds a root CA pool for chain validation.
type CertVerifier struct {
	RootPool *x509.CertPool
}

// NewCertVerifier returns a basic verifier with the given root pool.
func NewCertVerifier(rootPool *x509.CertPool) *CertVerifier {
	return &CertVerifier{RootPool: rootPool}
}

// VerifyPeerCertificate is used in a TLS-like handshake to verify certs
// manually. Standard chain verification (signatures, expiry, basic
// constraints) is left to crypto/x509; hostname matching and directoryName
// / dNSName name-constraint enforcement are delegated to package pkix,
// which supports the directoryName constraints crypto/x509 itself ignores.
func (cv *CertVerifier) VerifyPeerCertificate(serverName string) func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return errors.New("no certificates provided")
		}

		certs := make([]*x509.Certificate, len(rawCerts))
		for i, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return fmt.Errorf("failed to parse certificate %d: %w", i, err)
			}
			certs[i] = cert
		}

		intermediatePool := x509.NewCertPool()
		for _, cert := range certs[1:] {
			intermediatePool.AddCert(cert)
		}

		// Remove NameConstraints from unhandled critical extensions because
		// they're not supported by the standard library, but this code
		// supports them manually via package pkix.
		for _, cert := range certs {
			var unhandled []asn1.ObjectIdentifier
			for _, ext := range cert.UnhandledCriticalExtensions {
				if ext.Equal(oidNameConstraints) {
					continue
				}
				unhandled = append(unhandled, ext)
			}
			cert.UnhandledCriticalExtensions = unhandled
		}

		opts := x509.VerifyOptions{
			Intermediates: intermediatePool,
			Roots:         cv.RootPool,
		}
		chains, err := certs[0].Verify(opts)
		if err != nil {
			return fmt.Errorf("failed to verify certificate: %w", err)
		}

		leaf, err := backCertFromX509(certs[0])
		if err != nil {
			return fmt.Errorf("reading leaf certificate: %w", err)
		}
		leaf.IsEndEntity = true

		hostname, err := pkix.NewInput([]byte(serverName))
		if err != nil {
			return fmt.Errorf("server name %q: %w", serverName, err)
		}
		if err := pkix.CheckCertHostname(leaf, hostname); err != nil {
			return fmt.Errorf("certificate is not valid for %q: %w", serverName, err)
		}

		for _, chain := range chains {
			if err := enforceNameConstraints(chain); err != nil {
				return err
			}
		}

		return nil
	}
}

// enforceNameConstraints walks chain (leaf first, root last, as returned by
// x509.Certificate.Verify) and, for every issuer carrying a NameConstraints
// extension, checks every descendant between that issuer and the leaf
// against it. The BackCert chain is built once, up front, so that
// Parent/Child pointers span the whole chain; each issuer's check then
// starts from the certificate directly below it rather than from the
// overall leaf.
func enforceNameConstraints(chain []*x509.Certificate) error {
	bcChain, err := backCertChainFromX509(chain)
	if err != nil {
		return fmt.Errorf("building certificate chain: %w", err)
	}

	for i := len(chain) - 1; i > 0; i-- {
		issuer := chain[i]
		raw, ok := findExtensionValue(issuer, oidNameConstraints)
		if !ok {
			continue
		}
		nc, err := pkix.NewInput(raw)
		if err != nil {
			return fmt.Errorf("NameConstraints extension of %q: %w", issuer.Subject, err)
		}

		// The certificate directly issued by issuer is one step closer to
		// the leaf in the chain slice.
		firstChild := bcChain[i-1]

		if err := pkix.CheckNameConstraints(nc, firstChild, pkix.KeyPurposeServerAuth); err != nil {
			name, nameErr := directoryNameFromRawSubject(firstChild.Subject.Bytes())
			if nameErr != nil {
				return fmt.Errorf("certificate issued by %q violates name constraints: %w", issuer.Subject, err)
			}
			logrus.WithFields(logrus.Fields{
				"issuer":  issuer.Subject.String(),
				"subject": name.String(),
			}).WithError(err).Warn("certificate rejected by name constraints")
			return fmt.Errorf("certificate with subject %q issued by %q violates name constraints: %w", name, issuer.Subject, err)
		}
	}
	return nil
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

// backCertFromX509 builds the pkix.BackCert view package pkix needs from a
// parsed *x509.Certificate.
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

// backCertChainFromX509 wires certs (leaf first, as x509.Certificate.Verify
// returns a chain) into a BackCert chain, indexed the same way as certs:
// chain[0] is the leaf, chain[i].Child points one step towards the leaf.
func backCertChainFromX509(certs []*x509.Certificate) ([]*pkix.BackCert, error) {
	chain := make([]*pkix.BackCert, len(certs))
	for i, cert := range certs {
		bc, err := backCertFromX509(cert)
		if err != nil {
			return nil, err
		}
		bc.IsEndEntity = i == 0
		chain[i] = &bc
	}
	for i := len(chain) - 1; i > 0; i-- {
		chain[i].Child = chain[i-1]
		chain[i-1].Parent = chain[i]
	}
	return chain, nil
}

// directoryNameFromRawSubject decodes a DER RDNSequence into a
// crypto/x509/pkix.Name purely for readable error messages; package pkix's
// own directoryName matching never goes through encoding/asn1.
func directoryNameFromRawSubject(raw []byte) (certpkix.Name, error) {
	var rdnSeq certpkix.RDNSequence
	if _, err := asn1.Unmarshal(raw, &rdnSeq); err != nil {
		return certpkix.Name{}, fmt.Errorf("failed to unmarshal RDNSequence: %w", err)
	}
	var name certpkix.Name
	name.FillFromRDNSequence(&rdnSeq)
	return name, nil
}
