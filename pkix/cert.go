// Package pkix implements RFC 6125-ish certificate name matching and RFC
// 5280-ish name-constraint checking.
//
// A "presented identifier" is a name asserted by a certificate, either in
// its subjectAltName or, for backward compatibility, in its subject's most
// specific commonName attribute. A "reference identifier" is the name a
// caller is checking the certificate against: a hostname for
// CheckCertHostname, or the entire encoded name-constraints extension
// value for CheckNameConstraints. Both entry points drive the same
// underlying traversal (SearchNames) so that the set of CN attributes
// considered, and the character encodings accepted for them, can never
// drift between identity matching and name-constraint enforcement.
//
// Certificate-chain building, signature verification, and revocation are
// out of scope: callers supply an already-parsed BackCert view.
package pkix

// KeyPurposeID identifies an extended key usage purpose. CheckNameConstraints
// only distinguishes KeyPurposeServerAuth, which enables CN-ID fallback for
// the end entity, from the other values; assigning and validating EKUs is
// an external collaborator's concern (chain building).
type KeyPurposeID int

const (
	KeyPurposeAny KeyPurposeID = iota
	KeyPurposeServerAuth
	KeyPurposeClientAuth
	KeyPurposeCodeSigning
	KeyPurposeEmailProtection
	KeyPurposeOCSPSigning
)

// BackCert is the minimal certificate view this package needs from an
// external chain builder: the DER-encoded subject Name, an optional
// DER-encoded subjectAltName extension value, and pointer-style links to
// the certificate's neighbors in a chain. "Back" reflects that, like
// mozpkix's BackCert, each certificate was most naturally discovered by
// walking the chain from the end entity back up to a trust anchor — Parent
// points that direction, Child points the other way so
// CheckNameConstraints can walk forward from firstChild down to the end
// entity the way the original does.
type BackCert struct {
	Subject        Input
	SubjectAltName *Input
	Parent         *BackCert
	Child          *BackCert
	IsEndEntity    bool
}

// CheckCertHostname implements the first public entry point: it decides
// whether the end-entity certificate described by endEntityCert is valid
// for hostname.
//
// hostname must be a normalized ASCII byte string: either a valid
// reference DNS-ID (optionally with a trailing dot), an IPv6 textual
// literal (no brackets, no zone ID), or an IPv4 dotted-quad.
func CheckCertHostname(endEntityCert BackCert, hostname Input) error {
	var referenceIDType GeneralNameType
	var referenceID Input
	var fallBack FallBackToCommonName

	switch {
	case IsValidReferenceDNSID(hostname):
		referenceIDType = DNSName
		referenceID = hostname
		fallBack = FallBackYes

	default:
		if ipv6, ok := ParseIPv6Address(hostname); ok {
			in, err := NewInput(ipv6[:])
			if err != nil {
				return err
			}
			referenceIDType = IPAddress
			referenceID = in
			fallBack = FallBackNo
		} else if ipv4, ok := ParseIPv4Address(hostname); ok {
			in, err := NewInput(ipv4[:])
			if err != nil {
				return err
			}
			referenceIDType = IPAddress
			referenceID = in
			fallBack = FallBackYes
		} else {
			return ErrBadCertDomain
		}
	}

	match, err := SearchNames(endEntityCert.SubjectAltName, endEntityCert.Subject, referenceIDType, referenceID, fallBack)
	if err != nil {
		tracef("CheckCertHostname: SearchNames failed: %v", err)
		return err
	}

	switch match {
	case NoNamesOfGivenType, Mismatch:
		tracef("CheckCertHostname: %s did not match any presented identifier (result %v)", referenceIDType, match)
		return ErrBadCertDomain
	case Match:
		return nil
	default:
		return fatalLibraryFailure("invalid match result")
	}
}

// CheckNameConstraints implements the second public entry point: it walks
// the chain of descendants starting at firstChild (the certificate directly
// issued by the certificate that carries encodedNameConstraints) down to
// the end entity, checking each one's presented identifiers against the
// constraints.
func CheckNameConstraints(encodedNameConstraints Input, firstChild *BackCert, requiredEKUIfPresent KeyPurposeID) error {
	for child := firstChild; child != nil; child = child.Child {
		fallBack := FallBackNo
		if child.IsEndEntity && requiredEKUIfPresent == KeyPurposeServerAuth {
			fallBack = FallBackYes
		}

		match, err := SearchNames(child.SubjectAltName, child.Subject, NameConstraints, encodedNameConstraints, fallBack)
		if err != nil {
			return err
		}
		switch match {
		case Match, NoNamesOfGivenType:
			// ok
		case Mismatch:
			tracef("CheckNameConstraints: CN-ID of certificate below %v violates name constraints", child.Subject)
			return ErrNotInNameSpace
		}
	}
	return nil
}
