package pkix

// MatchResult is the three-valued, monotonically-increasing state C8
// threads through a name search: NoNamesOfGivenType -> {Match,Mismatch} ->
// Match. The only regression allowed is the CN-ID fallback's reset back to
// NoNamesOfGivenType when a new, more specific CN attribute is encountered.
type MatchResult int

const (
	NoNamesOfGivenType MatchResult = iota
	Mismatch
	Match
)

// FallBackToCommonName governs whether SearchNames considers the subject's
// most specific commonName attribute when no dNSName or iPAddress SAN was
// present.
type FallBackToCommonName bool

const (
	FallBackNo  FallBackToCommonName = false
	FallBackYes FallBackToCommonName = true
)

// id-at-commonName, OID 2.5.4.3, as raw OID content bytes.
var idAtCommonName = []byte{0x55, 0x04, 0x03}

// SearchNames implements C8. It is used by both CheckCertHostname and
// CheckNameConstraints: the exact same traversal drives identity matching
// (referenceIDType is dNSName or iPAddress) and name-constraint enforcement
// (referenceIDType is NameConstraints and referenceID is the entire encoded
// name-constraints extension value), so the two can never drift out of sync
// on which CN attributes are considered or which character sets are
// acceptable for CN-IDs.
func SearchNames(subjectAltName *Input, subject Input, referenceIDType GeneralNameType, referenceID Input, fallBack FallBackToCommonName) (MatchResult, error) {
	match := NoNamesOfGivenType
	hasAtLeastOneDNSNameOrIPAddressSAN := false

	if subjectAltName != nil {
		altNames, err := ExpectTagAndValueAtEnd(*subjectAltName, tagSEQUENCE)
		if err != nil {
			return match, err
		}
		if altNames.AtEnd() {
			// subjectAltName is not allowed to be empty.
			return match, badDER("empty subjectAltName")
		}
		for {
			presentedIDType, presentedID, err := ReadGeneralName(altNames)
			if err != nil {
				return match, err
			}
			if referenceIDType == NameConstraints {
				if err := CheckPresentedIDConformsToConstraints(presentedIDType, presentedID, referenceID); err != nil {
					return match, err
				}
			} else if presentedIDType == referenceIDType {
				isMatch, err := matchPresentedIDWithReferenceID(presentedIDType, presentedID, referenceID)
				if err != nil {
					return match, err
				}
				if isMatch {
					return Match, nil
				}
				match = Mismatch
			}
			if presentedIDType == DNSName || presentedIDType == IPAddress {
				hasAtLeastOneDNSNameOrIPAddressSAN = true
			}
			if altNames.AtEnd() {
				break
			}
		}
	}

	if referenceIDType == NameConstraints {
		if err := CheckPresentedIDConformsToConstraints(DirectoryName, subject, referenceID); err != nil {
			return match, err
		}
	}

	if hasAtLeastOneDNSNameOrIPAddressSAN || fallBack != FallBackYes {
		return match, nil
	}

	// Attempt to match the reference ID against the CN-ID, the most
	// specific commonName AVA in the subject field. RFC 6125 leaves this
	// ambiguous when the subject has more than one CN; this package
	// follows NSS/RFC 2818 and treats only the last CN encountered in the
	// RDNSequence (which is ordered least to most specific) as the CN-ID.
	//
	// Name ::= CHOICE { rdnSequence RDNSequence }
	// RDNSequence ::= SEQUENCE OF RelativeDistinguishedName
	// RelativeDistinguishedName ::= SET SIZE (1..MAX) OF AttributeTypeAndValue
	subjectReader := NewReader(subject)
	err := NestedOf(subjectReader, tagSEQUENCE, tagSET, EmptyIsAllowed, func(rdn *Reader) error {
		return searchWithinRDN(rdn, referenceIDType, referenceID, &match)
	})
	return match, err
}

// searchWithinRDN iterates the AttributeTypeAndValue SEQUENCEs within one
// RDN (a SET).
func searchWithinRDN(rdn *Reader, referenceIDType GeneralNameType, referenceID Input, match *MatchResult) error {
	for {
		if err := Nested(rdn, tagSEQUENCE, func(ava *Reader) error {
			return searchWithinAVA(ava, referenceIDType, referenceID, match)
		}); err != nil {
			return err
		}
		if rdn.AtEnd() {
			return nil
		}
	}
}

// searchWithinAVA examines one AttributeTypeAndValue, acting only on
// commonName attributes.
func searchWithinAVA(ava *Reader, referenceIDType GeneralNameType, referenceID Input, match *MatchResult) error {
	oid, err := ava.ExpectTagAndValue(tagOID)
	if err != nil {
		return err
	}
	if !bytesEqual(oid.Bytes(), idAtCommonName) {
		ava.SkipToEnd()
		return nil
	}

	// A new CN AVA supersedes any match found against a previous one:
	// only the most specific CN in the subject is considered.
	*match = NoNamesOfGivenType

	valueTag, presentedID, err := ava.ReadTagAndValue()
	if err != nil {
		return err
	}

	// PrintableString, UTF8String, and TeletexString are accepted as
	// ASCII-superset encodings; UniversalString, BMPString, and any other
	// DirectoryString choice are silently skipped (neither match nor
	// mismatch), because they are not single-byte ASCII supersets this
	// package knows how to compare.
	if valueTag != tagPrintableString && valueTag != tagUTF8String && valueTag != tagTeletexString {
		return nil
	}

	if IsValidPresentedDNSID(presentedID) {
		if referenceIDType == NameConstraints {
			if err := CheckPresentedIDConformsToConstraints(DNSName, presentedID, referenceID); err == nil {
				*match = Match
			} else if isNotInNameSpaceErr(err) {
				*match = Mismatch
			} else {
				return err
			}
		} else if referenceIDType == DNSName {
			isMatch := PresentedDNSIDMatchesReferenceDNSID(presentedID, ReferenceID, referenceID)
			if isMatch {
				*match = Match
			} else {
				*match = Mismatch
			}
		}
		return nil
	}

	// We don't match CN-IDs for IPv6 addresses; matchPresentedIDWithReferenceID
	// already prevents an IPv4 presented ID from matching an IPv6
	// reference, so there's no need to check referenceID's address family
	// here.
	if ipv4, ok := ParseIPv4Address(presentedID); ok {
		ipv4Input, err := NewInput(ipv4[:])
		if err != nil {
			return err
		}
		if referenceIDType == NameConstraints {
			if err := CheckPresentedIDConformsToConstraints(IPAddress, ipv4Input, referenceID); err == nil {
				*match = Match
			} else if isNotInNameSpaceErr(err) {
				*match = Mismatch
			} else {
				return err
			}
		} else if referenceIDType == IPAddress {
			isMatch, err := matchPresentedIDWithReferenceID(IPAddress, ipv4Input, referenceID)
			if err != nil {
				return err
			}
			if isMatch {
				*match = Match
			} else {
				*match = Mismatch
			}
		}
	}

	// We don't match CN-IDs for any other types of names.
	return nil
}

// matchPresentedIDWithReferenceID dispatches identity matching (not
// constraint checking) for the two GeneralNameTypes that support it.
func matchPresentedIDWithReferenceID(nameType GeneralNameType, presentedID, referenceID Input) (bool, error) {
	switch nameType {
	case DNSName:
		return PresentedDNSIDMatchesReferenceDNSID(presentedID, ReferenceID, referenceID), nil
	case IPAddress:
		return InputsAreEqual(presentedID, referenceID), nil
	default:
		return false, fatalInvalidArgs("unexpected GeneralNameType for identity matching: " + nameType.String())
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isNotInNameSpaceErr reports whether err is the NotInNameSpace kind of
// *Error, distinguishing a constraint mismatch (which should downgrade a
// CN-ID candidate to Mismatch) from a DER parse failure or fatal condition
// (which must propagate).
func isNotInNameSpaceErr(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == NotInNameSpace
}
