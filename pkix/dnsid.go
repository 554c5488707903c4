package pkix

// DNSIDMatchType governs the syntax rules IsValidDNSID applies and the
// semantics PresentedDNSIDMatchesReferenceDNSID uses for id.
type DNSIDMatchType int

const (
	// ReferenceID is the caller-supplied hostname being authenticated. It
	// may be absolute (trailing dot) but never a wildcard.
	ReferenceID DNSIDMatchType = iota
	// PresentedID is a dNSName asserted by the certificate (SAN entry or
	// CN-ID). It may carry a single leading wildcard label but is never
	// absolute.
	PresentedID
	// NameConstraint is the base of a dNSName GeneralSubtree. It may be
	// empty (matches everything) or begin with a single leading dot
	// ("strict subdomain"), but is never absolute and never a wildcard.
	NameConstraint
)

const maxDNSIDLength = 253
const maxDNSLabelLength = 63

// localeInsensitiveToLower lowercases only ASCII A-Z; every other byte,
// including non-ASCII bytes, passes through unchanged. isdigit/tolower are
// avoided throughout this package because the strings being compared carry
// no locale information.
func localeInsensitiveToLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// startsWithIDNALabel reports whether id begins with the IDN A-label
// prefix "xn--".
func startsWithIDNALabel(id Input) bool {
	prefix := []byte("xn--")
	data := id.Bytes()
	if len(data) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if data[i] != p {
			return false
		}
	}
	return true
}

// IsValidReferenceDNSID reports whether hostname is a syntactically valid
// reference identifier.
func IsValidReferenceDNSID(hostname Input) bool {
	return IsValidDNSID(hostname, ReferenceID)
}

// IsValidPresentedDNSID reports whether hostname is a syntactically valid
// presented identifier.
func IsValidPresentedDNSID(hostname Input) bool {
	return IsValidDNSID(hostname, PresentedID)
}

// IsValidDNSID implements C2: it checks that hostname is a syntactically
// valid DNS label sequence under the rules for matchType.
func IsValidDNSID(hostname Input, matchType DNSIDMatchType) bool {
	if hostname.Len() > maxDNSIDLength {
		return false
	}

	r := NewReader(hostname)

	if matchType == NameConstraint && r.AtEnd() {
		return true // an empty name constraint matches everything.
	}

	dotCount := 0
	labelLength := 0
	labelIsAllNumeric := false
	labelEndsWithHyphen := false

	// Only presented IDs may have a wildcard label, and, stricter than
	// RFC 6125 requires, the wildcard label must consist of exactly '*'.
	isWildcard := matchType == PresentedID && r.Peek('*')
	isFirstByte := !isWildcard
	if isWildcard {
		if err := r.Skip(1); err != nil {
			return false
		}
		b, err := r.ReadByte()
		if err != nil {
			return false
		}
		if b != '.' {
			return false
		}
		dotCount++
	}

	for {
		b, err := r.ReadByte()
		if err != nil {
			return false
		}
		switch {
		case b == '-':
			if labelLength == 0 {
				return false // labels must not start with a hyphen
			}
			labelIsAllNumeric = false
			labelEndsWithHyphen = true
			labelLength++
			if labelLength > maxDNSLabelLength {
				return false
			}
		case b >= '0' && b <= '9':
			if labelLength == 0 {
				labelIsAllNumeric = true
			}
			labelEndsWithHyphen = false
			labelLength++
			if labelLength > maxDNSLabelLength {
				return false
			}
		case (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z'):
			labelIsAllNumeric = false
			labelEndsWithHyphen = false
			labelLength++
			if labelLength > maxDNSLabelLength {
				return false
			}
		case b == '.':
			dotCount++
			if labelLength == 0 && (matchType != NameConstraint || !isFirstByte) {
				return false
			}
			if labelEndsWithHyphen {
				return false // labels must not end with a hyphen
			}
			labelLength = 0
		default:
			return false // invalid character
		}
		isFirstByte = false
		if r.AtEnd() {
			break
		}
	}

	// Only reference IDs, not presented IDs or name constraints, may be
	// absolute (end with a trailing dot, i.e. an empty final label).
	if labelLength == 0 && matchType != ReferenceID {
		return false
	}

	if labelEndsWithHyphen {
		return false
	}

	if labelIsAllNumeric {
		return false // last label must not be all-digit (precludes bare IP literal)
	}

	if isWildcard {
		// If the DNS ID ends with a dot, the trailing dot signifies an
		// absolute ID and the final (empty) label doesn't count.
		labelCount := dotCount
		if labelLength != 0 {
			labelCount = dotCount + 1
		}
		// Require at least two labels to follow the wildcard label.
		if labelCount < 3 {
			return false
		}
		if startsWithIDNALabel(hostname) {
			return false
		}
	}

	return true
}

// PresentedDNSIDMatchesReferenceDNSID implements C5: it tests whether
// presentedDNSID (assumed to be a syntactically valid PresentedID) matches
// referenceDNSID under referenceMatchType, which must be ReferenceID or
// NameConstraint.
func PresentedDNSIDMatchesReferenceDNSID(presentedDNSID Input, referenceMatchType DNSIDMatchType, referenceDNSID Input) bool {
	if !IsValidPresentedDNSID(presentedDNSID) {
		return false
	}
	if !IsValidDNSID(referenceDNSID, referenceMatchType) {
		return false
	}

	presented := NewReader(presentedDNSID)
	reference := NewReader(referenceDNSID)

	switch referenceMatchType {
	case ReferenceID:
		// No alignment needed; both cursors start at position 0.
	case NameConstraint:
		if presentedDNSID.Len() > referenceDNSID.Len() {
			if referenceDNSID.Len() == 0 {
				return true // an empty constraint matches everything.
			}
			if reference.Peek('.') {
				if err := presented.Skip(presentedDNSID.Len() - referenceDNSID.Len()); err != nil {
					return false
				}
			} else {
				if err := presented.Skip(presentedDNSID.Len() - referenceDNSID.Len() - 1); err != nil {
					return false
				}
				b, err := presented.ReadByte()
				if err != nil {
					return false
				}
				if b != '.' {
					return false
				}
			}
		}
	default:
		return false
	}

	// Only wildcard labels consisting of exactly '*' are allowed.
	if presented.Peek('*') {
		if err := presented.Skip(1); err != nil {
			return false
		}
		for {
			if _, err := reference.ReadByte(); err != nil {
				return false
			}
			if reference.Peek('.') {
				break
			}
		}
	}

	for {
		presentedByte, err := presented.ReadByte()
		if err != nil {
			return false
		}
		referenceByte, err := reference.ReadByte()
		if err != nil {
			return false
		}
		if localeInsensitiveToLower(presentedByte) != localeInsensitiveToLower(referenceByte) {
			return false
		}
		if presented.AtEnd() {
			if presentedByte == '.' {
				return false // presented IDs must not be absolute
			}
			break
		}
	}

	// A relative presented DNS ID may match an absolute reference DNS ID,
	// unless we're matching a name constraint.
	if !reference.AtEnd() {
		if referenceMatchType != NameConstraint {
			b, err := reference.ReadByte()
			if err != nil {
				return false
			}
			if b != '.' {
				return false
			}
		}
		if !reference.AtEnd() {
			return false
		}
	}

	return true
}
