package pkix

// tagPermittedSubtrees and tagExcludedSubtrees are the context-specific,
// constructed tags used to select between a NameConstraints extension's permittedSubtrees [0] and
// excludedSubtrees [1] fields.
const (
	tagPermittedSubtrees byte = contextSpecific | constructed | 0
	tagExcludedSubtrees  byte = contextSpecific | constructed | 1
)

// CheckPresentedIDConformsToConstraints implements the outer half of C9: it
// parses a NameConstraints extension value and checks presentedID (of type
// presentedIDType) against both its permittedSubtrees and excludedSubtrees.
//
//	NameConstraints ::= SEQUENCE {
//	     permittedSubtrees       [0]     GeneralSubtrees OPTIONAL,
//	     excludedSubtrees        [1]     GeneralSubtrees OPTIONAL }
func CheckPresentedIDConformsToConstraints(presentedIDType GeneralNameType, presentedID, encodedNameConstraints Input) error {
	nameConstraints, err := ExpectTagAndValueAtEnd(encodedNameConstraints, tagSEQUENCE)
	if err != nil {
		return err
	}

	// RFC 5280 says conforming CAs MUST NOT issue certificates where
	// NameConstraints is an empty SEQUENCE: either permittedSubtrees or
	// excludedSubtrees MUST be present.
	if nameConstraints.AtEnd() {
		return badDER("empty NameConstraints")
	}

	if err := checkPresentedIDConformsToSubtrees(presentedIDType, presentedID, nameConstraints, tagPermittedSubtrees); err != nil {
		return err
	}
	if err := checkPresentedIDConformsToSubtrees(presentedIDType, presentedID, nameConstraints, tagExcludedSubtrees); err != nil {
		return err
	}
	return End(nameConstraints)
}

// checkPresentedIDConformsToSubtrees checks presentedID against one
// GeneralSubtrees list (selected by subtreesTag), updating nameConstraints'
// cursor past it if present.
func checkPresentedIDConformsToSubtrees(presentedIDType GeneralNameType, presentedID Input, nameConstraints *Reader, subtreesTag byte) error {
	if !nameConstraints.Peek(subtreesTag) {
		return nil
	}

	subtreesValue, err := nameConstraints.ExpectTagAndValue(subtreesTag)
	if err != nil {
		return err
	}
	subtrees := NewReader(subtreesValue)

	hasPermittedMatch := false
	hasPermittedMismatch := false

	subtreeKind := permittedSubtrees
	if subtreesTag == tagExcludedSubtrees {
		subtreeKind = excludedSubtrees
	}

	// GeneralSubtrees ::= SEQUENCE SIZE (1..MAX) OF GeneralSubtree
	// subtrees isn't allowed to be empty.
	if subtrees.AtEnd() {
		return badDER("empty GeneralSubtrees")
	}
	for {
		// GeneralSubtree ::= SEQUENCE {
		//      base                    GeneralName,
		//      minimum         [0]     BaseDistance DEFAULT 0,
		//      maximum         [1]     BaseDistance OPTIONAL }
		subtreeValue, err := subtrees.ExpectTagAndValue(tagSEQUENCE)
		if err != nil {
			return err
		}
		subtree := NewReader(subtreeValue)
		constraintType, base, err := ReadGeneralName(subtree)
		if err != nil {
			return err
		}
		// Within this profile, minimum MUST be zero and maximum MUST be
		// absent. Since DER never encodes a DEFAULT value, this means
		// neither field may be encoded at all.
		if err := End(subtree); err != nil {
			return err
		}

		if presentedIDType == constraintType {
			matches, err := matchPresentedIDAgainstConstraintBase(constraintType, presentedID, base, subtreeKind)
			if err != nil {
				return err
			}

			switch subtreeKind {
			case permittedSubtrees:
				if matches {
					hasPermittedMatch = true
				} else {
					hasPermittedMismatch = true
				}
			case excludedSubtrees:
				if matches {
					tracef("checkPresentedIDConformsToSubtrees: %s presented ID falls within an excluded subtree", constraintType)
					return ErrNotInNameSpace
				}
			}
		}

		if subtrees.AtEnd() {
			break
		}
	}

	if hasPermittedMismatch && !hasPermittedMatch {
		// There was at least one permittedSubtrees entry of the given
		// type, so at least one of them was required to match; none did.
		return ErrNotInNameSpace
	}

	return nil
}

// matchPresentedIDAgainstConstraintBase dispatches to the matcher for
// constraintType, implementing the type matrix in C9.
func matchPresentedIDAgainstConstraintBase(constraintType GeneralNameType, presentedID, base Input, subtreeKind nameConstraintsSubtree) (bool, error) {
	switch constraintType {
	case DNSName:
		matches := PresentedDNSIDMatchesReferenceDNSID(presentedID, NameConstraint, base)
		// If matches is true, base must already be syntactically valid
		// (PresentedDNSIDMatchesReferenceDNSID verifies that itself).
		// If matches is false, base might still be malformed, which we
		// treat the same as the presented ID being out of the namespace.
		if !matches && !IsValidDNSID(base, NameConstraint) {
			return false, ErrNotInNameSpace
		}
		return matches, nil

	case IPAddress:
		return MatchPresentedIPAddressWithConstraint(presentedID, base)

	case DirectoryName:
		return matchPresentedDirectoryNameWithConstraint(subtreeKind, presentedID, base)

	case Rfc822Name:
		return false, fatalLibraryFailure("rfc822Name name constraints are not implemented")

	// RFC 5280 says conforming CAs SHOULD NOT impose name constraints on
	// otherName, x400Address, ediPartyName, uniformResourceIdentifier, or
	// registeredID; conservatively reject rather than silently under-
	// enforce them.
	case OtherName, X400Address, EdiPartyName, UniformResourceIdentifier, RegisteredID:
		return false, ErrNotInNameSpace

	default:
		return false, fatalLibraryFailure("invalid presentedIDType reached name constraint matcher")
	}
}
