package pkix

// IP literal parsing is deliberately independent of net.ParseIP (and of any
// OS resolver): protocol-family availability on the host must never
// influence whether a hostname string is valid input to the matcher.

// ParseIPv4Address parses hostname as a dotted-quad IPv4 literal: exactly
// four decimal components separated by '.', each 1-3 digits in 0..255,
// with no leading zeros and no trailing garbage.
func ParseIPv4Address(hostname Input) (out [4]byte, ok bool) {
	r := NewReader(hostname)
	for i := 0; i < 4; i++ {
		last := i == 3
		v, ok2 := readIPv4Component(r, last)
		if !ok2 {
			return out, false
		}
		out[i] = v
	}
	return out, true
}

func readIPv4Component(r *Reader, lastComponent bool) (value byte, ok bool) {
	var length int
	var v int

	for {
		if r.AtEnd() && lastComponent {
			break
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, false
		}
		switch {
		case b >= '0' && b <= '9':
			if v == 0 && length > 0 {
				return 0, false // leading zeros are not allowed
			}
			v = v*10 + int(b-'0')
			if v > 255 {
				return 0, false
			}
			length++
		case !lastComponent && b == '.':
			goto done
		default:
			return 0, false
		}
	}
done:
	if length == 0 {
		return 0, false
	}
	return byte(v), true
}

// ParseIPv6Address parses hostname as a textual IPv6 address: colon
// separated 1-4 hex-digit components, with at most one "::" contraction and
// at most one embedded IPv4-mapped suffix. Output is 16 bytes big-endian.
func ParseIPv6Address(hostname Input) (out [16]byte, ok bool) {
	r := NewReader(hostname)

	currentComponentIndex := 0
	contractionIndex := -1

	if r.Peek(':') {
		b, err := r.ReadByte()
		if err != nil || b != ':' {
			return out, false
		}
		b, err = r.ReadByte()
		if err != nil || b != ':' {
			return out, false
		}
		contractionIndex = 0
	}

	for {
		startOfComponent := r.Mark()
		var componentValue uint16
		var componentLength int
		hitDot := false

		for !r.AtEnd() && !r.Peek(':') {
			b, err := r.ReadByte()
			if err != nil {
				return out, false
			}
			var value uint16
			switch {
			case b >= '0' && b <= '9':
				value = uint16(b - '0')
			case b >= 'a' && b <= 'f':
				value = uint16(b-'a') + 10
			case b >= 'A' && b <= 'F':
				value = uint16(b-'A') + 10
			case b == '.':
				hitDot = true
			default:
				return out, false
			}
			if hitDot {
				break
			}
			if componentLength >= 4 {
				return out, false // component too long
			}
			componentLength++
			componentValue = componentValue*0x10 + value
		}

		if hitDot {
			if currentComponentIndex > 6 {
				return out, false // too many components before the IPv4 component
			}
			r.SkipToEnd()
			ipv4Component, err := r.GetInput(startOfComponent)
			if err != nil {
				return out, false
			}
			ipv4, ok := ParseIPv4Address(ipv4Component)
			if !ok {
				return out, false
			}
			copy(out[2*currentComponentIndex:], ipv4[:])
			currentComponentIndex += 2
			return finishIPv6Address(out, currentComponentIndex, contractionIndex)
		}

		if currentComponentIndex >= 8 {
			return out, false // too many components
		}

		if componentLength == 0 {
			if r.AtEnd() && currentComponentIndex == contractionIndex {
				if contractionIndex == 0 {
					return out, false // don't accept bare "::"
				}
				return finishIPv6Address(out, currentComponentIndex, contractionIndex)
			}
			return out, false
		}

		out[2*currentComponentIndex] = byte(componentValue / 0x100)
		out[2*currentComponentIndex+1] = byte(componentValue % 0x100)
		currentComponentIndex++

		if r.AtEnd() {
			return finishIPv6Address(out, currentComponentIndex, contractionIndex)
		}

		b, err := r.ReadByte()
		if err != nil || b != ':' {
			return out, false
		}

		if r.Peek(':') {
			if contractionIndex != -1 {
				return out, false // multiple contractions are not allowed
			}
			b, err = r.ReadByte()
			if err != nil || b != ':' {
				return out, false
			}
			contractionIndex = currentComponentIndex
			if r.AtEnd() {
				return finishIPv6Address(out, currentComponentIndex, contractionIndex)
			}
		}
	}
}

func finishIPv6Address(address [16]byte, numComponents, contractionIndex int) ([16]byte, bool) {
	if numComponents < 0 || numComponents > 8 ||
		contractionIndex < -1 || contractionIndex > 8 ||
		contractionIndex > numComponents {
		return address, false
	}

	if contractionIndex == -1 {
		if numComponents != 8 {
			return address, false
		}
		return address, true
	}

	if numComponents >= 8 {
		return address, false // no room left to expand the contraction
	}

	componentsToMove := numComponents - contractionIndex
	// Shift components after the contraction point to the end of the
	// buffer (copy handles the overlapping case like memmove), then zero
	// the gap the contraction fills.
	copy(address[2*(8-componentsToMove):], address[2*contractionIndex:2*contractionIndex+2*componentsToMove])
	for i := 2 * contractionIndex; i < 2*contractionIndex+2*(8-numComponents); i++ {
		address[i] = 0
	}
	return address, true
}

// MatchPresentedIPAddressWithConstraint implements C6: it tests a presented
// IP address against an iPAddress name-constraint GeneralName value, which
// is an address and an equal-length mask concatenated together (8 bytes for
// IPv4, 32 for IPv6).
func MatchPresentedIPAddressWithConstraint(presentedID, constraint Input) (bool, error) {
	if presentedID.Len() != 4 && presentedID.Len() != 16 {
		return false, badDER("presented IP address must be 4 or 16 bytes")
	}
	if constraint.Len() != 8 && constraint.Len() != 32 {
		return false, badDER("iPAddress constraint must be 8 or 32 bytes")
	}

	// An IPv4 address never matches an IPv6 constraint, and vice versa.
	if presentedID.Len()*2 != constraint.Len() {
		return false, nil
	}

	half := constraint.Len() / 2
	address := constraint.Bytes()[:half]
	mask := constraint.Bytes()[half:]
	presented := presentedID.Bytes()

	for i := 0; i < len(presented); i++ {
		if (presented[i]^address[i])&mask[i] != 0 {
			return false, nil
		}
	}
	return true, nil
}
