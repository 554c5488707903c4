package pkix

import "testing"

// Hand-rolled DER builders used only by tests in this package. Production
// code never builds DER — it only reads it — so these helpers live in a
// _test.go file rather than the package proper.

func tlv(tag byte, value []byte) []byte {
	out := []byte{tag}
	out = append(out, derLength(len(value))...)
	return append(out, value...)
}

func derLength(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var bs []byte
	for n > 0 {
		bs = append([]byte{byte(n & 0xff)}, bs...)
		n >>= 8
	}
	return append([]byte{0x80 | byte(len(bs))}, bs...)
}

func concatBytes(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var oidCommonName = []byte{0x55, 0x04, 0x03}

// generalNameDNS builds a dNSName GeneralName TLV.
func generalNameDNS(name string) []byte {
	return tlv(byte(DNSName), []byte(name))
}

// generalNameIP builds an iPAddress GeneralName TLV.
func generalNameIP(addr []byte) []byte {
	return tlv(byte(IPAddress), addr)
}

// generalNameDirectory builds a directoryName GeneralName TLV wrapping an
// already-encoded Name (RDNSequence SEQUENCE).
func generalNameDirectory(name []byte) []byte {
	return tlv(byte(DirectoryName), name)
}

// sanExtension wraps one or more GeneralName TLVs in the subjectAltName
// extension's SEQUENCE.
func sanExtension(names ...[]byte) []byte {
	return tlv(tagSEQUENCE, concatBytes(names...))
}

// avaCN builds one commonName AttributeTypeAndValue SEQUENCE with the given
// DirectoryString tag and value, wrapped in its own RDN (SET).
func avaCN(tag byte, value string) []byte {
	ava := tlv(tagSEQUENCE, concatBytes(
		tlv(tagOID, oidCommonName),
		tlv(tag, []byte(value)),
	))
	return tlv(tagSET, ava)
}

// subjectName wraps one or more RDN (SET) TLVs in a Name's RDNSequence
// SEQUENCE.
func subjectName(rdns ...[]byte) []byte {
	return tlv(tagSEQUENCE, concatBytes(rdns...))
}

// generalSubtree wraps a GeneralName TLV in a GeneralSubtree SEQUENCE with
// no minimum/maximum fields.
func generalSubtree(base []byte) []byte {
	return tlv(tagSEQUENCE, base)
}

// nameConstraintsExtension builds a NameConstraints extension value from
// already-built permittedSubtrees/excludedSubtrees GeneralSubtree TLVs.
// Pass nil for whichever list should be absent.
func nameConstraintsExtension(permitted, excluded [][]byte) []byte {
	var body []byte
	if permitted != nil {
		body = append(body, tlv(tagPermittedSubtrees, concatBytes(permitted...))...)
	}
	if excluded != nil {
		body = append(body, tlv(tagExcludedSubtrees, concatBytes(excluded...))...)
	}
	return tlv(tagSEQUENCE, body)
}

func mustInput(t *testing.T, data []byte) Input {
	t.Helper()
	in, err := NewInput(data)
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	return in
}
