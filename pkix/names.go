package pkix

// DER tag constants used throughout this package. Only the tags actually
// read or matched against are named; this is not a general-purpose ASN.1
// tag table.
const (
	tagSEQUENCE        byte = 0x30
	tagSET             byte = 0x31
	tagOID             byte = 0x06
	tagPrintableString byte = 0x13
	tagUTF8String      byte = 0x0c
	tagTeletexString   byte = 0x14

	contextSpecific byte = 0x80
	constructed     byte = 0x20
)

// GeneralNameType is the GeneralName CHOICE discriminant:
//
//	GeneralName ::= CHOICE {
//	     otherName                       [0]     OtherName,
//	     rfc822Name                      [1]     IA5String,
//	     dNSName                         [2]     IA5String,
//	     x400Address                     [3]     ORAddress,
//	     directoryName                   [4]     Name,
//	     ediPartyName                    [5]     EDIPartyName,
//	     uniformResourceIdentifier       [6]     IA5String,
//	     iPAddress                       [7]     OCTET STRING,
//	     registeredID                    [8]     OBJECT IDENTIFIER }
//
// The values are not contiguous because directoryName's value is a
// SEQUENCE and so carries the CONSTRUCTED bit.
type GeneralNameType byte

const (
	OtherName                 GeneralNameType = GeneralNameType(contextSpecific | 0)
	Rfc822Name                GeneralNameType = GeneralNameType(contextSpecific | 1)
	DNSName                   GeneralNameType = GeneralNameType(contextSpecific | 2)
	X400Address               GeneralNameType = GeneralNameType(contextSpecific | 3)
	DirectoryName             GeneralNameType = GeneralNameType(contextSpecific | constructed | 4)
	EdiPartyName              GeneralNameType = GeneralNameType(contextSpecific | 5)
	UniformResourceIdentifier GeneralNameType = GeneralNameType(contextSpecific | 6)
	IPAddress                 GeneralNameType = GeneralNameType(contextSpecific | 7)
	RegisteredID              GeneralNameType = GeneralNameType(contextSpecific | 8)

	// NameConstraints is a pseudo-GeneralName used internally to signal
	// that a reference ID is actually the entire encoded name-constraints
	// extension value, routing SearchNames through the constraint
	// evaluator instead of the identity matchers.
	NameConstraints GeneralNameType = 0xff
)

func (t GeneralNameType) String() string {
	switch t {
	case OtherName:
		return "otherName"
	case Rfc822Name:
		return "rfc822Name"
	case DNSName:
		return "dNSName"
	case X400Address:
		return "x400Address"
	case DirectoryName:
		return "directoryName"
	case EdiPartyName:
		return "ediPartyName"
	case UniformResourceIdentifier:
		return "uniformResourceIdentifier"
	case IPAddress:
		return "iPAddress"
	case RegisteredID:
		return "registeredID"
	case NameConstraints:
		return "nameConstraints"
	default:
		return "unknown"
	}
}

// ReadGeneralName reads one GeneralName TLV from reader, returning its tag
// as a GeneralNameType and its value bytes unexamined. Any tag outside the
// nine enumerated GeneralName choices is a DER error.
func ReadGeneralName(reader *Reader) (GeneralNameType, Input, error) {
	tag, value, err := reader.ReadTagAndValue()
	if err != nil {
		return 0, Input{}, err
	}
	switch GeneralNameType(tag) {
	case OtherName, Rfc822Name, DNSName, X400Address, DirectoryName,
		EdiPartyName, UniformResourceIdentifier, IPAddress, RegisteredID:
		return GeneralNameType(tag), value, nil
	default:
		return 0, Input{}, badDERf("unrecognized GeneralName tag 0x%02x", tag)
	}
}
