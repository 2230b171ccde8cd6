package tpi

// Signedness of an enum's storage type.
type Signedness uint8

const (
	SignUnknown Signedness = iota
	SignSigned
	SignUnsigned
)

func (s Signedness) String() string {
	switch s {
	case SignSigned:
		return "signed"
	case SignUnsigned:
		return "unsigned"
	default:
		return "unknown"
	}
}

// MarshalText renders the signedness by name in JSON and YAML output.
func (s Signedness) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Underlying describes the integer storage of an enum.
type Underlying struct {
	Name string     `json:"name,omitempty"`
	Code TypeID     `json:"code"`
	Sign Signedness `json:"sign"`
	Size uint32     `json:"size"`
}

// Known reports whether the storage type was resolved.
func (u Underlying) Known() bool {
	return u.Sign != SignUnknown && u.Size != 0
}

// UnderlyingResolver maps an enum's underlying type id to its storage.
// Unknown ids must resolve to a zero Underlying (apart from Code).
type UnderlyingResolver func(TypeID) Underlying

// Builtin integer type codes.
const (
	TChar   TypeID = 0x0010
	TUChar  TypeID = 0x0020
	TShort  TypeID = 0x0011
	TUShort TypeID = 0x0021
	TLong   TypeID = 0x0012
	TULong  TypeID = 0x0022
	TQuad   TypeID = 0x0013
	TUQuad  TypeID = 0x0023
	TInt1   TypeID = 0x0068
	TUInt1  TypeID = 0x0069
	TInt2   TypeID = 0x0072
	TUInt2  TypeID = 0x0073
	TInt4   TypeID = 0x0074
	TUInt4  TypeID = 0x0075
	TInt8   TypeID = 0x0076
	TUInt8  TypeID = 0x0077
)

var builtins = map[TypeID]Underlying{
	TChar:   {Name: "char", Sign: SignSigned, Size: 1},
	TInt1:   {Name: "char", Sign: SignSigned, Size: 1},
	TUChar:  {Name: "unsigned char", Sign: SignUnsigned, Size: 1},
	TUInt1:  {Name: "unsigned char", Sign: SignUnsigned, Size: 1},
	TShort:  {Name: "short", Sign: SignSigned, Size: 2},
	TInt2:   {Name: "short", Sign: SignSigned, Size: 2},
	TUShort: {Name: "unsigned short", Sign: SignUnsigned, Size: 2},
	TUInt2:  {Name: "unsigned short", Sign: SignUnsigned, Size: 2},
	TLong:   {Name: "long", Sign: SignSigned, Size: 4},
	TULong:  {Name: "unsigned long", Sign: SignUnsigned, Size: 4},
	TInt4:   {Name: "int", Sign: SignSigned, Size: 4},
	TUInt4:  {Name: "unsigned int", Sign: SignUnsigned, Size: 4},
	TQuad:   {Name: "long long", Sign: SignSigned, Size: 8},
	TInt8:   {Name: "long long", Sign: SignSigned, Size: 8},
	TUQuad:  {Name: "unsigned long long", Sign: SignUnsigned, Size: 8},
	TUInt8:  {Name: "unsigned long long", Sign: SignUnsigned, Size: 8},
}

// ResolveBuiltin resolves the fixed-size builtin integer types an enum can
// be declared over. Anything else resolves to unknown storage of size 0.
func ResolveBuiltin(code TypeID) Underlying {
	u := builtins[code]
	u.Code = code
	return u
}
