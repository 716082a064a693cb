package value

// Kind is the variant tag of a Value.
type Kind uint8

const (
	KindNothing Kind = iota
	KindBool
	KindInt
	KindFloat
	KindFilesize
	KindString
	KindBinary
	KindDate
	KindList
	KindRecord
	KindError
)

// String returns the type name shown to users.
func (k Kind) String() string {
	switch k {
	case KindNothing:
		return "nothing"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindFilesize:
		return "filesize"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindNothing; k <= KindError; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
