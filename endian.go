package bincode

import "encoding/binary"

// Endianness selects the byte order literal integers and floats are written
// in. It travels with Options instead of living behind a process-global
// byte-order variable.
type Endianness int

const (
	// LittleEndian is bincode's wire default.
	LittleEndian Endianness = iota
	BigEndian
	// NativeEndian resolves to the running machine's order at encode/decode
	// time; decoding a NativeEndian stream on a different-endian machine
	// than it was written on is the caller's own problem to avoid.
	NativeEndian
)

func (e Endianness) order() binary.ByteOrder {
	switch e {
	case BigEndian:
		return binary.BigEndian
	case NativeEndian:
		return binary.NativeEndian
	default:
		return binary.LittleEndian
	}
}

func (e Endianness) String() string {
	switch e {
	case BigEndian:
		return "BigEndian"
	case NativeEndian:
		return "NativeEndian"
	default:
		return "LittleEndian"
	}
}
