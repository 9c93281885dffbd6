package bincode

import "golang.org/x/exp/constraints"

// Varint discriminator bytes. A byte in [0, singleByteMax] is the value
// itself; bytes above it say how many literal bytes follow.
const (
	singleByteMax = 250
	u16Byte       = 251
	u32Byte       = 252
	u64Byte       = 253
	u128Byte      = 254
	// extensionByte (255) is reserved: no encoding this package writes ever
	// produces it, so reading it back always means a version mismatch with
	// whatever wrote the data.
	extensionByte = 255
)

// IntEncoding selects how integers and lengths are written to the wire:
// always at their full fixed width (FixintEncoding), or as a variable
// number of bytes biased toward small values (VarintEncoding, the default).
type IntEncoding interface {
	serializeU16(s *Serializer, v uint16)
	serializeU32(s *Serializer, v uint32)
	serializeU64(s *Serializer, v uint64)
	serializeU128(s *Serializer, v Uint128)
	serializeI16(s *Serializer, v int16)
	serializeI32(s *Serializer, v int32)
	serializeI64(s *Serializer, v int64)
	serializeI128(s *Serializer, v Int128)
	serializeLen(s *Serializer, n uint64)

	deserializeU16(d *Deserializer) uint16
	deserializeU32(d *Deserializer) uint32
	deserializeU64(d *Deserializer) uint64
	deserializeU128(d *Deserializer) Uint128
	deserializeI16(d *Deserializer) int16
	deserializeI32(d *Deserializer) int32
	deserializeI64(d *Deserializer) int64
	deserializeI128(d *Deserializer) Int128
	deserializeLen(d *Deserializer) uint64
}

// FixintEncoding writes every integer at its declared width, in the byte
// order selected by Options.Endian. Enum/variant discriminants and lengths go out as a plain u32/u64.
type FixintEncoding struct{}

func (FixintEncoding) serializeU16(s *Serializer, v uint16)   { s.writeLiteralU16(v) }
func (FixintEncoding) serializeU32(s *Serializer, v uint32)   { s.writeLiteralU32(v) }
func (FixintEncoding) serializeU64(s *Serializer, v uint64)   { s.writeLiteralU64(v) }
func (FixintEncoding) serializeU128(s *Serializer, v Uint128) { s.writeLiteralU128(v) }
func (FixintEncoding) serializeI16(s *Serializer, v int16)    { s.writeLiteralI16(v) }
func (FixintEncoding) serializeI32(s *Serializer, v int32)    { s.writeLiteralI32(v) }
func (FixintEncoding) serializeI64(s *Serializer, v int64)    { s.writeLiteralI64(v) }
func (FixintEncoding) serializeI128(s *Serializer, v Int128)  { s.writeLiteralU128(v.Uint128) }
func (FixintEncoding) serializeLen(s *Serializer, n uint64)   { s.writeLiteralU64(n) }

func (FixintEncoding) deserializeU16(d *Deserializer) uint16   { return d.readLiteralU16() }
func (FixintEncoding) deserializeU32(d *Deserializer) uint32   { return d.readLiteralU32() }
func (FixintEncoding) deserializeU64(d *Deserializer) uint64   { return d.readLiteralU64() }
func (FixintEncoding) deserializeU128(d *Deserializer) Uint128 { return d.readLiteralU128() }
func (FixintEncoding) deserializeI16(d *Deserializer) int16    { return d.readLiteralI16() }
func (FixintEncoding) deserializeI32(d *Deserializer) int32    { return d.readLiteralI32() }
func (FixintEncoding) deserializeI64(d *Deserializer) int64    { return d.readLiteralI64() }
func (FixintEncoding) deserializeI128(d *Deserializer) Int128 {
	return Int128{d.readLiteralU128()}
}
func (FixintEncoding) deserializeLen(d *Deserializer) uint64 { return d.readLiteralU64() }

// VarintEncoding writes a value in the fewest bytes a discriminator byte
// allows: itself if it fits in [0, 250], or a discriminator byte followed
// by the literal 16/32/64/128-bit form. This is bincode's wire default.
type VarintEncoding struct{}

func varintWriteU64(s *Serializer, v uint64) {
	switch {
	case v <= singleByteMax:
		s.writeByte(byte(v))
	case v <= 0xFFFF:
		s.writeByte(u16Byte)
		s.writeLiteralU16(uint16(v))
	case v <= 0xFFFFFFFF:
		s.writeByte(u32Byte)
		s.writeLiteralU32(uint32(v))
	default:
		s.writeByte(u64Byte)
		s.writeLiteralU64(v)
	}
}

func varintReadU64(d *Deserializer) uint64 {
	b := d.readMeteredByte()
	if !d.ok() {
		return 0
	}
	switch {
	case b <= singleByteMax:
		return uint64(b)
	case b == u16Byte:
		return uint64(d.readLiteralU16())
	case b == u32Byte:
		return uint64(d.readLiteralU32())
	case b == u64Byte:
		return d.readLiteralU64()
	case b == u128Byte:
		d.fail(ErrInvalidValueRange)
		return 0
	default:
		d.fail(ErrExtensionPoint)
		return 0
	}
}

func varintWriteU128(s *Serializer, v Uint128) {
	if v.Hi == 0 {
		varintWriteU64(s, v.Lo)
		return
	}
	s.writeByte(u128Byte)
	s.writeLiteralU128(v)
}

func varintReadU128(d *Deserializer) Uint128 {
	b := d.readMeteredByte()
	if !d.ok() {
		return Uint128{}
	}
	switch {
	case b <= singleByteMax:
		return Uint128{Lo: uint64(b)}
	case b == u16Byte:
		return Uint128{Lo: uint64(d.readLiteralU16())}
	case b == u32Byte:
		return Uint128{Lo: uint64(d.readLiteralU32())}
	case b == u64Byte:
		return Uint128{Lo: d.readLiteralU64()}
	case b == u128Byte:
		return d.readLiteralU128()
	default:
		d.fail(ErrExtensionPoint)
		return Uint128{}
	}
}

func (VarintEncoding) serializeU16(s *Serializer, v uint16) { varintWriteU64(s, uint64(v)) }
func (VarintEncoding) serializeU32(s *Serializer, v uint32) { varintWriteU64(s, uint64(v)) }
func (VarintEncoding) serializeU64(s *Serializer, v uint64) { varintWriteU64(s, v) }
func (VarintEncoding) serializeU128(s *Serializer, v Uint128) {
	varintWriteU128(s, v)
}
func (VarintEncoding) serializeI16(s *Serializer, v int16) { varintWriteU64(s, zigzagEncode(int64(v))) }
func (VarintEncoding) serializeI32(s *Serializer, v int32) { varintWriteU64(s, zigzagEncode(int64(v))) }
func (VarintEncoding) serializeI64(s *Serializer, v int64) { varintWriteU64(s, zigzagEncode(v)) }
func (VarintEncoding) serializeI128(s *Serializer, v Int128) {
	varintWriteU128(s, zigzag128Encode(v))
}
func (VarintEncoding) serializeLen(s *Serializer, n uint64) { varintWriteU64(s, n) }

func (VarintEncoding) deserializeU16(d *Deserializer) uint16 {
	v, err := castUnsigned[uint16](varintReadU64(d), 0xFFFF, "u16")
	if err != nil {
		d.fail(err)
		return 0
	}
	return v
}

func (VarintEncoding) deserializeU32(d *Deserializer) uint32 {
	v, err := castUnsigned[uint32](varintReadU64(d), 0xFFFFFFFF, "u32")
	if err != nil {
		d.fail(err)
		return 0
	}
	return v
}

func (VarintEncoding) deserializeU64(d *Deserializer) uint64 { return varintReadU64(d) }

func (VarintEncoding) deserializeU128(d *Deserializer) Uint128 { return varintReadU128(d) }

func (VarintEncoding) deserializeI16(d *Deserializer) int16 {
	n := zigzagDecode(varintReadU64(d))
	v, err := castSigned[int16](n, -32768, 32767, "i16")
	if err != nil {
		d.fail(err)
		return 0
	}
	return v
}

func (VarintEncoding) deserializeI32(d *Deserializer) int32 {
	n := zigzagDecode(varintReadU64(d))
	v, err := castSigned[int32](n, -2147483648, 2147483647, "i32")
	if err != nil {
		d.fail(err)
		return 0
	}
	return v
}

func (VarintEncoding) deserializeI64(d *Deserializer) int64 { return zigzagDecode(varintReadU64(d)) }

func (VarintEncoding) deserializeI128(d *Deserializer) Int128 {
	return zigzag128Decode(varintReadU128(d))
}

func (VarintEncoding) deserializeLen(d *Deserializer) uint64 { return varintReadU64(d) }

// castUnsigned checks v fits within an unsigned width whose maximum is maxVal.
func castUnsigned[T constraints.Unsigned](v uint64, maxVal uint64, to string) (T, error) {
	if v > maxVal {
		return 0, &InvalidCastError{From: "u64", To: to}
	}
	return T(v), nil
}

// castSigned checks v falls within [minVal, maxVal] for a signed width.
func castSigned[T constraints.Signed](v int64, minVal, maxVal int64, to string) (T, error) {
	if v < minVal || v > maxVal {
		return 0, &InvalidCastError{From: "i64", To: to}
	}
	return T(v), nil
}
