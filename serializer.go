package bincode

import "math"

// Serializer drives the typed writes that make up one encoded value. A
// type implements Encodable by calling the method matching each field's
// shape, in the exact order a matching Decodable must read them back.
//
// Every byte is charged to the Options' size limit before it reaches the
// writer, so a Bounded limit stops the encode before anything past the
// budget is appended.
type Serializer struct {
	w    *Writer
	opts Options
	lim  limitCounter
	err  error
}

func newSerializer(w *Writer, opts Options) *Serializer {
	w.WithByteOrder(opts.Endian.order())
	return &Serializer{w: w, opts: opts, lim: newLimitCounter(opts.Limit)}
}

// Err reports the first error this Serializer encountered, if any.
func (s *Serializer) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.w.Err()
}

func (s *Serializer) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *Serializer) ok() bool {
	return s.err == nil && s.w.Err() == nil
}

// charge debits n bytes from the limit budget, latching ErrLimitReached
// and reporting false once the budget is gone.
func (s *Serializer) charge(n uint64) bool {
	if !s.ok() {
		return false
	}
	if err := s.lim.add(n); err != nil {
		s.fail(err)
		return false
	}
	return true
}

func (s *Serializer) writeByte(b byte) {
	if s.charge(1) {
		s.w.WriteByte(b)
	}
}

func (s *Serializer) writeLiteralU16(v uint16) {
	if s.charge(2) {
		s.w.WriteUint16(v)
	}
}

func (s *Serializer) writeLiteralU32(v uint32) {
	if s.charge(4) {
		s.w.WriteUint32(v)
	}
}

func (s *Serializer) writeLiteralU64(v uint64) {
	if s.charge(8) {
		s.w.WriteUint64(v)
	}
}

func (s *Serializer) writeLiteralI16(v int16) {
	if s.charge(2) {
		s.w.WriteInt16(v)
	}
}

func (s *Serializer) writeLiteralI32(v int32) {
	if s.charge(4) {
		s.w.WriteInt32(v)
	}
}

func (s *Serializer) writeLiteralI64(v int64) {
	if s.charge(8) {
		s.w.WriteInt64(v)
	}
}

func (s *Serializer) writeLiteralU128(v Uint128) {
	if !s.charge(16) {
		return
	}
	if s.opts.Endian == BigEndian {
		s.w.WriteUint64(v.Hi)
		s.w.WriteUint64(v.Lo)
		return
	}
	s.w.WriteUint64(v.Lo)
	s.w.WriteUint64(v.Hi)
}

// Bool writes a single 0/1 byte.
func (s *Serializer) Bool(v bool) {
	if s.charge(1) {
		s.w.WriteBool(v)
	}
}

func (s *Serializer) I8(v int8) {
	if s.charge(1) {
		s.w.WriteInt8(v)
	}
}

func (s *Serializer) U8(v uint8) {
	if s.charge(1) {
		s.w.WriteUint8(v)
	}
}

func (s *Serializer) U16(v uint16)   { s.opts.IntEncoding.serializeU16(s, v) }
func (s *Serializer) U32(v uint32)   { s.opts.IntEncoding.serializeU32(s, v) }
func (s *Serializer) U64(v uint64)   { s.opts.IntEncoding.serializeU64(s, v) }
func (s *Serializer) U128(v Uint128) { s.opts.IntEncoding.serializeU128(s, v) }
func (s *Serializer) I16(v int16)    { s.opts.IntEncoding.serializeI16(s, v) }
func (s *Serializer) I32(v int32)    { s.opts.IntEncoding.serializeI32(s, v) }
func (s *Serializer) I64(v int64)    { s.opts.IntEncoding.serializeI64(s, v) }
func (s *Serializer) I128(v Int128)  { s.opts.IntEncoding.serializeI128(s, v) }

// F32 writes a 32-bit float in its raw IEEE-754 bit pattern, no encoding
// layer interprets floats (the IntEncoding strategies only cover integers).
func (s *Serializer) F32(v float32) { s.writeLiteralU32(math.Float32bits(v)) }
func (s *Serializer) F64(v float64) { s.writeLiteralU64(math.Float64bits(v)) }

// Char writes r as raw UTF-8 bytes with no length prefix: the lead byte
// alone tells a reader how many continuation bytes follow.
func (s *Serializer) Char(r rune) {
	if !s.ok() {
		return
	}
	var buf [4]byte
	n := encodeRuneUTF8(buf[:], r)
	if s.charge(uint64(n)) {
		s.w.WriteBytes(buf[:n])
	}
}

// Len writes n through the active IntEncoding, used as the length prefix
// ahead of str/bytes/seq/map payloads.
func (s *Serializer) Len(n int) { s.opts.IntEncoding.serializeLen(s, uint64(n)) }

// Str writes a length-prefixed UTF-8 string.
func (s *Serializer) Str(v string) {
	s.Len(len(v))
	if s.charge(uint64(len(v))) {
		s.w.WriteString(v)
	}
}

// Bytes writes a length-prefixed byte slice.
func (s *Serializer) Bytes(v []byte) {
	s.Len(len(v))
	if s.charge(uint64(len(v))) {
		s.w.WriteBytes(v)
	}
}

// Option writes the option discriminant and, if present, calls encode to
// write the contained value.
func (s *Serializer) Option(present bool, encode func()) {
	if present {
		s.writeByte(1)
		encode()
		return
	}
	s.writeByte(0)
}

// Variant writes an enum discriminant through the active IntEncoding.
func (s *Serializer) Variant(index uint32) { s.opts.IntEncoding.serializeU32(s, index) }
