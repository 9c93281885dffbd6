package bincode

import (
	"io"
	"math"
	"unicode/utf8"
)

// clampCap bounds how large a slice/map preallocation a decoded length is
// allowed to request up front, so an attacker-supplied huge length can't
// force a large allocation before the bytes backing it are even read.
const clampCap = 4096

// Deserializer drives the typed reads that reconstruct one decoded value.
// A Decodable reads back exactly the fields its matching Encodable wrote,
// in the same order.
type Deserializer struct {
	r    *Reader
	opts Options
	lim  limitCounter
	err  error
}

func newDeserializer(r *Reader, opts Options) *Deserializer {
	r.WithByteOrder(opts.Endian.order())
	return &Deserializer{r: r, opts: opts, lim: newLimitCounter(opts.Limit)}
}

// Err reports the first error this Deserializer encountered, if any.
func (d *Deserializer) Err() error {
	if d.err != nil {
		return d.err
	}
	return d.r.Err()
}

func (d *Deserializer) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *Deserializer) ok() bool {
	return d.err == nil && d.r.Err() == nil
}

// Finish checks the trailing-bytes policy: under RejectTrailing (the
// default) it fails if the source is not exactly exhausted. It is only
// meaningful at the top level, never inside a nested Decodable call.
func (d *Deserializer) Finish() error {
	if err := d.Err(); err != nil {
		return err
	}
	if d.opts.Trailing == AllowTrailing {
		return nil
	}
	if br, ok := d.r.Underlying().(*BytesReader); ok {
		if br.Available() == 0 {
			return nil
		}
		return ErrTrailingBytes
	}
	var b [1]byte
	n, err := d.r.Underlying().Read(b[:])
	if n > 0 {
		return ErrTrailingBytes
	}
	if err != nil && err != io.EOF {
		return err
	}
	return nil
}

// charge debits n bytes from the limit budget before the matching read,
// so a Bounded limit stops the decode before the bytes are consumed.
func (d *Deserializer) charge(n uint64) bool {
	if !d.ok() {
		return false
	}
	if err := d.lim.add(n); err != nil {
		d.fail(err)
		return false
	}
	return true
}

// readMeteredByte is the single-byte read every discriminant (bool, option,
// varint lead, enum byte) goes through: one byte of budget, then one byte
// off the wire.
func (d *Deserializer) readMeteredByte() byte {
	if !d.charge(1) {
		return 0
	}
	b, err := d.r.ReadByte()
	if err != nil {
		d.fail(err)
		return 0
	}
	return b
}

func (d *Deserializer) readLiteralU16() uint16 {
	if !d.charge(2) {
		return 0
	}
	var v uint16
	d.r.ReadUint16(&v)
	return v
}

func (d *Deserializer) readLiteralU32() uint32 {
	if !d.charge(4) {
		return 0
	}
	var v uint32
	d.r.ReadUint32(&v)
	return v
}

func (d *Deserializer) readLiteralU64() uint64 {
	if !d.charge(8) {
		return 0
	}
	var v uint64
	d.r.ReadUint64(&v)
	return v
}

func (d *Deserializer) readLiteralI16() int16 {
	if !d.charge(2) {
		return 0
	}
	var v int16
	d.r.ReadInt16(&v)
	return v
}

func (d *Deserializer) readLiteralI32() int32 {
	if !d.charge(4) {
		return 0
	}
	var v int32
	d.r.ReadInt32(&v)
	return v
}

func (d *Deserializer) readLiteralI64() int64 {
	if !d.charge(8) {
		return 0
	}
	var v int64
	d.r.ReadInt64(&v)
	return v
}

func (d *Deserializer) readLiteralU128() Uint128 {
	if !d.charge(16) {
		return Uint128{}
	}
	var a, b uint64
	d.r.ReadUint64(&a)
	d.r.ReadUint64(&b)
	if d.r.Err() != nil {
		return Uint128{}
	}
	if d.opts.Endian == BigEndian {
		return Uint128{Hi: a, Lo: b}
	}
	return Uint128{Hi: b, Lo: a}
}

// Bool reads a single discriminant byte: 0 is false, 1 is true, anything
// else is InvalidBoolValueError.
func (d *Deserializer) Bool() bool {
	b := d.readMeteredByte()
	if !d.ok() {
		return false
	}
	switch b {
	case 0:
		return false
	case 1:
		return true
	default:
		d.fail(&InvalidBoolValueError{Value: b})
		return false
	}
}

func (d *Deserializer) I8() int8 {
	if !d.charge(1) {
		return 0
	}
	var v int8
	d.r.ReadInt8(&v)
	return v
}

func (d *Deserializer) U8() uint8 {
	return d.readMeteredByte()
}

func (d *Deserializer) U16() uint16 {
	if !d.ok() {
		return 0
	}
	return d.opts.IntEncoding.deserializeU16(d)
}

func (d *Deserializer) U32() uint32 {
	if !d.ok() {
		return 0
	}
	return d.opts.IntEncoding.deserializeU32(d)
}

func (d *Deserializer) U64() uint64 {
	if !d.ok() {
		return 0
	}
	return d.opts.IntEncoding.deserializeU64(d)
}

func (d *Deserializer) U128() Uint128 {
	if !d.ok() {
		return Uint128{}
	}
	return d.opts.IntEncoding.deserializeU128(d)
}

func (d *Deserializer) I16() int16 {
	if !d.ok() {
		return 0
	}
	return d.opts.IntEncoding.deserializeI16(d)
}

func (d *Deserializer) I32() int32 {
	if !d.ok() {
		return 0
	}
	return d.opts.IntEncoding.deserializeI32(d)
}

func (d *Deserializer) I64() int64 {
	if !d.ok() {
		return 0
	}
	return d.opts.IntEncoding.deserializeI64(d)
}

func (d *Deserializer) I128() Int128 {
	if !d.ok() {
		return Int128{}
	}
	return d.opts.IntEncoding.deserializeI128(d)
}

func (d *Deserializer) F32() float32 {
	return math.Float32frombits(d.readLiteralU32())
}

func (d *Deserializer) F64() float64 {
	return math.Float64frombits(d.readLiteralU64())
}

// Char reads one UTF-8 scalar: one metered lead byte, then utf8RuneWidth
// tells us how many continuation bytes to expect before any of them have
// been read, and the whole sequence goes to unicode/utf8 for validation.
func (d *Deserializer) Char() rune {
	lead := d.readMeteredByte()
	if !d.ok() {
		return 0
	}
	width := int(utf8RuneWidth[lead])
	if width == 0 {
		d.fail(ErrInvalidCharEncoding)
		return 0
	}
	var buf [4]byte
	buf[0] = lead
	if width > 1 {
		if !d.charge(uint64(width - 1)) {
			return 0
		}
		d.r.ReadBytesTo(buf[1:width])
		if d.r.Err() != nil {
			d.fail(d.r.Err())
			return 0
		}
	}
	r, size := utf8.DecodeRune(buf[:width])
	if r == utf8.RuneError && size <= 1 {
		d.fail(ErrInvalidCharEncoding)
		return 0
	}
	return r
}

// Len reads a length prefix through the active IntEncoding, rejecting a
// decoded value too large to fit an int on this platform.
func (d *Deserializer) Len() int {
	if !d.ok() {
		return 0
	}
	n := d.opts.IntEncoding.deserializeLen(d)
	if n > uint64(math.MaxInt) {
		d.fail(&InvalidCastError{From: "u64", To: "int"})
		return 0
	}
	return int(n)
}

// Bytes reads a length-prefixed byte slice, borrowing directly out of the
// source when possible (see Reader.BorrowBytes); scratch, if it has
// capacity, is reused instead of allocating.
func (d *Deserializer) Bytes(scratch []byte) []byte {
	n := d.Len()
	if !d.charge(uint64(n)) {
		return nil
	}
	b := d.r.BorrowBytes(n, scratch)
	if d.r.Err() != nil {
		d.fail(d.r.Err())
		return nil
	}
	return b
}

// Str reads a length-prefixed UTF-8 string. Unlike Bytes this always
// copies: Go strings are immutable, so a zero-copy alias into a mutable
// source buffer would be unsound without unsafe, which this module does
// not use.
func (d *Deserializer) Str() string {
	b := d.Bytes(nil)
	if !d.ok() {
		return ""
	}
	if !utf8.Valid(b) {
		d.fail(ErrInvalidUTF8)
		return ""
	}
	return string(b)
}

// Option reads the option discriminant and, if present, calls decode to
// read the contained value.
func (d *Deserializer) Option(decode func()) bool {
	b := d.readMeteredByte()
	if !d.ok() {
		return false
	}
	switch b {
	case 0:
		return false
	case 1:
		decode()
		return true
	default:
		d.fail(&InvalidOptionValueError{Value: b})
		return false
	}
}

// Variant reads an enum discriminant through the active IntEncoding.
func (d *Deserializer) Variant() uint32 {
	if !d.ok() {
		return 0
	}
	return d.opts.IntEncoding.deserializeU32(d)
}
