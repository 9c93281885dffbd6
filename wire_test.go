package bincode

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sensorReport covers one field of every fixed-arity shape: primitives of
// each width, a 128-bit counter, an optional byte, and a fixed-size array
// (written element by element, no length prefix: the arity is in the type).
type sensorReport struct {
	A    uint8
	B    uint16
	C    uint32
	D    uint64
	E    Uint128
	Opt  *uint8
	Buff [3]uint8
}

func (r *sensorReport) EncodeBincode(s *Serializer) {
	s.U8(r.A)
	s.U16(r.B)
	s.U32(r.C)
	s.U64(r.D)
	s.U128(r.E)
	s.Option(r.Opt != nil, func() { s.U8(*r.Opt) })
	for _, b := range r.Buff {
		s.U8(b)
	}
}

func (r *sensorReport) DecodeBincode(d *Deserializer) {
	r.A = d.U8()
	r.B = d.U16()
	r.C = d.U32()
	r.D = d.U64()
	r.E = d.U128()
	r.Opt = nil
	d.Option(func() { r.Opt = Ptr(d.U8()) })
	for i := range r.Buff {
		r.Buff[i] = d.U8()
	}
}

func TestStructWireLayoutVarint(t *testing.T) {
	rec := &sensorReport{
		A: 1, B: 2, C: 3, D: 4, E: Uint128{Lo: 5},
		Opt: Ptr(uint8(6)), Buff: [3]uint8{7, 8, 9},
	}
	data, err := Serialize(rec, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 1, 6, 7, 8, 9}, data)

	got, err := Deserialize[sensorReport](data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, *rec, got)
}

func TestStructWireLayoutFixintBigEndian(t *testing.T) {
	rec := &sensorReport{
		A: 1, B: 2, C: 3, D: 4, E: Uint128{Lo: 5},
		Opt: Ptr(uint8(6)), Buff: [3]uint8{7, 8, 9},
	}
	opts := DefaultOptions().WithFixintEncoding().WithBigEndian()
	data, err := Serialize(rec, opts)
	require.NoError(t, err)
	// 1 + 2 + 4 + 8 + 16 + (1 tag + 1 payload) + 3
	assert.Equal(t, 36, len(data))

	got, err := Deserialize[sensorReport](data, opts)
	require.NoError(t, err)
	assert.Equal(t, *rec, got)
}

// mixedTuple mirrors (1u16, 2u32, &b"test"[..], "tesT"): fields in order,
// no framing beyond the per-slice length prefixes.
type mixedTuple struct {
	A    uint16
	B    uint32
	Blob []byte
	Text string
}

func (m *mixedTuple) EncodeBincode(s *Serializer) {
	s.U16(m.A)
	s.U32(m.B)
	s.Bytes(m.Blob)
	s.Str(m.Text)
}

func (m *mixedTuple) DecodeBincode(d *Deserializer) {
	m.A = d.U16()
	m.B = d.U32()
	m.Blob = d.Bytes(nil)
	m.Text = d.Str()
}

func TestTupleWireLayout(t *testing.T) {
	v := &mixedTuple{A: 1, B: 2, Blob: []byte("test"), Text: "tesT"}
	data, err := Serialize(v, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x01, 0x02,
		0x04, 0x74, 0x65, 0x73, 0x74,
		0x04, 0x74, 0x65, 0x73, 0x54,
	}, data)

	got, err := Deserialize[mixedTuple](data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, *v, got)
}

type i64Wrapper struct{ V int64 }

func (w *i64Wrapper) EncodeBincode(s *Serializer)   { s.I64(w.V) }
func (w *i64Wrapper) DecodeBincode(d *Deserializer) { w.V = d.I64() }

func TestZigzagVarintWireBytes(t *testing.T) {
	data, err := Serialize(&i64Wrapper{V: -1}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, data)

	data, err = Serialize(&i64Wrapper{V: math.MinInt64}, DefaultOptions())
	require.NoError(t, err)
	// prefix 253 + u64::MAX little-endian
	assert.Equal(t, []byte{0xFD, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, data)

	got, err := Deserialize[i64Wrapper](data, DefaultOptions())
	require.NoError(t, err)
	assert.EqualValues(t, math.MinInt64, got.V)
}

// statusEvent is a two-variant tagged union: variant 0 is a unit, variant 1
// carries a (u8, i8) payload. The discriminant always flows through the
// u32 path of the active IntEncoding.
type statusEvent struct {
	Variant uint32
	X       uint8
	Y       int8
}

func (e *statusEvent) EncodeBincode(s *Serializer) {
	s.Variant(e.Variant)
	if e.Variant == 1 {
		s.U8(e.X)
		s.I8(e.Y)
	}
}

func (e *statusEvent) DecodeBincode(d *Deserializer) {
	e.Variant = d.Variant()
	if e.Variant == 1 {
		e.X = d.U8()
		e.Y = d.I8()
	}
}

func TestEnumWireLayout(t *testing.T) {
	ev := &statusEvent{Variant: 1, X: 1, Y: -1}

	data, err := Serialize(ev, DefaultOptions().WithFixintEncoding().WithBigEndian())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01, 0x01, 0xFF}, data)

	data, err = Serialize(ev, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x01, 0xFF}, data)

	got, err := Deserialize[statusEvent](data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, *ev, got)

	unit := &statusEvent{Variant: 0}
	data, err = Serialize(unit, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, data)
}

type optionalBool struct{ V *bool }

func (w *optionalBool) EncodeBincode(s *Serializer) {
	s.Option(w.V != nil, func() { s.Bool(*w.V) })
}

func (w *optionalBool) DecodeBincode(d *Deserializer) {
	w.V = nil
	d.Option(func() { w.V = Ptr(d.Bool()) })
}

func TestOptionWireLayout(t *testing.T) {
	data, err := Serialize(&optionalBool{}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, data)

	data, err = Serialize(&optionalBool{V: Ptr(true)}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x01}, data)

	got, err := Deserialize[optionalBool](data, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, got.V)
	assert.True(t, *got.V)
}

type bytesWrapper struct{ V []byte }

func (w *bytesWrapper) EncodeBincode(s *Serializer)   { s.Bytes(w.V) }
func (w *bytesWrapper) DecodeBincode(d *Deserializer) { w.V = d.Bytes(nil) }

func TestEmptySliceWireLayout(t *testing.T) {
	data, err := Serialize(&bytesWrapper{V: []byte{}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, data)

	got, err := Deserialize[bytesWrapper](data, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, got.V)
}

type u128Wrapper struct{ V Uint128 }

func (w *u128Wrapper) EncodeBincode(s *Serializer)   { s.U128(w.V) }
func (w *u128Wrapper) DecodeBincode(d *Deserializer) { w.V = d.U128() }

type i128Wrapper struct{ V Int128 }

func (w *i128Wrapper) EncodeBincode(s *Serializer)   { s.I128(w.V) }
func (w *i128Wrapper) DecodeBincode(d *Deserializer) { w.V = d.I128() }

func TestU128VarintWireLayout(t *testing.T) {
	// Values fitting in 64 bits use the ordinary discriminator scheme.
	small := &u128Wrapper{V: Uint128{Lo: 7}}
	data, err := Serialize(small, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x07}, data)

	// Anything with high bits set takes the 254 prefix and 16 literal bytes.
	big := &u128Wrapper{V: Uint128{Hi: 1, Lo: 2}}
	data, err = Serialize(big, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 17, len(data))
	assert.Equal(t, byte(u128Byte), data[0])

	got, err := Deserialize[u128Wrapper](data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, big.V, got.V)
}

func TestI128RoundTripBothEncodings(t *testing.T) {
	values := []Int128{
		{},
		{Uint128{Lo: 1}},
		{Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}}, // -1
		{Uint128{Hi: 1 << 63}},                    // i128::MIN
		{Uint128{Hi: 1<<63 - 1, Lo: ^uint64(0)}},  // i128::MAX
	}
	for _, opts := range []Options{DefaultOptions(), DefaultOptions().WithFixintEncoding()} {
		for _, v := range values {
			data, err := Serialize(&i128Wrapper{V: v}, opts)
			require.NoError(t, err)

			size, err := SerializedSize(&i128Wrapper{V: v}, opts)
			require.NoError(t, err)
			assert.EqualValues(t, size, len(data))

			got, err := Deserialize[i128Wrapper](data, opts)
			require.NoError(t, err)
			assert.Equal(t, v, got.V)
		}
	}
}

func TestU128PrefixRejectedInU64Domain(t *testing.T) {
	// A 254 prefix is only legal where a 128-bit value is expected; in the
	// u64-domain channels (plain u64, lengths, discriminants) it means the
	// peer was built with an incompatible layout.
	data := []byte{u128Byte, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err := Deserialize[uint64Wrapper](data, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValueRange)
}

func TestSerializeLimitEnforced(t *testing.T) {
	rec := &mixedTuple{A: 1, B: 2, Blob: []byte("test"), Text: "tesT"} // 12 bytes encoded

	_, err := Serialize(rec, DefaultOptions().WithLimit(11))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitReached)

	data, err := Serialize(rec, DefaultOptions().WithLimit(12))
	require.NoError(t, err)
	assert.Equal(t, 12, len(data))
}

func TestSerializeLimitStopsWriterAppends(t *testing.T) {
	rec := &mixedTuple{A: 1, B: 2, Blob: []byte("test"), Text: "tesT"}
	buf := make([]byte, 64)
	n, err := SerializeInto(rec, buf, DefaultOptions().WithLimit(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.LessOrEqual(t, n, 5)
}

func TestSerializedSizeRespectsLimit(t *testing.T) {
	rec := &mixedTuple{A: 1, B: 2, Blob: []byte("test"), Text: "tesT"}
	_, err := SerializedSize(rec, DefaultOptions().WithLimit(3))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitReached)
}

func TestVarintCanonicalOutput(t *testing.T) {
	// The writer must pick the smallest legal form for every value: the
	// encoded width changes exactly at the discriminator boundaries.
	cases := []struct {
		v uint64
		n int
	}{
		{0, 1}, {250, 1},
		{251, 3}, {65535, 3},
		{65536, 5}, {0xFFFFFFFF, 5},
		{0x100000000, 9}, {math.MaxUint64, 9},
	}
	for _, tc := range cases {
		size, err := SerializedSize(&uint64Wrapper{V: tc.v}, DefaultOptions())
		require.NoError(t, err)
		assert.EqualValues(t, tc.n, size, "value %d", tc.v)
	}
}

func TestOverlongUTF8LeadRejected(t *testing.T) {
	// 0xC0/0xC1 can only start overlong encodings and are never valid leads.
	for _, lead := range []byte{0xC0, 0xC1} {
		_, err := Deserialize[runeWrapper]([]byte{lead, 0x80}, DefaultOptions())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCharEncoding)
	}
}

func TestInvalidUTF8StringRejected(t *testing.T) {
	// mixedTuple layout: a=0, b=0, empty blob, then a str claiming 2 bytes
	// whose payload is not valid UTF-8.
	data := []byte{0x00, 0x00, 0x00, 0x02, 0xFF, 0xFE}
	_, err := Deserialize[mixedTuple](data, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSerializeToStreamWriter(t *testing.T) {
	v := &mixedTuple{A: 1, B: 2, Blob: []byte("test"), Text: "tesT"}
	var buf bytes.Buffer
	n, err := SerializeTo(v, &buf, DefaultOptions())
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)
	assert.Equal(t, []byte{
		0x01, 0x02,
		0x04, 0x74, 0x65, 0x73, 0x74,
		0x04, 0x74, 0x65, 0x73, 0x54,
	}, buf.Bytes())
}

func TestDeserializeFromReportsConsumed(t *testing.T) {
	data, err := Serialize(&uint64Wrapper{V: 42}, DefaultOptions())
	require.NoError(t, err)
	withTrailing := append(data, 0xAA, 0xBB)

	r, err := NewReader(NewBytesReader(withTrailing))
	require.NoError(t, err)

	var v uint64Wrapper
	n, err := DeserializeFrom(r, DefaultOptions().AllowTrailingBytes(), &v)
	require.NoError(t, err)
	assert.EqualValues(t, 42, v.V)
	assert.EqualValues(t, len(data), n)
}
