package bincode

// TrailingPolicy controls what Deserializer.Finish does when bytes remain
// in the source after a complete top-level value has been decoded.
type TrailingPolicy int

const (
	// RejectTrailing fails Finish if any bytes remain. The default.
	RejectTrailing TrailingPolicy = iota
	// AllowTrailing lets Finish succeed regardless of what remains.
	AllowTrailing
)

// Options configures how Serializer/Deserializer read and write the wire
// format: one runtime value with value-receiver builder methods, each
// returning a modified copy.
type Options struct {
	Limit       Limit
	Endian      Endianness
	IntEncoding IntEncoding
	Trailing    TrailingPolicy
}

// DefaultOptions returns bincode's canonical defaults: no size limit,
// little-endian, varint integer encoding, and reject trailing bytes.
func DefaultOptions() Options {
	return Options{
		Limit:       Infinite{},
		Endian:      LittleEndian,
		IntEncoding: VarintEncoding{},
		Trailing:    RejectTrailing,
	}
}

func (o Options) WithNoLimit() Options {
	o.Limit = Infinite{}
	return o
}

func (o Options) WithLimit(n uint64) Options {
	o.Limit = Bounded(n)
	return o
}

func (o Options) WithLittleEndian() Options {
	o.Endian = LittleEndian
	return o
}

func (o Options) WithBigEndian() Options {
	o.Endian = BigEndian
	return o
}

func (o Options) WithNativeEndian() Options {
	o.Endian = NativeEndian
	return o
}

func (o Options) WithVarintEncoding() Options {
	o.IntEncoding = VarintEncoding{}
	return o
}

func (o Options) WithFixintEncoding() Options {
	o.IntEncoding = FixintEncoding{}
	return o
}

func (o Options) RejectTrailingBytes() Options {
	o.Trailing = RejectTrailing
	return o
}

func (o Options) AllowTrailingBytes() Options {
	o.Trailing = AllowTrailing
	return o
}
