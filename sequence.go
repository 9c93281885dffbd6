package bincode

// Sequence adapts a slice of any element type to Encodable/Decodable by
// pairing it with closures that know how to write/read one element. There
// is no padding between elements: the wire format forbids it.
type Sequence[T any] struct {
	Items  []T
	Encode func(*Serializer, T)
	Decode func(*Deserializer) T
}

var (
	_ Encodable = (*Sequence[int])(nil)
	_ Decodable = (*Sequence[int])(nil)
)

func (s *Sequence[T]) EncodeBincode(ser *Serializer) {
	ser.Len(len(s.Items))
	for _, item := range s.Items {
		if ser.Err() != nil {
			return
		}
		s.Encode(ser, item)
	}
}

func (s *Sequence[T]) DecodeBincode(d *Deserializer) {
	n := d.Len()
	if d.Err() != nil {
		return
	}
	prealloc := n
	if prealloc > clampCap {
		prealloc = clampCap
	}
	items := make([]T, 0, prealloc)
	for i := 0; i < n; i++ {
		if d.Err() != nil {
			return
		}
		items = append(items, s.Decode(d))
	}
	s.Items = items
}
