package bincode

// Map adapts a Go map to Encodable/Decodable by pairing it with closures
// that know how to write/read one key and one value. Entries are written
// in whatever order Go's map iteration yields them; the wire format does
// not promise a key order.
type Map[K comparable, V any] struct {
	Items       map[K]V
	EncodeKey   func(*Serializer, K)
	DecodeKey   func(*Deserializer) K
	EncodeValue func(*Serializer, V)
	DecodeValue func(*Deserializer) V
}

var (
	_ Encodable = (*Map[int, int])(nil)
	_ Decodable = (*Map[int, int])(nil)
)

func (m *Map[K, V]) EncodeBincode(s *Serializer) {
	s.Len(len(m.Items))
	for k, v := range m.Items {
		if s.Err() != nil {
			return
		}
		m.EncodeKey(s, k)
		m.EncodeValue(s, v)
	}
}

func (m *Map[K, V]) DecodeBincode(d *Deserializer) {
	n := d.Len()
	if d.Err() != nil {
		return
	}
	prealloc := n
	if prealloc > clampCap {
		prealloc = clampCap
	}
	items := make(map[K]V, prealloc)
	for i := 0; i < n; i++ {
		if d.Err() != nil {
			return
		}
		k := m.DecodeKey(d)
		v := m.DecodeValue(d)
		items[k] = v
	}
	m.Items = items
}
