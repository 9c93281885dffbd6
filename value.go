package bincode

import "io"

// Encodable is implemented by types that know how to write themselves out
// field by field through a Serializer's typed methods, in wire order.
type Encodable interface {
	EncodeBincode(s *Serializer)
}

// Decodable is implemented by types that know how to read themselves back
// through a Deserializer's typed methods, in the same order their matching
// Encodable wrote them.
type Decodable interface {
	DecodeBincode(d *Deserializer)
}

// Serialize encodes v into a freshly allocated byte slice.
func Serialize(v Encodable, opts Options) ([]byte, error) {
	size, err := SerializedSize(v, opts)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	n, err := SerializeInto(v, buf, opts)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// SerializeInto encodes v into buf, which must be at least SerializedSize(v)
// bytes, returning the number of bytes written.
func SerializeInto(v Encodable, buf []byte, opts Options) (int, error) {
	w, err := NewWriter(NewBytesWriter(buf))
	if err != nil {
		return 0, err
	}
	s := newSerializer(w, opts)
	v.EncodeBincode(s)
	n, werr := w.Result()
	if err := s.Err(); err != nil {
		return int(n), err
	}
	return int(n), werr
}

// SerializeTo encodes v into an arbitrary io.Writer (a socket, a UART, a
// file), returning the number of bytes written.
func SerializeTo(v Encodable, dst io.Writer, opts Options) (int64, error) {
	w, err := NewWriter(dst)
	if err != nil {
		return 0, err
	}
	s := newSerializer(w, opts)
	v.EncodeBincode(s)
	n, werr := w.Result()
	if err := s.Err(); err != nil {
		return n, err
	}
	return n, werr
}

// SerializedSize reports how many bytes Serialize(v, opts) would produce,
// by running v's EncodeBincode against a byte-counting sink instead of a
// real destination.
func SerializedSize(v Encodable, opts Options) (uint64, error) {
	w, sink := newCountingWriter()
	s := newSerializer(w, opts)
	v.EncodeBincode(s)
	if err := s.Err(); err != nil {
		return 0, err
	}
	return sink.total, nil
}

// Deserialize decodes a T out of data. PT is T's pointer type, which must
// implement Decodable; this lets callers write Deserialize[Header](data,
// opts) without having to hand-write a constructor closure.
func Deserialize[T any, PT interface {
	*T
	Decodable
}](data []byte, opts Options) (T, error) {
	var v T
	r, err := NewReader(NewBytesReader(data))
	if err != nil {
		return v, err
	}
	_, err = DeserializeFrom(r, opts, PT(&v))
	return v, err
}

// DeserializeFrom decodes v from an already-constructed Reader, returning
// how many bytes were consumed. Under AllowTrailing the count tells the
// caller where the next value in the stream starts.
func DeserializeFrom(r *Reader, opts Options, v Decodable) (int64, error) {
	start := r.Count()
	d := newDeserializer(r, opts)
	v.DecodeBincode(d)
	if err := d.Finish(); err != nil {
		return r.Count() - start, err
	}
	return r.Count() - start, nil
}
