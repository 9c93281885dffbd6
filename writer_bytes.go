package bincode

import "io"

// BytesWriter is an io.Writer that writes to a pre-allocated byte slice.
// It will not grow the slice's capacity. Writes are all-or-nothing: if a
// write would not fit in the remaining space, nothing is written and N is
// left unchanged, so a caller can retry with a bigger buffer without first
// having to figure out how much was already (partially) committed.
type BytesWriter struct {
	B []byte // destination slice
	N int    // current write position
}

// NewBytesWriter creates a new BytesWriter.
func NewBytesWriter(p []byte) *BytesWriter {
	return &BytesWriter{B: p[:cap(p)]}
}

// Close is a no-op that satisfies io.Closer; there is nothing to release.
func (w *BytesWriter) Close() error {
	return nil
}

// Write implements the io.Writer interface.
func (w *BytesWriter) Write(p []byte) (int, error) {
	if len(p) > w.Available() {
		return 0, ErrBufferTooSmall
	}
	n := copy(w.B[w.N:], p)
	w.N += n
	return n, nil
}

// WriteString implements the io.StringWriter interface for efficiency.
func (w *BytesWriter) WriteString(s string) (int, error) {
	if len(s) > w.Available() {
		return 0, ErrBufferTooSmall
	}
	n := copy(w.B[w.N:], s)
	w.N += n
	return n, nil
}

// WriteByte implements the io.ByteWriter interface for efficiency.
func (w *BytesWriter) WriteByte(c byte) error {
	if w.Available() < 1 {
		return ErrBufferTooSmall
	}
	w.B[w.N] = c
	w.N++
	return nil
}

// ReadFrom implements the io.ReaderFrom interface with a single Read from r
// into the remaining space; it does not loop until EOF. An io.EOF from that
// Read is reported as success.
func (w *BytesWriter) ReadFrom(r io.Reader) (int64, error) {
	if w.N >= len(w.B) {
		return 0, ErrBufferTooSmall
	}
	n, err := r.Read(w.B[w.N:])
	if n < 0 {
		return 0, ErrInvalidWrite
	}
	w.N += n
	if err == io.EOF {
		return int64(n), nil
	}
	return int64(n), err
}

// Flush do nothing
func (w *BytesWriter) Flush() error { return nil }

// Reset allows the underlying byte slice to be reused.
func (w *BytesWriter) Reset() { w.N = 0 }

// Len returns the number of bytes written.
func (w *BytesWriter) Len() int { return w.N }

// Size returns the capacity of the underlying byte slice.
func (w *BytesWriter) Size() int { return len(w.B) }

// Available returns the number of bytes available for writing.
func (w *BytesWriter) Available() int { return len(w.B) - w.N }

// Bytes returns a slice view of the written data.
func (w *BytesWriter) Bytes() []byte { return w.B[:w.N] }

// WrittenLen is an alias for Len.
func (w *BytesWriter) WrittenLen() int { return w.N }

// WrittenBuffer is an alias for Bytes.
func (w *BytesWriter) WrittenBuffer() []byte { return w.B[:w.N] }
