package bincode

import "io"

// countingSink implements WriterPro while discarding everything written and
// only counting the bytes, so SerializedSize can run the exact same
// Serializer code path a real encode does without allocating the output.
type countingSink struct {
	total uint64
}

func (s *countingSink) Write(p []byte) (int, error) {
	s.total += uint64(len(p))
	return len(p), nil
}

func (s *countingSink) WriteString(str string) (int, error) {
	s.total += uint64(len(str))
	return len(str), nil
}

func (s *countingSink) WriteByte(byte) error {
	s.total++
	return nil
}

func (s *countingSink) ReadFrom(r io.Reader) (int64, error) {
	n, err := io.Copy(io.Discard, r)
	s.total += uint64(n)
	return n, err
}

func (s *countingSink) Close() error { return nil }
func (s *countingSink) Flush() error { return nil }
func (s *countingSink) Size() int    { return 0 }

var _ WriterPro = (*countingSink)(nil)

// newCountingWriter builds a Writer directly over a countingSink, bypassing
// NewWriterSize's bufio fallback (countingSink is not one of its recognized
// zero-copy cases, and buffering a sink that throws bytes away is pointless
// overhead).
func newCountingWriter() (*Writer, *countingSink) {
	sink := &countingSink{}
	return &Writer{w: sink}, sink
}
