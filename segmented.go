package bufq

import (
	"bytes"
	"encoding/binary"
	"math"
)

// SegmentedReader decodes typed values from an ordered queue of
// separately allocated chunks, presenting one continuous logical offset
// space. Chunks are borrowed, never copied; fully consumed chunks are
// evicted from the front of the queue as reads advance.
type SegmentedReader struct {
	chunks [][]byte
	off    int // unread start within chunks[0]
	length int // total unread bytes across all chunks
}

// NewSegmentedReader returns a reader over the given chunks. Empty chunks
// are ignored.
func NewSegmentedReader(chunks ...[]byte) *SegmentedReader {
	s := new(SegmentedReader)
	s.Push(chunks...)
	return s
}

// Push appends chunks to the tail of the queue. Chunks with zero length
// are silently ignored, never stored.
func (s *SegmentedReader) Push(chunks ...[]byte) {
	for _, c := range chunks {
		if len(c) == 0 {
			continue
		}
		s.chunks = append(s.chunks, c)
		s.length += len(c)
	}
}

// Len returns the number of unread bytes across all chunks.
func (s *SegmentedReader) Len() int {
	return s.length
}

// locate resolves a relative offset into its owning chunk index and the
// position within that chunk. The caller guarantees off < s.length.
func (s *SegmentedReader) locate(off int) (ci, co int) {
	co = s.off + off
	for co >= len(s.chunks[ci]) {
		co -= len(s.chunks[ci])
		ci++
	}
	return ci, co
}

// walker iterates bytes one at a time from a relative offset, advancing
// to the next chunk whenever the current one is exhausted. All
// cross-boundary decode paths share it.
type walker struct {
	s      *SegmentedReader
	ci, co int
}

func (s *SegmentedReader) walk(off int) walker {
	ci, co := s.locate(off)
	return walker{s: s, ci: ci, co: co}
}

func (w *walker) next() byte {
	b := w.s.chunks[w.ci][w.co]
	w.co++
	if w.co == len(w.s.chunks[w.ci]) {
		w.ci++
		w.co = 0
	}
	return b
}

// advance consumes n bytes, evicting fully consumed chunks from the
// front so the head chunk always retains at least one unread byte. The
// caller guarantees n <= s.length.
func (s *SegmentedReader) advance(n int) {
	s.length -= n
	n += s.off
	for len(s.chunks) > 0 && n >= len(s.chunks[0]) {
		n -= len(s.chunks[0])
		s.chunks[0] = nil // release the chunk reference
		s.chunks = s.chunks[1:]
	}
	s.off = n
}

// gather copies len(dst) unread bytes starting at relative offset off
// into dst, looping across as many chunks as needed. The caller
// guarantees the span is in range.
func (s *SegmentedReader) gather(dst []byte, off int) {
	if len(dst) == 0 {
		return
	}
	ci, co := s.locate(off)
	n := copy(dst, s.chunks[ci][co:])
	for n < len(dst) {
		ci++
		n += copy(dst[n:], s.chunks[ci])
	}
}

// checkSpan validates an n-byte read at relative offset off.
func (s *SegmentedReader) checkSpan(op string, off, n int) error {
	if off < 0 {
		return negativeErr(op, "offset", off)
	}
	if n < 0 {
		return negativeErr(op, "count", n)
	}
	if off+n > s.length {
		return rangeErr(op, off, n, s.length)
	}
	return nil
}

// Skip consumes up to n bytes, clamping silently to the unread length,
// and returns the number of bytes actually consumed.
func (s *SegmentedReader) Skip(n int) (int, error) {
	if n < 0 {
		return 0, negativeErr("skip", "count", n)
	}
	if n > s.length {
		n = s.length
	}
	s.advance(n)
	return n, nil
}

// IndexOf scans the unread bytes from position from for the first
// occurrence of c, crossing chunk boundaries as needed. The returned
// index is relative to the unread start; -1 means c is absent.
func (s *SegmentedReader) IndexOf(c byte, from int) (int, error) {
	if err := checkIndexFrom(from, s.length); err != nil {
		return 0, err
	}
	if from == s.length {
		return -1, nil
	}
	ci, co := s.locate(from)
	base := from
	for ; ci < len(s.chunks); ci++ {
		if i := bytes.IndexByte(s.chunks[ci][co:], c); i >= 0 {
			return base + i, nil
		}
		base += len(s.chunks[ci]) - co
		co = 0
	}
	return -1, nil
}

// Copy copies unread bytes [srcOff, srcEnd) into dst starting at dstOff,
// truncated to dst's remaining capacity, and returns the number of bytes
// written. It does not consume.
func (s *SegmentedReader) Copy(dst []byte, dstOff, srcOff, srcEnd int) (int, error) {
	if err := checkCopyArgs(len(dst), dstOff, srcOff, srcEnd, s.length); err != nil {
		return 0, err
	}
	n := srcEnd - srcOff
	if room := len(dst) - dstOff; n > room {
		n = room
	}
	s.gather(dst[dstOff:dstOff+n], srcOff)
	return n, nil
}

func (s *SegmentedReader) ByteAt(off int) (byte, error) {
	if err := s.checkSpan("read byte", off, 1); err != nil {
		return 0, err
	}
	ci, co := s.locate(off)
	return s.chunks[ci][co], nil
}

func (s *SegmentedReader) CharAt(off int) (rune, error) {
	b, err := s.ByteAt(off)
	if err != nil {
		return 0, err
	}
	return rune(b), nil
}

func (s *SegmentedReader) Uint8At(off int) (uint8, error) {
	return s.ByteAt(off)
}

func (s *SegmentedReader) Int8At(off int) (int8, error) {
	b, err := s.ByteAt(off)
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

// uintAt assembles a size-byte integer at off byte by byte, crossing
// chunk boundaries as needed, and composes it in the given byte order.
func (s *SegmentedReader) uintAt(op string, off, size int, order binary.ByteOrder) (uint64, error) {
	if err := s.checkSpan(op, off, size); err != nil {
		return 0, err
	}
	var scratch [8]byte
	w := s.walk(off)
	for i := 0; i < size; i++ {
		scratch[i] = w.next()
	}
	switch size {
	case 2:
		return uint64(order.Uint16(scratch[:2])), nil
	case 4:
		return uint64(order.Uint32(scratch[:4])), nil
	default:
		return order.Uint64(scratch[:]), nil
	}
}

func (s *SegmentedReader) Uint16At(off int, order binary.ByteOrder) (uint16, error) {
	v, err := s.uintAt("read uint16", off, 2, order)
	return uint16(v), err
}

func (s *SegmentedReader) Int16At(off int, order binary.ByteOrder) (int16, error) {
	v, err := s.uintAt("read int16", off, 2, order)
	return int16(v), err
}

func (s *SegmentedReader) Uint32At(off int, order binary.ByteOrder) (uint32, error) {
	v, err := s.uintAt("read uint32", off, 4, order)
	return uint32(v), err
}

func (s *SegmentedReader) Int32At(off int, order binary.ByteOrder) (int32, error) {
	v, err := s.uintAt("read int32", off, 4, order)
	return int32(v), err
}

func (s *SegmentedReader) Float32At(off int, order binary.ByteOrder) (float32, error) {
	v, err := s.uintAt("read float32", off, 4, order)
	return math.Float32frombits(uint32(v)), err
}

func (s *SegmentedReader) Float64At(off int, order binary.ByteOrder) (float64, error) {
	v, err := s.uintAt("read float64", off, 8, order)
	return math.Float64frombits(v), err
}

// BytesAt returns the n unread bytes at off. When the span lies within a
// single chunk the returned slice aliases it and must be treated as
// read-only; a span crossing a boundary is returned as a fresh copy.
func (s *SegmentedReader) BytesAt(off, n int) ([]byte, error) {
	if err := s.checkSpan("read bytes", off, n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	ci, co := s.locate(off)
	if co+n <= len(s.chunks[ci]) {
		return s.chunks[ci][co : co+n], nil
	}
	out := make([]byte, n)
	s.gather(out, off)
	return out, nil
}

// BufferAt returns a freshly allocated copy of the n unread bytes at off.
func (s *SegmentedReader) BufferAt(off, n int) ([]byte, error) {
	if err := s.checkSpan("read buffer", off, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	s.gather(out, off)
	return out, nil
}

func (s *SegmentedReader) StringAt(off, n int) (string, error) {
	b, err := s.BytesAt(off, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ZeroStringAt returns the bytes from off up to (excluding) the first
// zero byte. A missing terminator and a terminator at off both yield the
// empty string.
func (s *SegmentedReader) ZeroStringAt(off int) (string, error) {
	i, err := s.IndexOf(0, off)
	if err != nil {
		return "", err
	}
	if i < 0 {
		return "", nil
	}
	out := make([]byte, i-off)
	s.gather(out, off)
	return string(out), nil
}

// BitsAt decodes count bits starting at byte offset off, LSB first
// within each byte.
func (s *SegmentedReader) BitsAt(off, count int) ([]bool, error) {
	if count < 0 {
		return nil, negativeErr("read bits", "count", count)
	}
	b, err := s.BufferAt(off, bitsSpan(count))
	if err != nil {
		return nil, err
	}
	return ExpandBits(b, count), nil
}

func (s *SegmentedReader) ReadByte() (byte, error) {
	v, err := s.ByteAt(0)
	if err != nil {
		return 0, err
	}
	s.advance(1)
	return v, nil
}

func (s *SegmentedReader) ReadChar() (rune, error) {
	v, err := s.CharAt(0)
	if err != nil {
		return 0, err
	}
	s.advance(1)
	return v, nil
}

func (s *SegmentedReader) ReadUint8() (uint8, error) {
	return s.ReadByte()
}

func (s *SegmentedReader) ReadInt8() (int8, error) {
	v, err := s.Int8At(0)
	if err != nil {
		return 0, err
	}
	s.advance(1)
	return v, nil
}

func (s *SegmentedReader) ReadUint16(order binary.ByteOrder) (uint16, error) {
	v, err := s.Uint16At(0, order)
	if err != nil {
		return 0, err
	}
	s.advance(2)
	return v, nil
}

func (s *SegmentedReader) ReadInt16(order binary.ByteOrder) (int16, error) {
	v, err := s.ReadUint16(order)
	return int16(v), err
}

func (s *SegmentedReader) ReadUint32(order binary.ByteOrder) (uint32, error) {
	v, err := s.Uint32At(0, order)
	if err != nil {
		return 0, err
	}
	s.advance(4)
	return v, nil
}

func (s *SegmentedReader) ReadInt32(order binary.ByteOrder) (int32, error) {
	v, err := s.ReadUint32(order)
	return int32(v), err
}

func (s *SegmentedReader) ReadFloat32(order binary.ByteOrder) (float32, error) {
	v, err := s.Float32At(0, order)
	if err != nil {
		return 0, err
	}
	s.advance(4)
	return v, nil
}

func (s *SegmentedReader) ReadFloat64(order binary.ByteOrder) (float64, error) {
	v, err := s.Float64At(0, order)
	if err != nil {
		return 0, err
	}
	s.advance(8)
	return v, nil
}

// ReadBytes consumes and returns the next n bytes. The aliasing rules of
// BytesAt apply; an aliased slice remains valid after the backing chunk
// is evicted, since chunks are immutable.
func (s *SegmentedReader) ReadBytes(n int) ([]byte, error) {
	b, err := s.BytesAt(0, n)
	if err != nil {
		return nil, err
	}
	s.advance(n)
	return b, nil
}

// ReadBuffer consumes the next n bytes and returns them as a freshly
// allocated copy.
func (s *SegmentedReader) ReadBuffer(n int) ([]byte, error) {
	b, err := s.BufferAt(0, n)
	if err != nil {
		return nil, err
	}
	s.advance(n)
	return b, nil
}

func (s *SegmentedReader) ReadString(n int) (string, error) {
	b, err := s.ReadBuffer(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadZeroString consumes and returns the bytes up to the first zero
// byte, consuming the terminator as well. Without a terminator it
// returns the empty string and consumes nothing.
func (s *SegmentedReader) ReadZeroString() (string, error) {
	i, err := s.IndexOf(0, 0)
	if err != nil {
		return "", err
	}
	if i < 0 {
		return "", nil
	}
	out := make([]byte, i)
	s.gather(out, 0)
	s.advance(i + 1)
	return string(out), nil
}

// ReadBits consumes ceil(count/8) bytes and returns their first count
// bits, LSB first within each byte.
func (s *SegmentedReader) ReadBits(count int) ([]bool, error) {
	bits, err := s.BitsAt(0, count)
	if err != nil {
		return nil, err
	}
	s.advance(bitsSpan(count))
	return bits, nil
}
