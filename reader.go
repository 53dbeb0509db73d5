package bufq

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Reader decodes typed values from a single immutable byte buffer. The
// buffer is borrowed, never copied; only the internal read offset mutates.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a reader over buf. The reader never mutates buf's
// contents.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

// Skip consumes up to n bytes, clamping silently to the unread length,
// and returns the number of bytes actually consumed.
func (r *Reader) Skip(n int) (int, error) {
	if n < 0 {
		return 0, negativeErr("skip", "count", n)
	}
	if n > r.Len() {
		n = r.Len()
	}
	r.off += n
	return n, nil
}

// IndexOf scans the unread bytes from position from for the first
// occurrence of c. The returned index is relative to the unread start;
// -1 means c is absent.
func (r *Reader) IndexOf(c byte, from int) (int, error) {
	if err := checkIndexFrom(from, r.Len()); err != nil {
		return 0, err
	}
	i := bytes.IndexByte(r.buf[r.off+from:], c)
	if i < 0 {
		return -1, nil
	}
	return from + i, nil
}

// Copy copies unread bytes [srcOff, srcEnd) into dst starting at dstOff,
// truncated to dst's remaining capacity, and returns the number of bytes
// written. It does not consume.
func (r *Reader) Copy(dst []byte, dstOff, srcOff, srcEnd int) (int, error) {
	if err := checkCopyArgs(len(dst), dstOff, srcOff, srcEnd, r.Len()); err != nil {
		return 0, err
	}
	return copy(dst[dstOff:], r.buf[r.off+srcOff:r.off+srcEnd]), nil
}

// view returns the n unread bytes at relative offset off without
// consuming them.
func (r *Reader) view(op string, off, n int) ([]byte, error) {
	if off < 0 {
		return nil, negativeErr(op, "offset", off)
	}
	if n < 0 {
		return nil, negativeErr(op, "count", n)
	}
	if off+n > r.Len() {
		return nil, rangeErr(op, off, n, r.Len())
	}
	return r.buf[r.off+off : r.off+off+n], nil
}

func (r *Reader) ByteAt(off int) (byte, error) {
	b, err := r.view("read byte", off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) CharAt(off int) (rune, error) {
	b, err := r.view("read char", off, 1)
	if err != nil {
		return 0, err
	}
	return rune(b[0]), nil
}

func (r *Reader) Uint8At(off int) (uint8, error) {
	return r.ByteAt(off)
}

func (r *Reader) Int8At(off int) (int8, error) {
	b, err := r.view("read int8", off, 1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (r *Reader) Uint16At(off int, order binary.ByteOrder) (uint16, error) {
	b, err := r.view("read uint16", off, 2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

func (r *Reader) Int16At(off int, order binary.ByteOrder) (int16, error) {
	v, err := r.Uint16At(off, order)
	return int16(v), err
}

func (r *Reader) Uint32At(off int, order binary.ByteOrder) (uint32, error) {
	b, err := r.view("read uint32", off, 4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

func (r *Reader) Int32At(off int, order binary.ByteOrder) (int32, error) {
	v, err := r.Uint32At(off, order)
	return int32(v), err
}

func (r *Reader) Float32At(off int, order binary.ByteOrder) (float32, error) {
	b, err := r.view("read float32", off, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(order.Uint32(b)), nil
}

func (r *Reader) Float64At(off int, order binary.ByteOrder) (float64, error) {
	b, err := r.view("read float64", off, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(order.Uint64(b)), nil
}

// BytesAt returns the n unread bytes at off. The returned slice aliases
// the underlying buffer and must be treated as read-only.
func (r *Reader) BytesAt(off, n int) ([]byte, error) {
	return r.view("read bytes", off, n)
}

// BufferAt returns a freshly allocated copy of the n unread bytes at off.
func (r *Reader) BufferAt(off, n int) ([]byte, error) {
	b, err := r.view("read buffer", off, n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (r *Reader) StringAt(off, n int) (string, error) {
	b, err := r.view("read string", off, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ZeroStringAt returns the bytes from off up to (excluding) the first
// zero byte. A missing terminator and a terminator at off both yield the
// empty string.
func (r *Reader) ZeroStringAt(off int) (string, error) {
	i, err := r.IndexOf(0, off)
	if err != nil {
		return "", err
	}
	if i < 0 {
		return "", nil
	}
	return string(r.buf[r.off+off : r.off+i]), nil
}

// BitsAt decodes count bits starting at byte offset off, LSB first
// within each byte.
func (r *Reader) BitsAt(off, count int) ([]bool, error) {
	if count < 0 {
		return nil, negativeErr("read bits", "count", count)
	}
	b, err := r.view("read bits", off, bitsSpan(count))
	if err != nil {
		return nil, err
	}
	return ExpandBits(b, count), nil
}

func (r *Reader) ReadByte() (byte, error) {
	v, err := r.ByteAt(0)
	if err != nil {
		return 0, err
	}
	r.off++
	return v, nil
}

func (r *Reader) ReadChar() (rune, error) {
	v, err := r.CharAt(0)
	if err != nil {
		return 0, err
	}
	r.off++
	return v, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	return r.ReadByte()
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.Int8At(0)
	if err != nil {
		return 0, err
	}
	r.off++
	return v, nil
}

func (r *Reader) ReadUint16(order binary.ByteOrder) (uint16, error) {
	v, err := r.Uint16At(0, order)
	if err != nil {
		return 0, err
	}
	r.off += 2
	return v, nil
}

func (r *Reader) ReadInt16(order binary.ByteOrder) (int16, error) {
	v, err := r.ReadUint16(order)
	return int16(v), err
}

func (r *Reader) ReadUint32(order binary.ByteOrder) (uint32, error) {
	v, err := r.Uint32At(0, order)
	if err != nil {
		return 0, err
	}
	r.off += 4
	return v, nil
}

func (r *Reader) ReadInt32(order binary.ByteOrder) (int32, error) {
	v, err := r.ReadUint32(order)
	return int32(v), err
}

func (r *Reader) ReadFloat32(order binary.ByteOrder) (float32, error) {
	v, err := r.Float32At(0, order)
	if err != nil {
		return 0, err
	}
	r.off += 4
	return v, nil
}

func (r *Reader) ReadFloat64(order binary.ByteOrder) (float64, error) {
	v, err := r.Float64At(0, order)
	if err != nil {
		return 0, err
	}
	r.off += 8
	return v, nil
}

// ReadBytes consumes and returns the next n bytes. The returned slice
// aliases the underlying buffer and must be treated as read-only.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.view("read bytes", 0, n)
	if err != nil {
		return nil, err
	}
	r.off += n
	return b, nil
}

// ReadBuffer consumes the next n bytes and returns them as a freshly
// allocated copy.
func (r *Reader) ReadBuffer(n int) ([]byte, error) {
	b, err := r.BufferAt(0, n)
	if err != nil {
		return nil, err
	}
	r.off += n
	return b, nil
}

func (r *Reader) ReadString(n int) (string, error) {
	s, err := r.StringAt(0, n)
	if err != nil {
		return "", err
	}
	r.off += n
	return s, nil
}

// ReadZeroString consumes and returns the bytes up to the first zero
// byte, consuming the terminator as well. Without a terminator it
// returns the empty string and consumes nothing.
func (r *Reader) ReadZeroString() (string, error) {
	i, err := r.IndexOf(0, 0)
	if err != nil {
		return "", err
	}
	if i < 0 {
		return "", nil
	}
	s := string(r.buf[r.off : r.off+i])
	r.off += i + 1
	return s, nil
}

// ReadBits consumes ceil(count/8) bytes and returns their first count
// bits, LSB first within each byte.
func (r *Reader) ReadBits(count int) ([]bool, error) {
	bits, err := r.BitsAt(0, count)
	if err != nil {
		return nil, err
	}
	r.off += bitsSpan(count)
	return bits, nil
}
