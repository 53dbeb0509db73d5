package bufq

import (
	"encoding/binary"
	"fmt"
	"math"
)

// writeOp is one deferred write: a fixed byte width and the action that
// fills it in at a computed offset during materialization.
type writeOp struct {
	width int
	write func(dst []byte, off int)
}

// Builder accumulates deferred typed writes and materializes them into
// one contiguous buffer on demand. Pushers chain; the first validation
// failure sticks and is surfaced by Bytes.
type Builder struct {
	ops  []writeOp
	size int
	err  error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return new(Builder)
}

// Len returns the total byte width of all pushed operations.
func (b *Builder) Len() int {
	return b.size
}

// Err returns the first validation failure recorded by a pusher, if any.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) push(width int, write func(dst []byte, off int)) *Builder {
	b.ops = append(b.ops, writeOp{width: width, write: write})
	b.size += width
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) PushByte(v byte) *Builder {
	return b.push(1, func(dst []byte, off int) { dst[off] = v })
}

// PushChar pushes a single-byte character. Code points above 255 are out
// of the byte domain.
func (b *Builder) PushChar(c rune) *Builder {
	if c < 0 || c > 0xFF {
		return b.fail(fmt.Errorf("push char: %q is not a single byte: %w", c, ErrDomain))
	}
	return b.PushByte(byte(c))
}

func (b *Builder) PushUint8(v uint8) *Builder {
	return b.PushByte(v)
}

func (b *Builder) PushInt8(v int8) *Builder {
	return b.PushByte(byte(v))
}

func (b *Builder) PushUint16(v uint16, order binary.ByteOrder) *Builder {
	return b.push(2, func(dst []byte, off int) { order.PutUint16(dst[off:off+2], v) })
}

func (b *Builder) PushInt16(v int16, order binary.ByteOrder) *Builder {
	return b.PushUint16(uint16(v), order)
}

func (b *Builder) PushUint32(v uint32, order binary.ByteOrder) *Builder {
	return b.push(4, func(dst []byte, off int) { order.PutUint32(dst[off:off+4], v) })
}

func (b *Builder) PushInt32(v int32, order binary.ByteOrder) *Builder {
	return b.PushUint32(uint32(v), order)
}

// PushFloat32 pushes an IEEE-754 single precision value. NaN and the
// infinities are rejected.
func (b *Builder) PushFloat32(v float32, order binary.ByteOrder) *Builder {
	if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
		return b.fail(fmt.Errorf("push float32: %v is not finite: %w", v, ErrDomain))
	}
	return b.PushUint32(math.Float32bits(v), order)
}

// PushFloat64 pushes an IEEE-754 double precision value. NaN and the
// infinities are rejected.
func (b *Builder) PushFloat64(v float64, order binary.ByteOrder) *Builder {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return b.fail(fmt.Errorf("push float64: %v is not finite: %w", v, ErrDomain))
	}
	return b.push(8, func(dst []byte, off int) { order.PutUint64(dst[off:off+8], math.Float64bits(v)) })
}

// PushUint pushes v as a width-byte unsigned integer. width must be 1, 2
// or 4; a value that does not fit the width is out of domain.
func (b *Builder) PushUint(v uint64, width int, order binary.ByteOrder) *Builder {
	switch width {
	case 1, 2, 4:
	default:
		return b.fail(fmt.Errorf("push uint: unsupported width %d: %w", width, ErrInvalidArgument))
	}
	if v > 1<<(8*uint(width))-1 {
		return b.fail(fmt.Errorf("push uint: %d exceeds %d byte(s): %w", v, width, ErrDomain))
	}
	return b.push(width, func(dst []byte, off int) {
		switch width {
		case 1:
			dst[off] = byte(v)
		case 2:
			order.PutUint16(dst[off:off+2], uint16(v))
		case 4:
			order.PutUint32(dst[off:off+4], uint32(v))
		}
	})
}

// PushInt pushes v as a width-byte two's complement integer. width must
// be 1, 2 or 4; a value that does not fit the width is out of domain.
func (b *Builder) PushInt(v int64, width int, order binary.ByteOrder) *Builder {
	switch width {
	case 1, 2, 4:
	default:
		return b.fail(fmt.Errorf("push int: unsupported width %d: %w", width, ErrInvalidArgument))
	}
	limit := int64(1) << (8*uint(width) - 1)
	if v < -limit || v > limit-1 {
		return b.fail(fmt.Errorf("push int: %d exceeds %d byte(s): %w", v, width, ErrDomain))
	}
	return b.push(width, func(dst []byte, off int) {
		switch width {
		case 1:
			dst[off] = byte(v)
		case 2:
			order.PutUint16(dst[off:off+2], uint16(v))
		case 4:
			order.PutUint32(dst[off:off+4], uint32(v))
		}
	})
}

// PushBytes pushes the contents of p, holding a reference to the
// caller's slice until materialization. A no-op on empty input.
func (b *Builder) PushBytes(p []byte) *Builder {
	if len(p) == 0 {
		return b
	}
	return b.push(len(p), func(dst []byte, off int) { copy(dst[off:], p) })
}

// PushBuffer pushes a private copy of p, taken immediately. A no-op on
// empty input.
func (b *Builder) PushBuffer(p []byte) *Builder {
	return b.PushBytes(append([]byte(nil), p...))
}

// PushString pushes the raw bytes of s. A no-op on the empty string.
func (b *Builder) PushString(s string) *Builder {
	if len(s) == 0 {
		return b
	}
	return b.push(len(s), func(dst []byte, off int) { copy(dst[off:], s) })
}

// PushZeroString pushes the raw bytes of s followed by a terminating
// zero byte. The empty string still appends the terminator.
func (b *Builder) PushZeroString(s string) *Builder {
	return b.PushString(s).PushByte(0)
}

// PushBits packs the given bits 8 per byte, LSB first, zero-filling the
// high bits of a trailing partial byte. A no-op on empty input.
func (b *Builder) PushBits(bits []bool) *Builder {
	if len(bits) == 0 {
		return b
	}
	data := PackBits(bits)
	return b.push(len(data), func(dst []byte, off int) { copy(dst[off:], data) })
}

// Bytes materializes the pushed operations into a buffer of exactly
// Len() bytes, replaying each write at the offset computed from the
// widths of all prior operations. It may be called repeatedly; each call
// replays the full operation log into a fresh buffer.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]byte, b.size)
	off := 0
	for _, op := range b.ops {
		op.write(out, off)
		off += op.width
	}
	return out, nil
}
