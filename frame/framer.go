// Package frame implements length-prefixed message framing on top of the
// segmented reader: incoming transport chunks are pushed as-is, complete
// messages are shifted out once their prefix and payload have fully
// arrived.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bufq/bufq"
)

// prefixSize is the byte width of the frame length prefix.
const prefixSize = 4

// DefaultMaxSize is the frame payload limit applied unless overridden
// with WithMaxSize.
const DefaultMaxSize = 1 << 20

var ErrFrameTooLarge = errors.New("frame exceeds max size")

// Framer assembles complete messages from a stream of transport chunks.
// It is not safe for concurrent use.
type Framer struct {
	buf     *bufq.SegmentedReader
	order   binary.ByteOrder
	maxSize uint32
	logger  *zap.Logger
}

type Opt func(*Framer)

// WithByteOrder sets the byte order of the length prefix. The default is
// big-endian network order.
func WithByteOrder(order binary.ByteOrder) Opt {
	return func(f *Framer) { f.order = order }
}

// WithMaxSize caps the accepted frame payload size.
func WithMaxSize(n uint32) Opt {
	return func(f *Framer) { f.maxSize = n }
}

func WithLogger(logger *zap.Logger) Opt {
	return func(f *Framer) { f.logger = logger }
}

// New returns an empty framer.
func New(opts ...Opt) *Framer {
	f := &Framer{
		buf:     bufq.NewSegmentedReader(),
		order:   binary.BigEndian,
		maxSize: DefaultMaxSize,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Push buffers incoming transport chunks. Chunks are retained by
// reference and must not be mutated afterwards.
func (f *Framer) Push(chunks ...[]byte) {
	f.buf.Push(chunks...)
	f.logger.Debug("chunks buffered", zap.Int("pending", f.buf.Len()))
}

// Pending returns the number of buffered bytes not yet shifted out.
func (f *Framer) Pending() int {
	return f.buf.Len()
}

// Next shifts the next complete message out of the buffer. It returns
// (nil, nil) while the next frame has not fully arrived. The returned
// payload is an owned copy.
func (f *Framer) Next() ([]byte, error) {
	if f.buf.Len() < prefixSize {
		return nil, nil
	}
	size, err := f.buf.Uint32At(0, f.order)
	if err != nil {
		return nil, err
	}
	if size > f.maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, size, f.maxSize)
	}
	if f.buf.Len() < prefixSize+int(size) {
		return nil, nil
	}

	if _, err := f.buf.Skip(prefixSize); err != nil {
		return nil, err
	}
	msg, err := f.buf.ReadBuffer(int(size))
	if err != nil {
		return nil, err
	}
	f.logger.Debug("frame shifted",
		zap.Uint32("size", size),
		zap.Int("pending", f.buf.Len()),
	)
	return msg, nil
}

// Encode prefixes msg with its length in the framer's byte order,
// producing a buffer that a peer framer will decode back into msg.
func (f *Framer) Encode(msg []byte) ([]byte, error) {
	if uint64(len(msg)) > uint64(f.maxSize) {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(msg), f.maxSize)
	}
	return bufq.NewBuilder().
		PushUint(uint64(len(msg)), prefixSize, f.order).
		PushBuffer(msg).
		Bytes()
}
