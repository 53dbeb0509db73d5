package persist

import (
	"bufio"
	"fmt"
	"hash"
	"os"
	"path/filepath"

	sha256 "github.com/spacemeshos/sha256-simd"
	"go.uber.org/zap"
)

// Writer streams bytes into a file, tracking the running digest and
// total length for the metadata sidecar written on Close.
type Writer struct {
	file      *os.File
	buf       *bufio.Writer
	chunkSize uint32
	total     uint64
	digest    hash.Hash
	logger    *zap.Logger
}

type WriterOpt func(*Writer)

func WithLogger(logger *zap.Logger) WriterOpt {
	return func(w *Writer) { w.logger = logger }
}

// NewWriter creates (or truncates) the stream file name. chunkSize is
// recorded in the metadata and used when the stream is replayed.
func NewWriter(name string, chunkSize int, opts ...WriterOpt) (*Writer, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive (got %d)", chunkSize)
	}
	if err := os.MkdirAll(filepath.Dir(name), OwnerReadWriteExec); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, OwnerReadWrite)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		file:      f,
		buf:       bufio.NewWriter(f),
		chunkSize: uint32(chunkSize),
		digest:    sha256.New(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Reserve verifies that the volume holding the stream file has room for
// n more bytes.
func (w *Writer) Reserve(n uint64) error {
	avail := AvailableSpace(filepath.Dir(w.file.Name()))
	if avail < n {
		return fmt.Errorf("%w: need %d, available %d", ErrInsufficientSpace, n, avail)
	}
	return nil
}

// Write appends p to the stream.
func (w *Writer) Write(p []byte) error {
	if _, err := w.buf.Write(p); err != nil {
		return fmt.Errorf("failed to write: %v", err)
	}
	w.digest.Write(p)
	w.total += uint64(len(p))
	return nil
}

// Flush forces buffered bytes out to the file.
func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush stream writer: %v", err)
	}
	return nil
}

// Close flushes the stream, writes the metadata sidecar and closes the
// file. The written metadata is returned.
func (w *Writer) Close() (*Metadata, error) {
	if err := w.buf.Flush(); err != nil {
		return nil, err
	}
	w.buf = nil

	m := &Metadata{
		ChunkSize:  w.chunkSize,
		TotalBytes: w.total,
	}
	w.digest.Sum(m.Digest[:0])

	if err := SaveMetadata(w.file.Name(), m); err != nil {
		return nil, err
	}

	w.logger.Info("stream persisted",
		zap.String("filename", w.file.Name()),
		zap.Uint64("size_in_bytes", w.total),
	)

	if err := w.file.Close(); err != nil {
		return nil, err
	}
	w.file = nil
	return m, nil
}
