package persist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	sha256 "github.com/spacemeshos/sha256-simd"

	"github.com/bufq/bufq"
)

// Reader replays a stream file chunk by chunk.
type Reader struct {
	file      *os.File
	buf       *bufio.Reader
	chunkSize int
}

// NewReader opens the stream file name for chunked reading.
func NewReader(name string, chunkSize int) (*Reader, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive (got %d)", chunkSize)
	}
	f, err := os.OpenFile(name, os.O_RDONLY, OwnerReadWrite)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:      f,
		buf:       bufio.NewReader(f),
		chunkSize: chunkSize,
	}, nil
}

// Open opens the stream file name using the chunk size recorded in its
// metadata sidecar.
func Open(name string) (*Reader, *Metadata, error) {
	m, err := LoadMetadata(name)
	if err != nil {
		return nil, nil, err
	}
	r, err := NewReader(name, int(m.ChunkSize))
	if err != nil {
		return nil, nil, err
	}
	return r, m, nil
}

// ReadChunk returns the next chunk of the stream. The final chunk may
// be shorter than the configured chunk size. Once the stream is
// exhausted it returns io.EOF.
func (r *Reader) ReadChunk() ([]byte, error) {
	chunk := make([]byte, r.chunkSize)
	n, err := io.ReadFull(r.buf, chunk)
	switch err {
	case nil:
		return chunk, nil
	case io.ErrUnexpectedEOF:
		return chunk[:n], nil
	default:
		return nil, err
	}
}

// Width returns the number of chunks the stream holds.
func (r *Reader) Width() (uint64, error) {
	info, err := r.file.Stat()
	if err != nil {
		return 0, err
	}
	size := uint64(info.Size())
	step := uint64(r.chunkSize)
	return (size + step - 1) / step, nil
}

func (r *Reader) Close() error {
	r.buf = nil
	return r.file.Close()
}

// Load reads the entire stream file into a segmented reader, one queue
// chunk per file chunk.
func Load(name string, chunkSize int) (*bufq.SegmentedReader, error) {
	r, err := NewReader(name, chunkSize)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	s := bufq.NewSegmentedReader()
	for {
		chunk, err := r.ReadChunk()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk: %v", err)
		}
		s.Push(chunk)
	}
	return s, nil
}

// LoadVerified loads the stream using its metadata sidecar and checks
// the content digest against the recorded one.
func LoadVerified(name string) (*bufq.SegmentedReader, *Metadata, error) {
	m, err := LoadMetadata(name)
	if err != nil {
		return nil, nil, err
	}
	s, err := Load(name, int(m.ChunkSize))
	if err != nil {
		return nil, nil, err
	}
	if uint64(s.Len()) != m.TotalBytes {
		return nil, nil, fmt.Errorf("%w: length %d, metadata records %d",
			ErrDigestMismatch, s.Len(), m.TotalBytes)
	}

	digest := sha256.New()
	content, err := s.BufferAt(0, s.Len())
	if err != nil {
		return nil, nil, err
	}
	digest.Write(content)
	if !bytes.Equal(digest.Sum(nil), m.Digest[:]) {
		return nil, nil, ErrDigestMismatch
	}
	return s, m, nil
}
