package persist

import (
	"bytes"
	"fmt"
	"os"

	xdr "github.com/nullstyle/go-xdr/xdr3"
)

// metadataSuffix is appended to the stream filename to form the sidecar
// filename.
const metadataSuffix = ".meta"

// Metadata describes a persisted stream: the chunk size it should be
// replayed with, its total length, and the SHA-256 digest of its
// contents.
type Metadata struct {
	ChunkSize  uint32
	TotalBytes uint64
	Digest     [32]byte
}

// SaveMetadata writes the metadata sidecar for the stream file name.
func SaveMetadata(name string, m *Metadata) error {
	var w bytes.Buffer
	if _, err := xdr.Marshal(&w, m); err != nil {
		return fmt.Errorf("metadata serialization failure: %v", err)
	}
	if err := os.WriteFile(name+metadataSuffix, w.Bytes(), OwnerReadWrite); err != nil {
		return fmt.Errorf("metadata write failure: %v", err)
	}
	return nil
}

// LoadMetadata reads the metadata sidecar for the stream file name.
func LoadMetadata(name string) (*Metadata, error) {
	data, err := os.ReadFile(name + metadataSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMetadataNotFound
		}
		return nil, fmt.Errorf("metadata read failure: %v", err)
	}

	m := &Metadata{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), m); err != nil {
		return nil, fmt.Errorf("metadata deserialization failure: %v", err)
	}
	return m, nil
}
