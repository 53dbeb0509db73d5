// Package persist stores byte streams on disk as files that can be
// replayed through the segmented reader in fixed-size chunks, together
// with a metadata sidecar describing the stream.
package persist

import (
	"errors"

	"github.com/ricochet2200/go-disk-usage/du"
)

// OwnerReadWriteExec is a standard owner read / write / exec file permission.
const OwnerReadWriteExec = 0700

// OwnerReadWrite is a standard owner read / write file permission.
const OwnerReadWrite = 0600

var (
	ErrInsufficientSpace = errors.New("insufficient disk space")
	ErrDigestMismatch    = errors.New("stream digest mismatch")
	ErrMetadataNotFound  = errors.New("metadata file not found")
)

// AvailableSpace returns the number of bytes available on the volume
// holding path.
func AvailableSpace(path string) uint64 {
	usage := du.NewDiskUsage(path)
	return usage.Available()
}
