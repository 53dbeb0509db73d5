// Package bufq provides readers and a builder for fixed binary byte
// sequences that may be split across discontiguous chunks.
//
// Reader decodes typed values from a single immutable byte buffer.
// SegmentedReader exposes the same decoding contract over a growable queue
// of separately allocated chunks, transparently crossing chunk boundaries
// and reclaiming fully consumed chunks. Builder accumulates deferred typed
// writes and materializes them into one contiguous buffer on demand.
//
// Both readers offer every accessor in two forms: an absolute form with an
// At suffix that decodes at a relative offset without touching reader
// state, and a consuming form with a Read prefix that decodes at the
// current position and advances past the decoded bytes. Multi-byte
// accessors take an explicit binary.ByteOrder; there is no implicit
// default.
//
// Instances are not safe for concurrent use. Chunks handed to a reader are
// treated as immutable and are never copied unless an accessor documents
// that it returns an owned buffer.
package bufq
