package bufq

import (
	"encoding/binary"
	"fmt"
)

// ByteReader is the decoding contract shared by Reader and
// SegmentedReader. Offsets are relative to the current unread start.
// Consuming accessors decode at relative offset 0 and advance past the
// decoded bytes; At accessors never alter reader state.
type ByteReader interface {
	Len() int
	Skip(n int) (int, error)
	IndexOf(c byte, from int) (int, error)
	Copy(dst []byte, dstOff, srcOff, srcEnd int) (int, error)

	ByteAt(off int) (byte, error)
	CharAt(off int) (rune, error)
	Uint8At(off int) (uint8, error)
	Int8At(off int) (int8, error)
	Uint16At(off int, order binary.ByteOrder) (uint16, error)
	Int16At(off int, order binary.ByteOrder) (int16, error)
	Uint32At(off int, order binary.ByteOrder) (uint32, error)
	Int32At(off int, order binary.ByteOrder) (int32, error)
	Float32At(off int, order binary.ByteOrder) (float32, error)
	Float64At(off int, order binary.ByteOrder) (float64, error)
	BytesAt(off, n int) ([]byte, error)
	BufferAt(off, n int) ([]byte, error)
	StringAt(off, n int) (string, error)
	ZeroStringAt(off int) (string, error)
	BitsAt(off, count int) ([]bool, error)

	ReadByte() (byte, error)
	ReadChar() (rune, error)
	ReadUint8() (uint8, error)
	ReadInt8() (int8, error)
	ReadUint16(order binary.ByteOrder) (uint16, error)
	ReadInt16(order binary.ByteOrder) (int16, error)
	ReadUint32(order binary.ByteOrder) (uint32, error)
	ReadInt32(order binary.ByteOrder) (int32, error)
	ReadFloat32(order binary.ByteOrder) (float32, error)
	ReadFloat64(order binary.ByteOrder) (float64, error)
	ReadBytes(n int) ([]byte, error)
	ReadBuffer(n int) ([]byte, error)
	ReadString(n int) (string, error)
	ReadZeroString() (string, error)
	ReadBits(count int) ([]bool, error)
}

// A compile time check to ensure that both readers fully implement the
// ByteReader contract.
var (
	_ ByteReader = (*Reader)(nil)
	_ ByteReader = (*SegmentedReader)(nil)
)

// checkIndexFrom validates an IndexOf start position against the unread
// length.
func checkIndexFrom(from, length int) error {
	if from < 0 || from > length {
		return fmt.Errorf("index of: start %d outside [0, %d]: %w", from, length, ErrInvalidArgument)
	}
	return nil
}

// checkCopyArgs validates Copy positions. srcLen is the reader's unread
// length, dstLen the target's capacity.
func checkCopyArgs(dstLen, dstOff, srcOff, srcEnd, srcLen int) error {
	if dstOff < 0 || dstOff > dstLen {
		return fmt.Errorf("copy: target start %d outside [0, %d]: %w", dstOff, dstLen, ErrInvalidArgument)
	}
	if srcOff < 0 || srcEnd > srcLen {
		return fmt.Errorf("copy: source range [%d, %d) outside [0, %d]: %w", srcOff, srcEnd, srcLen, ErrInvalidArgument)
	}
	if srcOff >= srcEnd {
		return fmt.Errorf("copy: source start %d is not below source end %d: %w", srcOff, srcEnd, ErrInvalidArgument)
	}
	return nil
}

// bitsSpan returns the number of bytes a count-bit read occupies.
func bitsSpan(count int) int {
	return (count + 7) / 8
}
