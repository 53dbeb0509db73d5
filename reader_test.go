package bufq_test

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bufq/bufq"
)

func TestReaderSequentialBytes(t *testing.T) {
	req := require.New(t)

	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	r := bufq.NewReader(data)

	for i := range data {
		req.Equal(len(data)-i, r.Len())
		b, err := r.ReadByte()
		req.NoError(err)
		req.Equal(data[i], b)
	}
	req.Zero(r.Len())

	_, err := r.ReadByte()
	req.ErrorIs(err, bufq.ErrOutOfRange)
}

func TestReaderAtDoesNotConsume(t *testing.T) {
	req := require.New(t)

	r := bufq.NewReader([]byte{0xAB, 0xCD, 0x0F})

	for i := 0; i < 3; i++ {
		v, err := r.Uint16At(0, binary.BigEndian)
		req.NoError(err)
		req.Equal(uint16(0xABCD), v)
	}
	req.Equal(3, r.Len())

	b, err := r.ByteAt(2)
	req.NoError(err)
	req.Equal(byte(0x0F), b)
	req.Equal(3, r.Len())
}

func TestReaderExampleScenario(t *testing.T) {
	req := require.New(t)

	buf, err := bufq.NewBuilder().
		PushUint16(0xABCD, binary.BigEndian).
		PushByte(0x0F).
		Bytes()
	req.NoError(err)

	r := bufq.NewReader(buf)
	v, err := r.ReadUint16(binary.BigEndian)
	req.NoError(err)
	req.Equal(uint16(43981), v)

	b, err := r.ReadByte()
	req.NoError(err)
	req.Equal(byte(15), b)
	req.Zero(r.Len())
}

func TestReaderIntegers(t *testing.T) {
	req := require.New(t)

	buf, err := bufq.NewBuilder().
		PushInt8(-5).
		PushInt16(-513, binary.LittleEndian).
		PushInt32(-70000, binary.BigEndian).
		PushUint32(0xDEADBEEF, binary.LittleEndian).
		Bytes()
	req.NoError(err)

	r := bufq.NewReader(buf)

	i8, err := r.ReadInt8()
	req.NoError(err)
	req.Equal(int8(-5), i8)

	i16, err := r.ReadInt16(binary.LittleEndian)
	req.NoError(err)
	req.Equal(int16(-513), i16)

	i32, err := r.ReadInt32(binary.BigEndian)
	req.NoError(err)
	req.Equal(int32(-70000), i32)

	u32, err := r.ReadUint32(binary.LittleEndian)
	req.NoError(err)
	req.Equal(uint32(0xDEADBEEF), u32)
	req.Zero(r.Len())
}

func TestReaderFloats(t *testing.T) {
	req := require.New(t)

	buf, err := bufq.NewBuilder().
		PushFloat32(3.5, binary.BigEndian).
		PushFloat64(-math.Pi, binary.LittleEndian).
		Bytes()
	req.NoError(err)

	r := bufq.NewReader(buf)

	f32, err := r.ReadFloat32(binary.BigEndian)
	req.NoError(err)
	req.Equal(float32(3.5), f32)

	f64, err := r.ReadFloat64(binary.LittleEndian)
	req.NoError(err)
	req.Equal(-math.Pi, f64)
}

func TestReaderSkip(t *testing.T) {
	req := require.New(t)

	r := bufq.NewReader([]byte{1, 2, 3, 4, 5})

	n, err := r.Skip(2)
	req.NoError(err)
	req.Equal(2, n)
	req.Equal(3, r.Len())

	// Clamps silently past the end.
	n, err = r.Skip(10)
	req.NoError(err)
	req.Equal(3, n)
	req.Zero(r.Len())

	_, err = r.Skip(-1)
	req.ErrorIs(err, bufq.ErrInvalidArgument)
}

func TestReaderIndexOf(t *testing.T) {
	req := require.New(t)

	r := bufq.NewReader([]byte{10, 20, 30, 20, 40})

	i, err := r.IndexOf(20, 0)
	req.NoError(err)
	req.Equal(1, i)

	i, err = r.IndexOf(20, 2)
	req.NoError(err)
	req.Equal(3, i)

	i, err = r.IndexOf(99, 0)
	req.NoError(err)
	req.Equal(-1, i)

	_, err = r.IndexOf(20, 6)
	req.ErrorIs(err, bufq.ErrInvalidArgument)

	// Consumption shifts the relative index space.
	_, err = r.Skip(1)
	req.NoError(err)
	i, err = r.IndexOf(20, 0)
	req.NoError(err)
	req.Equal(0, i)
}

func TestReaderCopy(t *testing.T) {
	req := require.New(t)

	r := bufq.NewReader([]byte{1, 2, 3, 4, 5})

	dst := make([]byte, 3)
	n, err := r.Copy(dst, 0, 1, 4)
	req.NoError(err)
	req.Equal(3, n)
	req.Equal([]byte{2, 3, 4}, dst)
	req.Equal(5, r.Len())

	// Truncated to the target's remaining capacity.
	dst = make([]byte, 2)
	n, err = r.Copy(dst, 1, 0, 5)
	req.NoError(err)
	req.Equal(1, n)
	req.Equal(byte(1), dst[1])

	_, err = r.Copy(dst, 0, 3, 3)
	req.ErrorIs(err, bufq.ErrInvalidArgument)
	_, err = r.Copy(dst, 0, 0, 6)
	req.ErrorIs(err, bufq.ErrInvalidArgument)
}

func TestReaderBytesAndBuffer(t *testing.T) {
	req := require.New(t)

	data := []byte{1, 2, 3, 4}
	r := bufq.NewReader(data)

	view, err := r.BytesAt(1, 2)
	req.NoError(err)
	req.Equal([]byte{2, 3}, view)

	owned, err := r.BufferAt(1, 2)
	req.NoError(err)
	req.Equal([]byte{2, 3}, owned)

	// BytesAt aliases the chunk, BufferAt owns its memory.
	data[1] = 0xEE
	req.Equal(byte(0xEE), view[0])
	req.Equal(byte(2), owned[0])

	got, err := r.ReadBuffer(4)
	req.NoError(err)
	req.Equal([]byte{0xEE, 2, 3, 4}, got)
	req.Zero(r.Len())
}

func TestReaderStrings(t *testing.T) {
	req := require.New(t)

	r := bufq.NewReader([]byte("hello\x00world"))

	s, err := r.StringAt(6, 5)
	req.NoError(err)
	req.Equal("world", s)

	c, err := r.ReadChar()
	req.NoError(err)
	req.Equal('h', c)

	s, err = r.ReadString(4)
	req.NoError(err)
	req.Equal("ello", s)

	_, err = r.StringAt(0, 10)
	req.ErrorIs(err, bufq.ErrOutOfRange)
}

func TestReaderZeroString(t *testing.T) {
	req := require.New(t)

	r := bufq.NewReader([]byte("abc\x00def"))

	s, err := r.ZeroStringAt(0)
	req.NoError(err)
	req.Equal("abc", s)
	req.Equal(7, r.Len())

	s, err = r.ReadZeroString()
	req.NoError(err)
	req.Equal("abc", s)
	req.Equal(3, r.Len())

	// No terminator left: empty string, nothing consumed.
	s, err = r.ReadZeroString()
	req.NoError(err)
	req.Equal("", s)
	req.Equal(3, r.Len())

	// Terminator at the very start also yields the empty string.
	r = bufq.NewReader([]byte{0, 'x'})
	s, err = r.ReadZeroString()
	req.NoError(err)
	req.Equal("", s)
	req.Equal(1, r.Len())
}

func TestReaderBits(t *testing.T) {
	req := require.New(t)

	r := bufq.NewReader([]byte{0b10110101, 0b00000011})

	bits, err := r.BitsAt(0, 5)
	req.NoError(err)
	req.Equal([]bool{true, false, true, false, true}, bits)
	req.Equal(2, r.Len())

	got, err := r.ReadBits(10)
	req.NoError(err)
	req.Len(got, 10)
	req.Equal([]bool{true, false, true, false, true, true, false, true, true, true}, got)
	req.Zero(r.Len())

	_, err = r.ReadBits(1)
	req.ErrorIs(err, bufq.ErrOutOfRange)
}

func TestReaderRangeError(t *testing.T) {
	req := require.New(t)

	r := bufq.NewReader([]byte{1, 2})

	_, err := r.Uint32At(1, binary.BigEndian)
	req.ErrorIs(err, bufq.ErrOutOfRange)

	var re *bufq.RangeError
	req.True(errors.As(err, &re))
	req.Equal(1, re.Offset)
	req.Equal(4, re.Need)
	req.Equal(2, re.Have)

	// Failed reads leave the reader untouched.
	req.Equal(2, r.Len())
}
