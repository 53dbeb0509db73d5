package bufq_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bufq/bufq"
)

func TestBuilderUint16RoundTrip(t *testing.T) {
	req := require.New(t)

	orders := []binary.ByteOrder{binary.BigEndian, binary.LittleEndian}
	for _, order := range orders {
		for v := 0; v <= math.MaxUint16; v++ {
			buf, err := bufq.NewBuilder().PushUint16(uint16(v), order).Bytes()
			req.NoError(err)
			req.Len(buf, 2)

			got, err := bufq.NewReader(buf).ReadUint16(order)
			req.NoError(err)
			req.Equal(uint16(v), got)
		}
	}
}

func TestBuilderIdempotentBytes(t *testing.T) {
	req := require.New(t)

	b := bufq.NewBuilder().
		PushZeroString("twice").
		PushInt32(-42, binary.BigEndian).
		PushBits([]bool{false, true, true})

	first, err := b.Bytes()
	req.NoError(err)
	second, err := b.Bytes()
	req.NoError(err)
	req.Equal(first, second)

	// Materializing must not disturb builder state.
	req.Equal(len(first), b.Len())
}

func TestBuilderLen(t *testing.T) {
	req := require.New(t)

	b := bufq.NewBuilder()
	req.Zero(b.Len())

	b.PushByte(1)
	req.Equal(1, b.Len())
	b.PushUint32(7, binary.BigEndian)
	req.Equal(5, b.Len())
	b.PushFloat64(1.5, binary.LittleEndian)
	req.Equal(13, b.Len())
	b.PushString("abc")
	req.Equal(16, b.Len())
}

func TestBuilderEmptyPushes(t *testing.T) {
	req := require.New(t)

	buf, err := bufq.NewBuilder().
		PushBytes(nil).
		PushBuffer(nil).
		PushString("").
		PushBits(nil).
		Bytes()
	req.NoError(err)
	req.Empty(buf)

	// The empty zero string still carries its terminator.
	buf, err = bufq.NewBuilder().PushZeroString("").Bytes()
	req.NoError(err)
	req.Equal([]byte{0}, buf)
}

func TestBuilderBitsPadding(t *testing.T) {
	req := require.New(t)

	for count := 1; count <= 17; count++ {
		bits := make([]bool, count)
		for i := range bits {
			bits[i] = i%2 == 0
		}

		buf, err := bufq.NewBuilder().PushBits(bits).Bytes()
		req.NoError(err)
		req.Len(buf, (count+7)/8)

		got, err := bufq.NewReader(buf).BitsAt(0, count)
		req.NoError(err)
		req.Equal(bits, got, "count=%d", count)
	}
}

func TestBuilderBytesVersusBuffer(t *testing.T) {
	req := require.New(t)

	src := []byte{1, 2, 3}
	b := bufq.NewBuilder().PushBytes(src).PushBuffer(src)

	// PushBytes defers reading the caller's slice until materialization;
	// PushBuffer snapshots it at push time.
	src[0] = 0xAA
	buf, err := b.Bytes()
	req.NoError(err)
	req.Equal([]byte{0xAA, 2, 3, 1, 2, 3}, buf)
}

func TestBuilderWidthPushers(t *testing.T) {
	req := require.New(t)

	buf, err := bufq.NewBuilder().
		PushUint(0xABCD, 2, binary.BigEndian).
		PushInt(-2, 1, binary.BigEndian).
		PushInt(-100000, 4, binary.LittleEndian).
		Bytes()
	req.NoError(err)

	r := bufq.NewReader(buf)
	u16, err := r.ReadUint16(binary.BigEndian)
	req.NoError(err)
	req.Equal(uint16(0xABCD), u16)
	i8, err := r.ReadInt8()
	req.NoError(err)
	req.Equal(int8(-2), i8)
	i32, err := r.ReadInt32(binary.LittleEndian)
	req.NoError(err)
	req.Equal(int32(-100000), i32)
}

func TestBuilderDomainErrors(t *testing.T) {
	req := require.New(t)

	_, err := bufq.NewBuilder().PushUint(256, 1, binary.BigEndian).Bytes()
	req.ErrorIs(err, bufq.ErrDomain)

	_, err = bufq.NewBuilder().PushInt(128, 1, binary.BigEndian).Bytes()
	req.ErrorIs(err, bufq.ErrDomain)

	_, err = bufq.NewBuilder().PushInt(-129, 1, binary.BigEndian).Bytes()
	req.ErrorIs(err, bufq.ErrDomain)

	_, err = bufq.NewBuilder().PushUint(1, 3, binary.BigEndian).Bytes()
	req.ErrorIs(err, bufq.ErrInvalidArgument)

	_, err = bufq.NewBuilder().PushFloat32(float32(math.NaN()), binary.BigEndian).Bytes()
	req.ErrorIs(err, bufq.ErrDomain)

	_, err = bufq.NewBuilder().PushFloat64(math.Inf(1), binary.BigEndian).Bytes()
	req.ErrorIs(err, bufq.ErrDomain)

	_, err = bufq.NewBuilder().PushChar('€').Bytes()
	req.ErrorIs(err, bufq.ErrDomain)
}

func TestBuilderStickyError(t *testing.T) {
	req := require.New(t)

	b := bufq.NewBuilder().
		PushByte(1).
		PushUint(1<<20, 2, binary.BigEndian). // out of domain
		PushByte(2)

	req.Error(b.Err())
	_, err := b.Bytes()
	req.ErrorIs(err, bufq.ErrDomain)
}

func TestBuilderChaining(t *testing.T) {
	req := require.New(t)

	buf, err := bufq.NewBuilder().
		PushChar('!').
		PushUint8(0x10).
		PushInt16(-1, binary.BigEndian).
		PushString("ok").
		Bytes()
	req.NoError(err)
	req.Equal([]byte{'!', 0x10, 0xFF, 0xFF, 'o', 'k'}, buf)
}
