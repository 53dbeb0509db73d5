package frame_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bufq/bufq/frame"
)

func TestFramerRoundTrip(t *testing.T) {
	req := require.New(t)

	f := frame.New(frame.WithLogger(zaptest.NewLogger(t)))

	msgs := [][]byte{
		[]byte("hello"),
		{},
		[]byte("a longer message that spans several pushed chunks"),
	}
	var wire []byte
	for _, msg := range msgs {
		enc, err := f.Encode(msg)
		req.NoError(err)
		wire = append(wire, enc...)
	}

	// Deliver the wire bytes one at a time, the worst possible framing.
	var got [][]byte
	for _, b := range wire {
		f.Push([]byte{b})
		for {
			msg, err := f.Next()
			req.NoError(err)
			if msg == nil {
				break
			}
			got = append(got, msg)
		}
	}

	req.Len(got, len(msgs))
	for i := range msgs {
		req.Equal([]byte(msgs[i]), got[i])
	}
	req.Zero(f.Pending())
}

func TestFramerEmptyMessage(t *testing.T) {
	req := require.New(t)

	f := frame.New()
	enc, err := f.Encode(nil)
	req.NoError(err)
	req.Equal([]byte{0, 0, 0, 0}, enc)

	f.Push(enc)
	msg, err := f.Next()
	req.NoError(err)
	req.NotNil(msg)
	req.Empty(msg)
}

func TestFramerIncomplete(t *testing.T) {
	req := require.New(t)

	f := frame.New()

	f.Push([]byte{0, 0})
	msg, err := f.Next()
	req.NoError(err)
	req.Nil(msg)

	f.Push([]byte{0, 3, 'a', 'b'})
	msg, err = f.Next()
	req.NoError(err)
	req.Nil(msg)
	req.Equal(6, f.Pending())

	f.Push([]byte{'c'})
	msg, err = f.Next()
	req.NoError(err)
	req.Equal([]byte("abc"), msg)
	req.Zero(f.Pending())
}

func TestFramerTooLarge(t *testing.T) {
	req := require.New(t)

	f := frame.New(frame.WithMaxSize(8))

	_, err := f.Encode(make([]byte, 9))
	req.ErrorIs(err, frame.ErrFrameTooLarge)

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], 9)
	f.Push(prefix[:])
	_, err = f.Next()
	req.ErrorIs(err, frame.ErrFrameTooLarge)
}

func TestFramerLittleEndianPrefix(t *testing.T) {
	req := require.New(t)

	f := frame.New(frame.WithByteOrder(binary.LittleEndian))

	enc, err := f.Encode([]byte("x"))
	req.NoError(err)
	req.Equal([]byte{1, 0, 0, 0, 'x'}, enc)

	f.Push(enc[:2], enc[2:])
	msg, err := f.Next()
	req.NoError(err)
	req.Equal([]byte("x"), msg)
}
