package varint

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/errs"
)

func newReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

func TestRead_SingleByte(t *testing.T) {
	src := bytesrc.FromReader(newReader([]byte{0x05}))

	v, err := Read(src)

	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)
}

func TestRead_MultiByte(t *testing.T) {
	// 300 = 0b1_0010_1100 -> low7=0101100|continue, high=10
	src := bytesrc.FromReader(newReader([]byte{0xAC, 0x02}))

	v, err := Read(src)

	require.NoError(t, err)
	assert.Equal(t, uint32(300), v)
}

func TestRead_TooLong(t *testing.T) {
	src := bytesrc.FromReader(newReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}))

	_, err := Read(src)

	require.ErrorIs(t, err, errs.ErrVarIntTooLong)
}

func TestAppend_RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 300, 1 << 20, 1<<28 - 1} {
		buf := Append(nil, v)
		src := bytesrc.FromReader(newReader(buf))

		got, err := Read(src)

		require.NoError(t, err)
		assert.Equal(t, v, got, "roundtrip for %d", v)
	}
}

func TestReadString(t *testing.T) {
	buf := AppendString(nil, "hello")
	src := bytesrc.FromReader(newReader(buf))

	s, err := ReadString(src)

	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}
