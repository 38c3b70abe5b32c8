package bytesrc

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromReader_ReadFullAndByte(t *testing.T) {
	src := FromReader(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))

	buf := make([]byte, 2)
	require.NoError(t, src.ReadFull(buf))
	assert.Equal(t, []byte{0x01, 0x02}, buf)

	b, err := src.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x03), b)
}

func TestFromReader_EOF(t *testing.T) {
	src := FromReader(bytes.NewReader([]byte{}))

	_, err := src.ReadByte()

	require.ErrorIs(t, err, io.EOF)
}

func TestFromReader_UnexpectedEOF(t *testing.T) {
	src := FromReader(bytes.NewReader([]byte{0x01}))

	buf := make([]byte, 4)
	err := src.ReadFull(buf)

	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestHexCapture_LogsReads(t *testing.T) {
	var log bytes.Buffer
	src := NewHexCapture(FromReader(bytes.NewReader([]byte{0xAB, 0xCD})), &log)

	_, err := src.ReadByte()
	require.NoError(t, err)

	buf := make([]byte, 1)
	require.NoError(t, src.ReadFull(buf))

	assert.Equal(t, "0 ab\n1 cd\n", log.String())
}
