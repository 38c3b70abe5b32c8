package record

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/errs"
)

func streamPrefix() []byte {
	var buf []byte
	buf = appendInt32(buf, 1)
	buf = appendInt32(buf, -1)
	buf = appendInt32(buf, 1)
	buf = appendInt32(buf, 0)
	return buf
}

func TestDecode_BinaryArraySinglePrimitive(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(streamPrefix())

	buf.WriteByte(byte(TagBinaryArray))
	buf.Write(appendInt32(nil, 5))          // objectID
	buf.WriteByte(byte(ArraySingle))        // kind
	buf.Write(appendInt32(nil, 1))          // rank
	buf.Write(appendInt32(nil, 3))          // lengths[0]
	buf.WriteByte(0)                        // element type: binarytype.Primitive
	buf.WriteByte(8)                        // primitive.Int32 sub-tag
	buf.Write(appendInt32(nil, 10))
	buf.Write(appendInt32(nil, 20))
	buf.Write(appendInt32(nil, 30))

	buf.WriteByte(byte(TagMessageEnd))

	src := bytesrc.FromReader(&buf)
	s, err := Decode(src)

	require.NoError(t, err)
	rec := s.Records[1]
	require.NotNil(t, rec.Array)
	require.NotNil(t, rec.Array.PrimValues)
	require.Len(t, rec.Array.PrimValues.Values, 3)
	assert.Equal(t, int64(10), rec.Array.PrimValues.Values[0].I64)
	assert.Equal(t, int64(30), rec.Array.PrimValues.Values[2].I64)
}

func TestDecode_BinaryArrayJaggedUnsupported(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(streamPrefix())

	buf.WriteByte(byte(TagBinaryArray))
	buf.Write(appendInt32(nil, 5))
	buf.WriteByte(byte(ArrayJagged))
	buf.Write(appendInt32(nil, 1))
	buf.Write(appendInt32(nil, 2))
	buf.WriteByte(0)
	buf.WriteByte(8)

	src := bytesrc.FromReader(&buf)
	_, err := Decode(src)

	require.ErrorIs(t, err, errs.ErrUnsupportedInlineArray)
}

func TestDecode_ArraySinglePrimitive(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(streamPrefix())

	buf.WriteByte(byte(TagArraySinglePrimitive))
	buf.Write(appendInt32(nil, 5))
	buf.Write(appendInt32(nil, 2))
	buf.WriteByte(6) // primitive.Double
	buf.Write(appendDouble(nil, 1.5))
	buf.Write(appendDouble(nil, 2.5))

	buf.WriteByte(byte(TagMessageEnd))

	src := bytesrc.FromReader(&buf)
	s, err := Decode(src)

	require.NoError(t, err)
	rec := s.Records[1]
	require.NotNil(t, rec.PrimArray)
	require.Len(t, rec.PrimArray.Values, 2)
	assert.InDelta(t, 1.5, rec.PrimArray.Values[0].F64, 1e-9)
}

func TestDecode_ArraySingleObjectWithNullRun(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(streamPrefix())

	buf.WriteByte(byte(TagArraySingleObject))
	buf.Write(appendInt32(nil, 5))
	buf.Write(appendInt32(nil, 3)) // length 3
	buf.WriteByte(nullRunTagShort)
	buf.WriteByte(2) // 2 nulls
	buf.WriteByte(byte(TagMemberPrimitiveTyped))
	buf.WriteByte(1) // primitive.Boolean
	buf.WriteByte(1) // true

	buf.WriteByte(byte(TagMessageEnd))

	src := bytesrc.FromReader(&buf)
	s, err := Decode(src)

	require.NoError(t, err)
	rec := s.Records[1]
	require.Len(t, rec.Members, 3)
	assert.True(t, rec.Members[0].IsNull)
	assert.True(t, rec.Members[1].IsNull)
	assert.False(t, rec.Members[2].IsNull)
	assert.True(t, rec.Members[2].Inline.Bool)
}
