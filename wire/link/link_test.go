package link

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/record"
	"github.com/halvorsen/nrbf/wire/varint"
)

func appendInt32(buf []byte, v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return append(buf, b[:]...)
}

func buildStream(t *testing.T) *record.Stream {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(appendInt32(nil, 1))
	buf.Write(appendInt32(nil, -1))
	buf.Write(appendInt32(nil, 1))
	buf.Write(appendInt32(nil, 0))

	// ClassWithMembersAndTypes objectID=10, 1 member "Next" (Object kind)
	buf.WriteByte(byte(record.TagClassWithMembersAndTypes))
	buf.Write(appendInt32(nil, 10))
	buf.Write(varint.AppendString(nil, "MyApp.Node"))
	buf.Write(appendInt32(nil, 1))
	buf.Write(varint.AppendString(nil, "Next"))
	buf.WriteByte(2) // binarytype.Object
	buf.Write(appendInt32(nil, 0)) // libraryID
	buf.WriteByte(9)               // deferred reference tag
	buf.Write(appendInt32(nil, 20))

	// BinaryObjectString objectID=20
	buf.WriteByte(byte(record.TagBinaryObjectString))
	buf.Write(appendInt32(nil, 20))
	buf.Write(varint.AppendString(nil, "hello"))

	buf.WriteByte(byte(record.TagMessageEnd))

	src := bytesrc.FromReader(&buf)
	s, err := record.Decode(src)
	require.NoError(t, err)

	return s
}

func TestLink_ResolvesDeferredReference(t *testing.T) {
	s := buildStream(t)

	failedID, err := Link(s)

	require.NoError(t, err)
	assert.Equal(t, int32(0), failedID)

	class := s.Records[1]
	require.Len(t, class.Members, 1)
	require.NotNil(t, class.Members[0].RefRecord)
	assert.Equal(t, "hello", class.Members[0].RefRecord.StringValue)
	assert.True(t, class.Members[0].RefRecord.IsReferenced)
}

func TestLink_UnresolvedReference(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(appendInt32(nil, 1))
	buf.Write(appendInt32(nil, -1))
	buf.Write(appendInt32(nil, 1))
	buf.Write(appendInt32(nil, 0))

	buf.WriteByte(byte(record.TagClassWithMembersAndTypes))
	buf.Write(appendInt32(nil, 10))
	buf.Write(varint.AppendString(nil, "MyApp.Node"))
	buf.Write(appendInt32(nil, 1))
	buf.Write(varint.AppendString(nil, "Next"))
	buf.WriteByte(2)
	buf.Write(appendInt32(nil, 0))
	buf.WriteByte(9)
	buf.Write(appendInt32(nil, 999)) // no record with this id

	buf.WriteByte(byte(record.TagMessageEnd))

	src := bytesrc.FromReader(&buf)
	s, err := record.Decode(src)
	require.NoError(t, err)

	failedID, err := Link(s)

	require.ErrorIs(t, err, errs.ErrUnresolvedReference)
	assert.Equal(t, int32(999), failedID)
}
