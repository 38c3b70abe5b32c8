package nrbf_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvorsen/nrbf"
	"github.com/halvorsen/nrbf/wire/classinfo"
	"github.com/halvorsen/nrbf/wire/record"
	"github.com/halvorsen/nrbf/wire/varint"
)

func i32(v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return b[:]
}

// TestEmptyHeaderOnly covers spec.md §8 scenario (a): a stream with
// only a StreamHeader and a MessageEnd terminator.
func TestEmptyHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x00)
	buf.Write(i32(0))
	buf.Write(i32(1))
	buf.Write(i32(0))
	buf.Write(i32(0))
	buf.WriteByte(0x0B)

	d, err := nrbf.Open(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, d.Streams, 1)

	s := d.Streams[0]
	require.Len(t, s.Records, 2)
	hdr := s.Records[0]
	assert.Equal(t, record.TagStreamHeader, hdr.Tag)
	assert.Equal(t, int32(0), hdr.RootID)
	assert.Equal(t, int32(1), hdr.HeaderID)
	assert.Equal(t, int32(0), hdr.MajorVersion)
	assert.Equal(t, int32(0), hdr.MinorVersion)
	assert.Equal(t, record.TagMessageEnd, s.Records[1].Tag)
}

// TestSingleIntegerMember covers scenario (b): a ClassWithMembersAndTypes
// record with one Int32 member, dumped as "Main (int32) 707406378".
func TestSingleIntegerMember(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x00)
	buf.Write(i32(1))
	buf.Write(i32(0))
	buf.Write(i32(0))
	buf.Write(i32(0))

	buf.WriteByte(byte(record.TagClassWithMembersAndTypes))
	buf.Write(i32(1))
	buf.Write(varint.AppendString(nil, "MyApp.Widget"))
	buf.Write(i32(1))
	buf.Write(varint.AppendString(nil, "Main"))
	buf.WriteByte(0)
	buf.WriteByte(8)
	buf.Write(i32(0))
	buf.Write(i32(707406378))

	buf.WriteByte(0x0B)

	d, err := nrbf.Open(context.Background(), &buf)
	require.NoError(t, err)

	out := nrbf.Dump(d)
	assert.Contains(t, out, "Main (int32) 707406378")
}

// TestForwardReference covers scenario (d): a class record whose member
// points (refID=20) forward to a BinaryObjectString record (objectID=20)
// appearing later in the same stream; linking must resolve it and mark
// the target referenced.
func TestForwardReference(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x00)
	buf.Write(i32(10))
	buf.Write(i32(0))
	buf.Write(i32(0))
	buf.Write(i32(0))

	// Record A: objectID=10, one String-typed member, deferred ref to 20.
	buf.WriteByte(byte(record.TagClassWithMembersAndTypes))
	buf.Write(i32(10))
	buf.Write(varint.AppendString(nil, "Owner"))
	buf.Write(i32(1))
	buf.Write(varint.AppendString(nil, "Name"))
	buf.WriteByte(1) // BinaryType tag 1 = String
	buf.Write(i32(0))
	buf.WriteByte(9) // existing-object reference tag
	buf.Write(i32(20))

	// Record B: BinaryObjectString, objectID=20.
	buf.WriteByte(byte(record.TagBinaryObjectString))
	buf.Write(i32(20))
	buf.Write(varint.AppendString(nil, "hello"))

	buf.WriteByte(0x0B)

	d, err := nrbf.Open(context.Background(), &buf)
	require.NoError(t, err)

	s := d.Streams[0]
	recA := s.Records[1]
	recB := s.Records[2]

	require.Len(t, recA.Members, 1)
	require.NotNil(t, recA.Members[0].RefRecord)
	assert.Same(t, recB, recA.Members[0].RefRecord)
	assert.True(t, recB.IsReferenced)

	acc, err := nrbf.Get(d, "0/Owner/Name")
	require.NoError(t, err)
	str, err := acc.String()
	require.NoError(t, err)
	assert.Equal(t, "hello", str)
}

// TestDisplayNameDerivation covers scenario (e).
func TestDisplayNameDerivation(t *testing.T) {
	got := classinfo.DisplayName("Foo.Bar`1[[Sys.Int32, mscorlib]]")
	assert.Equal(t, "Foo.Bar", got)
}

// TestDateTimeEpoch covers scenario (f): a raw DateTime payload for the
// Unix epoch with timezone kind UTC decodes to millisecond 0, and adding
// one day's ticks decodes to 86_400_000ms.
func TestDateTimeEpoch(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x00)
	buf.Write(i32(1))
	buf.Write(i32(0))
	buf.Write(i32(0))
	buf.Write(i32(0))

	const epochTicks int64 = 0x089F7FF5F7B58000
	const utcKind uint64 = 1 << 62
	raw := uint64(epochTicks) | utcKind

	buf.WriteByte(byte(record.TagMemberPrimitiveTyped))
	buf.WriteByte(13) // DateTime primitive tag
	var rb [8]byte
	binary.LittleEndian.PutUint64(rb[:], raw)
	buf.Write(rb[:])

	buf.WriteByte(0x0B)

	d, err := nrbf.Open(context.Background(), &buf)
	require.NoError(t, err)

	s := d.Streams[0]
	require.Len(t, s.Records, 3)
	scalar := s.Records[1].Scalar
	assert.Equal(t, int64(0), scalar.DateMS)

	const plusOneDay int64 = epochTicks + 864_000_000_000
	raw2 := uint64(plusOneDay) | utcKind
	binary.LittleEndian.PutUint64(rb[:], raw2)

	var buf2 bytes.Buffer
	buf2.WriteByte(0x00)
	buf2.Write(i32(1))
	buf2.Write(i32(0))
	buf2.Write(i32(0))
	buf2.Write(i32(0))
	buf2.WriteByte(byte(record.TagMemberPrimitiveTyped))
	buf2.WriteByte(13)
	buf2.Write(rb[:])
	buf2.WriteByte(0x0B)

	d2, err := nrbf.Open(context.Background(), &buf2)
	require.NoError(t, err)
	assert.Equal(t, int64(86_400_000), d2.Streams[0].Records[1].Scalar.DateMS)
}

// TestMultiStreamBoundary covers testable property 7: two
// concatenated streams decode as exactly two streams, each with the
// record count it would have had in isolation.
func TestMultiStreamBoundary(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 2; i++ {
		buf.WriteByte(0x00)
		buf.Write(i32(int32(i)))
		buf.Write(i32(0))
		buf.Write(i32(0))
		buf.Write(i32(0))
		buf.WriteByte(0x0B)
	}

	d, err := nrbf.Open(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, d.Streams, 2)
	assert.Len(t, d.Streams[0].Records, 2)
	assert.Len(t, d.Streams[1].Records, 2)
}
