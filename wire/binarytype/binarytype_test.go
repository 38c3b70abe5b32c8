package binarytype

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/primitive"
)

func TestConstruct_UnknownTag(t *testing.T) {
	_, err := Construct(0xFF)

	require.ErrorIs(t, err, errs.ErrBadBinaryTypeTag)
}

func TestReadHeader_Primitive(t *testing.T) {
	slot, err := Construct(byte(Primitive))
	require.NoError(t, err)

	src := bytesrc.FromReader(bytes.NewReader([]byte{byte(primitive.Int32)}))
	require.NoError(t, ReadHeader(src, &slot))

	assert.Equal(t, primitive.Int32, slot.PrimitiveTag)
}

func TestReadValue_PrimitiveSlot(t *testing.T) {
	slot := Slot{Kind: Primitive, PrimitiveTag: primitive.Boolean}
	src := bytesrc.FromReader(bytes.NewReader([]byte{0x01}))

	res, err := ReadValue(src, slot, nil)

	require.NoError(t, err)
	assert.True(t, res.Inline.Bool)
}

func TestReadValue_DeferredReference(t *testing.T) {
	slot := Slot{Kind: Object}
	src := bytesrc.FromReader(bytes.NewReader([]byte{0x09, 0x2A, 0x00, 0x00, 0x00}))

	res, err := ReadValue(src, slot, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(42), res.RefID)
}

func TestReadValue_Null(t *testing.T) {
	slot := Slot{Kind: Object}
	src := bytesrc.FromReader(bytes.NewReader([]byte{0x0A}))

	res, err := ReadValue(src, slot, nil)

	require.NoError(t, err)
	assert.True(t, res.IsNull)
}

func TestReadValue_StringSlotBadReferenceTag(t *testing.T) {
	slot := Slot{Kind: String}
	src := bytesrc.FromReader(bytes.NewReader([]byte{0x05}))

	_, err := ReadValue(src, slot, nil)

	require.ErrorIs(t, err, errs.ErrBadReferenceTag)
}

func TestReadValue_NestedParserInvoked(t *testing.T) {
	slot := Slot{Kind: Object}
	src := bytesrc.FromReader(bytes.NewReader([]byte{0x05}))

	called := false
	parseNested := func(tag byte) (int32, error) {
		called = true
		assert.Equal(t, byte(0x05), tag)
		return 3, nil
	}

	res, err := ReadValue(src, slot, parseNested)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, int32(3), res.RefID)
}
