// Package binarytype decodes the 8 binary-type member-slot tags shared
// by every record that defines typed members, plus the inline/deferred
// reference framing used when reading a slot's value.
package binarytype

import (
	"encoding/binary"

	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/primitive"
	"github.com/halvorsen/nrbf/wire/varint"
)

// Kind identifies one of the 8 binary-type variants. Values match the
// wire format's BinaryTypeEnumeration.
type Kind byte

const (
	Primitive     Kind = 0
	String        Kind = 1
	Object        Kind = 2
	SystemClass   Kind = 3
	Class         Kind = 4
	ObjectArray   Kind = 5
	StringArray   Kind = 6
	PrimitiveArray Kind = 7
)

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case String:
		return "string"
	case Object:
		return "object"
	case SystemClass:
		return "system-class"
	case Class:
		return "class"
	case ObjectArray:
		return "object-array"
	case StringArray:
		return "string-array"
	case PrimitiveArray:
		return "primitive-array"
	default:
		return "unknown"
	}
}

// Slot is a single member's type description, before its value is read.
type Slot struct {
	Kind         Kind
	PrimitiveTag primitive.Tag // meaningful for Primitive, PrimitiveArray
	ClassName    string        // meaningful for SystemClass, Class
	LibraryID    int32         // meaningful for Class
}

// Construct builds a Slot's Kind from a binary-type tag byte (phase 1).
func Construct(tag byte) (Slot, error) {
	k := Kind(tag)
	switch k {
	case Primitive, String, Object, SystemClass, Class, ObjectArray, StringArray, PrimitiveArray:
		return Slot{Kind: k}, nil
	default:
		return Slot{}, errs.ErrBadBinaryTypeTag
	}
}

// ReadHeader reads the additional header bytes a Slot's Kind requires
// (phase 2): a primitive sub-tag for Primitive/PrimitiveArray, a class
// name for SystemClass, a class name plus library id for Class. Other
// kinds have no additional header.
func ReadHeader(src bytesrc.Source, slot *Slot) error {
	switch slot.Kind {
	case Primitive, PrimitiveArray:
		b, err := src.ReadByte()
		if err != nil {
			return err
		}
		slot.PrimitiveTag = primitive.Tag(b)

	case SystemClass:
		name, err := varint.ReadString(src)
		if err != nil {
			return err
		}
		slot.ClassName = name

	case Class:
		name, err := varint.ReadString(src)
		if err != nil {
			return err
		}
		var buf [4]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return err
		}
		slot.ClassName = name
		slot.LibraryID = int32(binary.LittleEndian.Uint32(buf[:]))
	}

	return nil
}

// reference tag bytes used when reading a slot's value.
const (
	refTagInlineRecord = 6    // BinaryObjectString parsed inline (String slots only)
	refTagDeferred     = 9    // 4-byte existing-object reference
	refTagNull         = 0x0A // null value
)

// Result is the outcome of reading a Slot's value (phase 3).
type Result struct {
	Inline primitive.Value // valid when Kind == Primitive
	RefID  int32           // valid when Kind != Primitive and !IsNull
	IsNull bool
}

// NestedParser parses a nested record whose leading tag byte has already
// been consumed, appends it to the owning stream's record list, and
// returns its objectID.
type NestedParser func(tag byte) (objectID int32, err error)

// ReadValue reads a Slot's value from src (phase 3), dispatching by Kind.
// parseNested is consulted whenever a reference tag names a record to
// parse inline rather than a deferred/null reference; it is never called
// for Primitive slots.
func ReadValue(src bytesrc.Source, slot Slot, parseNested NestedParser) (Result, error) {
	if slot.Kind == Primitive {
		v, err := primitive.Read(src, slot.PrimitiveTag)
		if err != nil {
			return Result{}, err
		}
		return Result{Inline: v}, nil
	}

	tag, err := src.ReadByte()
	if err != nil {
		return Result{}, err
	}

	return ReadValueTag(src, slot, tag, parseNested)
}

// ReadValueTag is ReadValue's non-Primitive logic, taking a tag byte the
// caller has already consumed (used by array element readers that must
// inspect the tag themselves first to detect null-run markers).
func ReadValueTag(src bytesrc.Source, slot Slot, tag byte, parseNested NestedParser) (Result, error) {
	switch tag {
	case refTagDeferred:
		var buf [4]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Result{}, err
		}
		return Result{RefID: int32(binary.LittleEndian.Uint32(buf[:]))}, nil

	case refTagNull:
		return Result{IsNull: true}, nil

	case refTagInlineRecord:
		if slot.Kind != String {
			break
		}
		id, err := parseNested(tag)
		if err != nil {
			return Result{}, err
		}
		return Result{RefID: id}, nil
	}

	if slot.Kind == String {
		return Result{}, errs.ErrBadReferenceTag
	}

	if slot.Kind == ObjectArray || slot.Kind == StringArray || slot.Kind == PrimitiveArray {
		return Result{}, errs.ErrUnsupportedInlineArray
	}

	// Object / SystemClass / Class: the tag names a nested record to
	// parse inline; the record package's dispatcher decides whether that
	// tag is itself supported.
	id, err := parseNested(tag)
	if err != nil {
		return Result{}, err
	}

	return Result{RefID: id}, nil
}
