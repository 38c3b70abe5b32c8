// Package record implements the NRBF record tag dispatch table: header,
// class records, string/array/primitive records, and the per-stream
// record list every other wire package resolves object-ids against.
package record

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/halvorsen/nrbf/wire/binarytype"
	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/classinfo"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/primitive"
	"github.com/halvorsen/nrbf/wire/varint"
)

// Member is a single typed value: a class member (Name set) or an array
// element (Name empty), sharing the same binary-type-driven shape.
type Member struct {
	Name   string
	Slot   binarytype.Slot
	Inline primitive.Value // valid when Slot.Kind == binarytype.Primitive
	RefID  int32           // valid when Slot.Kind != binarytype.Primitive and !IsNull
	IsNull bool

	// RefRecord is filled in by wire/link; non-owning, valid after linking.
	RefRecord *Record
}

// ArrayPayload is the decoded shape of a BinaryArray record (tag 7).
type ArrayPayload struct {
	Kind        ArrayKind
	Rank        int32
	Lengths     []int32
	LowerBounds []int32
	ElementType binarytype.Slot
	Strides     []int64 // offset[i]: product of Lengths[j] for j>i
	Elements    []Member
	PrimValues  *primitive.Array // populated instead of Elements when ElementType.Kind == Primitive
}

// Coord computes the flat row-major index for coordinates d, per spec's
// array indexing law: sum(d[i] * strides[i]).
func (a *ArrayPayload) Coord(d []int32) (int, error) {
	if len(d) != int(a.Rank) {
		return 0, errs.ErrIndexOutOfRange
	}
	var flat int64
	for i, v := range d {
		if v < 0 || v >= a.Lengths[i] {
			return 0, errs.ErrIndexOutOfRange
		}
		flat += int64(v) * a.Strides[i]
	}
	return int(flat), nil
}

// Record is a single decoded top-level entity from the wire.
type Record struct {
	Tag      Tag
	ObjectID int32
	Class    classinfo.ClassInfo
	Members  []Member

	// ClassWithId (1)
	MetadataID int32

	// ClassWithMembersAndTypes (5) / BinaryLibrary (12)
	LibraryID int32

	// BinaryObjectString (6)
	StringValue string

	// BinaryArray (7)
	Array *ArrayPayload

	// MemberPrimitiveTyped (8)
	Scalar primitive.Value

	// MemberReference (9): the object-id this bare reference points to
	RefID int32

	// BinaryLibrary (12)
	LibraryName string

	// ObjectNullMultiple / ObjectNullMultiple256 (13, 14)
	NullCount int

	// ArraySinglePrimitive (15)
	PrimArray *primitive.Array

	// StreamHeader (0)
	RootID, HeaderID, MajorVersion, MinorVersion int32

	IsReferenced bool
	Index        int // creation order; the canonical "record number"
}

// Stream owns one contiguous sequence of records: a header, zero or more
// further records, and a MessageEnd terminator. It provides the
// object-id lookup every deferred reference resolves against.
type Stream struct {
	Records []*Record
	byID    map[int32]*Record
	src     bytesrc.Source
}

func newStream(src bytesrc.Source) *Stream {
	return &Stream{byID: make(map[int32]*Record), src: src}
}

// ByID returns the record with the given object-id, if any.
func (s *Stream) ByID(id int32) (*Record, bool) {
	r, ok := s.byID[id]
	return r, ok
}

func (s *Stream) append(r *Record) {
	r.Index = len(s.Records)
	s.Records = append(s.Records, r)
	if r.ObjectID != 0 {
		s.byID[r.ObjectID] = r
	}
}

// Decode parses a StreamHeader (tag byte already consumed by the
// caller, per the MultiStream protocol) followed by records until a
// MessageEnd (0x0B) is read.
func Decode(src bytesrc.Source) (*Stream, error) {
	s := newStream(src)

	header, err := s.readStreamHeader()
	if err != nil {
		return s, err
	}
	s.append(header)

	for {
		tag, err := src.ReadByte()
		if err != nil {
			return s, err
		}

		if Tag(tag) == TagMessageEnd {
			s.append(&Record{Tag: TagMessageEnd})
			return s, nil
		}

		rec, err := s.decodeTag(tag)
		if err != nil {
			if !errors.Is(err, errs.ErrUnknownRecord) {
				err = fmt.Errorf("%w: %w", errs.ErrRecordReadFailed, err)
			}
			return s, err
		}
		s.append(rec)
	}
}

// decodeTag dispatches a single already-consumed tag byte to its record
// reader and returns the freshly parsed (but not yet appended) record.
// Nested parsing (from binarytype.ReadValue's NestedParser callback)
// reenters here, appending the nested record itself before returning
// its object-id to the caller.
func (s *Stream) decodeTag(tag byte) (*Record, error) {
	switch Tag(tag) {
	case TagClassWithId:
		return s.readClassWithId()
	case TagSystemClassWithMembers, TagClassWithMembers:
		return nil, errs.ErrUnsupportedClassRecord
	case TagSystemClassWithMembersAndTypes:
		return s.readClassWithMembersAndTypes(false)
	case TagClassWithMembersAndTypes:
		return s.readClassWithMembersAndTypes(true)
	case TagBinaryObjectString:
		return s.readBinaryObjectString()
	case TagBinaryArray:
		return s.readBinaryArray()
	case TagMemberPrimitiveTyped:
		return s.readMemberPrimitiveTyped()
	case TagMemberReference:
		return s.readMemberReference()
	case TagObjectNull:
		return &Record{Tag: TagObjectNull}, nil
	case TagBinaryLibrary:
		return s.readBinaryLibrary()
	case TagObjectNullMultiple256:
		return s.readObjectNullMultiple(true)
	case TagObjectNullMultiple:
		return s.readObjectNullMultiple(false)
	case TagArraySinglePrimitive:
		return s.readArraySinglePrimitive()
	case TagArraySingleObject:
		return s.readArraySingleObject()
	case TagArraySingleString:
		return s.readArraySingleString()
	case TagMethodCall, TagMethodReturn:
		return nil, errs.ErrUnsupportedMethodCall
	default:
		return nil, errs.ErrUnknownRecord
	}
}

// parseNested is the binarytype.NestedParser this stream hands to
// binarytype.ReadValue: parse whatever record the already-consumed tag
// names, append it, and return its object-id.
func (s *Stream) parseNested(tag byte) (int32, error) {
	rec, err := s.decodeTag(tag)
	if err != nil {
		return 0, err
	}
	s.append(rec)
	return rec.ObjectID, nil
}

func (s *Stream) readInt32() (int32, error) {
	var buf [4]byte
	if err := s.src.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

func (s *Stream) readStreamHeader() (*Record, error) {
	rootID, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	headerID, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	major, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	minor, err := s.readInt32()
	if err != nil {
		return nil, err
	}

	return &Record{
		Tag:          TagStreamHeader,
		RootID:       rootID,
		HeaderID:     headerID,
		MajorVersion: major,
		MinorVersion: minor,
	}, nil
}

// readClassWithMembersAndTypes reads tag 4 (SystemClassWithMembersAndTypes)
// or tag 5 (ClassWithMembersAndTypes): ClassInfo (ObjectId, Name,
// MemberCount, MemberNames per MS-NRBF §2.3.1.1), N binary-type tag
// bytes, N additional-header reads, an optional libraryID, then N value
// reads.
func (s *Stream) readClassWithMembersAndTypes(hasLibrary bool) (*Record, error) {
	objectID, err := s.readInt32()
	if err != nil {
		return nil, err
	}

	class, err := classinfo.Read(s.src, objectID)
	if err != nil {
		return nil, err
	}
	memberCount := len(class.MemberNames)

	slots := make([]binarytype.Slot, memberCount)
	for i := range slots {
		tag, err := s.src.ReadByte()
		if err != nil {
			return nil, err
		}
		slots[i], err = binarytype.Construct(tag)
		if err != nil {
			return nil, err
		}
	}
	for i := range slots {
		if err := binarytype.ReadHeader(s.src, &slots[i]); err != nil {
			return nil, err
		}
	}

	var libraryID int32
	if hasLibrary {
		libraryID, err = s.readInt32()
		if err != nil {
			return nil, err
		}
	}

	members := make([]Member, memberCount)
	for i := range members {
		res, err := binarytype.ReadValue(s.src, slots[i], s.parseNested)
		if err != nil {
			return nil, err
		}
		members[i] = Member{
			Name:   class.MemberNames[i],
			Slot:   slots[i],
			Inline: res.Inline,
			RefID:  res.RefID,
			IsNull: res.IsNull,
		}
	}

	tag := TagSystemClassWithMembersAndTypes
	if hasLibrary {
		tag = TagClassWithMembersAndTypes
	}

	return &Record{
		Tag:       tag,
		ObjectID:  objectID,
		Class:     class,
		Members:   members,
		LibraryID: libraryID,
	}, nil
}

// readClassWithId reads tag 1: objectID, metadataID, then clones the
// referenced metadata record's member type shapes (not values), reads
// fresh values in stream order, and shares its member names.
func (s *Stream) readClassWithId() (*Record, error) {
	objectID, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	metadataID, err := s.readInt32()
	if err != nil {
		return nil, err
	}

	meta, ok := s.ByID(metadataID)
	if !ok {
		return nil, errs.ErrMetadataNotFound
	}

	slots := make([]binarytype.Slot, len(meta.Members))
	for i, m := range meta.Members {
		slots[i] = m.Slot // type-only clone: same shape, no value copied
	}

	members := make([]Member, len(slots))
	for i := range slots {
		res, err := binarytype.ReadValue(s.src, slots[i], s.parseNested)
		if err != nil {
			return nil, err
		}
		members[i] = Member{
			Name:   meta.Class.MemberNames[i],
			Slot:   slots[i],
			Inline: res.Inline,
			RefID:  res.RefID,
			IsNull: res.IsNull,
		}
	}

	return &Record{
		Tag:        TagClassWithId,
		ObjectID:   objectID,
		MetadataID: metadataID,
		Class: classinfo.ClassInfo{
			ObjectID:    objectID,
			Name:        meta.Class.Name,
			MemberNames: meta.Class.MemberNames,
		},
		Members: members,
	}, nil
}

func (s *Stream) readBinaryObjectString() (*Record, error) {
	objectID, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	str, err := varint.ReadString(s.src)
	if err != nil {
		return nil, err
	}
	return &Record{Tag: TagBinaryObjectString, ObjectID: objectID, StringValue: str}, nil
}

func (s *Stream) readMemberPrimitiveTyped() (*Record, error) {
	tag, err := s.src.ReadByte()
	if err != nil {
		return nil, err
	}
	val, err := primitive.Read(s.src, primitive.Tag(tag))
	if err != nil {
		return nil, err
	}
	return &Record{Tag: TagMemberPrimitiveTyped, Scalar: val}, nil
}

func (s *Stream) readMemberReference() (*Record, error) {
	refID, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	return &Record{Tag: TagMemberReference, RefID: refID}, nil
}

func (s *Stream) readBinaryLibrary() (*Record, error) {
	libraryID, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	name, err := varint.ReadString(s.src)
	if err != nil {
		return nil, err
	}
	return &Record{Tag: TagBinaryLibrary, LibraryID: libraryID, LibraryName: name}, nil
}

func (s *Stream) readObjectNullMultiple(short bool) (*Record, error) {
	if short {
		b, err := s.src.ReadByte()
		if err != nil {
			return nil, err
		}
		return &Record{Tag: TagObjectNullMultiple256, NullCount: int(b)}, nil
	}

	n, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	return &Record{Tag: TagObjectNullMultiple, NullCount: int(n)}, nil
}

func (s *Stream) readArraySinglePrimitive() (*Record, error) {
	objectID, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	length, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	tag, err := s.src.ReadByte()
	if err != nil {
		return nil, err
	}

	arr, err := primitive.ReadArray(s.src, primitive.Tag(tag), int(length))
	if err != nil {
		return nil, err
	}

	return &Record{Tag: TagArraySinglePrimitive, ObjectID: objectID, PrimArray: &arr}, nil
}
