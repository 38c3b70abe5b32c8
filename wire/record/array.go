package record

import (
	"encoding/binary"

	"github.com/halvorsen/nrbf/wire/binarytype"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/primitive"
)

const (
	nullRunTagSingle = 10 // ObjectNull: this element is null
	nullRunTagShort  = 13 // ObjectNullMultiple256: next n (1-byte count) are null
	nullRunTagLong   = 14 // ObjectNullMultiple: next n (4-byte count) are null
	nullRunTagNested = 16 // ArraySingleObject: nesting an array inline is a hard error
)

// readNullRunElements fills a length-element Member slice, delegating
// non-null-run tags to readOne. Null-run markers (10, 13, 14) consume no
// further bytes beyond their own count field and are handled uniformly
// across BinaryArray, ArraySingleObject, and ArraySingleString.
func (s *Stream) readNullRunElements(length int, readOne func(tag byte) (Member, error)) ([]Member, error) {
	elements := make([]Member, length)
	i := 0

	for i < length {
		tag, err := s.src.ReadByte()
		if err != nil {
			return nil, err
		}

		switch tag {
		case nullRunTagSingle:
			elements[i] = Member{IsNull: true}
			i++

		case nullRunTagShort:
			b, err := s.src.ReadByte()
			if err != nil {
				return nil, err
			}
			i = fillNulls(elements, i, int(b))

		case nullRunTagLong:
			n, err := s.readInt32()
			if err != nil {
				return nil, err
			}
			i = fillNulls(elements, i, int(n))

		case nullRunTagNested:
			return nil, errs.ErrNestedArrayRecord

		default:
			m, err := readOne(tag)
			if err != nil {
				return nil, err
			}
			elements[i] = m
			i++
		}
	}

	return elements, nil
}

func fillNulls(elements []Member, start, n int) int {
	end := start + n
	if end > len(elements) {
		end = len(elements)
	}
	for i := start; i < end; i++ {
		elements[i] = Member{IsNull: true}
	}
	return end
}

// readBinaryArray reads tag 7: objectID, array-kind byte, rank, rank
// lengths, rank lower-bounds (offset kinds only), one element-type
// header, then contents for Single/Rectangular kinds only.
func (s *Stream) readBinaryArray() (*Record, error) {
	objectID, err := s.readInt32()
	if err != nil {
		return nil, err
	}

	kindByte, err := s.src.ReadByte()
	if err != nil {
		return nil, err
	}
	kind := ArrayKind(kindByte)

	rank, err := s.readInt32()
	if err != nil {
		return nil, err
	}

	lengths := make([]int32, rank)
	for i := range lengths {
		lengths[i], err = s.readInt32()
		if err != nil {
			return nil, err
		}
	}

	var lowerBounds []int32
	if kind.HasLowerBounds() {
		lowerBounds = make([]int32, rank)
		for i := range lowerBounds {
			lowerBounds[i], err = s.readInt32()
			if err != nil {
				return nil, err
			}
		}
	}

	elemTag, err := s.src.ReadByte()
	if err != nil {
		return nil, err
	}
	elemType, err := binarytype.Construct(elemTag)
	if err != nil {
		return nil, err
	}
	if err := binarytype.ReadHeader(s.src, &elemType); err != nil {
		return nil, err
	}

	strides := computeStrides(lengths)

	payload := &ArrayPayload{
		Kind:        kind,
		Rank:        rank,
		Lengths:     lengths,
		LowerBounds: lowerBounds,
		ElementType: elemType,
		Strides:     strides,
	}

	if !kind.Decoded() {
		return nil, errs.ErrUnsupportedInlineArray
	}

	total := 1
	for _, l := range lengths {
		total *= int(l)
	}

	if elemType.Kind == binarytype.Primitive {
		arr, err := primitive.ReadArray(s.src, elemType.PrimitiveTag, total)
		if err != nil {
			return nil, err
		}
		payload.PrimValues = &arr
	} else {
		elements, err := s.readNullRunElements(total, func(tag byte) (Member, error) {
			res, err := binarytype.ReadValueTag(s.src, elemType, tag, s.parseNested)
			if err != nil {
				return Member{}, err
			}
			return Member{Slot: elemType, Inline: res.Inline, RefID: res.RefID, IsNull: res.IsNull}, nil
		})
		if err != nil {
			return nil, err
		}
		payload.Elements = elements
	}

	return &Record{Tag: TagBinaryArray, ObjectID: objectID, Array: payload}, nil
}

// computeStrides fills offset[i] = product(lengths[j]) for j>i, the
// per-dimension stride used by the array indexing law.
func computeStrides(lengths []int32) []int64 {
	strides := make([]int64, len(lengths))
	var acc int64 = 1
	for i := len(lengths) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= int64(lengths[i])
	}
	return strides
}

// allowedObjectArrayScalarTags are the primitive sub-types a
// MemberPrimitiveTyped child inside an ArraySingleObject may carry;
// any other sub-type fails, per spec.
var allowedObjectArrayScalarTags = map[primitive.Tag]bool{
	primitive.Boolean: true,
	primitive.Double:  true,
	primitive.Int32:   true,
	primitive.Int64:   true,
}

func (s *Stream) readArraySingleObject() (*Record, error) {
	objectID, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	length, err := s.readInt32()
	if err != nil {
		return nil, err
	}

	const memberPrimitiveTypedTag = byte(TagMemberPrimitiveTyped)

	elements, err := s.readNullRunElements(int(length), func(tag byte) (Member, error) {
		if tag == memberPrimitiveTypedTag {
			subTag, err := s.src.ReadByte()
			if err != nil {
				return Member{}, err
			}
			if !allowedObjectArrayScalarTags[primitive.Tag(subTag)] {
				return Member{}, errs.ErrUnsupportedInlineArray
			}
			val, err := primitive.Read(s.src, primitive.Tag(subTag))
			if err != nil {
				return Member{}, err
			}
			return Member{Slot: binarytype.Slot{Kind: binarytype.Primitive, PrimitiveTag: primitive.Tag(subTag)}, Inline: val}, nil
		}

		id, err := s.parseNested(tag)
		if err != nil {
			return Member{}, err
		}
		return Member{Slot: binarytype.Slot{Kind: binarytype.Object}, RefID: id}, nil
	})
	if err != nil {
		return nil, err
	}

	return &Record{Tag: TagArraySingleObject, ObjectID: objectID, Members: elements}, nil
}

func (s *Stream) readArraySingleString() (*Record, error) {
	objectID, err := s.readInt32()
	if err != nil {
		return nil, err
	}
	length, err := s.readInt32()
	if err != nil {
		return nil, err
	}

	const (
		inlineStringTag = 6
		deferredRefTag  = 9
	)

	elements, err := s.readNullRunElements(int(length), func(tag byte) (Member, error) {
		switch tag {
		case inlineStringTag:
			id, err := s.parseNested(tag)
			if err != nil {
				return Member{}, err
			}
			return Member{Slot: binarytype.Slot{Kind: binarytype.String}, RefID: id}, nil

		case deferredRefTag:
			var buf [4]byte
			if err := s.src.ReadFull(buf[:]); err != nil {
				return Member{}, err
			}
			refID := int32(binary.LittleEndian.Uint32(buf[:]))
			return Member{Slot: binarytype.Slot{Kind: binarytype.String}, RefID: refID}, nil

		default:
			return Member{}, errs.ErrBadReferenceTag
		}
	})
	if err != nil {
		return nil, err
	}

	return &Record{Tag: TagArraySingleString, ObjectID: objectID, Members: elements}, nil
}
