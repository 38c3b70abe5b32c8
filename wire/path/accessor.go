package path

import (
	"time"

	"github.com/halvorsen/nrbf/wire/binarytype"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/primitive"
	"github.com/halvorsen/nrbf/wire/record"
)

// Accessor wraps a resolved Member with the typed getters a path
// navigator ultimately wants: scalars, string/array length, and array
// rank. A slot that holds a reference is followed transparently to the
// record it names before any getter reads through it.
type Accessor struct {
	m *record.Member
}

// NewAccessor wraps m for typed access.
func NewAccessor(m *record.Member) *Accessor {
	return &Accessor{m: m}
}

// leaf follows a reference slot down to an inline primitive value,
// forwarding through BinaryObjectString and MemberPrimitiveTyped
// records. Object, array, and class records are returned unresolved;
// callers that want their shape use Len/Rank instead of a scalar getter.
func (a *Accessor) leaf() record.Member {
	cur := *a.m
	if cur.Slot.Kind == binarytype.Primitive || cur.IsNull || cur.RefRecord == nil {
		return cur
	}

	switch rec := cur.RefRecord; rec.Tag {
	case record.TagBinaryObjectString:
		return record.Member{
			Slot:   binarytype.Slot{Kind: binarytype.String},
			Inline: primitive.Value{Tag: primitive.String, Str: rec.StringValue},
		}
	case record.TagMemberPrimitiveTyped:
		return record.Member{
			Slot:   binarytype.Slot{Kind: binarytype.Primitive, PrimitiveTag: rec.Scalar.Tag},
			Inline: rec.Scalar,
		}
	default:
		return cur
	}
}

// IsNull reports whether the resolved slot (after following a
// reference) is null.
func (a *Accessor) IsNull() bool {
	return a.leaf().IsNull
}

// Bool reads a Boolean-tagged scalar.
func (a *Accessor) Bool() (bool, error) {
	leaf := a.leaf()
	if leaf.IsNull {
		return false, errs.ErrNotFound
	}
	if leaf.Slot.Kind != binarytype.Primitive || leaf.Inline.Tag != primitive.Boolean {
		return false, errs.ErrBadPrimitiveTag
	}
	return leaf.Inline.Bool, nil
}

// Int32 reads an Int32-tagged scalar.
func (a *Accessor) Int32() (int32, error) {
	leaf := a.leaf()
	if leaf.IsNull {
		return 0, errs.ErrNotFound
	}
	if leaf.Slot.Kind != binarytype.Primitive || leaf.Inline.Tag != primitive.Int32 {
		return 0, errs.ErrBadPrimitiveTag
	}
	return int32(leaf.Inline.I64), nil
}

// Int64 reads any signed- or unsigned-integer-tagged scalar, widened to
// int64.
func (a *Accessor) Int64() (int64, error) {
	leaf := a.leaf()
	if leaf.IsNull {
		return 0, errs.ErrNotFound
	}
	if leaf.Slot.Kind != binarytype.Primitive {
		return 0, errs.ErrBadPrimitiveTag
	}
	switch leaf.Inline.Tag {
	case primitive.SByte, primitive.Int16, primitive.Int32, primitive.Int64:
		return leaf.Inline.I64, nil
	case primitive.Byte, primitive.UInt16, primitive.UInt32, primitive.UInt64:
		return int64(leaf.Inline.U64), nil
	default:
		return 0, errs.ErrBadPrimitiveTag
	}
}

// Double reads a Double- or Single-tagged scalar.
func (a *Accessor) Double() (float64, error) {
	leaf := a.leaf()
	if leaf.IsNull {
		return 0, errs.ErrNotFound
	}
	if leaf.Slot.Kind != binarytype.Primitive || (leaf.Inline.Tag != primitive.Double && leaf.Inline.Tag != primitive.Single) {
		return 0, errs.ErrBadPrimitiveTag
	}
	return leaf.Inline.F64, nil
}

// String reads a String-tagged scalar, following through a
// BinaryObjectString reference.
func (a *Accessor) String() (string, error) {
	leaf := a.leaf()
	if leaf.IsNull {
		return "", errs.ErrNotFound
	}
	if leaf.Slot.Kind != binarytype.String && leaf.Inline.Tag != primitive.String {
		return "", errs.ErrBadPrimitiveTag
	}
	return leaf.Inline.Str, nil
}

// DateTime reads a DateTime-tagged scalar as a time.Time.
func (a *Accessor) DateTime() (time.Time, error) {
	leaf := a.leaf()
	if leaf.IsNull {
		return time.Time{}, errs.ErrNotFound
	}
	if leaf.Slot.Kind != binarytype.Primitive || leaf.Inline.Tag != primitive.DateTime {
		return time.Time{}, errs.ErrBadPrimitiveTag
	}
	return leaf.Inline.DateTimeAsTime(), nil
}

// Len reports the element count of an array or the rune count of a
// string the resolved slot names.
func (a *Accessor) Len() (int, error) {
	if a.m.Slot.Kind == binarytype.Primitive && a.m.Inline.Tag == primitive.String {
		return len([]rune(a.m.Inline.Str)), nil
	}

	rec := a.m.RefRecord
	if rec == nil {
		return 0, errs.ErrNotFound
	}

	switch rec.Tag {
	case record.TagBinaryArray:
		total := 1
		for _, l := range rec.Array.Lengths {
			total *= int(l)
		}
		return total, nil
	case record.TagArraySinglePrimitive:
		return len(rec.PrimArray.Values), nil
	case record.TagArraySingleObject, record.TagArraySingleString:
		return len(rec.Members), nil
	case record.TagBinaryObjectString:
		return len([]rune(rec.StringValue)), nil
	default:
		return 0, errs.ErrNotFound
	}
}

// Rank reports the dimensionality of a BinaryArray slot; 1 for every
// other array shape, since ArraySinglePrimitive/Object/String are
// always single-rank.
func (a *Accessor) Rank() (int32, error) {
	rec := a.m.RefRecord
	if rec == nil {
		return 0, errs.ErrNotFound
	}
	if rec.Tag == record.TagBinaryArray {
		return rec.Array.Rank, nil
	}
	switch rec.Tag {
	case record.TagArraySinglePrimitive, record.TagArraySingleObject, record.TagArraySingleString:
		return 1, nil
	default:
		return 0, errs.ErrNotFound
	}
}

// primArray returns the flat primitive.Array backing an
// ArraySinglePrimitive record or a BinaryArray whose element type is
// Primitive, following the reference the way leaf() does for scalars.
func (a *Accessor) primArray() (*primitive.Array, error) {
	rec := a.m.RefRecord
	if rec == nil {
		return nil, errs.ErrNotFound
	}
	switch rec.Tag {
	case record.TagArraySinglePrimitive:
		return rec.PrimArray, nil
	case record.TagBinaryArray:
		if rec.Array.PrimValues == nil {
			return nil, errs.ErrBadPrimitiveTag
		}
		return rec.Array.PrimValues, nil
	default:
		return nil, errs.ErrBadPrimitiveTag
	}
}

// BoolArray reads a flat array of Boolean-tagged scalars.
func (a *Accessor) BoolArray() ([]bool, error) {
	arr, err := a.primArray()
	if err != nil {
		return nil, err
	}
	if arr.Tag != primitive.Boolean {
		return nil, errs.ErrBadPrimitiveTag
	}
	out := make([]bool, len(arr.Values))
	for i, v := range arr.Values {
		out[i] = v.Bool
	}
	return out, nil
}

// Int32Array reads a flat array of Int32-tagged scalars.
func (a *Accessor) Int32Array() ([]int32, error) {
	arr, err := a.primArray()
	if err != nil {
		return nil, err
	}
	if arr.Tag != primitive.Int32 {
		return nil, errs.ErrBadPrimitiveTag
	}
	out := make([]int32, len(arr.Values))
	for i, v := range arr.Values {
		out[i] = int32(v.I64)
	}
	return out, nil
}

// DoubleArray reads a flat array of Double- or Single-tagged scalars.
func (a *Accessor) DoubleArray() ([]float64, error) {
	arr, err := a.primArray()
	if err != nil {
		return nil, err
	}
	if arr.Tag != primitive.Double && arr.Tag != primitive.Single {
		return nil, errs.ErrBadPrimitiveTag
	}
	out := make([]float64, len(arr.Values))
	for i, v := range arr.Values {
		out[i] = v.F64
	}
	return out, nil
}

// memberElements returns the Member slice backing an ArraySingleObject/
// ArraySingleString record, or a BinaryArray whose element type is not
// Primitive.
func (a *Accessor) memberElements() ([]record.Member, error) {
	rec := a.m.RefRecord
	if rec == nil {
		return nil, errs.ErrNotFound
	}
	switch rec.Tag {
	case record.TagArraySingleObject, record.TagArraySingleString:
		return rec.Members, nil
	case record.TagBinaryArray:
		if rec.Array.PrimValues != nil {
			return nil, errs.ErrBadPrimitiveTag
		}
		return rec.Array.Elements, nil
	default:
		return nil, errs.ErrBadPrimitiveTag
	}
}

// StringArray reads a flat array of String-valued elements, following
// each element's BinaryObjectString reference the way String() does for
// a scalar.
func (a *Accessor) StringArray() ([]string, error) {
	elems, err := a.memberElements()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(elems))
	for i := range elems {
		s, err := (&Accessor{m: &elems[i]}).String()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// ObjectArray reads a flat array of object-valued elements, returning
// the resolved Record each element's reference names.
func (a *Accessor) ObjectArray() ([]*record.Record, error) {
	elems, err := a.memberElements()
	if err != nil {
		return nil, err
	}
	out := make([]*record.Record, len(elems))
	for i, m := range elems {
		if m.IsNull {
			out[i] = nil
			continue
		}
		if m.RefRecord == nil {
			return nil, errs.ErrNotFound
		}
		out[i] = m.RefRecord
	}
	return out, nil
}
