// Package path implements the symbolic path resolver and typed accessor
// bridge: navigating "<stream>/<class-display-name>/<member>/..." down
// to a scalar, array, or sub-object.
package path

import (
	"strconv"

	"github.com/halvorsen/nrbf/wire/binarytype"
	"github.com/halvorsen/nrbf/wire/classinfo"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/record"
	"github.com/halvorsen/nrbf/wire/stream"
)

// Resolve navigates segs against d and returns the Member it lands on.
// segs[0] is a decimal stream index, segs[1] a class display name, and
// every following segment either a member name or a decimal index.
func Resolve(d *stream.Deserializer, segs []string) (*record.Member, error) {
	if len(segs) == 0 {
		return nil, errs.ErrEmptyPath
	}

	streamIdx, err := strconv.Atoi(segs[0])
	if err != nil || streamIdx < 0 || streamIdx >= len(d.Streams) {
		return nil, errs.ErrBadStreamIndex
	}
	st := d.Streams[streamIdx]

	if len(segs) < 2 {
		return nil, errs.ErrEmptyPath
	}

	rec := findByDisplayName(st, segs[1])
	if rec == nil {
		return nil, errs.ErrUnknownClass
	}

	cur := &record.Member{Slot: binarytype.Slot{Kind: binarytype.Object}, RefRecord: rec}

	for i := 2; i < len(segs); {
		if cur.RefRecord == nil {
			return nil, errs.ErrNotFound
		}
		rec := cur.RefRecord

		if rec.Tag == record.TagBinaryArray && rec.Array != nil {
			next, consumed, err := resolveArraySegment(rec.Array, segs[i:])
			if err != nil {
				return nil, err
			}
			cur = next
			i += consumed
			continue
		}

		seg := segs[i]
		next, err := resolveMemberSegment(rec, seg)
		if err != nil {
			return nil, err
		}
		cur = next
		i++
	}

	return cur, nil
}

func isIndexSegment(seg string) bool {
	return len(seg) > 0 && seg[0] >= '0' && seg[0] <= '9'
}

// resolveArraySegment consumes rank consecutive decimal segments
// (a multi-rank coordinate) and returns the element landed on, plus how
// many path segments were consumed.
func resolveArraySegment(arr *record.ArrayPayload, segs []string) (*record.Member, int, error) {
	rank := int(arr.Rank)
	if rank > len(segs) {
		return nil, 0, errs.ErrIndexOutOfRange
	}

	coords := make([]int32, rank)
	for k := 0; k < rank; k++ {
		if !isIndexSegment(segs[k]) {
			return nil, 0, errs.ErrIndexOutOfRange
		}
		n, err := strconv.Atoi(segs[k])
		if err != nil {
			return nil, 0, errs.ErrIndexOutOfRange
		}
		coords[k] = int32(n)
	}

	flat, err := arr.Coord(coords)
	if err != nil {
		return nil, 0, err
	}

	if arr.PrimValues != nil {
		if flat < 0 || flat >= len(arr.PrimValues.Values) {
			return nil, 0, errs.ErrIndexOutOfRange
		}
		val := arr.PrimValues.Values[flat]
		return &record.Member{
			Slot:   binarytype.Slot{Kind: binarytype.Primitive, PrimitiveTag: val.Tag},
			Inline: val,
		}, rank, nil
	}

	if flat < 0 || flat >= len(arr.Elements) {
		return nil, 0, errs.ErrIndexOutOfRange
	}
	m := arr.Elements[flat]
	return &m, rank, nil
}

// resolveMemberSegment resolves a single decimal-index or member-name
// segment against rec's members (or its ArraySinglePrimitive payload).
func resolveMemberSegment(rec *record.Record, seg string) (*record.Member, error) {
	if isIndexSegment(seg) {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return nil, errs.ErrIndexOutOfRange
		}

		if rec.PrimArray != nil {
			if n < 0 || n >= len(rec.PrimArray.Values) {
				return nil, errs.ErrIndexOutOfRange
			}
			val := rec.PrimArray.Values[n]
			return &record.Member{
				Slot:   binarytype.Slot{Kind: binarytype.Primitive, PrimitiveTag: val.Tag},
				Inline: val,
			}, nil
		}

		if n < 0 || n >= len(rec.Members) {
			return nil, errs.ErrIndexOutOfRange
		}
		m := rec.Members[n]
		return &m, nil
	}

	for i, name := range rec.Class.MemberNames {
		if name == seg {
			if i >= len(rec.Members) {
				return nil, errs.ErrIndexOutOfRange
			}
			m := rec.Members[i]
			return &m, nil
		}
	}

	return nil, errs.ErrUnknownMember
}

func findByDisplayName(st *record.Stream, displayName string) *record.Record {
	for _, rec := range st.Records {
		if rec.Class.Name == "" {
			continue
		}
		if classinfo.DisplayName(rec.Class.Name) == displayName {
			return rec
		}
	}
	return nil
}
