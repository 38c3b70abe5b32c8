// Package link implements the post-decode reference-linking pass: it
// walks every record's binary-type slots and patches each deferred
// refID to the record it names.
package link

import (
	"github.com/halvorsen/nrbf/wire/binarytype"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/record"
)

// pending is one (slot, refID) pair awaiting resolution.
type pending struct {
	member *record.Member
}

// Link resolves every non-zero refID across every record's members
// (recursing into array element members) against the stream's
// object-id table, setting RefRecord and flagging the target record as
// referenced.
//
// The first refID that cannot be resolved aborts linking; slots already
// linked before the failure remain linked, per the "partial linking is
// legitimate" contract.
func Link(s *record.Stream) (int32, error) {
	var pendings []pending

	for _, rec := range s.Records {
		collectFrom(rec.Members, &pendings)
		if rec.Array != nil {
			collectFrom(rec.Array.Elements, &pendings)
		}
	}

	for _, p := range pendings {
		target, ok := s.ByID(p.member.RefID)
		if !ok {
			return p.member.RefID, errs.ErrUnresolvedReference
		}
		p.member.RefRecord = target
		target.IsReferenced = true
	}

	return 0, nil
}

func collectFrom(members []record.Member, out *[]pending) {
	for i := range members {
		m := &members[i]
		if m.IsNull || m.RefID == 0 {
			continue
		}
		if m.Slot.Kind == binarytype.Primitive {
			continue
		}
		*out = append(*out, pending{member: m})
	}
}
