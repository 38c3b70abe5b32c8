// Package classinfo decodes the object-id / name / member-name shape
// shared by every record that defines a class layout.
package classinfo

import (
	"encoding/binary"
	"strings"

	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/varint"
)

// ClassInfo is the object-id, raw name, and member-name vector shared by
// every class-defining record.
type ClassInfo struct {
	ObjectID    int32
	Name        string
	MemberNames []string
}

// DisplayName returns Name truncated at the first "[[" (assembly
// qualification) or the first backtick (generic arity suffix), whichever
// comes first — the human-friendly prefix of a .NET type name.
func (c ClassInfo) DisplayName() string {
	return DisplayName(c.Name)
}

// DisplayName truncates a raw .NET type name the same way ClassInfo's
// method does, without requiring a ClassInfo value.
func DisplayName(name string) string {
	cut := len(name)
	if i := strings.Index(name, "[["); i >= 0 && i < cut {
		cut = i
	}
	if i := strings.IndexByte(name, '`'); i >= 0 && i < cut {
		cut = i
	}
	return name[:cut]
}

// Read decodes the wire-format ClassInfo shape: a name string, a
// 4-byte member count, and that many member-name strings, in that
// order (MS-NRBF §2.3.1.1: ObjectId, Name, MemberCount, MemberNames —
// objectID is already consumed by the caller and passed in directly).
func Read(src bytesrc.Source, objectID int32) (ClassInfo, error) {
	name, err := varint.ReadString(src)
	if err != nil {
		return ClassInfo{}, err
	}

	var buf [4]byte
	if err := src.ReadFull(buf[:]); err != nil {
		return ClassInfo{}, err
	}
	memberCount := int32(binary.LittleEndian.Uint32(buf[:]))

	names := make([]string, memberCount)
	for i := range names {
		names[i], err = varint.ReadString(src)
		if err != nil {
			return ClassInfo{}, err
		}
	}

	return ClassInfo{ObjectID: objectID, Name: name, MemberNames: names}, nil
}
