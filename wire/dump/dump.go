// Package dump renders a decoded record stream as an indented text
// tree: one "--- Record: N ---" block per record that no other record
// references, with nested members and array elements indented beneath it.
package dump

import (
	"fmt"
	"io"

	"github.com/halvorsen/nrbf/internal/pool"
	"github.com/halvorsen/nrbf/wire/binarytype"
	"github.com/halvorsen/nrbf/wire/primitive"
	"github.com/halvorsen/nrbf/wire/record"
)

// MaxIndent caps how many indent levels a nested value is printed at;
// deeper levels collapse to "...". MaxArrayPrintSize caps how many
// array elements are printed before the rest collapse to "...".
const (
	MaxIndent         = 20
	MaxArrayPrintSize = 20
	indentUnit        = "   "
)

// Text renders every record in s to a single string, skipping records
// flagged IsReferenced.
func Text(s *record.Stream) string {
	buf := pool.GetDumpBuffer()
	defer pool.PutDumpBuffer(buf)

	for _, rec := range s.Records {
		if rec.IsReferenced {
			continue
		}
		writeRecordHeader(buf, rec)
		writeRecordBody(buf, rec, 1)
	}

	return buf.String()
}

// Write renders s to w exactly as Text does.
func Write(w io.Writer, s *record.Stream) error {
	_, err := io.WriteString(w, Text(s))
	return err
}

func writeRecordHeader(buf *pool.Buffer, rec *record.Record) {
	buf.WriteString(fmt.Sprintf("--- Record: %d ---\n", rec.Index))
	buf.WriteString(fmt.Sprintf("%sTag: %s\n", indent(1), rec.Tag))
	if rec.ObjectID != 0 {
		buf.WriteString(fmt.Sprintf("%sObjectID: %d\n", indent(1), rec.ObjectID))
	}
	if rec.Class.Name != "" {
		buf.WriteString(fmt.Sprintf("%sClass: %s\n", indent(1), rec.Class.DisplayName()))
	}
}

func writeRecordBody(buf *pool.Buffer, rec *record.Record, depth int) {
	switch rec.Tag {
	case record.TagBinaryObjectString:
		buf.WriteString(fmt.Sprintf("%sValue: %q\n", indent(depth), rec.StringValue))
	case record.TagMemberPrimitiveTyped:
		buf.WriteString(fmt.Sprintf("%sValue: %s\n", indent(depth), formatScalar(rec.Scalar)))
	case record.TagMemberReference:
		buf.WriteString(fmt.Sprintf("%sRefID: %d\n", indent(depth), rec.RefID))
	case record.TagBinaryLibrary:
		buf.WriteString(fmt.Sprintf("%sLibraryID: %d Name: %q\n", indent(depth), rec.LibraryID, rec.LibraryName))
	case record.TagArraySinglePrimitive:
		writePrimArray(buf, rec.PrimArray, depth)
	case record.TagArraySingleObject, record.TagArraySingleString:
		writeMembers(buf, rec.Members, depth)
	case record.TagBinaryArray:
		writeArrayPayload(buf, rec.Array, depth)
	default:
		writeMembers(buf, rec.Members, depth)
	}
}

func writeMembers(buf *pool.Buffer, members []record.Member, depth int) {
	if depth > MaxIndent {
		buf.WriteString(fmt.Sprintf("%s...\n", indent(depth)))
		return
	}

	n := len(members)
	truncated := false
	if n > MaxArrayPrintSize {
		n = MaxArrayPrintSize
		truncated = true
	}

	for i := 0; i < n; i++ {
		writeMember(buf, i, members[i], depth)
	}
	if truncated {
		buf.WriteString(fmt.Sprintf("%s...\n", indent(depth)))
	}
}

// writeMember renders "[i] <memberName> (<type>) <value>", per spec's
// dump contract. Array elements (Name == "") drop the name, leaving
// "[i] (<type>) <value>".
func writeMember(buf *pool.Buffer, i int, m record.Member, depth int) {
	label := fmt.Sprintf("[%d]", i)
	if m.Name != "" {
		label = fmt.Sprintf("[%d] %s", i, m.Name)
	}

	if m.IsNull {
		buf.WriteString(fmt.Sprintf("%s%s (null) null\n", indent(depth), label))
		return
	}

	if m.Slot.Kind == binarytype.Primitive {
		buf.WriteString(fmt.Sprintf("%s%s (%s) %s\n", indent(depth), label, m.Slot.PrimitiveTag, formatScalar(m.Inline)))
		return
	}

	if m.RefRecord != nil {
		buf.WriteString(fmt.Sprintf("%s%s (%s) -> Record %d\n", indent(depth), label, m.Slot.Kind, m.RefRecord.Index))
		return
	}

	buf.WriteString(fmt.Sprintf("%s%s (%s) refID=%d (unresolved)\n", indent(depth), label, m.Slot.Kind, m.RefID))
}

func writePrimArray(buf *pool.Buffer, arr *primitive.Array, depth int) {
	if arr == nil {
		return
	}

	n := len(arr.Values)
	truncated := false
	if n > MaxArrayPrintSize {
		n = MaxArrayPrintSize
		truncated = true
	}

	for i := 0; i < n; i++ {
		buf.WriteString(fmt.Sprintf("%s[%d] (%s) %s\n", indent(depth), i, arr.Tag, formatScalar(arr.Values[i])))
	}
	if truncated {
		buf.WriteString(fmt.Sprintf("%s...\n", indent(depth)))
	}
}

func writeArrayPayload(buf *pool.Buffer, arr *record.ArrayPayload, depth int) {
	if arr == nil {
		return
	}

	buf.WriteString(fmt.Sprintf("%sKind: %s Rank: %d Lengths: %v\n", indent(depth), arr.Kind, arr.Rank, arr.Lengths))

	if arr.PrimValues != nil {
		writePrimArray(buf, arr.PrimValues, depth+1)
		return
	}
	writeMembers(buf, arr.Elements, depth+1)
}

func formatScalar(v primitive.Value) string {
	switch v.Tag {
	case primitive.Boolean:
		return fmt.Sprintf("%t", v.Bool)
	case primitive.String:
		return fmt.Sprintf("%q", v.Str)
	case primitive.Double, primitive.Single:
		return fmt.Sprintf("%g", v.F64)
	case primitive.DateTime:
		return v.DateTimeAsTime().String()
	case primitive.SByte, primitive.Int16, primitive.Int32, primitive.Int64:
		return fmt.Sprintf("%d", v.I64)
	case primitive.Byte, primitive.UInt16, primitive.UInt32, primitive.UInt64:
		return fmt.Sprintf("%d", v.U64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func indent(depth int) string {
	if depth > MaxIndent {
		depth = MaxIndent
	}
	s := ""
	for i := 0; i < depth; i++ {
		s += indentUnit
	}
	return s
}
