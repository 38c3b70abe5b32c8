// Package primitive decodes the 18 primitive scalar tags used by the
// NRBF wire format, along with their bulk array forms.
package primitive

import (
	"encoding/binary"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/varint"
)

// Tag identifies one of the 18 primitive scalar kinds. The numeric
// values match the wire format's PrimitiveTypeEnumeration exactly.
type Tag byte

const (
	Boolean  Tag = 1
	Byte     Tag = 2
	Char     Tag = 3
	Decimal  Tag = 5
	Double   Tag = 6
	Int16    Tag = 7
	Int32    Tag = 8
	Int64    Tag = 9
	SByte    Tag = 10
	Single   Tag = 11
	TimeSpan Tag = 12
	DateTime Tag = 13
	UInt16   Tag = 14
	UInt32   Tag = 15
	UInt64   Tag = 16
	Null     Tag = 17
	String   Tag = 18
)

func (t Tag) String() string {
	switch t {
	case Boolean:
		return "boolean"
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Decimal:
		return "decimal"
	case Double:
		return "double"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case SByte:
		return "sbyte"
	case Single:
		return "single"
	case TimeSpan:
		return "timespan"
	case DateTime:
		return "datetime"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Null:
		return "null"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Value holds one decoded primitive scalar. Only the field matching Tag
// is meaningful; the zero Value with Tag Null represents the absence of
// a value.
type Value struct {
	Tag Tag

	Bool   bool
	I64    int64  // Char (code point), Int16, Int32, Int64, SByte, TimeSpan ticks
	U64    uint64 // Byte, UInt16, UInt32, UInt64
	F64    float64 // Double, Single (widened), Decimal (parsed)
	Str    string  // String, Char (UTF-8 rendering)
	DateMS int64   // DateTime: milliseconds since Unix epoch
}

// dateTimeEpochTicksOffset is the number of 100-ns ticks between year
// 0001 and the Unix epoch (1970-01-01).
const dateTimeEpochTicksOffset = 0x089F_7FF5_F7B5_8000

// dateTimeKindMask isolates the low 62 bits carrying the tick count; the
// upper 2 bits carry the (discarded) timezone kind.
const dateTimeKindMask = 0x3FFF_FFFF_FFFF_FFFF

// Read decodes a single primitive value of the given tag from src.
func Read(src bytesrc.Source, tag Tag) (Value, error) {
	switch tag {
	case Boolean:
		b, err := src.ReadByte()
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, Bool: b != 0}, nil

	case Byte:
		b, err := src.ReadByte()
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, U64: uint64(b)}, nil

	case SByte:
		b, err := src.ReadByte()
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, I64: int64(int8(b))}, nil

	case Char:
		r, s, err := readChar(src)
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, I64: int64(r), Str: s}, nil

	case Decimal:
		s, err := varint.ReadString(src)
		if err != nil {
			return Value{}, err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, F64: f, Str: s}, nil

	case Double:
		var buf [8]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, F64: math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))}, nil

	case Single:
		var buf [4]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, F64: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[:])))}, nil

	case Int16:
		var buf [2]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, I64: int64(int16(binary.LittleEndian.Uint16(buf[:])))}, nil

	case UInt16:
		var buf [2]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, U64: uint64(binary.LittleEndian.Uint16(buf[:]))}, nil

	case Int32:
		var buf [4]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, I64: int64(int32(binary.LittleEndian.Uint32(buf[:])))}, nil

	case UInt32:
		var buf [4]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, U64: uint64(binary.LittleEndian.Uint32(buf[:]))}, nil

	case Int64, TimeSpan:
		var buf [8]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, I64: int64(binary.LittleEndian.Uint64(buf[:]))}, nil

	case UInt64:
		var buf [8]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, U64: binary.LittleEndian.Uint64(buf[:])}, nil

	case DateTime:
		var buf [8]byte
		if err := src.ReadFull(buf[:]); err != nil {
			return Value{}, err
		}
		raw := binary.LittleEndian.Uint64(buf[:])
		ticks := int64(raw & dateTimeKindMask)
		ms := (ticks - dateTimeEpochTicksOffset) / 10_000
		return Value{Tag: tag, DateMS: ms}, nil

	case Null:
		return Value{Tag: tag}, nil

	case String:
		s, err := varint.ReadString(src)
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, Str: s}, nil

	default:
		return Value{}, errs.ErrBadPrimitiveTag
	}
}

// readChar reads a single UTF-8 code point (1-4 bytes, length determined
// by the leading byte's high bits per the usual UTF-8 classification).
func readChar(src bytesrc.Source) (rune, string, error) {
	lead, err := src.ReadByte()
	if err != nil {
		return 0, "", err
	}

	var n int
	switch {
	case lead&0x80 == 0x00:
		n = 1
	case lead&0xE0 == 0xC0:
		n = 2
	case lead&0xF0 == 0xE0:
		n = 3
	case lead&0xF8 == 0xF0:
		n = 4
	default:
		n = 1
	}

	buf := make([]byte, n)
	buf[0] = lead
	if n > 1 {
		if err := src.ReadFull(buf[1:]); err != nil {
			return 0, "", err
		}
	}

	r, size := utf8.DecodeRune(buf)
	if size == 0 {
		r = utf8.RuneError
	}

	return r, string(buf), nil
}

// DateTimeAsTime converts a decoded DateTime primitive value to a Go
// time.Time in UTC. The discarded timezone-kind bits mean this is always
// a UTC interpretation, per the wire format's documented limitation.
func (v Value) DateTimeAsTime() time.Time {
	return time.UnixMilli(v.DateMS).UTC()
}

// Array holds a decoded bulk primitive array: one Tag and a flat slice
// of Values of that tag, in wire order. The Null and Decimal array
// variants decode as a Length-element slice of zero Values, per spec.
type Array struct {
	Tag    Tag
	Values []Value
}

// ReadArray reads length consecutive primitive values of tag from src in
// their native bulk layout. The Null-array and Decimal-array variants
// are placeholders: they read nothing and yield an array of zero values.
func ReadArray(src bytesrc.Source, tag Tag, length int) (Array, error) {
	values := make([]Value, length)

	if tag == Null || tag == Decimal {
		for i := range values {
			values[i] = Value{Tag: tag}
		}
		return Array{Tag: tag, Values: values}, nil
	}

	for i := 0; i < length; i++ {
		v, err := Read(src, tag)
		if err != nil {
			return Array{}, err
		}
		values[i] = v
	}

	return Array{Tag: tag, Values: values}, nil
}
