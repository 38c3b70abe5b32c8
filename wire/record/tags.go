package record

// Tag identifies one of the top-level record variants. Values match the
// wire format's RecordTypeEnumeration.
type Tag byte

const (
	TagStreamHeader                    Tag = 0
	TagClassWithId                     Tag = 1
	TagSystemClassWithMembers          Tag = 2
	TagClassWithMembers                Tag = 3
	TagSystemClassWithMembersAndTypes  Tag = 4
	TagClassWithMembersAndTypes        Tag = 5
	TagBinaryObjectString              Tag = 6
	TagBinaryArray                     Tag = 7
	TagMemberPrimitiveTyped            Tag = 8
	TagMemberReference                 Tag = 9
	TagObjectNull                      Tag = 10
	TagMessageEnd                      Tag = 11
	TagBinaryLibrary                   Tag = 12
	TagObjectNullMultiple256           Tag = 13
	TagObjectNullMultiple              Tag = 14
	TagArraySinglePrimitive            Tag = 15
	TagArraySingleObject               Tag = 16
	TagArraySingleString               Tag = 17
	TagMethodCall                      Tag = 21
	TagMethodReturn                    Tag = 22
)

func (t Tag) String() string {
	switch t {
	case TagStreamHeader:
		return "SerializationHeaderRecord"
	case TagClassWithId:
		return "ClassWithId"
	case TagSystemClassWithMembers:
		return "SystemClassWithMembers"
	case TagClassWithMembers:
		return "ClassWithMembers"
	case TagSystemClassWithMembersAndTypes:
		return "SystemClassWithMembersAndTypes"
	case TagClassWithMembersAndTypes:
		return "ClassWithMembersAndTypes"
	case TagBinaryObjectString:
		return "BinaryObjectString"
	case TagBinaryArray:
		return "BinaryArray"
	case TagMemberPrimitiveTyped:
		return "MemberPrimitiveTyped"
	case TagMemberReference:
		return "MemberReference"
	case TagObjectNull:
		return "ObjectNull"
	case TagMessageEnd:
		return "MessageEnd"
	case TagBinaryLibrary:
		return "BinaryLibrary"
	case TagObjectNullMultiple256:
		return "ObjectNullMultiple256"
	case TagObjectNullMultiple:
		return "ObjectNullMultiple"
	case TagArraySinglePrimitive:
		return "ArraySinglePrimitive"
	case TagArraySingleObject:
		return "ArraySingleObject"
	case TagArraySingleString:
		return "ArraySingleString"
	case TagMethodCall:
		return "MethodCall"
	case TagMethodReturn:
		return "MethodReturn"
	default:
		return "Unknown"
	}
}

// ArrayKind identifies the shape of a BinaryArray record. Values match
// the wire format's BinaryArrayTypeEnumeration.
type ArrayKind byte

const (
	ArraySingle            ArrayKind = 0
	ArrayJagged            ArrayKind = 1
	ArrayRectangular       ArrayKind = 2
	ArraySingleOffset      ArrayKind = 3
	ArrayJaggedOffset      ArrayKind = 4
	ArrayRectangularOffset ArrayKind = 5
)

// HasLowerBounds reports whether this array kind carries a rank-length
// vector of lower bounds after its lengths vector.
func (k ArrayKind) HasLowerBounds() bool {
	return k == ArraySingleOffset || k == ArrayJaggedOffset || k == ArrayRectangularOffset
}

// Decoded reports whether this array kind's contents are decoded any
// further than its header; only Single and Rectangular are, per spec.
func (k ArrayKind) Decoded() bool {
	return k == ArraySingle || k == ArrayRectangular
}

func (k ArrayKind) String() string {
	switch k {
	case ArraySingle:
		return "Single"
	case ArrayJagged:
		return "Jagged"
	case ArrayRectangular:
		return "Rectangular"
	case ArraySingleOffset:
		return "SingleOffset"
	case ArrayJaggedOffset:
		return "JaggedOffset"
	case ArrayRectangularOffset:
		return "RectangularOffset"
	default:
		return "Unknown"
	}
}
