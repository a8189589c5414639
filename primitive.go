package forge

// Primitive is one row of the fixed-order built-in type table (spec
// section 3, component A). Position in primitiveTable is contractual:
// callers rely on the ordering to classify a primitive into a Range
// without a lookup table of their own.
type Primitive struct {
	Name            string
	CCodeName       string
	SizeBytes       int
	Capacity        uint64 // largest representable magnitude; 0 for non-numerics
	AllowedInNative bool
}

// primitive ordinals. The order is the contract: SIGNED, UNSIGNED,
// INTEGER, FLOATING and NUMBER are all contiguous slices of this
// sequence.
const (
	PrimVoid = iota
	PrimBool
	PrimChar
	PrimByte
	PrimShort
	PrimInt
	PrimLong
	PrimUChar
	PrimUByte
	PrimUShort
	PrimUInt
	PrimULong
	PrimFloat
	PrimDouble
	primAny // internal-any: used by the checker when a type cannot be known
	primCount
)

var primitiveTable = [primCount]Primitive{
	PrimVoid:   {Name: "void", CCodeName: "void", SizeBytes: 0, Capacity: 0, AllowedInNative: true},
	PrimBool:   {Name: "bool", CCodeName: "bool", SizeBytes: 1, Capacity: 1, AllowedInNative: true},
	PrimChar:   {Name: "char", CCodeName: "int8_t", SizeBytes: 1, Capacity: 1<<7 - 1, AllowedInNative: true},
	PrimByte:   {Name: "byte", CCodeName: "int8_t", SizeBytes: 1, Capacity: 1<<7 - 1, AllowedInNative: true},
	PrimShort:  {Name: "short", CCodeName: "int16_t", SizeBytes: 2, Capacity: 1<<15 - 1, AllowedInNative: true},
	PrimInt:    {Name: "int", CCodeName: "int32_t", SizeBytes: 4, Capacity: 1<<31 - 1, AllowedInNative: true},
	PrimLong:   {Name: "long", CCodeName: "int64_t", SizeBytes: 8, Capacity: 1<<63 - 1, AllowedInNative: true},
	PrimUChar:  {Name: "uchar", CCodeName: "uint8_t", SizeBytes: 1, Capacity: 1<<8 - 1, AllowedInNative: true},
	PrimUByte:  {Name: "ubyte", CCodeName: "uint8_t", SizeBytes: 1, Capacity: 1<<8 - 1, AllowedInNative: true},
	PrimUShort: {Name: "ushort", CCodeName: "uint16_t", SizeBytes: 2, Capacity: 1<<16 - 1, AllowedInNative: true},
	PrimUInt:   {Name: "uint", CCodeName: "uint32_t", SizeBytes: 4, Capacity: 1<<32 - 1, AllowedInNative: true},
	PrimULong:  {Name: "ulong", CCodeName: "uint64_t", SizeBytes: 8, Capacity: 1<<64 - 1, AllowedInNative: true},
	PrimFloat:  {Name: "float", CCodeName: "float", SizeBytes: 4, Capacity: 1<<24 - 1, AllowedInNative: true},
	PrimDouble: {Name: "double", CCodeName: "double", SizeBytes: 8, Capacity: 1<<53 - 1, AllowedInNative: true},
	primAny:    {Name: "<any>", CCodeName: "", SizeBytes: 0, Capacity: 0, AllowedInNative: false},
}

// PrimitiveRange is a contiguous slice of primitive ordinals, e.g. SIGNED or
// FLOATING. Using half-open [Low, High) integer bounds keeps InRange a
// single comparison.
type PrimitiveRange struct{ Low, High int }

var (
	rangeSigned   = PrimitiveRange{PrimChar, PrimLong + 1}
	rangeUnsigned = PrimitiveRange{PrimUChar, PrimULong + 1}
	rangeInteger  = PrimitiveRange{PrimChar, PrimULong + 1}
	rangeFloating = PrimitiveRange{PrimFloat, PrimDouble + 1}
	rangeNumber   = PrimitiveRange{PrimChar, PrimDouble + 1}
)

func PrimitiveByOrdinal(ord int) Primitive { return primitiveTable[ord] }

func IndexOf(ord int) int { return ord }

func InRange(ord int, r PrimitiveRange) bool { return ord >= r.Low && ord < r.High }

func IsNumber(ord int) bool   { return InRange(ord, rangeNumber) }
func IsInteger(ord int) bool  { return InRange(ord, rangeInteger) }
func IsSigned(ord int) bool   { return InRange(ord, rangeSigned) }
func IsUnsigned(ord int) bool { return InRange(ord, rangeUnsigned) }
func IsFloating(ord int) bool { return InRange(ord, rangeFloating) }
func IsBoolean(ord int) bool  { return ord == PrimBool }
func IsVoid(ord int) bool     { return ord == PrimVoid }

// SignedToUnsigned maps a signed integer ordinal to its unsigned
// sibling by shifting it by the width of SIGNED, mirroring the table's
// layout: {char,byte,short,int,long} -> {uchar,ubyte,ushort,uint,ulong}.
func SignedToUnsigned(ord int) int {
	if !IsSigned(ord) {
		return ord
	}
	return ord + (rangeSigned.High - rangeSigned.Low)
}

// UnsignedToSigned is the inverse of SignedToUnsigned.
func UnsignedToSigned(ord int) int {
	if !IsUnsigned(ord) {
		return ord
	}
	return ord - (rangeSigned.High - rangeSigned.Low)
}

// smallestSignedWithCapacity returns the smallest SIGNED primitive
// whose Capacity is >= the given capacity, or PrimLong if none qualify
// exactly (saturating at the widest signed type).
func smallestSignedWithCapacity(capacity uint64) int {
	for ord := rangeSigned.Low; ord < rangeSigned.High; ord++ {
		if primitiveTable[ord].Capacity >= capacity {
			return ord
		}
	}
	return PrimLong
}

// smallestFloatingWithCapacity returns the smallest FLOATING primitive
// whose Capacity is >= the given capacity.
func smallestFloatingWithCapacity(capacity uint64) int {
	for ord := rangeFloating.Low; ord < rangeFloating.High; ord++ {
		if primitiveTable[ord].Capacity >= capacity {
			return ord
		}
	}
	return PrimDouble
}
