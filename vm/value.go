package vm

import (
	"fmt"
	"math"
)

// Value is a 32-bit tagged word.
//
// The two lowest bits select the variant:
//
//	xxxx ... xxxx xx00   30-bit signed integer
//	xxxx ... xxxx xx01   IEEE 754 binary32 with a 21-bit fraction
//	xxxx ... xxxx xx11   4-byte aligned heap address
//	xxxx ... xxxx xx10   symbols (false, true, null)
//
// The encoding is bit-compatible with the word layout emitted by the
// code generator, so values can be stored directly in heap slots.
type Value uint32

// Pointer is a 4-byte aligned byte address inside the heap arena.
type Pointer uint32

const (
	tagMask   uint32 = 3
	tagInt    uint32 = 0
	tagFloat  uint32 = 1
	tagSymbol uint32 = 2
	tagPtr    uint32 = 3
)

// Symbols and well-known constants.
const (
	False     Value = 0b0010
	True      Value = 0b0110
	Null      Value = 0b1010 // also used for undefined
	Zero      Value = 0      // integer 0
	FloatZero Value = 1      // float 0.0
)

// SmallInt range (30-bit signed).
const (
	MaxInt int32 = 1<<29 - 1
	MinInt int32 = -(1 << 29)
)

// ---------------------------------------------------------------------------
// Classification
// ---------------------------------------------------------------------------

// IsInt reports whether v holds a 30-bit integer.
func (v Value) IsInt() bool { return uint32(v)&tagMask == tagInt }

// IsFloat reports whether v holds a reduced-precision float.
func (v Value) IsFloat() bool { return uint32(v)&tagMask == tagFloat }

// IsPtr reports whether v holds a heap address.
func (v Value) IsPtr() bool { return uint32(v)&tagMask == tagPtr }

// IsSymbol reports whether v is one of false, true or null.
func (v Value) IsSymbol() bool { return uint32(v)&tagMask == tagSymbol }

// IsBool reports whether v is true or false.
func (v Value) IsBool() bool { return v == True || v == False }

// IsNull reports whether v is null (or undefined).
func (v Value) IsNull() bool { return v == Null }

// IsObject reports whether v points to a heap object.
func (v Value) IsObject() bool { return v.IsPtr() && v.Pointer() != 0 }

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

// FromInt encodes n. Bits above the 30-bit range are discarded, which gives
// integer arithmetic its wraparound semantics.
func FromInt(n int32) Value { return Value(uint32(n) << 2) }

// Int decodes a 30-bit integer. The result is meaningless unless IsInt.
func (v Value) Int() int32 { return int32(v) >> 2 }

// FromFloat encodes f. The two lowest fraction bits are truncated, so a
// float does not survive a FromFloat/Float round trip unless those bits
// were already zero.
func FromFloat(f float32) Value {
	return Value(math.Float32bits(f)&^tagMask | tagFloat)
}

// Float decodes a reduced-precision float. Meaningless unless IsFloat.
func (v Value) Float() float32 { return math.Float32frombits(uint32(v) &^ tagMask) }

// FromPointer encodes a heap address.
func FromPointer(p Pointer) Value { return Value(uint32(p)&^tagMask | tagPtr) }

// Pointer decodes a heap address. Meaningless unless IsPtr.
func (v Value) Pointer() Pointer { return Pointer(uint32(v) &^ tagMask) }

// FromBool encodes b as True or False.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Truthy reports how v behaves in a condition. False, null, integer 0 and
// float 0.0 are falsy; every other value is truthy.
func (v Value) Truthy() bool {
	switch {
	case v == False || v == Null:
		return false
	case v.IsInt():
		return v != Zero
	case v.IsFloat():
		return v.Float() != 0
	default:
		return true
	}
}

// String renders the raw classification of v for debugging. Use
// Runtime.AnyToString for the language-level string form.
func (v Value) String() string {
	switch {
	case v.IsInt():
		return fmt.Sprintf("int(%d)", v.Int())
	case v.IsFloat():
		return fmt.Sprintf("float(%g)", v.Float())
	case v == True:
		return "true"
	case v == False:
		return "false"
	case v == Null:
		return "null"
	case v.IsPtr():
		return fmt.Sprintf("ptr(0x%x)", uint32(v.Pointer()))
	default:
		return fmt.Sprintf("symbol(0x%x)", uint32(v))
	}
}
