package vm

import (
	"math"
	"testing"
)

// ---------------------------------------------------------------------------
// Integer tests
// ---------------------------------------------------------------------------

func TestIntRoundTrip(t *testing.T) {
	tests := []int32{0, 1, -1, 42, -42, 1000000, MaxInt, MinInt}
	for _, n := range tests {
		v := FromInt(n)
		if !v.IsInt() {
			t.Errorf("FromInt(%d).IsInt() = false", n)
			continue
		}
		if got := v.Int(); got != n {
			t.Errorf("FromInt(%d).Int() = %d", n, got)
		}
	}
}

func TestIntWraparound(t *testing.T) {
	if got := FromInt(MaxInt + 1).Int(); got != MinInt {
		t.Errorf("MaxInt+1 = %d, want %d", got, MinInt)
	}
	if got := FromInt(MinInt - 1).Int(); got != MaxInt {
		t.Errorf("MinInt-1 = %d, want %d", got, MaxInt)
	}
}

// ---------------------------------------------------------------------------
// Float tests
// ---------------------------------------------------------------------------

func TestFloatRoundTrip(t *testing.T) {
	// Values whose two lowest fraction bits are zero survive exactly.
	tests := []float32{0, 1, -1, 0.5, 3.5, 5.5, -1024.25, float32(math.Inf(1)), float32(math.Inf(-1))}
	for _, f := range tests {
		v := FromFloat(f)
		if !v.IsFloat() {
			t.Errorf("FromFloat(%v).IsFloat() = false", f)
			continue
		}
		if got := v.Float(); got != f {
			t.Errorf("FromFloat(%v).Float() = %v", f, got)
		}
	}
}

func TestFloatTruncation(t *testing.T) {
	f := math.Float32frombits(0x3f800003) // 1.0 plus two ulps
	got := FromFloat(f).Float()
	if got != 1.0 {
		t.Errorf("low fraction bits not truncated: got %v", got)
	}
}

func TestFloatNaN(t *testing.T) {
	v := FromFloat(float32(math.NaN()))
	if !v.IsFloat() {
		t.Fatal("NaN should be a float")
	}
	if !math.IsNaN(float64(v.Float())) {
		t.Error("NaN round trip failed")
	}
}

// ---------------------------------------------------------------------------
// Symbols and classification
// ---------------------------------------------------------------------------

func TestConstants(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want uint32
	}{
		{"Zero", Zero, 0},
		{"FloatZero", FloatZero, 1},
		{"False", False, 2},
		{"True", True, 6},
		{"Null", Null, 10},
	}
	for _, tt := range tests {
		if uint32(tt.v) != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, uint32(tt.v), tt.want)
		}
	}
	if FromFloat(0) != FloatZero {
		t.Error("FromFloat(0) should be FloatZero")
	}
}

func TestClassification(t *testing.T) {
	ptr := FromPointer(Pointer(0x40))
	tests := []struct {
		name                         string
		v                            Value
		isInt, isFloat, isPtr, isSym bool
	}{
		{"int", FromInt(7), true, false, false, false},
		{"float", FromFloat(2.5), false, true, false, false},
		{"pointer", ptr, false, false, true, false},
		{"true", True, false, false, false, true},
		{"false", False, false, false, false, true},
		{"null", Null, false, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.IsInt() != tt.isInt || tt.v.IsFloat() != tt.isFloat ||
				tt.v.IsPtr() != tt.isPtr || tt.v.IsSymbol() != tt.isSym {
				t.Errorf("%v classified as int=%v float=%v ptr=%v sym=%v", tt.v,
					tt.v.IsInt(), tt.v.IsFloat(), tt.v.IsPtr(), tt.v.IsSymbol())
			}
		})
	}
	if ptr.Pointer() != 0x40 {
		t.Errorf("pointer = 0x%x, want 0x40", uint32(ptr.Pointer()))
	}
	if !ptr.IsObject() || Null.IsObject() {
		t.Error("IsObject misclassifies")
	}
	if !True.IsBool() || !False.IsBool() || Null.IsBool() {
		t.Error("IsBool misclassifies")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{False, false},
		{Null, false},
		{Zero, false},
		{FloatZero, false},
		{FromFloat(float32(math.Copysign(0, -1))), false},
		{True, true},
		{FromInt(-3), true},
		{FromFloat(0.25), true},
		{FromPointer(0x40), true},
	}
	for _, tt := range tests {
		if got := tt.v.Truthy(); got != tt.want {
			t.Errorf("%v.Truthy() = %v, want %v", tt.v, got, tt.want)
		}
	}
	if FromBool(true) != True || FromBool(false) != False {
		t.Error("FromBool mismatch")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{FromInt(-5), "int(-5)"},
		{FromFloat(1.5), "float(1.5)"},
		{True, "true"},
		{Null, "null"},
		{FromPointer(0x10), "ptr(0x10)"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
