package flash

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/mcurt/vm"
	"github.com/google/go-cmp/cmp"
)

func testNatives() map[string]vm.Method {
	ret := func(v vm.Value) vm.MethodFunc {
		return func(*vm.Context, vm.Value, []vm.Value) (vm.Value, error) { return v, nil }
	}
	return map[string]vm.Method{
		"mth_0_Shape": vm.NewMethod("mth_0_Shape", ret(vm.FromInt(0))),
		"mth_0_Rect":  vm.NewMethod("mth_0_Rect", ret(vm.FromInt(4))),
		"mth_1_Rect":  vm.NewMethod("mth_1_Rect", ret(vm.FromInt(5))),
	}
}

func testClasses(natives map[string]vm.Method) []*vm.Class {
	shape := &vm.Class{
		Name:       "Shape",
		Size:       1,
		StartIndex: 0,
		Superclass: vm.ObjectClass,
		Props:      vm.PropertyTable{Names: []uint16{7}},
		Methods:    []vm.MethodEntry{{ID: 20, Signature: "()i", Slot: 0}},
		VTable:     vm.VTable{natives["mth_0_Shape"]},
	}
	rect := &vm.Class{
		Name:       "Rect",
		Size:       3,
		StartIndex: 2,
		Superclass: shape,
		Props:      vm.PropertyTable{Offset: 1, Unboxed: 2, Names: []uint16{8, 9}, UnboxedTypes: "if"},
		Methods:    []vm.MethodEntry{{ID: 21, Signature: "(i)v", Slot: 1}},
		VTable:     vm.VTable{natives["mth_0_Rect"], natives["mth_1_Rect"]},
	}
	return []*vm.Class{shape, rect}
}

// ---------------------------------------------------------------------------
// Framing
// ---------------------------------------------------------------------------

func TestImage_RoundTrip(t *testing.T) {
	data, err := Encode(testClasses(testNatives()))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(string(data), Magic) {
		t.Fatalf("image does not start with %q", Magic)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := &Image{Classes: []ClassRecord{
		{
			Name:    "Shape",
			Size:    1,
			Super:   "Object",
			Props:   PropsRecord{Names: []uint16{7}},
			Methods: []MethodRecord{{ID: 20, Signature: "()i", Slot: 0}},
			VTable:  []string{"mth_0_Shape"},
		},
		{
			Name:       "Rect",
			Size:       3,
			StartIndex: 2,
			Super:      "Shape",
			Props:      PropsRecord{Offset: 1, Unboxed: 2, Names: []uint16{8, 9}, UnboxedTypes: "if"},
			Methods:    []MethodRecord{{ID: 21, Signature: "(i)v", Slot: 1}},
			VTable:     []string{"mth_0_Rect", "mth_1_Rect"},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded image mismatch (-want +got):\n%s", diff)
	}
}

func TestImage_Deterministic(t *testing.T) {
	a, err := Encode(testClasses(testNatives()))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encode(testClasses(testNatives()))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("two encodings of the same classes differ")
	}
}

func TestImage_Corrupt(t *testing.T) {
	data, err := Encode(testClasses(testNatives()))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   string
	}{
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }, "not a class table image"},
		{"bad version", func(b []byte) []byte { b[4] = 99; return b }, "unsupported image version"},
		{"flipped payload bit", func(b []byte) []byte { b[8] ^= 0x40; return b }, "checksum mismatch"},
		{"truncated", func(b []byte) []byte { return b[:5] }, "not a class table image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(append([]byte(nil), data...))
			_, err := Unmarshal(b)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Unmarshal error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRecord_UnnamedMethod(t *testing.T) {
	c := &vm.Class{
		Name:       "Anon",
		Superclass: vm.ObjectClass,
		VTable: vm.VTable{vm.MethodFunc(func(*vm.Context, vm.Value, []vm.Value) (vm.Value, error) {
			return vm.Null, nil
		})},
	}
	if _, err := Record(c); err == nil {
		t.Error("Record should reject a vtable entry without a symbol name")
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

func TestLoad_RegistersClasses(t *testing.T) {
	natives := testNatives()
	data, err := Encode(testClasses(natives))
	if err != nil {
		t.Fatal(err)
	}

	rt := vm.New(vm.DefaultOptions())
	classes, err := Load(rt, data, natives)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("loaded %d classes, want 2", len(classes))
	}
	shape, rect := classes[0], classes[1]
	if rect.Superclass != shape || shape.Superclass != vm.ObjectClass {
		t.Error("superclass chain not resolved")
	}
	if rt.LookupClass("Rect") != rect {
		t.Error("Rect not registered with the runtime")
	}

	ctx := rt.Main()
	obj, err := ctx.NewObject(rect)
	if err != nil {
		t.Fatal(err)
	}
	if !rt.IsInstanceOf(shape, obj) {
		t.Error("Rect instance should be a Shape")
	}
	got, err := ctx.CallMethod(obj, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != vm.FromInt(5) {
		t.Errorf("slot 1 returned %v, want 5", got)
	}
}

func TestLoad_UnresolvedNative(t *testing.T) {
	data, err := Encode(testClasses(testNatives()))
	if err != nil {
		t.Fatal(err)
	}
	natives := testNatives()
	delete(natives, "mth_1_Rect")

	_, err = Load(vm.New(vm.DefaultOptions()), data, natives)
	if err == nil || !strings.Contains(err.Error(), "unresolved native mth_1_Rect") {
		t.Errorf("Load error = %v, want unresolved native", err)
	}
}

func TestLoad_UnknownSuperclass(t *testing.T) {
	img := &Image{Classes: []ClassRecord{{Name: "Orphan", Super: "Missing"}}}
	data, err := Marshal(img)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Load(vm.New(vm.DefaultOptions()), data, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown superclass Missing") {
		t.Errorf("Load error = %v, want unknown superclass", err)
	}
}

func TestLoad_InvalidDescriptor(t *testing.T) {
	img := &Image{Classes: []ClassRecord{{Name: "Bad", Size: 1, StartIndex: 5, Super: "Object"}}}
	data, err := Marshal(img)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Load(vm.New(vm.DefaultOptions()), data, nil)
	if err == nil {
		t.Fatal("Load should reject a start index beyond the instance size")
	}
	if !errors.Is(err, vm.ErrRuntime) {
		t.Errorf("error %v should wrap a runtime error", err)
	}
}

func TestLoad_RejectedImageRegistersNothing(t *testing.T) {
	img := &Image{Classes: []ClassRecord{
		{Name: "Good", Size: 1, StartIndex: 0, Super: "Object"},
		{Name: "Bad", Size: 1, StartIndex: 5, Super: "Good"},
	}}
	data, err := Marshal(img)
	if err != nil {
		t.Fatal(err)
	}
	rt := vm.New(vm.DefaultOptions())
	before := len(rt.Classes())
	if _, err := Load(rt, data, nil); err == nil {
		t.Fatal("Load should reject the image")
	}
	if rt.LookupClass("Good") != nil {
		t.Error("Good registered by a rejected image")
	}
	if got := len(rt.Classes()); got != before {
		t.Errorf("class count = %d after rejected load, want %d", got, before)
	}
}
