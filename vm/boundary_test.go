package vm

import (
	"errors"
	"strings"
	"testing"
)

func TestTryAndCatch_Success(t *testing.T) {
	rt := New(DefaultOptions())
	status, err := rt.TryAndCatch(func(ctx *Context) error {
		if ctx != rt.Main() {
			t.Error("boundary should run on the main context")
		}
		return nil
	})
	if status != 0 || err != nil {
		t.Errorf("status %d, err %v; want 0, nil", status, err)
	}
}

func TestTryAndCatch_PropagatesFirstError(t *testing.T) {
	rt := New(DefaultOptions())
	status, err := rt.TryAndCatch(func(ctx *Context) error {
		f := ctx.PushFrame(4)
		_ = f
		if _, err := ctx.Divide(FromInt(4), FromInt(0)); err != nil {
			return err
		}
		return Raise("not reached")
	})
	if status != 1 {
		t.Errorf("status = %d, want 1", status)
	}
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("err = %v, want division by zero", err)
	}
	if rt.Main().Depth() != 0 {
		t.Errorf("frames left linked after the boundary: depth %d", rt.Main().Depth())
	}
}

func TestTryAndCatch_RecoversPanics(t *testing.T) {
	rt := New(DefaultOptions())
	tests := []struct {
		name  string
		panic any
		kind  Kind
		msg   string
	}{
		{"runtime error value", newError(IndexOutOfRange, "index 9, length 1"), IndexOutOfRange, "array index out of range"},
		{"plain error", errors.New("boom"), GenericRuntimeError, "boom"},
		{"string", "bad state", GenericRuntimeError, "bad state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := rt.TryAndCatch(func(ctx *Context) error {
				ctx.PushFrame(1)
				panic(tt.panic)
			})
			if status == 0 || err == nil {
				t.Fatal("panic was not reported")
			}
			if KindOf(err) != tt.kind {
				t.Errorf("kind = %v, want %v", KindOf(err), tt.kind)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("message %q does not contain %q", err.Error(), tt.msg)
			}
			if rt.Main().Depth() != 0 {
				t.Error("frames left linked after a panic")
			}
		})
	}
}

func TestTryAndCatch_Nested(t *testing.T) {
	rt := New(DefaultOptions())
	var inner error
	status, err := rt.TryAndCatch(func(ctx *Context) error {
		_, inner = rt.TryAndCatch(func(*Context) error { return nil })
		return nil
	})
	if status != 0 || err != nil {
		t.Fatalf("outer boundary: %d, %v", status, err)
	}
	if !errors.Is(inner, ErrRuntime) {
		t.Errorf("nested boundary: %v, want runtime error", inner)
	}
	// The boundary is available again once the outer one returns.
	if status, _ := rt.TryAndCatch(func(*Context) error { return nil }); status != 0 {
		t.Error("boundary not released")
	}
}

func TestTryAndCatch_ResetsInterruptBracket(t *testing.T) {
	rt := New(DefaultOptions())
	rt.TryAndCatch(func(ctx *Context) error {
		isr := rt.InterruptStart()
		isr.PushFrame(2)
		return Raise("fault inside a handler")
	})
	if rt.InInterrupt() {
		t.Error("interrupt depth not reset")
	}
	if rt.isr.Depth() != 0 {
		t.Error("interrupt frames not unlinked")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{typeError("x"), "runtime type error: x"},
		{indexError(3, 2), "array index out of range: index 3, length 2"},
		{newError(DivisionByZero, "x"), "division by zero: x"},
		{newError(OutOfMemory, "x"), "out of memory: x"},
		{newError(SignatureMismatch, "x"), "function signature mismatch: x"},
		{Raise("x"), "runtime error: x"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if KindOf(errors.New("foreign")) != GenericRuntimeError {
		t.Error("foreign errors should map to GenericRuntimeError")
	}
}
