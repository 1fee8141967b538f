package stdlib

import (
	"math"
	"testing"

	"glipt/internal/vm"
)

func TestMathBasics(t *testing.T) {
	v := newTestVM()

	if got := nativeSqrt(v, []vm.Value{vm.Number(9)}); got.Num != 3 {
		t.Fatalf("sqrt(9) = %v, want 3", got.Num)
	}
	if got := nativeFloor(v, []vm.Value{vm.Number(3.7)}); got.Num != 3 {
		t.Fatalf("floor(3.7) = %v, want 3", got.Num)
	}
	if got := nativeCeil(v, []vm.Value{vm.Number(3.2)}); got.Num != 4 {
		t.Fatalf("ceil(3.2) = %v, want 4", got.Num)
	}
	if got := nativePow(v, []vm.Value{vm.Number(2), vm.Number(10)}); got.Num != 1024 {
		t.Fatalf("pow(2,10) = %v, want 1024", got.Num)
	}
	if got := nativeAbs(v, []vm.Value{vm.Number(-5)}); got.Num != 5 {
		t.Fatalf("abs(-5) = %v, want 5", got.Num)
	}
}

func TestToIntOverflowIsATypeError(t *testing.T) {
	v := newTestVM()
	nativeToInt(v, []vm.Value{vm.Number(math.MaxInt64)})
	if !v.HasError() {
		t.Fatalf("expected a type error for an out-of-range toInt conversion")
	}
	if m, ok := v.LastError().Obj.(*vm.ObjMap); !ok || vm.AsString(m.Get("type")).Chars != vm.ErrType {
		t.Fatalf("expected a %q error, got %v", vm.ErrType, v.LastError())
	}
}

func TestToIntTruncates(t *testing.T) {
	v := newTestVM()
	got := nativeToInt(v, []vm.Value{vm.Number(7.9)})
	if v.HasError() {
		t.Fatalf("unexpected error: %v", v.LastError())
	}
	if got.Num != 7 {
		t.Fatalf("toInt(7.9) = %v, want 7", got.Num)
	}
}
