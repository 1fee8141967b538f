package stdlib

import (
	"math"

	"fortio.org/safecast"

	"glipt/internal/vm"
)

// registerMath wraps the standard math package (justified in SPEC_FULL.md
// §3: no third-party numerics library appears anywhere in the retrieved
// pack) plus fortio.org/safecast for the one operation the standard
// library gets wrong by default: converting a glipt number (always a
// float64) down to an int without silently wrapping on overflow.
func registerMath(v *vm.VM) {
	v.DefineNative("sqrt", 1, nativeSqrt)
	v.DefineNative("floor", 1, nativeFloor)
	v.DefineNative("ceil", 1, nativeCeil)
	v.DefineNative("pow", 2, nativePow)
	v.DefineNative("abs", 1, nativeAbs)
	v.DefineNative("toInt", 1, nativeToInt)
}

func nativeSqrt(v *vm.VM, args []vm.Value) vm.Value {
	n, ok := num(v, args, 0, "sqrt")
	if !ok {
		return vm.Nil
	}
	return vm.Number(math.Sqrt(n))
}

func nativeFloor(v *vm.VM, args []vm.Value) vm.Value {
	n, ok := num(v, args, 0, "floor")
	if !ok {
		return vm.Nil
	}
	return vm.Number(math.Floor(n))
}

func nativeCeil(v *vm.VM, args []vm.Value) vm.Value {
	n, ok := num(v, args, 0, "ceil")
	if !ok {
		return vm.Nil
	}
	return vm.Number(math.Ceil(n))
}

func nativePow(v *vm.VM, args []vm.Value) vm.Value {
	base, ok := num(v, args, 0, "pow")
	if !ok {
		return vm.Nil
	}
	exp, ok := num(v, args, 1, "pow")
	if !ok {
		return vm.Nil
	}
	return vm.Number(math.Pow(base, exp))
}

func nativeAbs(v *vm.VM, args []vm.Value) vm.Value {
	n, ok := num(v, args, 0, "abs")
	if !ok {
		return vm.Nil
	}
	return vm.Number(math.Abs(n))
}

// nativeToInt truncates toward zero, raising a type error instead of
// silently wrapping when the value doesn't fit an int32 (safecast.Convert
// returns an error in that case rather than the wraparound plain Go casts
// perform).
func nativeToInt(v *vm.VM, args []vm.Value) vm.Value {
	n, ok := num(v, args, 0, "toInt")
	if !ok {
		return vm.Nil
	}
	i, err := safecast.Convert[int32](math.Trunc(n))
	if err != nil {
		v.Raise(vm.ErrType, "toInt: %v", err)
		return vm.Nil
	}
	return vm.Number(float64(i))
}
