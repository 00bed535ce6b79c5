package shape

import (
	"fmt"
	"math"
	"reflect"
)

// Coerce checks v against typ and returns it as a typ value. Assignable
// values pass through; integers and floats convert within their family when
// the value fits; strings and bools convert to named types of the same kind.
// A nil typ accepts anything.
func Coerce(v any, typ reflect.Type) (any, error) {
	if typ == nil {
		return v, nil
	}
	if v == nil {
		if nillable(typ.Kind()) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: nil for %s", ErrTypeMismatch, typ)
	}

	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(typ) {
		return v, nil
	}

	dst := reflect.New(typ).Elem()
	sk, dk := src.Kind(), typ.Kind()
	switch {
	case isInt(sk) && isInt(dk):
		x := src.Int()
		if dst.OverflowInt(x) {
			return nil, overflow(v, typ)
		}
		dst.SetInt(x)
	case isInt(sk) && isUint(dk):
		x := src.Int()
		if x < 0 || dst.OverflowUint(uint64(x)) {
			return nil, overflow(v, typ)
		}
		dst.SetUint(uint64(x))
	case isUint(sk) && isInt(dk):
		x := src.Uint()
		if x > math.MaxInt64 || dst.OverflowInt(int64(x)) {
			return nil, overflow(v, typ)
		}
		dst.SetInt(int64(x))
	case isUint(sk) && isUint(dk):
		x := src.Uint()
		if dst.OverflowUint(x) {
			return nil, overflow(v, typ)
		}
		dst.SetUint(x)
	case isFloat(sk) && isFloat(dk):
		x := src.Float()
		if dst.OverflowFloat(x) {
			return nil, overflow(v, typ)
		}
		dst.SetFloat(x)
	case sk == dk && (sk == reflect.String || sk == reflect.Bool):
		dst.Set(src.Convert(typ))
	default:
		return nil, fmt.Errorf("%w: %T for %s", ErrTypeMismatch, v, typ)
	}
	return dst.Interface(), nil
}

func overflow(v any, typ reflect.Type) error {
	return fmt.Errorf("%w: %v overflows %s", ErrTypeMismatch, v, typ)
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	}
	return false
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
