package shape

import (
	"fmt"
	"reflect"
)

// Record is one decoded row. Each selected item owns one entry; an absent
// optional item holds nil.
type Record []any

// Scan copies the record into dest pointers, one per entry. An absent entry
// leaves its destination at the zero value.
func (r Record) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("%w: %d destinations for %d values", ErrColumnCount, len(dest), len(r))
	}
	for i, d := range dest {
		if r[i] == nil {
			if err := reset(d); err != nil {
				return fmt.Errorf("value %d: %w", i, err)
			}
			continue
		}
		if err := assign(d, r[i]); err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
	}
	return nil
}

// Get returns entry i as T. Absent entries are an error unless T can hold nil.
func Get[T any](r Record, i int) (T, error) {
	v, ok, err := Lookup[T](r, i)
	if err != nil {
		return v, err
	}
	if !ok && !nillable(reflect.TypeFor[T]().Kind()) {
		return v, fmt.Errorf("%w: entry %d", ErrAbsent, i)
	}
	return v, nil
}

// Lookup returns entry i as T and whether it held a value.
func Lookup[T any](r Record, i int) (T, bool, error) {
	var zero T
	if i < 0 || i >= len(r) {
		return zero, false, fmt.Errorf("%w: entry %d of %d", ErrColumnOutOfRange, i, len(r))
	}
	if r[i] == nil {
		return zero, false, nil
	}
	v, ok := r[i].(T)
	if !ok {
		return zero, false, fmt.Errorf("%w: entry %d is %T", ErrTypeMismatch, i, r[i])
	}
	return v, true, nil
}

func reset(dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("%w: destination %T is not a non-nil pointer", ErrTypeMismatch, dest)
	}
	dv.Elem().Set(reflect.Zero(dv.Elem().Type()))
	return nil
}
