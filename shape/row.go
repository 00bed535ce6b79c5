package shape

import (
	"fmt"
	"reflect"
)

// Row gives typed access to the columns of one result row by offset.
type Row interface {
	Len() int
	// ScanAt stores the value at column idx into dest, a non-nil pointer.
	ScanAt(idx int, dest any) error
}

// Scanner is the whole-row scan that database/sql and pgx rows provide.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanRow scans the current row of src into destinations typed after r and
// returns them as a Row.
func ScanRow(src Scanner, r Result) (Row, error) {
	targets := Targets(r)
	if err := src.Scan(targets...); err != nil {
		return nil, err
	}
	return scanned(targets), nil
}

type scanned []any

func (s scanned) Len() int { return len(s) }

func (s scanned) ScanAt(idx int, dest any) error {
	if idx < 0 || idx >= len(s) {
		return fmt.Errorf("%w: %d of %d", ErrColumnOutOfRange, idx, len(s))
	}
	return assign(dest, reflect.ValueOf(s[idx]).Elem().Interface())
}

// Values is a Row over already materialized column values.
type Values []any

func (v Values) Len() int { return len(v) }

func (v Values) ScanAt(idx int, dest any) error {
	if idx < 0 || idx >= len(v) {
		return fmt.Errorf("%w: %d of %d", ErrColumnOutOfRange, idx, len(v))
	}
	return assign(dest, v[idx])
}

func assign(dest any, v any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("%w: destination %T is not a non-nil pointer", ErrTypeMismatch, dest)
	}
	target := dv.Elem()
	c, err := Coerce(v, target.Type())
	if err != nil {
		return err
	}
	if c == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	target.Set(reflect.ValueOf(c))
	return nil
}
