package dialect

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

// renderLiteral is shared by the dialects; only byte strings differ.
// Named types render by their underlying kind, pointers by their target and
// driver.Valuer implementations by the value they report.
func renderLiteral(v any, bytes func([]byte) string) string {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "NULL"
	}

	switch val := v.(type) {
	case time.Time:
		return quote(val.Format(timestampLayout))
	case []byte:
		return bytes(val)
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil {
			panic(fmt.Sprintf("dialect: literal %T: %v", v, err))
		}
		if _, again := dv.(driver.Valuer); again {
			return quote(fmt.Sprint(dv))
		}
		return renderLiteral(dv, bytes)
	}

	switch rv.Kind() {
	case reflect.Pointer:
		return renderLiteral(rv.Elem().Interface(), bytes)
	case reflect.String:
		return quote(rv.String())
	case reflect.Bool:
		if rv.Bool() {
			return "TRUE"
		}
		return "FALSE"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return quote(fmt.Sprint(v))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
