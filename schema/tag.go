package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// fieldTag is the parsed `db` tag of a model field.
//
//	`db:"column_name"`                 explicit column
//	`db:"column:name;generator:uuid"`  column plus a registered generator
//	`db:"-"`                           not a column
type fieldTag struct {
	column    string
	generator string
	skip      bool
}

func parseTag(field reflect.StructField, ns NamingStrategy) (fieldTag, error) {
	value := field.Tag.Get("db")
	tag := fieldTag{column: ns.ColumnName(field.Name)}

	switch {
	case value == "":
		return tag, nil
	case value == "-":
		return fieldTag{skip: true}, nil
	case !strings.ContainsAny(value, ";:"):
		tag.column = value
		return tag, nil
	}

	for _, option := range strings.Split(value, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		key, val, ok := strings.Cut(option, ":")
		if !ok {
			// flags such as primary or not_null describe DDL, which is not
			// generated here
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		switch key {
		case "column":
			if val == "" {
				return fieldTag{}, fmt.Errorf("field %s: empty column name", field.Name)
			}
			tag.column = val
		case "generator":
			tag.generator = val
		}
	}
	return tag, nil
}
