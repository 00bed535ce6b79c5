package schema

import (
	"fmt"
	"reflect"

	"github.com/rmanoka/tygres/query"
)

// TableNamer lets a model override its derived table name.
type TableNamer interface {
	TableName() string
}

// TableOf returns the table for model M, named by M's TableName method or
// else by the default naming strategy. M doubles as the table's source
// marker, so columns of M only combine with this table's statements.
func TableOf[M any]() *query.Table[M] {
	return TableOfWith[M](DefaultNamingStrategy())
}

func TableOfWith[M any](ns NamingStrategy) *query.Table[M] {
	if tn, ok := any(new(M)).(TableNamer); ok {
		return query.NewTable[M](tn.TableName())
	}
	typ := modelType[M]()
	return query.NewTable[M](ns.TableName(typ.Name()))
}

// ColumnOf returns the column mapped to the named field of M. T must be the
// field's type. Mistakes here are programming errors and panic.
func ColumnOf[T, M any](table *query.Table[M], field string) query.Column[M, T] {
	return ColumnOfWith[T](table, field, DefaultNamingStrategy())
}

func ColumnOfWith[T, M any](table *query.Table[M], field string, ns NamingStrategy) query.Column[M, T] {
	f, tag := lookupField[M](field, ns)
	if want := reflect.TypeFor[T](); f.Type != want {
		panic(fmt.Sprintf("schema: field %s.%s is %s, not %s", modelType[M]().Name(), field, f.Type, want))
	}
	return query.NewColumn[T](table, tag.column)
}

// GeneratorOf returns the generator named by the field's `db` tag, if any.
func GeneratorOf[M any](field string) (IDGenerator, bool) {
	_, tag := lookupField[M](field, DefaultNamingStrategy())
	if tag.generator == "" {
		return nil, false
	}
	gen, ok := defaultRegistry.Get(tag.generator)
	if !ok {
		panic(fmt.Sprintf("schema: field %s.%s names unknown generator %q", modelType[M]().Name(), field, tag.generator))
	}
	return gen, true
}

// ColumnNames lists the mapped columns of M in field order.
func ColumnNames[M any]() []string {
	typ := modelType[M]()
	ns := DefaultNamingStrategy()
	var names []string
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, err := parseTag(f, ns)
		if err != nil {
			panic("schema: " + err.Error())
		}
		if !tag.skip {
			names = append(names, tag.column)
		}
	}
	return names
}

func lookupField[M any](field string, ns NamingStrategy) (reflect.StructField, fieldTag) {
	typ := modelType[M]()
	f, ok := typ.FieldByName(field)
	if !ok || !f.IsExported() {
		panic(fmt.Sprintf("schema: %s has no exported field %s", typ.Name(), field))
	}
	tag, err := parseTag(f, ns)
	if err != nil {
		panic("schema: " + err.Error())
	}
	if tag.skip {
		panic(fmt.Sprintf("schema: field %s.%s is not mapped", typ.Name(), field))
	}
	return f, tag
}

func modelType[M any]() reflect.Type {
	typ := reflect.TypeFor[M]()
	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("schema: model %s is not a struct", typ))
	}
	return typ
}
