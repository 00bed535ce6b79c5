package shape

import (
	"fmt"
	"reflect"
	"strconv"
)

// Param describes, in placeholder order, the values a rendered statement
// needs at execution time. Leaves either consume one caller argument, or
// carry their value with them (fixed and generated values).
type Param interface {
	// Placeholders is the number of positional placeholders the node covers.
	Placeholders() int
	// Args is the number of caller arguments the node consumes.
	Args() int
	String() string

	bind(in *arguments, out []any) ([]any, error)
}

// Generator produces a fresh value every time a statement is bound.
type Generator interface {
	Generate() (any, error)
}

// Unit needs nothing.
var Unit Param = unit{}

type unit struct{}

func (unit) Placeholders() int { return 0 }
func (unit) Args() int         { return 0 }
func (unit) String() string    { return "" }

func (unit) bind(_ *arguments, out []any) ([]any, error) { return out, nil }

// Value is a placeholder whose argument the caller supplies at bind time.
func Value(typ reflect.Type, label string) Param {
	return value{typ: typ, label: label}
}

// ValueOf is Value for a static type.
func ValueOf[T any](label string) Param {
	return Value(reflect.TypeFor[T](), label)
}

type value struct {
	typ   reflect.Type
	label string
}

func (value) Placeholders() int { return 1 }
func (value) Args() int         { return 1 }

func (v value) String() string {
	return describe(v.label, typeName(v.typ))
}

func (v value) bind(in *arguments, out []any) ([]any, error) {
	arg, err := in.next(v.label)
	if err != nil {
		return nil, err
	}
	bound, err := Coerce(arg, v.typ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.label, err)
	}
	return append(out, bound), nil
}

// Fixed is a placeholder whose value was chosen when the statement was built.
func Fixed(v any, label string) Param {
	return fixed{v: v, label: label}
}

type fixed struct {
	v     any
	label string
}

func (fixed) Placeholders() int { return 1 }
func (fixed) Args() int         { return 0 }

func (f fixed) String() string {
	return describe(f.label, "fixed")
}

func (f fixed) bind(_ *arguments, out []any) ([]any, error) {
	return append(out, f.v), nil
}

// Generated is a placeholder filled by gen on every bind.
func Generated(gen Generator, label string) Param {
	return generated{gen: gen, label: label}
}

type generated struct {
	gen   Generator
	label string
}

func (generated) Placeholders() int { return 1 }
func (generated) Args() int         { return 0 }

func (g generated) String() string {
	return describe(g.label, "generated")
}

func (g generated) bind(_ *arguments, out []any) ([]any, error) {
	v, err := g.gen.Generate()
	if err != nil {
		return nil, fmt.Errorf("%s: generate: %w", g.label, err)
	}
	return append(out, v), nil
}

// Seq pairs two shapes; l binds before r.
func Seq(l, r Param) Param {
	if _, ok := l.(unit); ok {
		return r
	}
	if _, ok := r.(unit); ok {
		return l
	}
	return seq{l: l, r: r}
}

// SeqOf folds ps into right-nested pairs.
func SeqOf(ps ...Param) Param {
	out := Unit
	for i := len(ps) - 1; i >= 0; i-- {
		out = Seq(ps[i], out)
	}
	return out
}

type seq struct {
	l, r Param
}

func (s seq) Placeholders() int { return s.l.Placeholders() + s.r.Placeholders() }
func (s seq) Args() int         { return s.l.Args() + s.r.Args() }

func (s seq) String() string {
	l, r := s.l.String(), s.r.String()
	switch {
	case l == "":
		return r
	case r == "":
		return l
	}
	return l + ", " + r
}

func (s seq) bind(in *arguments, out []any) ([]any, error) {
	out, err := s.l.bind(in, out)
	if err != nil {
		return nil, err
	}
	return s.r.bind(in, out)
}

// Repeat binds elem once per tuple. The caller passes a single slice
// argument holding exactly n tuples; a tuple is a []any, or a bare value
// when elem consumes one argument.
func Repeat(n int, elem Param) Param {
	if n < 1 {
		panic("reps must be a positive integer")
	}
	return repeat{n: n, elem: elem}
}

type repeat struct {
	n    int
	elem Param
}

func (r repeat) Placeholders() int { return r.n * r.elem.Placeholders() }
func (repeat) Args() int           { return 1 }

func (r repeat) String() string {
	return strconv.Itoa(r.n) + "x(" + r.elem.String() + ")"
}

func (r repeat) bind(in *arguments, out []any) ([]any, error) {
	arg, err := in.next("rows")
	if err != nil {
		return nil, err
	}
	rows := reflect.ValueOf(arg)
	if arg == nil || rows.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: rows must be a slice, got %T", ErrTypeMismatch, arg)
	}
	if rows.Len() != r.n {
		return nil, fmt.Errorf("%w: got %d tuples, want %d", ErrRepeatCount, rows.Len(), r.n)
	}

	for i := 0; i < r.n; i++ {
		var tuple []any
		switch el := rows.Index(i).Interface().(type) {
		case []any:
			tuple = el
		default:
			if r.elem.Args() != 1 {
				return nil, fmt.Errorf("%w: tuple %d must be []any, got %T", ErrTypeMismatch, i, el)
			}
			tuple = []any{el}
		}

		sub := &arguments{vals: tuple}
		if out, err = r.elem.bind(sub, out); err != nil {
			return nil, fmt.Errorf("tuple %d: %w", i, err)
		}
		if err := sub.done(); err != nil {
			return nil, fmt.Errorf("tuple %d: %w", i, err)
		}
	}
	return out, nil
}

// Bind flattens args into the value list for p, in placeholder order.
func Bind(p Param, args ...any) ([]any, error) {
	in := &arguments{vals: args}
	out, err := p.bind(in, make([]any, 0, p.Placeholders()))
	if err != nil {
		return nil, err
	}
	if err := in.done(); err != nil {
		return nil, err
	}
	return out, nil
}

type arguments struct {
	vals []any
	pos  int
}

func (a *arguments) next(label string) (any, error) {
	if a.pos >= len(a.vals) {
		return nil, fmt.Errorf("%w: %s (position %d)", ErrMissingArgument, label, a.pos+1)
	}
	v := a.vals[a.pos]
	a.pos++
	return v, nil
}

func (a *arguments) done() error {
	if a.pos != len(a.vals) {
		return fmt.Errorf("%w: got %d, used %d", ErrTooManyArguments, len(a.vals), a.pos)
	}
	return nil
}

func describe(label, kind string) string {
	if label == "" {
		return kind
	}
	return label + " " + kind
}

func typeName(t reflect.Type) string {
	if t == nil || (t.Kind() == reflect.Interface && t.NumMethod() == 0) {
		return "any"
	}
	return t.String()
}
