package query

type tRows struct{}
type uRows struct{}

var (
	T = NewTable[tRows]("t")
	A = NewColumn[int64](T, "a")
	B = NewColumn[string](T, "b")
	C = NewColumn[*string](T, "c")

	U     = NewTable[uRows]("u")
	UID   = NewColumn[int64](U, "id")
	UName = NewColumn[string](U, "name")
)

type sequence struct{ n int }

func (s *sequence) Generate() (any, error) {
	s.n++
	return s.n, nil
}
