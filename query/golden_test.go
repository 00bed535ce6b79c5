package query

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

func describeStatement(s *Statement) []byte {
	return []byte(s.SQL() +
		"\n-- params: (" + s.Params().String() + ")" +
		"\n-- result: (" + s.Result().String() + ")\n")
}

func TestGoldenStatements(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Statement
	}{
		{"select_full", func() *Statement {
			return T.Select(A, B, C.SelectIf(false)).
				Where(A.Eq().And(Not(B.IsNull()))).
				OrderBy(B.Asc(), A.Desc()).
				LimitParam().
				Offset(20).
				Build()
		}},
		{"select_subquery", func() *Statement {
			sub := U.Select(UID).Where(UName.Eq()).LimitParam()
			return T.Select(A).Where(B.Eq().And(A.In(sub))).LimitParam().Build()
		}},
		{"insert_upsert", func() *Statement {
			return T.Insert(A, B.To("x"), C.IfSome(nil)).
				OnConflict(A).DoUpdateExcluded(B).
				Returning(A).
				Build()
		}},
		{"insert_rows", func() *Statement {
			return T.Insert(A, B).Repeat(3).OnConflict().DoNothing().Build()
		}},
		{"update_returning", func() *Statement {
			return T.Update(A, B).Where(A.Eq()).Returning(B).Build()
		}},
		{"delete_where", func() *Statement {
			return T.Delete().Where(A.IsNull()).Build()
		}},
		{"cursor_declare", func() *Statement {
			return T.Select(A, B).Where(A.Gt()).DeclareCursor("batch").Build().Declare()
		}},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, describeStatement(tt.build()))
		})
	}
}
