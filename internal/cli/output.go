package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/rmanoka/tygres/query"
	"github.com/rmanoka/tygres/shape"
)

type output struct {
	json bool
	w    io.Writer
}

func newOutput(format string, w io.Writer) *output {
	return &output{json: format == "json", w: w}
}

func (o *output) encode(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *output) ping(r pingResult) error {
	if o.json {
		return o.encode(r)
	}
	_, err := fmt.Fprintf(o.w, "ok: %s (%s) in %s, pool %s\n", r.Driver, r.Dialect, r.Latency, r.Pool)
	return err
}

func (o *output) statement(s *query.Statement) error {
	if o.json {
		return o.encode(map[string]any{
			"sql":          s.SQL(),
			"placeholders": s.Placeholders(),
			"params":       s.Params().String(),
			"result":       s.Result().String(),
		})
	}
	_, err := fmt.Fprintf(o.w, "%s\n-- params: (%s)\n-- result: (%s)\n", s.SQL(), s.Params(), s.Result())
	return err
}

// rows writes each record as it arrives: tab separated lines, or one JSON
// array per record.
func (o *output) rows(seq iter.Seq2[shape.Record, error]) error {
	n := 0
	for rec, err := range seq {
		if err != nil {
			return err
		}
		cells := make([]any, len(rec))
		for i, v := range rec {
			cells[i] = displayValue(v)
		}
		if o.json {
			if err := json.NewEncoder(o.w).Encode(cells); err != nil {
				return err
			}
		} else {
			parts := make([]string, len(cells))
			for i, c := range cells {
				if c == nil {
					parts[i] = "NULL"
					continue
				}
				parts[i] = fmt.Sprint(c)
			}
			if _, err := fmt.Fprintln(o.w, strings.Join(parts, "\t")); err != nil {
				return err
			}
		}
		n++
	}
	if !o.json {
		_, err := fmt.Fprintf(o.w, "(%d rows)\n", n)
		return err
	}
	return nil
}

func displayValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	}
	return v
}
