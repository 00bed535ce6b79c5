package cli

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmanoka/tygres"
	"github.com/rmanoka/tygres/connector"
	"github.com/rmanoka/tygres/dialect"
	"github.com/rmanoka/tygres/engine"
	"github.com/rmanoka/tygres/query"
)

// adhoc is the source marker of tables named on the command line.
type adhoc struct{}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type selectOptions struct {
	table   string
	columns []string
	where   []string
	order   []string
	limit   uint64
	dryRun  bool
	dialect string
}

func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &selectOptions{}

	cmd := &cobra.Command{
		Use:   "select [where-values...]",
		Short: "Select rows from a table",
		Long: `Select rows from a table. Each --where column is compared for equality
with the positional argument in the same position.

With --dry-run the statement is rendered but not run, and no config is read.`,
		Example:      "  tygres select --table users --columns id,email --where id 42",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd.Context(), rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "table to select from")
	cmd.Flags().StringSliceVar(&opts.columns, "columns", nil, "columns to select (default COUNT(*))")
	cmd.Flags().StringSliceVar(&opts.where, "where", nil, "columns compared for equality with the arguments")
	cmd.Flags().StringSliceVar(&opts.order, "order", nil, "order columns, prefix with - for descending")
	cmd.Flags().Uint64Var(&opts.limit, "limit", 0, "maximum number of rows (0 for no limit)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the statement instead of running it")
	cmd.Flags().StringVar(&opts.dialect, "dialect", "postgres", "dialect used by --dry-run")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func buildSelect(o *selectOptions, nargs int) (*query.SelectBuilder[adhoc], error) {
	if !identifier.MatchString(o.table) {
		return nil, fmt.Errorf("invalid table name %q", o.table)
	}
	if len(o.where) != nargs {
		return nil, fmt.Errorf("%d --where columns but %d values", len(o.where), nargs)
	}
	table := query.NewTable[adhoc](o.table)

	column := func(name string) (query.Column[adhoc, any], error) {
		if !identifier.MatchString(name) {
			return query.Column[adhoc, any]{}, fmt.Errorf("invalid column name %q", name)
		}
		return query.NewColumn[any](table, name), nil
	}

	var items []query.Selector[adhoc]
	for _, name := range o.columns {
		col, err := column(name)
		if err != nil {
			return nil, err
		}
		items = append(items, col)
	}
	if len(items) == 0 {
		items = append(items, query.Count[adhoc]())
	}
	b := table.Select(items...)

	var filter query.Filter[adhoc]
	for i, name := range o.where {
		col, err := column(name)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			filter = col.Eq()
		} else {
			filter = filter.And(col.Eq())
		}
	}
	if len(o.where) > 0 {
		b = b.Where(filter)
	}

	var terms []query.OrderTerm[adhoc]
	for _, term := range o.order {
		name, desc := strings.CutPrefix(term, "-")
		col, err := column(name)
		if err != nil {
			return nil, err
		}
		if desc {
			terms = append(terms, col.Desc())
		} else {
			terms = append(terms, col.Asc())
		}
	}
	if len(terms) > 0 {
		b = b.OrderBy(terms...)
	}
	if o.limit > 0 {
		b = b.Limit(o.limit)
	}
	return b, nil
}

func runSelect(ctx context.Context, rootOpts *RootOptions, opts *selectOptions, args []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := buildSelect(opts, len(args))
	if err != nil {
		return err
	}
	values := make([]any, len(args))
	for i, a := range args {
		values[i] = a
	}
	out := newOutput(rootOpts.Format, cmd.OutOrStdout())

	if opts.dryRun {
		d, err := dialect.ByName(opts.dialect)
		if err != nil {
			return err
		}
		return out.statement(b.BuildFor(d))
	}

	cfg, err := connector.LoadConfig(rootOpts.Config)
	if err != nil {
		return err
	}
	db, err := tygres.Open(ctx, cfg, engine.WithLogger(rootOpts.logger(cmd.ErrOrStderr())))
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.QueryTimeout)
		defer cancel()
	}

	p, err := db.Prepare(ctx, b)
	if err != nil {
		return err
	}
	defer p.Close()

	return out.rows(p.Stream(ctx, values...))
}
