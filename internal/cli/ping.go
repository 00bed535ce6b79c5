package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmanoka/tygres/connector"
)

func NewPingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "ping",
		Short:        "Connect to the configured database and check its health",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(cmd.Context(), rootOpts, cmd)
		},
	}
}

type pingResult struct {
	Driver  string `json:"driver"`
	Dialect string `json:"dialect"`
	Latency string `json:"latency"`
	Pool    string `json:"pool"`
}

func runPing(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := connector.LoadConfig(opts.Config)
	if err != nil {
		return err
	}

	start := time.Now()
	conn, err := connector.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Health(ctx); err != nil {
		return err
	}

	out := newOutput(opts.Format, cmd.OutOrStdout())
	return out.ping(pingResult{
		Driver:  cfg.Driver,
		Dialect: conn.Dialect().Name(),
		Latency: time.Since(start).Round(time.Millisecond).String(),
		Pool:    conn.Stats().String(),
	})
}
