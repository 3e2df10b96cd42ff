package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bundl/internal/adapters/server"
)

func (c *CLI) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			components, err := c.load(cmd)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = components.Config.Server.Addr
			}
			srv := server.New(components.App, components.Logger, components.Metrics)
			return srv.Serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from configuration, :8080)")
	return cmd
}
