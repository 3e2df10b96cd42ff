package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the module cache",
	}
	cmd.AddCommand(c.newCacheWarmCmd())
	cmd.AddCommand(c.newCacheClearCmd())
	return cmd
}

func (c *CLI) newCacheWarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warm <specifier...>",
		Short: "Fetch modules into the cache ahead of compilation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := c.load(cmd)
			if err != nil {
				return err
			}

			results, err := components.App.Warm(cmd.Context(), args)
			for _, r := range results {
				if r.Err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", r.Specifier, r.Err)
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cached %s\n", r.Identity.Path)
			}
			return err
		},
	}
}

func (c *CLI) newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			components, err := c.load(cmd)
			if err != nil {
				return err
			}
			return components.App.ClearCache(cmd.Context())
		},
	}
}
