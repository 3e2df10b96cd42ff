// Package commands implements the CLI commands for bundl.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/bundl/internal/app"
	"go.trai.ch/bundl/internal/build"
)

// Bootstrap builds the application components for a configuration path.
// An empty path selects the default configuration lookup.
type Bootstrap func(ctx context.Context, configPath string) (*app.Components, error)

// CLI represents the command line interface for bundl.
type CLI struct {
	boot       Bootstrap
	rootCmd    *cobra.Command
	configPath string
	components *app.Components
}

// New creates a new CLI instance that builds its components with boot.
func New(boot Bootstrap) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bundl",
		Short:         "Compile JavaScript, TypeScript and JSX into a single bundle",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		boot:    boot,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to the configuration file (default bundl.yaml)")

	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context and releases the components afterwards.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()

	if c.components != nil {
		if closeErr := c.components.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		c.components = nil
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetIO redirects the standard streams of every command.
func (c *CLI) SetIO(in io.Reader, out, errOut io.Writer) {
	c.rootCmd.SetIn(in)
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

func (c *CLI) load(cmd *cobra.Command) (*app.Components, error) {
	if c.components != nil {
		return c.components, nil
	}
	components, err := c.boot(cmd.Context(), c.configPath)
	if err != nil {
		return nil, err
	}
	c.components = components
	return components, nil
}
