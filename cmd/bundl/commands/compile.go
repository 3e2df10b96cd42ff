package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	var entry string
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile source from a file or stdin into a bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd, args, entry)
			if err != nil {
				return err
			}

			components, err := c.load(cmd)
			if err != nil {
				return err
			}

			out := components.App.Compile(cmd.Context(), req)
			if !out.OK() {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), out.String())
				return domain.ErrBuildFailed
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&entry, "entry", "e", "", "Entry point name; its extension selects the loader (default index.js, or the file name)")
	return cmd
}

func (c *CLI) newRunCmd() *cobra.Command {
	var entry string
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Compile source and evaluate the bundle in the sandbox",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd, args, entry)
			if err != nil {
				return err
			}

			components, err := c.load(cmd)
			if err != nil {
				return err
			}

			out := components.App.Run(cmd.Context(), req)
			if out.Execution == nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), out.Build.String())
				return domain.ErrBuildFailed
			}
			if !out.Execution.OK() {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), out.Execution.String())
				return domain.ErrScriptFailed
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Execution.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&entry, "entry", "e", "", "Entry point name; its extension selects the loader (default index.js, or the file name)")
	return cmd
}

// readRequest builds a request from the file argument, or stdin when there is none.
func readRequest(cmd *cobra.Command, args []string, entry string) (domain.BuildRequest, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		//nolint:gosec // Path is provided by the user on the command line
		data, err = os.ReadFile(args[0])
		if err != nil {
			return domain.BuildRequest{}, zerr.With(zerr.Wrap(err, "failed to read source"), "path", args[0])
		}
		if entry == "" {
			entry = filepath.Base(args[0])
		}
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return domain.BuildRequest{}, zerr.Wrap(err, "failed to read source from stdin")
		}
	}

	if strings.TrimSpace(string(data)) == "" {
		return domain.BuildRequest{}, domain.ErrEmptySource
	}
	return domain.BuildRequest{RawCode: string(data), EntryPoint: entry}.Normalize(), nil
}
