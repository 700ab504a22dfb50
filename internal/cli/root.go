// Package cli implements the texsense command line: the language server
// and offline tools working on the same packages.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errFindings makes the process exit non-zero without printing an error.
var errFindings = errors.New("diagnostics reported")

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "texsense",
		Short: "LaTeX language intelligence",
		Long: `texsense understands LaTeX sources: it closes environments and brackets
while typing, completes environments, commands and packages, reports
structural problems and explains commands on hover.

Run "texsense serve" from an editor to use it as a language server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newLintCommand(),
		newCatalogCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line and exits on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
