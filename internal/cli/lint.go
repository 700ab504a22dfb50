package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"texsense/internal/lint"
	"texsense/internal/manager"
	"texsense/internal/parser"
	"texsense/internal/scanner"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type fileReport struct {
	path        string
	text        string
	diagnostics []lint.Diagnostic
}

func newLintCommand() *cobra.Command {
	var configPath string
	var exclude []string
	cmd := &cobra.Command{
		Use:   "lint PATH...",
		Short: "Report structural problems in LaTeX files",
		Long: `Check files for a missing document environment, unmatched environments
and references to undefined labels. Diagnostics are printed as
file:line:column: severity: message. Directories are searched for .tex,
.sty, .cls, .ltx and .dtx files; --exclude skips the ones whose name or
path matches a glob. The exit status is 1 when any file has
a diagnostic.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			skip, err := excluded(exclude)
			if err != nil {
				return err
			}
			paths, err := scanner.Scan(args, skip)
			if err != nil {
				return err
			}
			reports, err := lintFiles(cmd.Context(), lint.New(cfg.Lint), paths)
			if err != nil {
				return err
			}
			if printReports(cmd.OutOrStdout(), reports) > 0 {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (yaml or json)")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "glob matching file names or paths to skip while searching directories")
	return cmd
}

// excluded builds the scanner skip predicate for glob patterns.
func excluded(patterns []string) (func(string, fs.FileInfo) bool, error) {
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
	}
	return func(path string, info fs.FileInfo) bool {
		for _, p := range patterns {
			if ok, _ := filepath.Match(p, info.Name()); ok {
				return true
			}
			if ok, _ := filepath.Match(p, path); ok {
				return true
			}
		}
		return false
	}, nil
}

// lintFiles parses and lints paths concurrently. Reports keep the order of
// paths.
func lintFiles(ctx context.Context, linter *lint.Linter, paths []string) ([]fileReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reports := make([]fileReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			text := string(data)
			tree, err := parser.Parse(ctx, text)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			reports[i] = fileReport{path: path, text: text, diagnostics: linter.Lint(text, tree)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// printReports writes one line per diagnostic with 1-based positions and
// returns how many were written.
func printReports(w io.Writer, reports []fileReport) int {
	n := 0
	for _, r := range reports {
		for _, d := range r.diagnostics {
			pos := manager.PositionOf(r.text, d.Range.From)
			fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", r.path, pos.Line+1, pos.Character+1, d.Severity, d.Message)
			n++
		}
	}
	return n
}
