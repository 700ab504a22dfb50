package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"texsense/internal/catalog"
	"texsense/internal/catalog/sqlite"
	"texsense/internal/server"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// importEntry is one record of an import file:
//
//	# extra.yaml
//	- kind: command
//	  name: \foo
//	  description: Typesets foo.
//	  syntax: \foo{arg}
type importEntry struct {
	Kind         sqlite.Kind `yaml:"kind"`
	Name         string      `yaml:"name"`
	catalog.Info `yaml:",inline"`
}

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the catalog database",
		Long: `The catalog database adds environments, commands, math commands and
packages to the built-in vocabulary. Without a path the commands use
catalog.db in the texsense state directory, which the server loads when
no catalog_path is configured.`,
	}
	cmd.AddCommand(newCatalogInitCommand(), newCatalogImportCommand(), newCatalogListCommand())
	return cmd
}

func newCatalogInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [DB]",
		Short: "Create a database seeded with the built-in catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := databasePath(args)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			store, err := sqlite.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Seed(cmd.Context(), catalog.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", path)
			return nil
		},
	}
}

func newCatalogImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE [DB]",
		Short: "Add or update entries from a yaml file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			entries, err := readImport(f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			path, err := databasePath(args[1:])
			if err != nil {
				return err
			}
			store, err := sqlite.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Put(cmd.Context(), entries...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries into %s\n", len(entries), path)
			return nil
		},
	}
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [DB]",
		Short: "List the entries of a database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := databasePath(args)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("no catalog at %s: %w", path, err)
			}
			store, err := sqlite.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()
			entries, err := store.Entries(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Kind, e.Name, e.Description)
			}
			return w.Flush()
		},
	}
}

func readImport(r io.Reader) ([]sqlite.Entry, error) {
	var records []importEntry
	if err := yaml.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
		return nil, err
	}
	entries := make([]sqlite.Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, sqlite.Entry{Kind: rec.Kind, Name: rec.Name, Info: rec.Info})
	}
	return entries, nil
}

func databasePath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir, err := server.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog.db"), nil
}
