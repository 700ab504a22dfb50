package cli

import (
	"fmt"

	"texsense/internal/config"
	"texsense/internal/server"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const (
	transportStdio     = "stdio"
	transportTCP       = "tcp"
	transportWebSocket = "websocket"
)

type serveOptions struct {
	transport  string
	address    string
	logfile    string
	verbosity  int
	configPath string
}

func newServeCommand() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server",
		Long: `Run the language server. Editors usually talk to it over stdio; tcp and
websocket listen on --address. Initialization options sent by the client
override the file given with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
	cmd.Flags().StringVarP(&opts.transport, "transport", "t", transportStdio, "transport: stdio, tcp or websocket")
	cmd.Flags().StringVarP(&opts.address, "address", "a", "127.0.0.1:7999", "listen address for tcp and websocket")
	cmd.Flags().StringVar(&opts.logfile, "logfile", "", "path to log file")
	cmd.Flags().IntVarP(&opts.verbosity, "verbosity", "v", 1, "log verbosity")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (yaml or json)")
	return cmd
}

func runServe(opts serveOptions) error {
	switch opts.transport {
	case transportStdio, transportTCP, transportWebSocket:
	default:
		return fmt.Errorf("unknown transport %q", opts.transport)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Logs must stay off stdout when it carries the protocol.
	var path *string
	if opts.logfile != "" {
		path = &opts.logfile
	}
	commonlog.Configure(opts.verbosity, path)

	srv, err := server.New(server.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	switch opts.transport {
	case transportTCP:
		return srv.RunTCP(opts.address)
	case transportWebSocket:
		return srv.RunWebSocket(opts.address)
	default:
		return srv.RunStdio()
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}
