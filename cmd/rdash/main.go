package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/rdash/internal/api"
	"github.com/pders01/rdash/internal/config"
	"github.com/pders01/rdash/internal/debuglog"
	"github.com/pders01/rdash/internal/stream"
	"github.com/pders01/rdash/internal/tui"
	"github.com/pders01/rdash/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	server     string
	logLevel   string
	quiet      bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "rdash",
		Short: "Terminal dashboard for a debrid download server",
		Long: `rdash watches a debrid download server: it lists downloads and the media
collection, follows live progress over the server's event stream, and lets
you add magnets or torrent files, pick files and delete entries.

Run without a subcommand to open the interactive dashboard.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			return g.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = debuglog.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), g)
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to configuration file")
	root.PersistentFlags().StringVar(&g.server, "server", "", "Server base URL (overrides config)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	root.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "Skip startup banner")

	root.AddCommand(
		newVersionCmd(),
		newGenerateConfigCmd(g),
		newListCmd(g),
		newFilesCmd(g),
		newAddCmd(g),
		newAddFileCmd(g),
		newSelectCmd(g),
		newRemoveCmd(g),
		newRemoveMediaCmd(g),
		newWatchCmd(g),
	)
	return root
}

func skipsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "generate-config":
		return true
	}
	return false
}

// load reads the config file, applies flag overrides and starts logging.
func (g *globals) load() error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if g.server != "" {
		cfg.Server.URL = g.server
	}
	normalized, err := validation.NewServerURLValidator().ValidateAndNormalize(cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	cfg.Server.URL = normalized

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	debuglog.Infof("rdash %s starting against %s", Version, cfg.Server.URL)

	g.cfg = cfg
	return nil
}

func (g *globals) client() *api.Client {
	return api.NewClient(g.cfg.Server)
}

func runDashboard(ctx context.Context, g *globals) error {
	if !g.quiet {
		tui.ShowBanner(Version)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := g.client()
	events := stream.NewClient(client.StreamURL(), g.cfg.Server.UserAgent, g.cfg.Stream).Start(ctx)

	app := tui.NewApp(g.cfg, client, events)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
