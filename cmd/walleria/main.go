package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/androiddevnotesforks/walleria/internal/config"
	"github.com/androiddevnotesforks/walleria/internal/logging"
	"github.com/androiddevnotesforks/walleria/internal/nav"
	"github.com/androiddevnotesforks/walleria/internal/tui"
)

var (
	// Global flags
	configFlag  string
	verboseFlag bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "walleria [query]",
		Short: "Browse, search and download Unsplash photos from the terminal",
		Long: `walleria is a terminal client for the Unsplash photo catalog.

Run it without a subcommand to open the interactive browser. An optional
query starts a search right away.

Authentication:
  1. User login: Run 'walleria login' (needed for your profile)
  2. Application key: Set api.access_key in the config file
  3. Environment variable: Set WALLERIA_ACCESS_KEY`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE:              runBrowser,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file path (default $XDG_CONFIG_HOME/walleria/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log to stderr at debug level")

	rootCmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newSearchCmd(),
		newTopicsCmd(),
		newTopicCmd(),
		newPhotosCmd(),
		newPhotoCmd(),
		newRandomCmd(),
		newCollectionsCmd(),
		newCollectionCmd(),
		newUserCmd(),
		newDownloadCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// setup points config loading at --config and routes logging for CLI commands.
func setup(cmd *cobra.Command, _ []string) error {
	if configFlag != "" {
		if err := os.Setenv(config.EnvConfigPath, configFlag); err != nil {
			return err
		}
	}
	if verboseFlag {
		logging.SetOutput(cmd.ErrOrStderr(), log.DebugLevel)
	}
	return nil
}

func runBrowser(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), !verboseFlag)
	if err != nil {
		return err
	}
	defer a.Close()

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	// Track completed downloads for as long as the process runs.
	stopReceiver := a.startReceiver()

	navCh := nav.NewChannel()
	deps := tui.Deps{
		Ctx:       a.scope,
		API:       a.client,
		History:   a.store,
		Downloads: a.downloads,
		Profiles:  a.session,
		Nav:       navCh,
		PageSize:  a.cfg.Search.PageSize,
	}

	p := tea.NewProgram(tui.NewAppModel(deps, query), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	if n := a.downloads.Pending(); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Waiting for %d download(s) to finish...\n", n)
	}
	return a.finishDownloads(stopReceiver)
}
