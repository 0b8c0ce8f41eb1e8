// Package cli provides the command-line interface for snipp.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/snipp/internal/capture"
	"github.com/bnema/snipp/internal/config"
	"github.com/bnema/snipp/internal/history"
	"github.com/bnema/snipp/internal/infrastructure/clipboard"
	"github.com/bnema/snipp/internal/logging"
	"github.com/bnema/snipp/internal/thumbnail"
	"github.com/bnema/snipp/services"
)

// App holds the wired-up services shared by the CLI commands.
type App struct {
	Config  *config.Manager
	Service *services.ScreenshotService
	History *history.Store
	Thumbs  *thumbnail.Generator
}

// NewApp creates an App with all dependencies constructed.
func NewApp() (*App, error) {
	manager, err := config.GetManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get config manager: %w", err)
	}

	hist, err := history.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	thumbs, err := thumbnail.NewGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to open thumbnail cache: %w", err)
	}

	service := services.NewScreenshotService(
		manager,
		capture.NewCache(),
		capture.NewScreencap(),
		clipboard.New(),
		hist,
		thumbs,
	)

	return &App{
		Config:  manager,
		Service: service,
		History: hist,
		Thumbs:  thumbs,
	}, nil
}

// NewRootCmd creates the root command for snipp.
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snipp",
		Short: "A small screenshot capture utility",
		Long:  `Capture screenshots, keep a bounded history of saved captures and copy them back to the clipboard.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			cfg := config.Get()
			logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
			ctx := logging.WithContext(cmd.Context(), logger)
			cmd.SetContext(logging.WithComponent(ctx, "cli"))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("snipp %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built: %s\n", buildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(NewCaptureCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewPurgeCmd())

	return rootCmd
}
