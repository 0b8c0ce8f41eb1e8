package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewPurgeCmd creates the purge command.
func NewPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove cached thumbnails and history records",
		Long: `Remove snipp's regenerable and bookkeeping data. By default both the
thumbnail cache and the history document are purged; saved screenshot
files are never touched.`,
		RunE: runPurge,
	}

	cmd.Flags().Bool("thumbnails", false, "Purge only the thumbnail cache")
	cmd.Flags().Bool("history", false, "Purge only the history records")
	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runPurge(cmd *cobra.Command, _ []string) error {
	thumbsOnly, _ := cmd.Flags().GetBool("thumbnails")
	historyOnly, _ := cmd.Flags().GetBool("history")
	force, _ := cmd.Flags().GetBool("force")

	purgeThumbs := !historyOnly || thumbsOnly
	purgeHistory := !thumbsOnly || historyOnly

	if !force {
		var targets []string
		if purgeThumbs {
			targets = append(targets, "thumbnail cache")
		}
		if purgeHistory {
			targets = append(targets, "history records")
		}

		fmt.Printf("This will remove the %s. Continue? [y/N]: ", strings.Join(targets, " and "))
		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "y" && response != "yes" {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	app, err := NewApp()
	if err != nil {
		return err
	}

	if purgeThumbs {
		dir := app.Thumbs.CacheDir()
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to purge thumbnail cache: %w", err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to recreate thumbnail cache: %w", err)
		}
		fmt.Println("Thumbnail cache purged.")
	}

	if purgeHistory {
		count := app.History.Len()
		if err := app.History.Clear(); err != nil {
			return fmt.Errorf("failed to purge history: %w", err)
		}
		fmt.Printf("Purged %d history entries.\n", count)
	}

	return nil
}
