package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/snipp/internal/cli/model"
	"github.com/bnema/snipp/internal/cli/styles"
)

const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage screenshot history",
		Long: `Manage screenshot history with various subcommands:
  list   - Show recently saved screenshots
  pick   - Pick a screenshot interactively
  remove - Remove a screenshot from history
  clear  - Clear history (with confirmation)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to list if no subcommand
			return listHistory(cmd, args)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recently saved screenshots",
		Long:  `Display recently saved screenshots, newest first.`,
		RunE:  listHistory,
	}
	listCmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Number of history entries to show")

	pickCmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a screenshot interactively",
		Long:  `Open an interactive picker and print the selected file path.`,
		RunE:  pickHistory,
	}
	pickCmd.Flags().BoolP("copy", "c", false, "Copy the picked screenshot to the clipboard")

	removeCmd := &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove a screenshot from history",
		Long:  `Remove the history record for the given file path. The file itself is kept.`,
		Args:  cobra.ExactArgs(1),
		RunE:  removeHistory,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear screenshot history",
		Long:  `Remove all history records. Saved screenshot files are kept.`,
		RunE:  clearHistory,
	}
	clearCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Number of history entries to show")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(pickCmd)
	cmd.AddCommand(removeCmd)
	cmd.AddCommand(clearCmd)

	return cmd
}

// listHistory displays recently saved screenshots.
func listHistory(cmd *cobra.Command, _ []string) error {
	app, err := NewApp()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")

	records := app.History.Recent(limit)
	if len(records) == 0 {
		fmt.Println("No screenshots in history.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "SAVED\tFILENAME\tPATH")
	fmt.Fprintln(w, "-----\t--------\t----")

	for _, rec := range records {
		saved := rec.Timestamp.Local()
		var when string
		if time.Since(saved) < 24*time.Hour {
			when = saved.Format("15:04")
		} else {
			when = saved.Format("Jan 02")
		}

		path := rec.FilePath
		if _, err := os.Stat(path); err != nil {
			path += " (missing)"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\n", when, rec.Filename, path)
	}

	return nil
}

// pickHistory opens the interactive picker and prints the selection.
func pickHistory(cmd *cobra.Command, _ []string) error {
	app, err := NewApp()
	if err != nil {
		return err
	}

	theme := styles.NewTheme()
	loader := func() ([]styles.ScreenshotItem, error) {
		records := app.History.Recent(app.History.Len())
		items := make([]styles.ScreenshotItem, len(records))
		for i, rec := range records {
			_, statErr := os.Stat(rec.FilePath)
			items[i] = styles.ScreenshotItem{
				FilePath: rec.FilePath,
				Filename: rec.Filename,
				Taken:    rec.Timestamp.Local(),
				Missing:  statErr != nil,
			}
		}
		return items, nil
	}

	p := tea.NewProgram(model.NewPickerModel(theme, loader), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run picker: %w", err)
	}

	picker, ok := finalModel.(model.PickerModel)
	if !ok || picker.SelectedPath() == "" {
		return nil
	}
	selected := picker.SelectedPath()

	if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
		if err := app.Service.CopyFromPath(cmd.Context(), selected); err != nil {
			return err
		}
		fmt.Println("Copied to clipboard.")
		return nil
	}

	fmt.Println(selected)
	return nil
}

// removeHistory removes a single record by file path.
func removeHistory(cmd *cobra.Command, args []string) error {
	app, err := NewApp()
	if err != nil {
		return err
	}

	before := app.History.Len()
	if err := app.History.Remove(args[0]); err != nil {
		return fmt.Errorf("failed to remove history record: %w", err)
	}

	if app.History.Len() == before {
		fmt.Printf("No history entry found for '%s'.\n", args[0])
		return nil
	}

	fmt.Println("Removed.")
	return nil
}

// clearHistory removes all history records.
func clearHistory(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if !force {
		fmt.Print("This will remove all screenshot history records. Continue? [y/N]: ")
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

	count := app.History.Len()
	if err := app.History.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Printf("Successfully cleared %d history entries.\n", count)
	return nil
}
