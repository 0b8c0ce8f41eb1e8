package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCaptureCmd creates the capture command.
func NewCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture a screenshot",
		Long: `Capture a screenshot and dispose of it from the command line.
By default the user draws a selection and the result is saved to the
configured save location. Use --copy to copy it to the clipboard instead
(or in addition).`,
		RunE: runCapture,
	}

	cmd.Flags().BoolP("fullscreen", "f", false, "Capture the entire screen without interaction")
	cmd.Flags().BoolP("copy", "c", false, "Copy the capture to the clipboard")
	cmd.Flags().BoolP("save", "s", false, "Save the capture to the configured save location")
	cmd.Flags().Bool("keep", false, "Keep the capture in the in-memory cache on exit")

	return cmd
}

func runCapture(cmd *cobra.Command, _ []string) error {
	app, err := NewApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	fullscreen, _ := cmd.Flags().GetBool("fullscreen")
	copyFlag, _ := cmd.Flags().GetBool("copy")
	saveFlag, _ := cmd.Flags().GetBool("save")
	keep, _ := cmd.Flags().GetBool("keep")

	// Without an explicit disposition the capture is saved.
	if !copyFlag && !saveFlag {
		saveFlag = true
	}

	data, err := app.Service.Capture(ctx, fullscreen)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%d", data.Timestamp)

	if copyFlag {
		if err := app.Service.CopyToClipboard(ctx, key); err != nil {
			return err
		}
		fmt.Println("Copied to clipboard.")
	}

	if saveFlag {
		path, err := app.Service.SaveToDisk(ctx, key)
		if err != nil {
			return err
		}
		fmt.Println(path)
	}

	if !keep {
		app.Service.Discard(key)
	}

	return nil
}
