package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/snipp/internal/config"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect snipp configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, args)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		RunE:  showConfig,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.GetConfigFile()
			if err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}
			fmt.Println(path)
			return nil
		},
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate the configuration JSON schema",
		Long:  `Write config.schema.json next to the configuration file so editors can validate it.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := config.GenerateSchemaFile(); err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}

			configDir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			fmt.Printf("Schema written to %s/config.schema.json\n", configDir)
			return nil
		},
	}

	cmd.AddCommand(showCmd)
	cmd.AddCommand(pathCmd)
	cmd.AddCommand(schemaCmd)

	return cmd
}

// showConfig prints the effective configuration as pretty JSON.
func showConfig(_ *cobra.Command, _ []string) error {
	cfg := config.Get()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Println(string(data))
	return nil
}
