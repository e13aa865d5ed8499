package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/countersim/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or save the effective configuration.",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration after all layers are applied.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Write the configuration to a file (default is the default config path).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var path string
		if len(args) == 1 {
			path = args[0]
		} else if path, err = config.DefaultPath(); err != nil {
			return err
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
}
