// Package cmd provides the command-line interface of countersim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/countersim/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "countersim",
	Short: "countersim simulates a MOD-7 synchronous counter built from JK flip-flops.",
	Long: `countersim simulates a MOD-7 synchronous counter built from JK ` +
		`flip-flops. It can run the counter on a terminal front panel (tui), ` +
		`behind a web page (serve), print its transitions (trace), and show ` +
		`and grade the excitation K-maps (kmap).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "",
		"config file (default is $HOME/.config/countersim/config.yml)")
	rootCmd.PersistentFlags().String("env-file", "",
		"env file to load before reading the environment (default is .env)")
	rootCmd.PersistentFlags().Bool("log-events", false,
		"print every simulation event")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits the process through atexit so that recorders are
// flushed.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("log-events") {
		cfg.LogEvents, _ = cmd.Flags().GetBool("log-events")
	}

	return cfg, nil
}
