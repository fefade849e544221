package commands

import (
	"context"
	"xwordclues/internal/components/telemetry"
	"xwordclues/lib/configutil"
	"xwordclues/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	cfg Config
	tel telemetry.API = telemetry.SlogAPI{}

	configPath string
	envPath    string
	verbose    bool
	dumpDir    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "xwordclues.json5", "The config file, a <name>.local.json5 next to it overrides it.")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "A .env file to load before reading the config.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every request and item.")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump-dir", "", "Write every http exchange to this directory.")
}

var rootCmd = &cobra.Command{
	Use:   "xwordclues",
	Short: "xwordclues collects crossword clues and answers from xwordinfo.com into csv files.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		err := configutil.LoadDotEnv(envPath)
		if err != nil {
			return err
		}
		cfg, err = configutil.Load(configPath, DefaultConfig(), envPrefix)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = verbose
		}
		if dumpDir != "" {
			cfg.DumpDir = dumpDir
		}
		telemetry.InitSlog(cfg.Verbose)
		return nil
	},
	SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("command failed", err)
	}
}
