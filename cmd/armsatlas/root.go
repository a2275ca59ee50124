package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"armsatlas/internal/config"
)

var (
	cfgPath   string
	csvPath   string
	dbPath    string
	worldPath string
	verbose   bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "armsatlas",
	Short: "armsatlas prepares and renders arms-trade world maps",
	Long: `armsatlas ingests an arms-trade register, classifies every trade
partner, aggregates transferred quantities, and emits renderer-ready
choropleth map descriptions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		cfg = config.Default()
		if cfgPath != "" {
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
		}
		if csvPath != "" {
			cfg.Register.CSV = csvPath
		}
		if worldPath != "" {
			cfg.World.GeoJSON = worldPath
		}
		if cmd.Flags().Changed("db") {
			cfg.DB = dbPath
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "", "trade register CSV path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database path (empty disables persistence)")
	rootCmd.PersistentFlags().StringVar(&worldPath, "world", "", "world boundary GeoJSON path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(enrichCmd, renderCmd, publishCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "armsatlas:", err)
		os.Exit(1)
	}
}
