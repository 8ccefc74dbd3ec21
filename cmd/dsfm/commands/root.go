package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags (override the environment)
	dataPath    string
	modelConfig string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dsfm",
	Short: "DSFM - 가격 예측 + 뉴스 감성 기반 매매 신호",
	Long: `DSFM Unified CLI

Fits trend, seasonal and volatility models on daily closing prices,
scores recent news sentiment and fuses both into BUY / WAIT / AVOID / HOLD.

Usage:
  go run ./cmd/dsfm [command]

Examples:
  go run ./cmd/dsfm api
  go run ./cmd/dsfm forecast --symbol NSE_INFY --steps 30
  go run ./cmd/dsfm forecast garch --symbol infy
  go run ./cmd/dsfm decide --symbol NSE_INFY
  go run ./cmd/dsfm symbols`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "price CSV path (default DATA_CSV_PATH)")
	rootCmd.PersistentFlags().StringVar(&modelConfig, "model-config", "", "model YAML (default MODEL_CONFIG_PATH or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
