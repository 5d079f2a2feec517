// cardtable plays card games built on the cardtable interaction toolkit.
//
// Usage:
//
//	cardtable play             - Play Klondike in a window
//	cardtable tui              - Play Klondike in the terminal
//	cardtable history [id]     - List recorded sessions or show one
//	cardtable export [file]    - Write a deck as JSON
//
// Global flags:
//
//	--config <path>  - Table configuration YAML
//	--db <path>      - Journal database path (default from config)
//	--seed <value>   - Deal seed (0 = random based on time)
//	--debug          - Log every interaction at debug level
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig string
	flagDBPath string
	flagSeed   int64
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cardtable",
	Short: "Card games with drag and drop",
	Long: `cardtable runs card games on a table of containers: pick up cards,
drag them between piles and click to act.

Available commands:
  play     - Klondike in a window
  tui      - Klondike in the terminal
  history  - Recorded sessions
  export   - Write a deck as JSON

Examples:
  cardtable play
  cardtable play --seed 42
  cardtable tui --debug
  cardtable history
  cardtable history 3
  cardtable export deck.json`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to table config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to journal database (default from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Deal seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log interactions at debug level")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
}
