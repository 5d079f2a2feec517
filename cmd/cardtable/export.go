package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/cardtable"
	"github.com/phanxgames/cardtable/classic"
	"github.com/phanxgames/cardtable/jsonio"
)

var (
	flagDeck    string
	flagFrom    string
	flagShuffle bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a deck as JSON",
	Long: `Write a deck of cards as a JSON array, to a file or to stdout.

The deck is either a classic pack (--deck 52 or --deck 36) or every card
read from a directory of JSON card files (--from). Card files may start
with an object without "name" whose fields are shared by every card, and
a card with "player_counts" is expanded into one copy per count.

Examples:
  cardtable export
  cardtable export deck.json --deck 36 --shuffle --seed 7
  cardtable export --from ./cards merged.json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagDeck, "deck", "52", "Classic pack to export: 52 or 36")
	exportCmd.Flags().StringVar(&flagFrom, "from", "", "Read cards from every .json file in this directory")
	exportCmd.Flags().BoolVar(&flagShuffle, "shuffle", false, "Shuffle the deck (uses --seed)")
}

func runExport(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err)
	logger := newLogger(cfg, os.Stderr)

	ids := cardtable.NewIDAllocator()
	var deck *cardtable.CardSet
	switch {
	case flagFrom != "":
		deck, err = jsonio.ReadDir(flagFrom, ids, logger)
		exitOnError(err)
	case flagDeck == "52":
		deck = classic.NewDeck52(ids)
	case flagDeck == "36":
		deck = classic.NewDeck36(ids)
	default:
		exitOnError(fmt.Errorf("unknown deck %q (want 52 or 36)", flagDeck))
	}
	if flagShuffle {
		deck.Shuffle(rand.New(rand.NewSource(dealSeed())))
	}

	var w io.Writer = os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		exitOnError(err)
		defer f.Close()
		w = f
	}
	exitOnError(jsonio.WriteCards(w, deck.Cards()))
	logger.Debug("exported", "cards", deck.Len())
}
