package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/cardtable"
	"github.com/phanxgames/cardtable/games/klondike"
	"github.com/phanxgames/cardtable/tui"
)

var flagLogFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Play Klondike in the terminal",
	Long: `Deal a game of Klondike solitaire in the terminal. Needs a terminal
with mouse support.

Controls:
  Drag        - Move a card or a run of face-up cards
  Click       - Deal from the stock, or send a card to its foundation
  Esc/Ctrl+C  - Quit

Examples:
  cardtable tui
  cardtable tui --debug --log cardtable.log`,
	Args: cobra.NoArgs,
	Run:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagLogFile, "log", "", "Write logs to this file (default: discard)")
}

func vec(x, y float64) cardtable.Vec2 { return cardtable.Vec2{X: x, Y: y} }

func runTUI(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err)

	var out io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		exitOnError(err)
		defer f.Close()
		out = f
	}
	logger := newLogger(cfg, out)

	// One cell is 8x16 table pixels: cards are 6x3 cells and a column
	// fans one row per card.
	t, err := newTable(cfg, logger, klondike.Options{
		Origin:    vec(8, 16),
		CardSize:  vec(48, 48),
		Gap:       8,
		FanOffset: 16,
	})
	exitOnError(err)
	defer t.Close()

	s, err := tcell.NewScreen()
	exitOnError(err)
	exitOnError(s.Init())
	defer s.Fini()

	host := tui.NewHost(s, t.manager, tui.Options{
		Label:  klondike.Label,
		OnTick: t.tick,
		Status: t.game.Status,
		Logger: logger,
	})
	t.game.OnWin(func() { logger.Info("won", "status", t.game.Status()) })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = host.Run(ctx, time.Second/time.Duration(cfg.Window.TPS))
	if !errors.Is(err, context.Canceled) {
		exitOnError(err)
	}
}
