package main

import (
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/cardtable/games/klondike"
	"github.com/phanxgames/cardtable/screen"
	"github.com/phanxgames/cardtable/sfx"
)

var flagShowFPS bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Klondike in a window",
	Long: `Deal a game of Klondike solitaire in a window.

Controls:
  Drag      - Move a card or a run of face-up cards
  Click     - Deal from the stock, or send a card to its foundation
  Esc       - Quit

Examples:
  cardtable play
  cardtable play --seed 42 --fps`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagShowFPS, "fps", false, "Show FPS and TPS")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err)
	logger := newLogger(cfg, os.Stderr)

	t, err := newTable(cfg, logger, klondike.Options{Origin: vec(40, 60)})
	exitOnError(err)
	defer t.Close()

	maxTilt := 0.0
	if cfg.Interaction.RotateDragged {
		maxTilt = cfg.Interaction.MaxTiltDegrees * math.Pi / 180
	}
	game := screen.New(t.manager, screen.Options{
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Title:   cfg.Window.Title,
		TPS:     cfg.Window.TPS,
		MaxTilt: maxTilt,
		Label:   klondike.Label,
		Red:     klondike.Red,
		Status:  t.game.Status,
		ShowFPS: flagShowFPS,
		Logger:  logger,
		OnUpdate: func() error {
			t.tick()
			return nil
		},
	})
	t.listen(game)

	if cfg.Audio.Enabled {
		player := sfx.NewPlayer(cfg.Audio.Volume, logger)
		if err := player.Init(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer player.Close()
			t.listen(player)
			t.game.OnWin(func() { player.Play(sfx.SoundWin) })
		}
	}

	exitOnError(game.Run())
}
