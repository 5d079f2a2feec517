package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/cardtable"
	"github.com/phanxgames/cardtable/ecs"
	"github.com/phanxgames/cardtable/games/klondike"
	"github.com/phanxgames/cardtable/internal/config"
	"github.com/phanxgames/cardtable/journal"
)

// table is one game session with everything listening to it.
type table struct {
	cfg     config.Config
	logger  *log.Logger
	manager *cardtable.Manager
	game    *klondike.Game

	journal *journal.Journal
	session *journal.Session

	world  donburi.World
	mirror *ecs.Mirror

	sink cardtable.EventSink
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Journal.Path = flagDBPath
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config, w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "cardtable", ReportTimestamp: true})
	if cfg.Debug {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func dealSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// newTable opens the journal and deals a Klondike game wired to the journal
// and the ECS mirror. A journal that cannot be opened is logged and skipped.
// Hosts add their own sinks with listen.
func newTable(cfg config.Config, logger *log.Logger, opts klondike.Options) (*table, error) {
	t := &table{cfg: cfg, logger: logger, manager: cardtable.NewManager()}
	m := t.manager
	m.SetLogger(logger)
	m.SetDebugMode(cfg.Debug)
	m.SetClickThreshold(cfg.Interaction.ClickThreshold())
	m.SetClickOnDrop(cfg.Interaction.ClickOnDrop)
	m.SetEventQueue(false)

	if j, err := journal.Open(cfg.Journal.Path, journal.WithLogger(logger)); err != nil {
		logger.Warn("journal disabled", "path", cfg.Journal.Path, "err", err)
	} else {
		t.journal = j
		s, err := j.StartSession("klondike", m.Clock)
		if err != nil {
			j.Close()
			return nil, fmt.Errorf("start session: %w", err)
		}
		t.session = s
	}

	t.world = donburi.NewWorld()
	ecs.TableEventType.Subscribe(t.world, func(_ donburi.World, ev cardtable.Event) {
		logger.Debug("table event", "type", ev.Type, "card", ev.Card)
	})

	opts.Seed = dealSeed()
	opts.Logger = logger
	opts.Sink = t
	g, err := klondike.New(m, opts)
	if err != nil {
		t.Close()
		return nil, err
	}
	t.game = g
	t.mirror = ecs.NewMirror(t.world, m)
	if t.session != nil {
		t.listen(t.session)
	}
	t.listen(t.mirror)
	m.SetEventSink(t)
	logger.Info("dealt", "seed", opts.Seed)
	return t, nil
}

// listen adds sinks after the ones already attached.
func (t *table) listen(sinks ...cardtable.EventSink) {
	t.sink = cardtable.MultiSink(append([]cardtable.EventSink{t.sink}, sinks...)...)
}

// EmitEvent forwards manager and game events to every attached sink.
func (t *table) EmitEvent(ev cardtable.Event) {
	if t.sink != nil {
		t.sink.EmitEvent(ev)
	}
}

// tick runs once per frame after the manager.
func (t *table) tick() {
	events.ProcessAllEvents(t.world)
}

func (t *table) Close() {
	if t.session != nil {
		if err := t.session.Err(); err != nil {
			t.logger.Warn("journal write failed", "err", err)
		}
	}
	if t.journal != nil {
		if err := t.journal.Close(); err != nil {
			t.logger.Warn("close journal", "err", err)
		}
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
