package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/cardtable/journal"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history [session]",
	Short: "List recorded sessions or show one",
	Long: `Without arguments, list the most recent sessions in the journal.
With a session id, print every recorded event of that session.

Examples:
  cardtable history
  cardtable history --limit 50
  cardtable history 3`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of sessions to list")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err)

	j, err := journal.Open(cfg.Journal.Path)
	exitOnError(err)
	defer j.Close()

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			exitOnError(fmt.Errorf("invalid session id %q", args[0]))
		}
		showSession(j, id)
		return
	}

	sessions, err := j.Sessions(flagLimit)
	exitOnError(err)
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'cardtable play' to record one.")
		return
	}

	fmt.Printf("  %-6s  %-10s  %-6s  %s\n", "ID", "Game", "Events", "Started")
	fmt.Printf("  %-6s  %-10s  %-6s  %s\n", "--", "----", "------", "-------")
	for _, s := range sessions {
		fmt.Printf("  %-6d  %-10s  %-6d  %s\n", s.ID, s.Game, s.Events, s.StartedAt.Format("2006-01-02 15:04"))
	}
}

func showSession(j *journal.Journal, id int64) {
	entries, err := j.Entries(id)
	exitOnError(err)
	if len(entries) == 0 {
		fmt.Printf("Session %d has no events.\n", id)
		return
	}
	for _, e := range entries {
		var what string
		switch e.Type {
		case "card_moved":
			what = fmt.Sprintf("%s: %s -> %s", e.Card, e.From, e.To)
		case "container_clicked":
			what = e.Container
			if e.Card != "" {
				what += " on " + e.Card
			}
		default:
			what = fmt.Sprintf("%s (%d cards) from %s", e.Card, e.Cards, e.Container)
		}
		fmt.Printf("%5d  %9s  %-17s  %s\n", e.Seq, e.At.Truncate(time.Millisecond), e.Type, what)
	}
}
