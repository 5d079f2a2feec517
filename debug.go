package cardtable

import (
	"os"

	"github.com/charmbracelet/log"
)

func newDefaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "cardtable",
		Level:  log.WarnLevel,
	})
}

// SetLogger replaces the manager's logger. A nil logger restores the
// default stderr logger.
func (m *Manager) SetLogger(l *log.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	m.logger = l
	if m.debug {
		m.level = l.GetLevel()
		m.logger.SetLevel(log.DebugLevel)
	}
}

// Logger returns the manager's logger.
func (m *Manager) Logger() *log.Logger {
	return m.logger
}

// SetDebugMode enables or disables debug mode. When enabled, every drag,
// drop, cancellation and click is logged at debug level with the
// containers and cards involved. Disabling restores the level the logger
// had before; a logger never put in debug mode is left alone.
func (m *Manager) SetDebugMode(enabled bool) {
	if enabled == m.debug {
		return
	}
	m.debug = enabled
	if enabled {
		m.level = m.logger.GetLevel()
		m.logger.SetLevel(log.DebugLevel)
	} else {
		m.logger.SetLevel(m.level)
	}
}

// DebugMode reports whether debug mode is on.
func (m *Manager) DebugMode() bool {
	return m.debug
}
