package sfx

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/phanxgames/cardtable"
)

const sampleRate = beep.SampleRate(44100)

// Player plays table sounds on the speaker. It implements
// cardtable.EventSink so it can react to manager events directly.
// Until Init succeeds every Play is dropped, so a table without audio
// hardware keeps running silently.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	logger      *log.Logger

	// dropped suppresses repeated drop sounds for the cards of one
	// multi-card move.
	dropped bool
}

// NewPlayer creates a player at the given volume in [0, 1].
func NewPlayer(volume float64, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{mixer: &beep.Mixer{}, volume: volume, logger: logger}
}

// Init opens the speaker. Failing to do so is not fatal; the player stays
// silent and the error is returned for the caller to log.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops all sounds and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// SetVolume changes the volume of sounds played from now on.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

// Play starts s. It reports whether the sound was sent to the speaker.
func (p *Player) Play(s Sound) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized || s == SoundNone {
		return false
	}
	st := Synth(s, sampleRate, p.volume)
	speaker.Lock()
	p.mixer.Add(st)
	speaker.Unlock()
	p.logger.Debug("sound", "name", s)
	return true
}

// EmitEvent plays the sound for ev.
func (p *Player) EmitEvent(ev cardtable.Event) {
	p.Play(p.soundFor(ev))
}

// soundFor maps an event to its sound. A multi-card move plays one drop.
func (p *Player) soundFor(ev cardtable.Event) Sound {
	switch ev.Type {
	case cardtable.EventDragStarted:
		p.dropped = false
		return SoundPick
	case cardtable.EventCardMoved:
		if p.dropped {
			return SoundNone
		}
		p.dropped = true
		return SoundDrop
	case cardtable.EventDragCancelled:
		p.dropped = true
		return SoundDeny
	case cardtable.EventContainerClicked:
		return SoundClick
	}
	return SoundNone
}
