// Package sfx synthesizes the short table sounds (pick up, drop, refuse,
// click, win) and plays them through the system speaker with beep. No audio
// files are needed: every sound is built from oscillators and envelopes.
package sfx

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
)

// tone is a fixed-length oscillator.
type tone struct {
	freq   float64
	phase  float64
	length int
	pos    int
	wave   Wave
	rate   beep.SampleRate
}

// Tone returns a streamer playing freq Hz for d.
func Tone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, length: rate.N(d), wave: wave, rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	if t.pos >= t.length {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.length {
			return i, true
		}
		var v float64
		switch t.wave {
		case Sine:
			v = math.Sin(2 * math.Pi * t.phase)
		case Square:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case Triangle:
			v = 4*math.Abs(t.phase-0.5) - 1
		}
		samples[i][0], samples[i][1] = v, v
		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// envelope fades a streamer in over attack and out over its last release
// samples.
type envelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

// Shape applies a linear attack/release envelope to a streamer of length d.
func Shape(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{s: s, attack: rate.N(attack), release: rate.N(release), total: rate.N(d)}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			gain = math.Max(float64(left)/float64(e.release), 0)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// withVolume scales s linearly; zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Sound names one table sound.
type Sound int

const (
	SoundNone Sound = iota
	SoundPick
	SoundDrop
	SoundDeny
	SoundClick
	SoundWin
)

func (s Sound) String() string {
	switch s {
	case SoundPick:
		return "pick"
	case SoundDrop:
		return "drop"
	case SoundDeny:
		return "deny"
	case SoundClick:
		return "click"
	case SoundWin:
		return "win"
	default:
		return "none"
	}
}

func note(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return Shape(Tone(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

// Synth builds a fresh streamer for s at the given volume. It returns nil
// for SoundNone.
func Synth(s Sound, rate beep.SampleRate, volume float64) beep.Streamer {
	var out beep.Streamer
	switch s {
	case SoundPick:
		out = note(660, 60*time.Millisecond, Triangle, rate)
	case SoundDrop:
		out = beep.Seq(
			note(520, 40*time.Millisecond, Triangle, rate),
			note(390, 70*time.Millisecond, Triangle, rate),
		)
	case SoundDeny:
		out = note(140, 160*time.Millisecond, Square, rate)
	case SoundClick:
		out = note(1200, 25*time.Millisecond, Sine, rate)
	case SoundWin:
		out = beep.Seq(
			note(523.25, 120*time.Millisecond, Sine, rate),
			note(659.25, 120*time.Millisecond, Sine, rate),
			beep.Mix(
				withVolume(note(783.99, 300*time.Millisecond, Sine, rate), 0.7),
				withVolume(note(1567.98, 300*time.Millisecond, Sine, rate), 0.3),
			),
		)
	default:
		return nil
	}
	return withVolume(out, volume)
}
