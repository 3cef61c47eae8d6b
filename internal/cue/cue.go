// Package cue turns gameplay feedback into short procedural sounds.
package cue

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/tether/internal/object"
)

// SampleRate is the output rate of every cue.
const SampleRate = beep.SampleRate(44100)

const attack = 5 * time.Millisecond

// Sound builds the cue for a feedback kind at the given volume (0..1).
// Every call returns a fresh streamer.
func Sound(kind object.FeedbackKind, vol float64) beep.Streamer {
	rate := SampleRate
	var s beep.Streamer
	switch kind {
	case object.FeedbackPerfect:
		// Two-note chime, B5 then E6
		s = beep.Seq(
			tone(987.77, 80*time.Millisecond, WaveSquare, rate),
			tone(1318.51, 220*time.Millisecond, WaveSquare, rate),
		)
		vol *= 0.5
	case object.FeedbackMirrorOn:
		// Rising arpeggio
		s = beep.Seq(
			tone(440, 70*time.Millisecond, WaveSine, rate),
			tone(554.37, 70*time.Millisecond, WaveSine, rate),
			tone(659.25, 70*time.Millisecond, WaveSine, rate),
			tone(880, 200*time.Millisecond, WaveSine, rate),
		)
	case object.FeedbackMirrorHarvest:
		// Bell: fundamental plus octave
		s = beep.Mix(
			newVolume(tone(880, 600*time.Millisecond, WaveSine, rate), 0.7),
			newVolume(tone(1760, 300*time.Millisecond, WaveSine, rate), 0.3),
		)
	case object.FeedbackPhaseShift:
		s = tone(0, 120*time.Millisecond, WaveNoise, rate)
		vol *= 0.4
	case object.FeedbackHit:
		s = tone(100, 150*time.Millisecond, WaveSaw, rate)
		vol *= 0.6
	default:
		return nil
	}
	return newVolume(s, vol)
}

// Player mixes cues onto the speaker. The zero value is not usable; use
// NewPlayer. A Player that was never started drops every cue.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	volume  float64
	started bool
}

// NewPlayer creates a player at volume (0..1).
func NewPlayer(volume float64) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Start initialises the speaker and begins playing the mixer.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.started = true
	return nil
}

// Play queues the cue for f. It never blocks the caller for longer than
// the speaker lock.
func (p *Player) Play(f object.Feedback) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	s := Sound(f.Kind, p.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.started = false
}
