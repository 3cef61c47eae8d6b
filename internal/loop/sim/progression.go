package sim

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/object"
)

// Feedback lifetimes and offsets above the player row.
const (
	mirrorOnLife     = 1.5
	mirrorOnOffset   = 100.0
	harvestLife      = 2.5
	harvestOffset    = 200.0
	phaseShiftLife   = 0.6
	phaseShiftOffset = 60.0
	hitLife          = 0.6
	hitOffset        = 40.0
	perfectLife      = 1.2
	perfectOffset    = 140.0
)

// expireMirror counts the mirror timer down and, when it runs out, pays
// out the harvest and schedules the next portal.
func (s *Session) expireMirror(dt float64) {
	st := &s.state
	if !st.MirrorActive() {
		return
	}
	st.MirrorFrames -= dt
	if st.MirrorFrames > 0 {
		return
	}
	st.MirrorFrames = 0
	if st.MirrorGathered > 0 {
		harvest := st.MirrorGathered * config.MirrorHarvestPerItem
		st.Bonus += float64(harvest)
		s.emit(object.FeedbackMirrorHarvest, harvestOffset, fmt.Sprintf("MIRROR HARVEST +%d", harvest), object.ColorGold, harvestLife)
	}
	st.MirrorGathered = 0
	st.Portal.Reschedule(st.TimeMs, s.rng)
}

// activateMirror starts mirror mode. It is a no-op while already active.
func (s *Session) activateMirror() {
	st := &s.state
	if st.MirrorActive() {
		return
	}
	st.MirrorFrames = config.MirrorDurationFrames
	st.MirrorGathered = 0
	s.emit(object.FeedbackMirrorOn, mirrorOnOffset, "MIRROR LINK ACTIVATED", object.ColorMirror, mirrorOnLife)
}

// pickup collects everything near the nodes and pays for it.
func (s *Session) pickup(o *object.Obstacle, mirror bool) {
	st := &s.state
	b1, b2 := st.Tether.Nodes()
	n := o.Collect(b1, b2, s.playerY, config.PickupRadius)
	if n == 0 {
		return
	}
	if mirror {
		st.Bonus += float64(n * config.MirrorCollectibleScore)
		st.MirrorGathered += n
		return
	}
	st.Bonus += float64(n * config.CollectibleScore)
}

// contact applies a hazard hit, honoring the cooldown. Mirror mode only
// shakes and never touches stability.
func (s *Session) contact(o *object.Obstacle, mirror bool) {
	st := &s.state
	if st.Cooldown > 0 || st.Over {
		return
	}

	if mirror {
		st.Cooldown = config.MirrorHitCooldownFrames
		st.Shake = config.MirrorShake
		s.emit(object.FeedbackPhaseShift, phaseShiftOffset, "PHASE SHIFT", object.ColorMirror, phaseShiftLife)
		return
	}

	st.Stability -= config.StabilityLossPerHit
	st.Cooldown = config.HitCooldownFrames
	st.Shake = config.HitShake
	o.HitCount++
	threshold := 1
	if o.IsLong() {
		threshold = 2
	}
	o.WasHit = o.HitCount >= threshold
	s.emit(object.FeedbackHit, hitOffset, fmt.Sprintf("-%d", int(config.StabilityLossPerHit)), object.ColorPink, hitLife)

	if st.Stability <= 0 {
		st.Stability = 0
		s.end()
	}
}

// end terminates the session. The callback fires at most once.
func (s *Session) end() {
	st := &s.state
	if st.Over {
		return
	}
	st.Over = true
	if s.onGameOver != nil {
		s.onGameOver(st.Total())
	}
}

// pass scores an obstacle whose full extent has scrolled past the player.
func (s *Session) pass(o *object.Obstacle, mirror bool) {
	st := &s.state
	o.Passed = true

	if o.Kind() == object.KindMirrorPortal {
		if !mirror {
			st.Portal.Reschedule(st.TimeMs, s.rng)
		}
		return
	}

	perfect := o.HitCount == 0 && o.Resonance >= config.PerfectResonance
	if perfect {
		gain := config.PerfectBonusScore
		if mirror {
			gain *= 2
		}
		st.Bonus += float64(gain)
		s.emit(object.FeedbackPerfect, perfectOffset, fmt.Sprintf("PERFECT SQUEEZE +%d", gain), object.ColorGold, perfectLife)
	}

	if mirror {
		return
	}
	st.Stability = math.Min(config.MaxStability, st.Stability+stabilityGain(o, perfect))
}

// stabilityGain is the recovery for a passage in normal mode.
func stabilityGain(o *object.Obstacle, perfect bool) float64 {
	long := o.IsLong()
	switch {
	case perfect && long:
		return config.StabilityPerfectLong
	case perfect:
		return config.StabilityPerfectNormal
	case o.HitCount == 0 && long:
		return config.StabilityGainLong
	case o.HitCount == 0:
		return config.StabilityGainNormal
	case o.HitCount == 1 && long:
		return config.StabilityGainLong
	}
	return 0
}

// emit adds a floating feedback above the tether and notifies the listener.
func (s *Session) emit(kind object.FeedbackKind, offset float64, label string, color tcell.Color, life float64) {
	st := &s.state
	f := object.Feedback{
		Kind:  kind,
		X:     st.Tether.X,
		Y:     s.playerY - offset,
		Label: label,
		Color: color,
		Life:  life,
	}
	st.Feedback = append(st.Feedback, f)
	if s.onFeedback != nil {
		s.onFeedback(f)
	}
}

// updateFeedback moves live feedback and drops the expired ones.
func (s *Session) updateFeedback(dt float64) {
	st := &s.state
	kept := st.Feedback[:0]
	for i := range st.Feedback {
		f := st.Feedback[i]
		if !f.Update(dt) {
			kept = append(kept, f)
		}
	}
	st.Feedback = kept
}

// decayShake eases the shake hint toward zero.
func (s *Session) decayShake(dt float64) {
	st := &s.state
	st.Shake *= math.Pow(config.ShakeDecay, dt)
	if st.Shake < 0.1 {
		st.Shake = 0
	}
}
