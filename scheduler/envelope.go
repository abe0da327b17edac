package scheduler

// envStage is one state of the incremental ADSR machine, generalized from
// the teacher's four-stage per-sample envelope in audio_chip.go's
// updateEnvelope (attack/decay/sustain/release register-driven ramps).
type envStage int

const (
	stageAttack envStage = iota
	stageDecay
	stageSustain
	stageRelease
	stageDone
)

// envelope advances one sample at a time rather than computing a closed
// form from absolute frame position, so a voice released early (gate
// ends before its natural decay completes) smoothly ramps down from
// whatever level it was at, not from a value recomputed out of context.
type envelope struct {
	stage envStage
	level float64

	attackFrames  int64
	decayFrames   int64
	releaseFrames int64
	sustainLevel  float64

	stageFrame   int64
	releaseStart float64
}

func newEnvelope(attackFrames, decayFrames, releaseFrames int64, sustainLevel float64) envelope {
	e := envelope{
		attackFrames:  attackFrames,
		decayFrames:   decayFrames,
		releaseFrames: releaseFrames,
		sustainLevel:  sustainLevel,
		stage:         stageAttack,
	}
	if e.attackFrames <= 0 {
		e.stage = stageDecay
		e.level = 1
	}
	return e
}

// next advances the envelope by one sample and returns its level. gated
// is true while the voice is still within its gate window; the first
// sample it goes false forces a transition into release from whatever
// level the voice was at.
func (e *envelope) next(gated bool) float64 {
	if !gated && e.stage != stageRelease && e.stage != stageDone {
		e.stage = stageRelease
		e.stageFrame = 0
		e.releaseStart = e.level
	}

	switch e.stage {
	case stageAttack:
		e.stageFrame++
		e.level = float64(e.stageFrame) / float64(e.attackFrames)
		if e.stageFrame >= e.attackFrames {
			e.level = 1
			e.stage = stageDecay
			e.stageFrame = 0
		}
	case stageDecay:
		if e.decayFrames <= 0 {
			e.level = e.sustainLevel
			e.stage = stageSustain
		} else {
			e.stageFrame++
			frac := float64(e.stageFrame) / float64(e.decayFrames)
			e.level = 1 - frac*(1-e.sustainLevel)
			if e.stageFrame >= e.decayFrames {
				e.level = e.sustainLevel
				e.stage = stageSustain
				e.stageFrame = 0
			}
		}
	case stageSustain:
		e.level = e.sustainLevel
	case stageRelease:
		if e.releaseFrames <= 0 {
			e.level = 0
			e.stage = stageDone
		} else {
			e.stageFrame++
			frac := float64(e.stageFrame) / float64(e.releaseFrames)
			e.level = e.releaseStart * (1 - frac)
			if e.stageFrame >= e.releaseFrames {
				e.level = 0
				e.stage = stageDone
			}
		}
	case stageDone:
		e.level = 0
	}
	return e.level
}

// alive reports whether the envelope has not yet reached its terminal,
// silent state.
func (e *envelope) alive() bool {
	return e.stage != stageDone
}
