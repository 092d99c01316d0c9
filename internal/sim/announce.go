package sim

import "fmt"

// Verdict classifies how a finished run left the reservoir.
type Verdict int

const (
	VerdictDry Verdict = iota
	VerdictLow
	VerdictSteady
	VerdictFull
)

func (v Verdict) String() string {
	switch v {
	case VerdictDry:
		return "bone_dry"
	case VerdictLow:
		return "running_low"
	case VerdictSteady:
		return "holding_steady"
	case VerdictFull:
		return "reservoir_full"
	default:
		return "unknown"
	}
}

// Headline is the player-facing phrase for the verdict.
func (v Verdict) Headline() string {
	switch v {
	case VerdictDry:
		return "The reservoir ran dry."
	case VerdictLow:
		return "Water is running low."
	case VerdictSteady:
		return "Supplies are holding steady."
	case VerdictFull:
		return "The reservoir is full. Great conservation!"
	default:
		return ""
	}
}

// Assessment is the end-of-run summary shown to the player.
type Assessment struct {
	Verdict     Verdict
	Performance float64 // 0..100
	Grade       string
	CatchRate   float64 // collected / (collected + missed), 0 when nothing fell
}

// Assess grades a finished run. Performance weighs the final water level
// against the share of drops that were caught rather than lost.
func Assess(r Result) Assessment {
	a := Assessment{}
	if total := r.Stats.Collected + r.Stats.Missed; total > 0 {
		a.CatchRate = float64(r.Stats.Collected) / float64(total)
	}
	a.Performance = 0.6*float64(r.Resource) + 0.4*a.CatchRate*100
	a.Grade = LetterGrade(a.Performance)

	switch {
	case r.Resource == 0:
		a.Verdict = VerdictDry
	case r.Resource < 40:
		a.Verdict = VerdictLow
	case r.Resource < 80:
		a.Verdict = VerdictSteady
	default:
		a.Verdict = VerdictFull
	}
	return a
}

// LetterGrade maps a 0..100 performance score to a letter.
func LetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}

// Announcement is the end-of-session message, one line per fact.
func Announcement(r Result) string {
	a := Assess(r)
	return fmt.Sprintf("Time's up! %s\nFinal score: %d\nWater level: %d%%\nDrops caught: %d of %d\nGrade: %s",
		a.Verdict.Headline(), r.Score, r.Resource, r.Stats.Collected, r.Stats.Collected+r.Stats.Missed, a.Grade)
}
