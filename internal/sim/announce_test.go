package sim

import (
	"math"
	"strings"
	"testing"
)

func TestAssessVerdicts(t *testing.T) {
	cases := []struct {
		resource int
		want     Verdict
	}{
		{0, VerdictDry},
		{39, VerdictLow},
		{40, VerdictSteady},
		{79, VerdictSteady},
		{80, VerdictFull},
		{100, VerdictFull},
	}
	for _, tc := range cases {
		if got := Assess(Result{Resource: tc.resource}).Verdict; got != tc.want {
			t.Errorf("resource %d: got %v want %v", tc.resource, got, tc.want)
		}
	}
}

func TestAssessPerformance(t *testing.T) {
	perfect := Assess(Result{Resource: 100, Stats: Stats{Collected: 10}})
	if math.Abs(perfect.Performance-100) > 1e-9 || perfect.Grade != "A+" || perfect.CatchRate != 1 {
		t.Fatalf("perfect run: %+v", perfect)
	}

	// Nothing fell and nothing was caught: catch rate counts as zero.
	idle := Assess(Result{Resource: 100})
	if idle.CatchRate != 0 || math.Abs(idle.Performance-60) > 1e-9 || idle.Grade != "C" {
		t.Fatalf("idle run: %+v", idle)
	}

	dry := Assess(Result{Resource: 0, Stats: Stats{Collected: 1, Missed: 3}})
	if dry.Grade != "F" {
		t.Fatalf("dry run grade: got %s want F", dry.Grade)
	}
}

func TestAnnouncementText(t *testing.T) {
	msg := Announcement(Result{Score: 57, Resource: 84, Stats: Stats{Collected: 7, Missed: 1}})
	for _, want := range []string{"Final score: 57", "Water level: 84%", "Drops caught: 7 of 8", "reservoir is full"} {
		if !strings.Contains(msg, want) {
			t.Errorf("announcement missing %q:\n%s", want, msg)
		}
	}
}
