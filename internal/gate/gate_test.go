package gate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	setup     bool
	artifacts map[Round]bool
}

func (f fakeView) HasSetup() bool           { return f.setup }
func (f fakeView) HasArtifact(r Round) bool { return f.artifacts[r] }

// subset builds a view from a bitmask over ArtifactRounds.
func subset(mask int) fakeView {
	v := fakeView{setup: true, artifacts: map[Round]bool{}}
	for i, r := range ArtifactRounds {
		if mask&(1<<i) != 0 {
			v.artifacts[r] = true
		}
	}
	return v
}

func TestEligible_AllSubsets(t *testing.T) {
	for mask := 0; mask < 1<<len(ArtifactRounds); mask++ {
		v := subset(mask)
		t.Run(fmt.Sprintf("mask=%04b", mask), func(t *testing.T) {
			for _, r := range Sequence {
				want := true
				for _, dep := range Registry[r].Dependencies {
					if !v.artifacts[dep] {
						want = false
					}
				}
				assert.Equal(t, want, Eligible(v, r), "round %s", r)
			}

			has := v.artifacts
			assert.True(t, Eligible(v, MCQ))
			assert.Equal(t, has[MCQ], Eligible(v, Coding))
			assert.Equal(t, has[MCQ] && has[Coding], Eligible(v, SystemDesign))
			assert.Equal(t, has[MCQ] && has[Coding] && has[SystemDesign], Eligible(v, HR))
			assert.Equal(t, Eligible(v, HR) && has[HR], Eligible(v, Results))
		})
	}
}

func TestEligible_UnknownRoundFailsClosed(t *testing.T) {
	all := subset(0b1111)
	assert.False(t, Eligible(all, Round("bonus")))
	assert.False(t, Eligible(all, Round("")))
	assert.False(t, Eligible(all, Setup))
}

func TestRedirect_WalksFromStart(t *testing.T) {
	tests := []struct {
		name string
		view fakeView
		want Round
	}{
		{"no setup", fakeView{}, Setup},
		{"nothing done", subset(0), MCQ},
		{"mcq done", subset(0b0001), Coding},
		{"gap at coding", subset(0b1101), Coding},
		{"gap at mcq", subset(0b1110), MCQ},
		{"all done", subset(0b1111), Results},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redirect(tt.view))
		})
	}
}

func TestCheck(t *testing.T) {
	err := Check(fakeView{}, Coding)
	var gateErr *MissingPrerequisiteError
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, Setup, gateErr.Redirect)
	assert.Equal(t, "Interview setup not found", gateErr.Notice())

	// Deep link to HR with coding missing goes to coding, not system design.
	err = Check(subset(0b0001), HR)
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, HR, gateErr.Requested)
	assert.Equal(t, Coding, gateErr.Redirect)
	assert.Equal(t, []Round{Coding, SystemDesign}, gateErr.Missing)
	assert.Contains(t, gateErr.Notice(), "coding")

	err = Check(subset(0b0111), Results)
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, HR, gateErr.Redirect)
	assert.Equal(t, "Missing data from one or more interview rounds", gateErr.Notice())

	err = Check(subset(0b0011), Round("nope"))
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, SystemDesign, gateErr.Redirect)

	assert.NoError(t, Check(subset(0), MCQ))
	assert.NoError(t, Check(fakeView{}, Setup))
	assert.NoError(t, Check(subset(0b1111), Results))
}

func TestParseRound(t *testing.T) {
	r, ok := ParseRound(" System-Design ")
	assert.True(t, ok)
	assert.Equal(t, SystemDesign, r)

	_, ok = ParseRound("lunch")
	assert.False(t, ok)

	r, ok = ParseRound("setup")
	assert.True(t, ok)
	assert.Equal(t, Setup, r)
}

func TestCurrentProgress(t *testing.T) {
	p := CurrentProgress(subset(0b0011))
	assert.True(t, p.HasSetup)
	assert.Equal(t, []Round{MCQ, Coding}, p.Completed)
	assert.Equal(t, SystemDesign, p.Next)
}
