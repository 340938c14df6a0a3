package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunnerOrdersByPhase(t *testing.T) {
	r := NewRunner()
	var got []string
	add := func(p Phase, name string) {
		r.Register(Func{P: p, Fn: func(time.Duration) { got = append(got, name) }})
	}
	add(PhaseCleanup, "cleanup")
	add(PhaseUpdate, "update-a")
	add(PhaseFinalUpdate, "final")
	add(PhaseUpdate, "update-b")

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"update-a", "update-b", "final", "cleanup"}, got)

	got = nil
	r.TickPhase(PhaseUpdate, time.Millisecond)
	assert.Equal(t, []string{"update-a", "update-b"}, got)
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, "final-update", PhaseFinalUpdate.String())
}
