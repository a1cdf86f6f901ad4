package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/looplab/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunState_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		events []string
		want   string
	}{
		{"full turn", []string{EventAct, EventEndPlayer, EventEndMonsters}, StateAwaitingInput},
		{"targeting confirm", []string{EventTarget, EventConfirm}, StatePlayerTurn},
		{"targeting cancel", []string{EventTarget, EventCancel}, StateAwaitingInput},
		{"level change", []string{EventDescend, EventGenerate, EventReady}, StateAwaitingInput},
		{"die on monster turn", []string{EventAct, EventEndPlayer, EventDie}, StateGameOver},
		{"die during generation", []string{EventDescend, EventGenerate, EventDie}, StateGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewRunState()
			for _, ev := range tt.events {
				require.NoError(t, rs.Fire(context.Background(), ev))
			}
			if rs.Current() != tt.want {
				t.Errorf("Expected state %s, got %s", tt.want, rs.Current())
			}
		})
	}
}

func TestRunState_InvalidEvent(t *testing.T) {
	rs := NewRunState()

	err := rs.Fire(context.Background(), EventConfirm)
	require.Error(t, err)
	var invalid fsm.InvalidEventError
	assert.True(t, errors.As(err, &invalid))
	assert.Contains(t, err.Error(), StateAwaitingInput)
	assert.True(t, rs.Is(StateAwaitingInput), "state unchanged")

	require.NoError(t, rs.Fire(context.Background(), EventDie))
	assert.False(t, rs.Can(EventDie), "game over is terminal")
	assert.Error(t, rs.Fire(context.Background(), EventAct))
}

func TestRunState_MustFirePanics(t *testing.T) {
	rs := NewRunState()
	assert.Panics(t, func() {
		rs.mustFire(context.Background(), EventEndMonsters)
	})
}
