package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameLog(t *testing.T) {
	l := NewGameLog("s1")
	assert.Equal(t, "", l.Last())
	assert.Nil(t, l.Since(0))

	l.Add("first")
	l.SetTick(3)
	l.Add("second")

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "second", l.Last())

	all := l.Since(-1)
	assert.Len(t, all, 2)
	assert.Equal(t, 0, all[0].Tick)
	assert.Equal(t, 3, all[1].Tick)

	tail := l.Since(1)
	assert.Len(t, tail, 1)
	assert.Equal(t, "second", tail[0].Text)

	tail[0].Text = "changed"
	assert.Equal(t, "second", l.Last(), "Since returns a copy")

	assert.Nil(t, l.Since(5))
}
