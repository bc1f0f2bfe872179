package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayer_HasPermission(t *testing.T) {
	p := NewPlayer(1, "Trader", Location{}, "BlackmarketNPC.Status")

	assert.True(t, p.HasPermission("blackmarketnpc.status"))
	assert.False(t, p.HasPermission("blackmarketnpc.spawn"))

	p.Grant(PermissionAll)
	assert.True(t, p.HasPermission("blackmarketnpc.spawn"))
}

func TestPlayer_SendMessage(t *testing.T) {
	p := NewPlayer(1, "Trader", Location{})

	var got []string
	p.SetMessageSink(func(msg string) { got = append(got, msg) })

	p.SendMessage("hello")
	p.SendMessage("world")

	assert.Equal(t, []string{"hello", "world"}, got)
}

func TestPlayer_SendMessageWithoutSink(t *testing.T) {
	p := NewPlayer(1, "Trader", Location{})
	assert.NotPanics(t, func() { p.SendMessage("dropped") })
}
