package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatarFor_CyclesByPosition(t *testing.T) {
	got := []string{AvatarFor(0), AvatarFor(1), AvatarFor(2), AvatarFor(3)}
	assert.Equal(t, []string{"/avatar1.png", "/avatar2.png", "/avatar3.png", "/avatar1.png"}, got)
}

func TestAvatarFor_NegativePosition(t *testing.T) {
	assert.Equal(t, "/avatar2.png", AvatarFor(-1))
}
