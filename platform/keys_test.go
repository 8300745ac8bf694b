package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/boxannot/input"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		in     glfw.Key
		expect input.Key
	}{
		{glfw.KeyB, input.KeyB},
		{glfw.KeyEscape, input.KeyEscape},
		{glfw.KeyKPEnter, input.KeyEnter},
		{glfw.KeyPeriod, input.KeyPeriod},
		{glfw.KeySlash, input.KeySlash},
		{glfw.KeyRightShift, input.KeyShift},
	}
	for _, tt := range tests {
		key, ok := TranslateKey(tt.in)
		assert.True(t, ok, "%v", tt.in)
		assert.Equal(t, tt.expect, key)
	}

	_, ok := TranslateKey(glfw.KeyF5)
	assert.False(t, ok)
}

func TestEditorKeysAreMapped(t *testing.T) {
	mapped := map[input.Key]bool{}
	for _, k := range keyFromGlfw {
		mapped[k] = true
	}
	for _, k := range []input.Key{
		input.KeyB, input.KeyR, input.KeyS, input.KeyE, input.KeyEnter, input.KeyEscape,
		input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight, input.KeyPeriod, input.KeySlash,
	} {
		assert.True(t, mapped[k], "%s has no GLFW binding", k)
	}
}

func TestScrollDelta(t *testing.T) {
	assert.Equal(t, float32(-WheelScale), ScrollDelta(1))
	assert.Equal(t, float32(2*WheelScale), ScrollDelta(-2))
}
