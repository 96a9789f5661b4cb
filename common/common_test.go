package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestKeyName(t *testing.T) {
	assert.Equal(t, KeyNameShift, KeyName(KeyLeftShift))
	assert.Equal(t, KeyNameShift, KeyName(KeyRightShift))
	assert.Equal(t, KeyNameControl, KeyName(KeyRightControl))
	assert.Equal(t, "W", KeyName(KeyW))
	assert.Equal(t, "7", KeyName('7'))
	assert.Equal(t, "", KeyName(9999))
}

func TestVec2(t *testing.T) {
	v := Vec2{1, -2}.Add(Vec2{-1, 2})
	assert.True(t, v.IsZero())
	assert.False(t, Vec2{0, 0.5}.IsZero())
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-12.5))
	assert.False(t, IsFinite(math32.NaN()))
	assert.False(t, IsFinite(math32.Inf(1)))
	assert.False(t, IsFinite(math32.Inf(-1)))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 10, Coalesce(0, 10, 20))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, [2]float32{1, 1}, Coalesce([2]float32{}, [2]float32{1, 1}))
}

func TestButtonStateString(t *testing.T) {
	assert.Equal(t, "up", ButtonUp.String())
	assert.Equal(t, "down", ButtonDown.String())
}
