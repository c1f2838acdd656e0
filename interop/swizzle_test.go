package interop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestIdentityIsAllIdentitySwizzle(t *testing.T) {
	m := Identity()
	assert.Equal(t, vk.ComponentSwizzleIdentity, m.R)
	assert.Equal(t, vk.ComponentSwizzleIdentity, m.G)
	assert.Equal(t, vk.ComponentSwizzleIdentity, m.B)
	assert.Equal(t, vk.ComponentSwizzleIdentity, m.A)
}

func TestIdentityReturnsFreshValueEachCall(t *testing.T) {
	a := Identity()
	b := Identity()
	a.R = vk.ComponentSwizzleZero
	assert.Equal(t, vk.ComponentSwizzleIdentity, b.R, "Identity must not share a mutable native struct")
}

func TestSwizzleABGRReordersToRGBA(t *testing.T) {
	m, err := Swizzle("ABGR")
	require.NoError(t, err)
	assert.Equal(t, vk.ComponentSwizzleA, m.R)
	assert.Equal(t, vk.ComponentSwizzleB, m.G)
	assert.Equal(t, vk.ComponentSwizzleG, m.B)
	assert.Equal(t, vk.ComponentSwizzleR, m.A)
}

func TestSwizzleIdentityCharacterResolvesToIdentity(t *testing.T) {
	m, err := Swizzle("RGBA")
	require.NoError(t, err)
	assert.Equal(t, Identity(), m)
}

func TestSwizzleConstantChannels(t *testing.T) {
	m, err := Swizzle("10RG")
	require.NoError(t, err)
	assert.Equal(t, vk.ComponentSwizzleOne, m.R)
	assert.Equal(t, vk.ComponentSwizzleZero, m.G)
	assert.Equal(t, vk.ComponentSwizzleR, m.B)
	assert.Equal(t, vk.ComponentSwizzleG, m.A)
}

func TestSwizzleWrongLengthErrors(t *testing.T) {
	_, err := Swizzle("RGB")
	require.Error(t, err)
}

func TestSwizzleUnsupportedCharacterErrors(t *testing.T) {
	_, err := Swizzle("RGBX")
	require.Error(t, err)
}
