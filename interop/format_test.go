package interop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestBuildFormatRGBA8Unorm(t *testing.T) {
	f, err := BuildFormat("RGBA", 1, false, KindUnorm)
	require.NoError(t, err)
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, f)
}

func TestBuildFormatSignedSelectsSnorm(t *testing.T) {
	f, err := BuildFormat("R", 1, true, KindUnorm)
	require.NoError(t, err)
	assert.Equal(t, vk.FormatR8Snorm, f)
}

func TestBuildFormatBGRASrgb(t *testing.T) {
	f, err := BuildFormat("BGRA", 1, false, KindSrgb)
	require.NoError(t, err)
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, f)
}

func TestBuildFormatUnknownCombinationErrors(t *testing.T) {
	_, err := BuildFormat("RGBA", 8, false, KindUnorm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestFormatNameRoundTrips(t *testing.T) {
	name := FormatName(vk.FormatR8g8b8a8Unorm)
	assert.Equal(t, "R8G8B8A8_UNORM", name)
}

func TestFormatNameUnknownIsEmpty(t *testing.T) {
	assert.Equal(t, "", FormatName(vk.FormatUndefined))
}
