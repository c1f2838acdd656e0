package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestChooseCompositeAlphaPrefersOpaque(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		SupportedCompositeAlpha: vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit | vk.CompositeAlphaInheritBit),
	}
	assert.Equal(t, vk.CompositeAlphaOpaqueBit, chooseCompositeAlpha(caps))
}

func TestChooseCompositeAlphaFallsBackThroughCandidateOrder(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		SupportedCompositeAlpha: vk.CompositeAlphaFlags(vk.CompositeAlphaPreMultipliedBit),
	}
	assert.Equal(t, vk.CompositeAlphaPreMultipliedBit, chooseCompositeAlpha(caps))
}

func TestChooseCompositeAlphaDefaultsToOpaqueWhenNothingMatches(t *testing.T) {
	caps := vk.SurfaceCapabilities{SupportedCompositeAlpha: 0}
	assert.Equal(t, vk.CompositeAlphaOpaqueBit, chooseCompositeAlpha(caps))
}
