package device

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/interop"

	"github.com/stretchr/testify/assert"
)

func TestQueueFamilyHasChecksAllRequestedBits(t *testing.T) {
	q := QueueFamily{Flags: interop.NewEnumMask(uint32(vk.QueueGraphicsBit|vk.QueueComputeBit), queueFlagNames)}
	assert.True(t, q.Has(vk.QueueGraphicsBit))
	assert.True(t, q.Has(vk.QueueGraphicsBit|vk.QueueComputeBit))
	assert.False(t, q.Has(vk.QueueTransferBit))
}
