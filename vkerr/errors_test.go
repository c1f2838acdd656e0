package vkerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestResultSuccessReturnsNil(t *testing.T) {
	assert.NoError(t, Result("op", vk.Success))
}

func TestResultNonSuccessWraps(t *testing.T) {
	err := Result("vkCreateInstance", vk.ErrorInitializationFailed)
	require.Error(t, err)
	var vkErr *VulkanError
	require.ErrorAs(t, err, &vkErr)
	assert.Equal(t, "vkCreateInstance", vkErr.Op)
	assert.Equal(t, vk.ErrorInitializationFailed, vkErr.Result)
}

func TestResultHonorsOkCodes(t *testing.T) {
	err := Result("vkAcquireNextImage", vk.Suboptimal, vk.Suboptimal)
	assert.NoError(t, err)
}

func TestResultSpecialCasesDeviceLost(t *testing.T) {
	err := Result("vkQueueSubmit", vk.ErrorDeviceLost)
	require.Error(t, err)
	var lost *DeviceLostError
	require.ErrorAs(t, err, &lost)
	assert.Equal(t, "vkQueueSubmit", lost.Op)
}

func TestNewDeviceLostErrorMessage(t *testing.T) {
	err := NewDeviceLostError("vkQueuePresentKHR")
	assert.Contains(t, err.Error(), "vkQueuePresentKHR")
	assert.Contains(t, err.Error(), "device lost")
}

func TestIsSwapchainInvalidated(t *testing.T) {
	err := NewSwapchainInvalidated("vkQueuePresent", vk.ErrorOutOfDate)
	assert.True(t, IsSwapchainInvalidated(err))
	assert.False(t, IsSwapchainInvalidated(NewInteropError("unrelated")))
}

func TestAllocationErrorReasonString(t *testing.T) {
	err := NewAllocationError(CapacityExceeded)
	assert.Contains(t, err.Error(), "capacity-exceeded")
}

func TestCommandBufferStateErrorMessage(t *testing.T) {
	err := NewCommandBufferStateError("begin", "INITIAL", "RECORDING")
	assert.Contains(t, err.Error(), "begin")
	assert.Contains(t, err.Error(), "INITIAL")
	assert.Contains(t, err.Error(), "RECORDING")
	assert.NotEmpty(t, err.Stack())
}

func TestResourceDestroyedErrorMessage(t *testing.T) {
	err := NewResourceDestroyedError("command pool")
	assert.Equal(t, "command pool: already destroyed", err.Error())
}
