package vksync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestManagerResetNoopWhenNothingOutstanding(t *testing.T) {
	var dev vk.Device
	m := NewManager(dev)
	require.NoError(t, m.Reset())
}

func TestManagerNewFenceRecyclesBeforeGrowing(t *testing.T) {
	m := &Manager{fences: []vk.Fence{vk.Fence(1), vk.Fence(2)}, count: 0}
	f1, err := m.NewFence()
	require.NoError(t, err)
	assert.Equal(t, vk.Fence(1), f1)

	f2, err := m.NewFence()
	require.NoError(t, err)
	assert.Equal(t, vk.Fence(2), f2)
	assert.Equal(t, uint32(2), m.count)
}

func TestManagerActiveFencesReflectsCount(t *testing.T) {
	m := &Manager{fences: []vk.Fence{vk.Fence(1), vk.Fence(2), vk.Fence(3)}, count: 2}
	assert.Equal(t, []vk.Fence{vk.Fence(1), vk.Fence(2)}, m.ActiveFences())
}
