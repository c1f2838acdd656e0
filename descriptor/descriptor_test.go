package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func uniformLayout() *Layout {
	return &Layout{Bindings: []BindingSlot{
		{Binding: 0, Type: vk.DescriptorTypeUniformBuffer, Stages: vk.ShaderStageVertexBit},
		{Binding: 1, Type: vk.DescriptorTypeCombinedImageSampler, Stages: vk.ShaderStageFragmentBit},
	}}
}

func newTestSet() *Set {
	return &Set{layout: uniformLayout(), entries: make(map[Binding]*Entry)}
}

func TestSetValidatesResourceTypeAgainstBinding(t *testing.T) {
	s := newTestSet()
	err := s.Set(0, Resource{Buffer: vk.Buffer(1), BufferRange: 256})
	require.NoError(t, err)
	assert.True(t, s.entries[0].Dirty)
	assert.Equal(t, vk.DescriptorTypeUniformBuffer, s.entries[0].Type)
}

func TestSetRejectsImageResourceForBufferBinding(t *testing.T) {
	s := newTestSet()
	err := s.Set(0, Resource{ImageView: vk.ImageView(1), Sampler: vk.Sampler(1)})
	require.Error(t, err)
}

func TestSetRejectsBufferResourceForImageBinding(t *testing.T) {
	s := newTestSet()
	err := s.Set(1, Resource{Buffer: vk.Buffer(1), BufferRange: 256})
	require.Error(t, err)
}

func TestSetRejectsUnknownBinding(t *testing.T) {
	s := newTestSet()
	err := s.Set(9, Resource{Buffer: vk.Buffer(1)})
	require.Error(t, err)
}

func TestSetOverwriteResetsDirty(t *testing.T) {
	s := newTestSet()
	require.NoError(t, s.Set(0, Resource{Buffer: vk.Buffer(1), BufferRange: 64}))
	s.entries[0].Dirty = false
	require.NoError(t, s.Set(0, Resource{Buffer: vk.Buffer(2), BufferRange: 128}))
	assert.True(t, s.entries[0].Dirty, "re-setting a binding must mark it dirty again")
	assert.Equal(t, vk.Buffer(2), s.entries[0].Resource.Buffer)
}

func TestResourceIsImageDetection(t *testing.T) {
	assert.False(t, Resource{Buffer: vk.Buffer(1)}.isImage())
	assert.True(t, Resource{ImageView: vk.ImageView(1)}.isImage())
	assert.True(t, Resource{Sampler: vk.Sampler(1)}.isImage())
}
