package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestSubResourceRange(t *testing.T) {
	s := SubResource{
		AspectMask: vk.ImageAspectColorBit,
		BaseMipLevel: 1, LevelCount: 2,
		BaseLayer: 3, LayerCount: 4,
	}
	r := s.Range()
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectColorBit), r.AspectMask)
	assert.Equal(t, uint32(1), r.BaseMipLevel)
	assert.Equal(t, uint32(2), r.LevelCount)
	assert.Equal(t, uint32(3), r.BaseArrayLayer)
	assert.Equal(t, uint32(4), r.LayerCount)
}

func TestSubResourceLayersUsesRequestedMipLevel(t *testing.T) {
	s := SubResource{AspectMask: vk.ImageAspectColorBit, BaseLayer: 1, LayerCount: 1}
	l := s.Layers(3)
	assert.Equal(t, uint32(3), l.MipLevel)
	assert.Equal(t, uint32(1), l.BaseArrayLayer)
}

func TestCopyRegionNativeUsesSubResourceBaseMip(t *testing.T) {
	r := CopyRegion{
		BufferOffset: 64,
		RowLength:    256,
		ImageHeight:  256,
		SubResource:  SubResource{AspectMask: vk.ImageAspectColorBit, BaseMipLevel: 2, LayerCount: 1},
		ImageExtent:  vk.Extent3D{Width: 256, Height: 256, Depth: 1},
	}
	native := r.native()
	assert.Equal(t, vk.DeviceSize(64), native.BufferOffset)
	assert.Equal(t, uint32(256), native.BufferRowLength)
	assert.Equal(t, uint32(2), native.ImageSubresource.MipLevel)
}

func TestBarrierBuildDefaultsQueueFamiliesToIgnored(t *testing.T) {
	img := &Image{handle: vk.Image(1)}
	b := Barrier{OldLayout: vk.ImageLayoutUndefined, NewLayout: vk.ImageLayoutTransferDstOptimal}
	native := b.Build(img, SubResource{AspectMask: vk.ImageAspectColorBit, LayerCount: 1})
	assert.Equal(t, uint32(vk.QueueFamilyIgnored), native.SrcQueueFamilyIndex)
	assert.Equal(t, uint32(vk.QueueFamilyIgnored), native.DstQueueFamilyIndex)
	assert.Equal(t, img.handle, native.Image)
}

func TestBarrierBuildHonorsExplicitQueueFamilies(t *testing.T) {
	img := &Image{handle: vk.Image(1)}
	b := Barrier{SrcQueueFamily: 1, DstQueueFamily: 2}
	native := b.Build(img, SubResource{})
	assert.Equal(t, uint32(1), native.SrcQueueFamilyIndex)
	assert.Equal(t, uint32(2), native.DstQueueFamilyIndex)
}

func TestBufferHasChecksAllRequestedBits(t *testing.T) {
	b := &Buffer{usage: vk.BufferUsageTransferSrcBit | vk.BufferUsageVertexBufferBit}
	assert.True(t, b.Has(vk.BufferUsageTransferSrcBit))
	assert.True(t, b.Has(vk.BufferUsageTransferSrcBit|vk.BufferUsageVertexBufferBit))
	assert.False(t, b.Has(vk.BufferUsageTransferDstBit))
}

func TestCopyBufferToImageRejectsMissingTransferSrcUsage(t *testing.T) {
	src := &Buffer{usage: vk.BufferUsageVertexBufferBit}
	dst := &Image{}
	var cmd vk.CommandBuffer
	err := CopyBufferToImage(cmd, src, dst, vk.ImageLayoutTransferDstOptimal, nil)
	require.Error(t, err)
}

func TestCopyImageToBufferRejectsMissingTransferDstUsage(t *testing.T) {
	src := &Image{}
	dst := &Buffer{usage: vk.BufferUsageVertexBufferBit}
	var cmd vk.CommandBuffer
	err := CopyImageToBuffer(cmd, src, vk.ImageLayoutTransferSrcOptimal, dst, nil)
	require.Error(t, err)
}

func TestDestroyIsNotIdempotent(t *testing.T) {
	s := &Sampler{destroyed: true}
	err := s.Destroy()
	require.Error(t, err)

	v := &View{destroyed: true}
	err = v.Destroy()
	require.Error(t, err)
}

func TestDefaultSamplerConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultSamplerConfig()
	assert.Equal(t, vk.FilterLinear, cfg.MinFilter)
	assert.Equal(t, vk.FilterLinear, cfg.MagFilter)
	assert.Equal(t, vk.SamplerMipmapModeLinear, cfg.MipMode)
	assert.Equal(t, vk.SamplerAddressModeRepeat, cfg.WrapU)
	assert.Equal(t, vk.SamplerAddressModeRepeat, cfg.WrapV)
	assert.Equal(t, vk.SamplerAddressModeRepeat, cfg.WrapW)
	assert.Equal(t, float32(0), cfg.Anisotropy)
	assert.Equal(t, lodClampNone, cfg.MaxLOD)
}

func TestBoolToConvertsBoolToVkBool32(t *testing.T) {
	assert.Equal(t, vk.True, boolTo(true))
	assert.Equal(t, vk.False, boolTo(false))
}
