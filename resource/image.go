package resource

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/interop"
	"github.com/andewx/vkforge/memory"
	"github.com/andewx/vkforge/vkerr"
)

// ImageConfig describes an image's describe-time parameters. The
// library never tracks layout transitions at runtime past creation —
// Barrier below only builds the descriptor; issuing it is the caller's
// job (spec §4.4: "a property of pipeline barriers issued by the
// application").
type ImageConfig struct {
	Extent        vk.Extent3D
	Format        vk.Format
	MipLevels     uint32
	ArrayLayers   uint32
	Samples       vk.SampleCountFlagBits
	Tiling        vk.ImageTiling
	Usage         vk.ImageUsageFlagBits
	InitialLayout vk.ImageLayout
}

// Image owns a vk.Image and its backing allocation.
type Image struct {
	device    vk.Device
	handle    vk.Image
	alloc     *memory.Allocation
	cfg       ImageConfig
	destroyed bool
}

// NewImage follows the same describe→create→query→allocate→bind sequence
// as NewBuffer, with tiling/samples/initial-layout additionally captured.
func NewImage(dev vk.Device, allocator *memory.Allocator, cfg ImageConfig, want memory.PropertyRequest) (*Image, error) {
	mipLevels := cfg.MipLevels
	if mipLevels == 0 {
		mipLevels = 1
	}
	arrayLayers := cfg.ArrayLayers
	if arrayLayers == 0 {
		arrayLayers = 1
	}
	samples := cfg.Samples
	if samples == 0 {
		samples = vk.SampleCount1Bit
	}

	var handle vk.Image
	ret := vk.CreateImage(dev, &vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        cfg.Format,
		Extent:        cfg.Extent,
		MipLevels:     mipLevels,
		ArrayLayers:   arrayLayers,
		Samples:       samples,
		Tiling:        cfg.Tiling,
		Usage:         vk.ImageUsageFlags(cfg.Usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: cfg.InitialLayout,
	}, nil, &handle)
	if err := vkerr.Result("vkCreateImage", ret); err != nil {
		return nil, err
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(dev, handle, &req)
	req.Deref()

	alloc, err := allocator.Allocate(req, want)
	if err != nil {
		vk.DestroyImage(dev, handle, nil)
		return nil, err
	}

	ret = vk.BindImageMemory(dev, handle, alloc.Handle, alloc.Offset)
	if err := vkerr.Result("vkBindImageMemory", ret); err != nil {
		vk.DestroyImage(dev, handle, nil)
		return nil, err
	}

	cfg.MipLevels, cfg.ArrayLayers, cfg.Samples = mipLevels, arrayLayers, samples
	return &Image{device: dev, handle: handle, alloc: alloc, cfg: cfg}, nil
}

// Handle returns the native vk.Image handle.
func (i *Image) Handle() vk.Image { return i.handle }

// Config returns the parameters the image was created with.
func (i *Image) Config() ImageConfig { return i.cfg }

// Destroy destroys the image and its backing allocation exactly once.
func (i *Image) Destroy() error {
	if i.destroyed {
		return vkerr.NewResourceDestroyedError("image")
	}
	vk.DestroyImage(i.device, i.handle, nil)
	i.alloc.Destroy()
	i.destroyed = true
	return nil
}

// SubResource is a subset of a parent image's aspect-mask, mip-range,
// and array-layer-range. It produces the two Vulkan descriptor forms a
// caller needs: a Range for barriers/views, and Layers for copies.
type SubResource struct {
	AspectMask   vk.ImageAspectFlagBits
	BaseMipLevel uint32
	LevelCount   uint32
	BaseLayer    uint32
	LayerCount   uint32
}

// Range renders the sub-resource as a vk.ImageSubresourceRange, for
// barriers and image views.
func (s SubResource) Range() vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask:     vk.ImageAspectFlags(s.AspectMask),
		BaseMipLevel:   s.BaseMipLevel,
		LevelCount:     s.LevelCount,
		BaseArrayLayer: s.BaseLayer,
		LayerCount:     s.LayerCount,
	}
}

// Layers renders the sub-resource as a vk.ImageSubresourceLayers, for
// copy commands — a single mip level plus the layer range.
func (s SubResource) Layers(mipLevel uint32) vk.ImageSubresourceLayers {
	return vk.ImageSubresourceLayers{
		AspectMask:     vk.ImageAspectFlags(s.AspectMask),
		MipLevel:       mipLevel,
		BaseArrayLayer: s.BaseLayer,
		LayerCount:     s.LayerCount,
	}
}

// CopyRegion describes one vkCmdCopyBufferToImage (or its inverse)
// region.
type CopyRegion struct {
	BufferOffset  vk.DeviceSize
	RowLength     uint32
	ImageHeight   uint32
	SubResource   SubResource
	ImageOffset   vk.Offset3D
	ImageExtent   vk.Extent3D
}

func (r CopyRegion) native() vk.BufferImageCopy {
	return vk.BufferImageCopy{
		BufferOffset:      r.BufferOffset,
		BufferRowLength:   r.RowLength,
		BufferImageHeight: r.ImageHeight,
		ImageSubresource:  r.SubResource.Layers(r.SubResource.BaseMipLevel),
		ImageOffset:       r.ImageOffset,
		ImageExtent:       r.ImageExtent,
	}
}

// CopyBufferToImage records vkCmdCopyBufferToImage. src must have been
// created with TransferSrcBit; the destination image is assumed already
// transitioned to TransferDstOptimal by the caller's barrier.
func CopyBufferToImage(cmd vk.CommandBuffer, src *Buffer, dst *Image, dstLayout vk.ImageLayout, regions []CopyRegion) error {
	if !src.Has(vk.BufferUsageTransferSrcBit) {
		return vkerr.NewInteropError("source buffer missing TRANSFER_SRC usage")
	}
	native := make([]vk.BufferImageCopy, len(regions))
	for i, r := range regions {
		native[i] = r.native()
	}
	vk.CmdCopyBufferToImage(cmd, src.handle, dst.handle, dstLayout, uint32(len(native)), native)
	return nil
}

// CopyImageToBuffer records the inverse copy, e.g. for readback.
func CopyImageToBuffer(cmd vk.CommandBuffer, src *Image, srcLayout vk.ImageLayout, dst *Buffer, regions []CopyRegion) error {
	if !dst.Has(vk.BufferUsageTransferDstBit) {
		return vkerr.NewInteropError("destination buffer missing TRANSFER_DST usage")
	}
	native := make([]vk.BufferImageCopy, len(regions))
	for i, r := range regions {
		native[i] = r.native()
	}
	vk.CmdCopyImageToBuffer(cmd, src.handle, srcLayout, dst.handle, uint32(len(native)), native)
	return nil
}

// Barrier builds (but does not submit) an image-memory-barrier
// descriptor transitioning sub across oldLayout → newLayout with the
// given access-mask and queue-family transfer.
type Barrier struct {
	SrcAccess      vk.AccessFlagBits
	DstAccess      vk.AccessFlagBits
	OldLayout      vk.ImageLayout
	NewLayout      vk.ImageLayout
	SrcQueueFamily uint32
	DstQueueFamily uint32
}

// Build produces the native vk.ImageMemoryBarrier for img/sub.
func (b Barrier) Build(img *Image, sub SubResource) vk.ImageMemoryBarrier {
	srcFamily, dstFamily := b.SrcQueueFamily, b.DstQueueFamily
	if srcFamily == 0 && dstFamily == 0 {
		srcFamily, dstFamily = vk.QueueFamilyIgnored, vk.QueueFamilyIgnored
	}
	return vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       vk.AccessFlags(b.SrcAccess),
		DstAccessMask:       vk.AccessFlags(b.DstAccess),
		OldLayout:           b.OldLayout,
		NewLayout:           b.NewLayout,
		SrcQueueFamilyIndex: srcFamily,
		DstQueueFamilyIndex: dstFamily,
		Image:               img.handle,
		SubresourceRange:    sub.Range(),
	}
}

// View wraps a vk.ImageView.
type View struct {
	device    vk.Device
	handle    vk.ImageView
	destroyed bool
}

// NewView creates an image view over img's sub, with an optional
// component-string swizzle (e.g. "ABGR"); pass "" for identity.
func NewView(dev vk.Device, img *Image, viewType vk.ImageViewType, format vk.Format, sub SubResource, swizzle string) (*View, error) {
	components := interop.Identity()
	if swizzle != "" {
		var err error
		components, err = interop.Swizzle(swizzle)
		if err != nil {
			return nil, err
		}
	}

	var handle vk.ImageView
	ret := vk.CreateImageView(dev, &vk.ImageViewCreateInfo{
		SType:            vk.StructureTypeImageViewCreateInfo,
		Image:            img.handle,
		ViewType:         viewType,
		Format:           format,
		Components:       components,
		SubresourceRange: sub.Range(),
	}, nil, &handle)
	if err := vkerr.Result("vkCreateImageView", ret); err != nil {
		return nil, err
	}
	return &View{device: dev, handle: handle}, nil
}

// Handle returns the native vk.ImageView handle.
func (v *View) Handle() vk.ImageView { return v.handle }

// Destroy destroys the view. Not idempotent.
func (v *View) Destroy() error {
	if v.destroyed {
		return vkerr.NewResourceDestroyedError("image view")
	}
	vk.DestroyImageView(v.device, v.handle, nil)
	v.destroyed = true
	return nil
}

// SamplerConfig mirrors spec §4.4's sampler defaults: linear min/mag/mip,
// REPEAT wrap on all three axes, no anisotropy, no compare-op, and the
// LOD-clamp sentinel (lodClampNone below) meaning "no clamp".
type SamplerConfig struct {
	MinFilter   vk.Filter
	MagFilter   vk.Filter
	MipMode     vk.SamplerMipmapMode
	WrapU       vk.SamplerAddressMode
	WrapV       vk.SamplerAddressMode
	WrapW       vk.SamplerAddressMode
	Anisotropy  float32
	MaxLOD      float32
}

// lodClampNone is the conventional "no clamp" sentinel for maxLod: the
// driver clamps it to the image's actual mip count, so any sufficiently
// large value disables the clamp.
const lodClampNone float32 = 1000.0

// DefaultSamplerConfig returns spec §4.4's documented defaults.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		MinFilter: vk.FilterLinear,
		MagFilter: vk.FilterLinear,
		MipMode:   vk.SamplerMipmapModeLinear,
		WrapU:     vk.SamplerAddressModeRepeat,
		WrapV:     vk.SamplerAddressModeRepeat,
		WrapW:     vk.SamplerAddressModeRepeat,
		MaxLOD:    lodClampNone,
	}
}

// Sampler wraps a vk.Sampler.
type Sampler struct {
	device    vk.Device
	handle    vk.Sampler
	destroyed bool
}

// NewSampler creates a sampler from cfg.
func NewSampler(dev vk.Device, cfg SamplerConfig) (*Sampler, error) {
	var handle vk.Sampler
	ret := vk.CreateSampler(dev, &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MinFilter:               cfg.MinFilter,
		MagFilter:               cfg.MagFilter,
		MipmapMode:              cfg.MipMode,
		AddressModeU:            cfg.WrapU,
		AddressModeV:            cfg.WrapV,
		AddressModeW:            cfg.WrapW,
		AnisotropyEnable:        boolTo(cfg.Anisotropy > 0),
		MaxAnisotropy:           cfg.Anisotropy,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MaxLod:                  cfg.MaxLOD,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
	}, nil, &handle)
	if err := vkerr.Result("vkCreateSampler", ret); err != nil {
		return nil, err
	}
	return &Sampler{device: dev, handle: handle}, nil
}

func boolTo(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

// Handle returns the native vk.Sampler handle.
func (s *Sampler) Handle() vk.Sampler { return s.handle }

// Destroy destroys the sampler. Not idempotent.
func (s *Sampler) Destroy() error {
	if s.destroyed {
		return vkerr.NewResourceDestroyedError("sampler")
	}
	vk.DestroySampler(s.device, s.handle, nil)
	s.destroyed = true
	return nil
}
