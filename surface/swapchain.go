package surface

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/device"
	"github.com/andewx/vkforge/interop"
	"github.com/andewx/vkforge/vkerr"
)

// Config describes a swapchain build. Zero fields fall back to the
// surface-capability-derived defaults per spec §4.11: current extent,
// surface minImageCount, identity transform, the first reported surface
// format, a single array layer, exclusive sharing, opaque composite
// alpha, clipped, and MAILBOX-if-available-else-FIFO.
type Config struct {
	Physical       device.PhysicalDevice
	MinImageCount  uint32
	Format         vk.Format
	ColorSpace     vk.ColorSpace
	Extent         vk.Extent2D
	PresentMode    vk.PresentMode
	OldSwapchain   vk.Swapchain
}

// Swapchain owns a ring of presentation images, one ImageView per image,
// and the extent/format/present-mode it was built with.
type Swapchain struct {
	device      vk.Device
	surface     *Surface
	handle      vk.Swapchain
	extent      vk.Extent2D
	format      vk.Format
	images      []vk.Image
	views       []vk.ImageView
	destroyed   bool
}

// Build creates a swapchain for dev against cfg.Physical/surface, filling
// unset Config fields from the surface's reported capabilities.
func Build(dev vk.Device, surf *Surface, cfg Config) (*Swapchain, error) {
	caps, err := surf.Capabilities(cfg.Physical)
	if err != nil {
		return nil, err
	}

	extent := cfg.Extent
	if extent.Width == 0 || extent.Height == 0 {
		extent = caps.CurrentExtent
		if extent.Width == vk.MaxUint32 {
			return nil, vkerr.NewInteropError("surface reports indeterminate extent and no override was given")
		}
	}

	minCount := cfg.MinImageCount
	if minCount == 0 {
		minCount = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && minCount > caps.MaxImageCount {
		minCount = caps.MaxImageCount
	}
	if minCount < caps.MinImageCount {
		minCount = caps.MinImageCount
	}

	format, colorSpace := cfg.Format, cfg.ColorSpace
	if format == vk.FormatUndefined {
		formats, err := surf.Formats(cfg.Physical)
		if err != nil {
			return nil, err
		}
		if len(formats) == 0 {
			return nil, vkerr.NewInteropError("surface reports no supported formats")
		}
		format, colorSpace = formats[0].Format, formats[0].ColorSpace
		if format == vk.FormatUndefined {
			format = vk.FormatB8g8r8a8Srgb
		}
	}

	// vk.PresentModeImmediate is the zero value, so an unset Config.PresentMode
	// is indistinguishable from an explicit request for immediate mode; both
	// fall through to the mailbox-else-fifo default rather than forcing
	// immediate, since immediate is rarely what a caller wants by omission.
	presentMode := cfg.PresentMode
	if presentMode == vk.PresentModeImmediate {
		presentMode = choosePresentMode(cfg.Physical, surf)
	}

	preTransform := caps.CurrentTransform
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	compositeAlpha := chooseCompositeAlpha(caps)

	var handle vk.Swapchain
	ret := vk.CreateSwapchain(dev, &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surf.handle,
		MinImageCount:    minCount,
		ImageFormat:      format,
		ImageColorSpace:  colorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     cfg.OldSwapchain,
	}, nil, &handle)
	if err := vkerr.Result("vkCreateSwapchainKHR", ret); err != nil {
		return nil, err
	}

	if cfg.OldSwapchain != vk.NullSwapchain {
		vk.DestroySwapchain(dev, cfg.OldSwapchain, nil)
	}

	images, err := interop.Enumerate(func(count *uint32, data []vk.Image) vk.Result {
		return vk.GetSwapchainImages(dev, handle, count, data)
	})
	if err != nil {
		vk.DestroySwapchain(dev, handle, nil)
		return nil, err
	}

	views := make([]vk.ImageView, len(images))
	for i, img := range images {
		var view vk.ImageView
		ret := vk.CreateImageView(dev, &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    img,
			ViewType: vk.ImageViewType2d,
			Format:   format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}, nil, &view)
		if err := vkerr.Result("vkCreateImageView", ret); err != nil {
			return nil, err
		}
		views[i] = view
	}

	return &Swapchain{device: dev, surface: surf, handle: handle, extent: extent, format: format, images: images, views: views}, nil
}

func choosePresentMode(gpu device.PhysicalDevice, surf *Surface) vk.PresentMode {
	modes, err := surf.PresentModes(gpu)
	if err != nil {
		return vk.PresentModeFifo
	}
	for _, m := range modes {
		if m == vk.PresentModeMailbox {
			return vk.PresentModeMailbox
		}
	}
	return vk.PresentModeFifo
}

func chooseCompositeAlpha(caps vk.SurfaceCapabilities) vk.CompositeAlphaFlagBits {
	candidates := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}
	for _, c := range candidates {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(c) != 0 {
			return c
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// Extent returns the swapchain's current extent.
func (s *Swapchain) Extent() vk.Extent2D { return s.extent }

// Format returns the swapchain's image format.
func (s *Swapchain) Format() vk.Format { return s.format }

// Handle returns the native vk.Swapchain handle, usable as Config.OldSwapchain
// when rebuilding after invalidation.
func (s *Swapchain) Handle() vk.Swapchain { return s.handle }

// ImageCount returns the number of images in the ring.
func (s *Swapchain) ImageCount() int { return len(s.images) }

// View returns the ImageView for image index.
func (s *Swapchain) View(index int) vk.ImageView { return s.views[index] }

// Acquire returns the next available image index. On ERROR_OUT_OF_DATE_KHR
// it raises a SwapchainInvalidatedError; SUBOPTIMAL_KHR is returned as a
// valid index (spec §4.11: acquire succeeds on SUCCESS or SUBOPTIMAL).
func (s *Swapchain) Acquire(semaphore vk.Semaphore, fence vk.Fence) (int, error) {
	var index uint32
	ret := vk.AcquireNextImage(s.device, s.handle, vk.MaxUint64, semaphore, fence, &index)
	switch ret {
	case vk.Success, vk.Suboptimal:
		return int(index), nil
	case vk.ErrorOutOfDate:
		return 0, vkerr.NewSwapchainInvalidated("vkAcquireNextImageKHR", ret)
	default:
		return 0, vkerr.Result("vkAcquireNextImageKHR", ret)
	}
}

// Present submits index for presentation on queue, waiting on semaphore
// if non-null. SUBOPTIMAL_KHR or ERROR_OUT_OF_DATE_KHR raises a
// SwapchainInvalidatedError.
func (s *Swapchain) Present(queue vk.Queue, index int, semaphore vk.Semaphore) error {
	waitSemaphores := []vk.Semaphore{}
	if semaphore != vk.NullSemaphore {
		waitSemaphores = append(waitSemaphores, semaphore)
	}
	info := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waitSemaphores)),
		PWaitSemaphores:    waitSemaphores,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.handle},
		PImageIndices:      []uint32{uint32(index)},
	}
	ret := vk.QueuePresent(queue, &info)
	switch ret {
	case vk.Success:
		return nil
	case vk.Suboptimal, vk.ErrorOutOfDate:
		return vkerr.NewSwapchainInvalidated("vkQueuePresentKHR", ret)
	default:
		return vkerr.Result("vkQueuePresentKHR", ret)
	}
}

// DestroyViews destroys every image view owned by the swapchain without
// touching the swapchain handle itself — used when the handle is (or
// will be) destroyed independently, e.g. passed as Config.OldSwapchain
// during a rebuild, which destroys the old handle on the caller's
// behalf once the replacement is created.
func (s *Swapchain) DestroyViews() {
	for _, v := range s.views {
		vk.DestroyImageView(s.device, v, nil)
	}
	s.views = nil
}

// Destroy destroys every image view then the swapchain itself. Not
// idempotent.
func (s *Swapchain) Destroy() error {
	if s.destroyed {
		return vkerr.NewResourceDestroyedError("swapchain")
	}
	s.DestroyViews()
	vk.DestroySwapchain(s.device, s.handle, nil)
	s.destroyed = true
	return nil
}
