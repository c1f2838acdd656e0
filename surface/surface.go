// Package surface binds an Instance and PhysicalDevice to an externally
// provided window handle, and owns the swapchain built against that
// binding.
package surface

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/device"
	"github.com/andewx/vkforge/interop"
	"github.com/andewx/vkforge/vkerr"
)

// Surface wraps a vk.Surface plus the instance and window it was created
// from. It keeps no reference to a PhysicalDevice: each query method
// takes the device to probe as an argument. Surface never destroys a
// device.
type Surface struct {
	instance  vk.Instance
	handle    vk.Surface
	window    *glfw.Window
	destroyed bool
}

// New creates a presentation surface for window against instance,
// following the teacher's display.go.GetVulkanSurface shape.
func New(instance vk.Instance, window *glfw.Window) (*Surface, error) {
	raw, err := window.CreateWindowSurface(instance, nil)
	if err != nil {
		return nil, vkerr.NewInteropError("window surface creation failed: " + err.Error())
	}
	return &Surface{instance: instance, handle: vk.SurfaceFromPointer(raw), window: window}, nil
}

// Handle returns the native vk.Surface handle.
func (s *Surface) Handle() vk.Surface { return s.handle }

// Capabilities queries the current surface capabilities against gpu.
func (s *Surface) Capabilities(gpu device.PhysicalDevice) (vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu.Handle, s.handle, &caps)
	if err := vkerr.Result("vkGetPhysicalDeviceSurfaceCapabilities", ret); err != nil {
		return vk.SurfaceCapabilities{}, err
	}
	caps.Deref()
	return caps, nil
}

// Formats lists the surface formats gpu supports for this surface.
func (s *Surface) Formats(gpu device.PhysicalDevice) ([]vk.SurfaceFormat, error) {
	formats, err := interop.Enumerate(func(count *uint32, data []vk.SurfaceFormat) vk.Result {
		return vk.GetPhysicalDeviceSurfaceFormats(gpu.Handle, s.handle, count, data)
	})
	if err != nil {
		return nil, err
	}
	for i := range formats {
		formats[i].Deref()
	}
	return formats, nil
}

// PresentModes lists the presentation modes gpu supports for this surface.
func (s *Surface) PresentModes(gpu device.PhysicalDevice) ([]vk.PresentMode, error) {
	return interop.Enumerate(func(count *uint32, data []vk.PresentMode) vk.Result {
		return vk.GetPhysicalDeviceSurfacePresentModes(gpu.Handle, s.handle, count, data)
	})
}

// Destroy destroys the native surface. Not idempotent.
func (s *Surface) Destroy() error {
	if s.destroyed {
		return vkerr.NewResourceDestroyedError("surface")
	}
	vk.DestroySurface(s.instance, s.handle, nil)
	s.destroyed = true
	return nil
}
