package renderpass

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// Group is one framebuffer per swapchain image view, created together
// at swapchain build time. Destroying the group destroys every
// framebuffer in it — grounded on the teacher's
// swapchain.go.CreateFrameBuffer per-image-view loop.
type Group struct {
	device       vk.Device
	framebuffers []vk.Framebuffer
	destroyed    bool
}

// BuildGroup creates one framebuffer per entry in colorViews (plus the
// shared extraViews, e.g. a depth view, appended to every framebuffer),
// against pass, sized extent.
func BuildGroup(dev vk.Device, pass vk.RenderPass, colorViews []vk.ImageView, extraViews []vk.ImageView, extent vk.Extent2D) (*Group, error) {
	g := &Group{device: dev, framebuffers: make([]vk.Framebuffer, len(colorViews))}
	for i, cv := range colorViews {
		views := append([]vk.ImageView{cv}, extraViews...)
		var fb vk.Framebuffer
		ret := vk.CreateFramebuffer(dev, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      pass,
			AttachmentCount: uint32(len(views)),
			PAttachments:    views,
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}, nil, &fb)
		if err := vkerr.Result("vkCreateFramebuffer", ret); err != nil {
			g.Destroy()
			return nil, err
		}
		g.framebuffers[i] = fb
	}
	return g, nil
}

// Get returns the framebuffer for swapchain image index.
func (g *Group) Get(index int) vk.Framebuffer { return g.framebuffers[index] }

// Len returns the number of framebuffers in the group.
func (g *Group) Len() int { return len(g.framebuffers) }

// Destroy destroys every framebuffer in the group.
func (g *Group) Destroy() error {
	if g.destroyed {
		return vkerr.NewResourceDestroyedError("framebuffer group")
	}
	for _, fb := range g.framebuffers {
		vk.DestroyFramebuffer(g.device, fb, nil)
	}
	g.framebuffers = nil
	g.destroyed = true
	return nil
}
