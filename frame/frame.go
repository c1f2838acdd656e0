// Package frame drives in-flight frame cycling and the render loop,
// grounded on the teacher's instance.go Update/acquire_next_image/
// submit_pipeline/present_image sequence, restructured so the fence
// reset only happens after a successful acquire — the teacher resets
// unconditionally before checking the acquire result, which would
// leave the fence unsignalled on a thrown invalidation.
package frame

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/command"
	"github.com/andewx/vkforge/renderpass"
	"github.com/andewx/vkforge/surface"
	"github.com/andewx/vkforge/vkerr"
	"github.com/andewx/vkforge/vksync"
)

// VulkanFrame owns one in-flight frame's synchronisation set.
type VulkanFrame struct {
	device    vk.Device
	Available vk.Semaphore
	Ready     vk.Semaphore
	Fence     vk.Fence
}

// NewVulkanFrame builds one VulkanFrame, its fence pre-signalled so the
// first acquire does not block.
func NewVulkanFrame(dev vk.Device) (*VulkanFrame, error) {
	available, err := vksync.NewSemaphore(dev)
	if err != nil {
		return nil, err
	}
	ready, err := vksync.NewSemaphore(dev)
	if err != nil {
		vk.DestroySemaphore(dev, available, nil)
		return nil, err
	}
	fence, err := vksync.NewFence(dev, true)
	if err != nil {
		vk.DestroySemaphore(dev, available, nil)
		vk.DestroySemaphore(dev, ready, nil)
		return nil, err
	}
	return &VulkanFrame{device: dev, Available: available, Ready: ready, Fence: fence}, nil
}

// Acquire waits for this frame slot's previous use to finish, acquires
// the next swapchain image, and resets the fence — only after the
// acquire has succeeded.
func (f *VulkanFrame) Acquire(sc *surface.Swapchain) (int, error) {
	if err := vkerr.Result("vkWaitForFences", vk.WaitForFences(f.device, 1, []vk.Fence{f.Fence}, vk.True, vk.MaxUint64)); err != nil {
		return 0, err
	}
	index, err := sc.Acquire(f.Available, vk.NullFence)
	if err != nil {
		return 0, err
	}
	if err := vkerr.Result("vkResetFences", vk.ResetFences(f.device, 1, []vk.Fence{f.Fence})); err != nil {
		return 0, err
	}
	return index, nil
}

// Present submits renderBuffer waiting on Available at
// COLOR_ATTACHMENT_OUTPUT, signalling Ready and this frame's fence, then
// waits for that fence and presents index through queue.
func (f *VulkanFrame) Present(queue vk.Queue, renderBuffer *command.Buffer, index int, sc *surface.Swapchain) error {
	work := command.Work{
		Buffers: []*command.Buffer{renderBuffer},
		Waits:   []command.Wait{{Semaphore: f.Available, StageMask: vk.PipelineStageColorAttachmentOutputBit}},
		Signals: []vk.Semaphore{f.Ready},
	}
	if err := command.Submit(queue, []command.Work{work}, f.Fence); err != nil {
		return err
	}
	if err := vkerr.Result("vkWaitForFences", vk.WaitForFences(f.device, 1, []vk.Fence{f.Fence}, vk.True, vk.MaxUint64)); err != nil {
		return err
	}
	return sc.Present(queue, index, f.Ready)
}

// Destroy destroys the frame's semaphores and fence.
func (f *VulkanFrame) Destroy() {
	vk.DestroySemaphore(f.device, f.Available, nil)
	vk.DestroySemaphore(f.device, f.Ready, nil)
	vk.DestroyFence(f.device, f.Fence, nil)
}

// FrameComposer allocates a one-time primary command buffer per
// framebuffer and records begin-pass -> application rendering ->
// end-pass around it.
type FrameComposer struct {
	Pool   *command.Pool
	Pass   vk.RenderPass
	Extent vk.Extent2D
	Clear  []vk.ClearValue
}

// Render allocates, records, and returns the one-time primary command
// buffer for framebuffer fb. draw is invoked between begin-pass and
// end-pass to record application draw commands.
func (c *FrameComposer) Render(fb vk.Framebuffer, draw command.Command) (*command.Buffer, error) {
	buffers, err := c.Pool.Allocate(1, vk.CommandBufferLevelPrimary)
	if err != nil {
		return nil, err
	}
	buf := buffers[0]
	if err := buf.Begin(nil); err != nil {
		return nil, err
	}
	renderArea := vk.Rect2D{Extent: c.Extent}
	cmds := []command.Command{
		command.BeginPass(c.Pass, fb, renderArea, c.Clear, false),
		draw,
		command.EndPass(),
	}
	if err := command.Record(buf, cmds...); err != nil {
		return nil, err
	}
	if err := buf.End(); err != nil {
		return nil, err
	}
	return buf, nil
}

// RenderTask cycles through N VulkanFrame slots, acquiring, composing,
// and presenting each iteration. It also carries what Rebuild needs to
// recreate the swapchain and its framebuffer group after invalidation.
type RenderTask struct {
	Frames    []*VulkanFrame
	Swapchain *surface.Swapchain
	Group     *renderpass.Group
	Composer  *FrameComposer
	Queue     vk.Queue
	next      int

	device     vk.Device
	surface    *surface.Surface
	config     surface.Config
	extraViews []vk.ImageView
}

// NewRenderTask builds a RenderTask cycling over n frame slots. cfg and
// surf are retained so Rebuild can recreate the swapchain after a
// SwapchainInvalidatedError; extraViews are the non-color attachments
// (e.g. depth) appended to every framebuffer in the rebuilt group.
func NewRenderTask(dev vk.Device, n int, surf *surface.Surface, cfg surface.Config, sc *surface.Swapchain, group *renderpass.Group, composer *FrameComposer, queue vk.Queue, extraViews []vk.ImageView) (*RenderTask, error) {
	frames := make([]*VulkanFrame, n)
	for i := range frames {
		f, err := NewVulkanFrame(dev)
		if err != nil {
			return nil, err
		}
		frames[i] = f
	}
	return &RenderTask{
		Frames: frames, Swapchain: sc, Group: group, Composer: composer, Queue: queue,
		device: dev, surface: surf, config: cfg, extraViews: extraViews,
	}, nil
}

// Rebuild recreates the swapchain and its framebuffer group after a
// SwapchainInvalidatedError, following the teacher's instance.go
// resize(): wait the device idle, destroy the old views/framebuffers,
// build the replacement swapchain with the old handle as OldSwapchain,
// then rebuild the framebuffer group against it. Frame sync objects are
// untouched and reused as-is.
func (t *RenderTask) Rebuild() error {
	if err := vkerr.Result("vkDeviceWaitIdle", vk.DeviceWaitIdle(t.device)); err != nil {
		return err
	}

	t.Swapchain.DestroyViews()
	if err := t.Group.Destroy(); err != nil {
		return err
	}

	cfg := t.config
	cfg.OldSwapchain = t.Swapchain.Handle()
	cfg.Extent = vk.Extent2D{}
	newSwapchain, err := surface.Build(t.device, t.surface, cfg)
	if err != nil {
		return err
	}
	colorViews := make([]vk.ImageView, newSwapchain.ImageCount())
	for i := range colorViews {
		colorViews[i] = newSwapchain.View(i)
	}
	group, err := renderpass.BuildGroup(t.device, t.Composer.Pass, colorViews, t.extraViews, newSwapchain.Extent())
	if err != nil {
		return err
	}

	t.Swapchain = newSwapchain
	t.Group = group
	t.Composer.Extent = newSwapchain.Extent()
	t.next = 0
	return nil
}

// Step runs one render iteration: acquire, compose, present, advance.
func (t *RenderTask) Step(draw command.Command) error {
	f := t.Frames[t.next]
	index, err := f.Acquire(t.Swapchain)
	if err != nil {
		return err
	}
	buf, err := t.Composer.Render(t.Group.Get(index), draw)
	if err != nil {
		return err
	}
	if err := f.Present(t.Queue, buf, index, t.Swapchain); err != nil {
		return err
	}
	t.next = (t.next + 1) % len(t.Frames)
	return nil
}

// Destroy destroys every frame slot.
func (t *RenderTask) Destroy() {
	for _, f := range t.Frames {
		f.Destroy()
	}
}
