// Package vksync owns semaphores and fences, grounded on the teacher's
// instance.go PerFrame (one fence plus two semaphores per in-flight
// frame) and asche/managers.go's FenceManager wait-then-reset batching,
// generalized to a reusable per-frame sync set.
package vksync

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// NewSemaphore creates an unsignalled binary semaphore.
func NewSemaphore(dev vk.Device) (vk.Semaphore, error) {
	var s vk.Semaphore
	ret := vk.CreateSemaphore(dev, &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}, nil, &s)
	if err := vkerr.Result("vkCreateSemaphore", ret); err != nil {
		return vk.NullSemaphore, err
	}
	return s, nil
}

// NewFence creates a fence, optionally pre-signalled.
func NewFence(dev vk.Device, signalled bool) (vk.Fence, error) {
	var flags vk.FenceCreateFlags
	if signalled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var f vk.Fence
	ret := vk.CreateFence(dev, &vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo, Flags: flags}, nil, &f)
	if err := vkerr.Result("vkCreateFence", ret); err != nil {
		return vk.NullFence, err
	}
	return f, nil
}

// FrameSync is the per-in-flight-frame sync set the teacher's PerFrame
// carries: a fence guarding reuse of this frame's resources, a semaphore
// signalled when the swapchain image is acquired, and a semaphore
// signalled when the frame's submitted work completes.
type FrameSync struct {
	device          vk.Device
	Fence           vk.Fence
	ImageAcquired   vk.Semaphore
	RenderComplete  vk.Semaphore
}

// NewFrameSync builds one FrameSync, with Fence pre-signalled so the
// first wait on it does not block.
func NewFrameSync(dev vk.Device) (*FrameSync, error) {
	fence, err := NewFence(dev, true)
	if err != nil {
		return nil, err
	}
	acquired, err := NewSemaphore(dev)
	if err != nil {
		vk.DestroyFence(dev, fence, nil)
		return nil, err
	}
	complete, err := NewSemaphore(dev)
	if err != nil {
		vk.DestroyFence(dev, fence, nil)
		vk.DestroySemaphore(dev, acquired, nil)
		return nil, err
	}
	return &FrameSync{device: dev, Fence: fence, ImageAcquired: acquired, RenderComplete: complete}, nil
}

// Wait blocks until Fence is signalled.
func (f *FrameSync) Wait() error {
	ret := vk.WaitForFences(f.device, 1, []vk.Fence{f.Fence}, vk.True, vk.MaxUint64)
	return vkerr.Result("vkWaitForFences", ret)
}

// ResetFence resets Fence to unsignalled. Per spec §4.12, this must only
// be called after a successful acquire, never unconditionally, so a
// SwapchainInvalidated from acquire does not leave the fence stuck
// unsignalled.
func (f *FrameSync) ResetFence() error {
	ret := vk.ResetFences(f.device, 1, []vk.Fence{f.Fence})
	return vkerr.Result("vkResetFences", ret)
}

// Destroy destroys the fence and both semaphores.
func (f *FrameSync) Destroy() {
	vk.DestroyFence(f.device, f.Fence, nil)
	vk.DestroySemaphore(f.device, f.ImageAcquired, nil)
	vk.DestroySemaphore(f.device, f.RenderComplete, nil)
}

// Manager batches fence wait-then-reset across many outstanding fences,
// grounded on asche/managers.go's FenceManager.
type Manager struct {
	device vk.Device
	fences []vk.Fence
	count  uint32
}

// NewManager builds an empty Manager bound to dev.
func NewManager(dev vk.Device) *Manager {
	return &Manager{device: dev}
}

// Reset waits for every outstanding fence to signal, resets them, and
// clears the active count so the next NewFence calls recycle the
// backing handles.
func (m *Manager) Reset() error {
	if m.count == 0 {
		return nil
	}
	active := m.fences[:m.count]
	if err := vkerr.Result("vkWaitForFences", vk.WaitForFences(m.device, m.count, active, vk.True, vk.MaxUint64)); err != nil {
		return err
	}
	if err := vkerr.Result("vkResetFences", vk.ResetFences(m.device, m.count, active)); err != nil {
		return err
	}
	m.count = 0
	return nil
}

// NewFence returns a fresh or recycled fence from the manager's pool.
func (m *Manager) NewFence() (vk.Fence, error) {
	if m.count < uint32(len(m.fences)) {
		f := m.fences[m.count]
		m.count++
		return f, nil
	}
	f, err := NewFence(m.device, false)
	if err != nil {
		return vk.NullFence, err
	}
	m.fences = append(m.fences, f)
	m.count++
	return f, nil
}

// ActiveFences returns the fences currently considered outstanding.
func (m *Manager) ActiveFences() []vk.Fence {
	return m.fences[:m.count]
}

// Destroy waits out and destroys every fence the manager has ever
// issued.
func (m *Manager) Destroy() {
	m.Reset()
	for _, f := range m.fences {
		vk.DestroyFence(m.device, f, nil)
	}
	m.fences = nil
}
