// Package resource implements Buffer, Image, ImageView, Sampler, and
// the sub-resource/copy-region helpers that bridge them, grounded on
// the teacher's buffers.go/image.go and generalized to the full
// describe-create-query-allocate-bind life cycle.
package resource

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/memory"
	"github.com/andewx/vkforge/vkerr"
)

// Buffer owns a vk.Buffer plus the memory allocation backing it. Usage
// is captured at creation and checked on every operation that has a
// usage precondition (e.g. CopyBufferToImage requires TransferSrcBit on
// its source buffer, CopyImageToBuffer requires TransferDstBit on its
// destination buffer).
type Buffer struct {
	device    vk.Device
	handle    vk.Buffer
	alloc     *memory.Allocation
	size      vk.DeviceSize
	usage     vk.BufferUsageFlagBits
	destroyed bool
}

// NewBuffer describes, creates, queries requirements for, allocates
// memory for, and binds a buffer — the describe→create→query→allocate→bind
// sequence from spec §4.4.
func NewBuffer(dev vk.Device, allocator *memory.Allocator, size vk.DeviceSize, usage vk.BufferUsageFlagBits, want memory.PropertyRequest) (*Buffer, error) {
	var handle vk.Buffer
	ret := vk.CreateBuffer(dev, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &handle)
	if err := vkerr.Result("vkCreateBuffer", ret); err != nil {
		return nil, err
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev, handle, &req)
	req.Deref()

	alloc, err := allocator.Allocate(req, want)
	if err != nil {
		vk.DestroyBuffer(dev, handle, nil)
		return nil, err
	}

	ret = vk.BindBufferMemory(dev, handle, alloc.Handle, alloc.Offset)
	if err := vkerr.Result("vkBindBufferMemory", ret); err != nil {
		vk.DestroyBuffer(dev, handle, nil)
		return nil, err
	}

	return &Buffer{device: dev, handle: handle, alloc: alloc, size: size, usage: usage}, nil
}

// Handle returns the native vk.Buffer handle.
func (b *Buffer) Handle() vk.Buffer { return b.handle }

// Size returns the buffer's byte size.
func (b *Buffer) Size() vk.DeviceSize { return b.size }

// Has reports whether the buffer was created with every bit in want.
func (b *Buffer) Has(want vk.BufferUsageFlagBits) bool {
	return b.usage&want == want
}

// Map exposes the backing allocation's host-visible view.
func (b *Buffer) Map() ([]byte, error) {
	return b.alloc.Map(b.size)
}

// Unmap releases the mapped view.
func (b *Buffer) Unmap() {
	b.alloc.Unmap()
}

// Destroy destroys the buffer and its backing allocation exactly once.
func (b *Buffer) Destroy() error {
	if b.destroyed {
		return vkerr.NewResourceDestroyedError("buffer")
	}
	vk.DestroyBuffer(b.device, b.handle, nil)
	b.alloc.Destroy()
	b.destroyed = true
	return nil
}
