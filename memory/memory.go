// Package memory implements the device-memory allocator: memory-type
// selection, block paging, and pool-based reuse, grounded on the
// teacher's extensions.go memory-type search generalized into a full
// pooling strategy per the allocator design.
package memory

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// PropertyRequest describes what a caller wants from a memory type:
// required properties that must be present, and optimal properties
// preferred when available.
type PropertyRequest struct {
	Required vk.MemoryPropertyFlagBits
	Optimal  vk.MemoryPropertyFlagBits
}

// SelectMemoryType implements the memory-type selection algorithm:
// filter by the requirement's type-bits mask, require each candidate's
// property set to be a superset of Required, then prefer the first
// candidate that also satisfies Optimal; otherwise fall back to the
// first Required-only match.
func SelectMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, want PropertyRequest) (uint32, error) {
	fallback := int64(-1)
	for i := uint32(0); i < props.MemoryTypeCount; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		props.MemoryTypes[i].Deref()
		flags := vk.MemoryPropertyFlagBits(props.MemoryTypes[i].PropertyFlags)
		if flags&want.Required != want.Required {
			continue
		}
		if fallback == -1 {
			fallback = int64(i)
		}
		if want.Optimal != 0 && flags&want.Optimal == want.Optimal {
			return i, nil
		}
	}
	if fallback >= 0 {
		return uint32(fallback), nil
	}
	return 0, vkerr.NewAllocationError(vkerr.NoMatchingMemoryType)
}

// Allocation is a live or destroyed sub-range of a MemoryBlock. Its
// Handle always equals the parent block's native handle; only Offset
// and Size distinguish allocations within a block.
type Allocation struct {
	Handle    vk.DeviceMemory
	Offset    vk.DeviceSize
	Size      vk.DeviceSize
	block     *Block
	destroyed bool
}

// Map maps [Offset, Offset+size) of the allocation's backing device
// memory and returns a byte view over exactly that range. Only one
// mapping per block is allowed; a new Map call silently unmaps the
// block's previous mapping (pool block memory proxy semantics, spec
// §4.3).
func (a *Allocation) Map(size vk.DeviceSize) ([]byte, error) {
	return a.block.mapRegion(a.Offset, size)
}

// Unmap clears the block's mapping slot.
func (a *Allocation) Unmap() {
	a.block.unmap()
}

// Destroy marks the allocation destroyed so the pool can reallocate it.
// It does not return memory to the device — only Block.Destroy does
// that.
func (a *Allocation) Destroy() {
	a.destroyed = true
}

// Block is a slab of device memory owned by a pool: a monotonic "next"
// free-space cursor plus the list of child allocations it has served.
type Block struct {
	device      vk.Device
	handle      vk.DeviceMemory
	size        vk.DeviceSize
	next        vk.DeviceSize
	children    []*Allocation
	mapped      []byte
	mappedOff   vk.DeviceSize
	hasMapping  bool
}

func newBlock(dev vk.Device, typeIndex uint32, size vk.DeviceSize) (*Block, error) {
	var handle vk.DeviceMemory
	ret := vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  size,
		MemoryTypeIndex: typeIndex,
	}, nil, &handle)
	if err := vkerr.Result("vkAllocateMemory", ret); err != nil {
		return nil, err
	}
	return &Block{device: dev, handle: handle, size: size}, nil
}

// Free returns the block's remaining unallocated capacity past next.
func (b *Block) Free() vk.DeviceSize { return b.size - b.next }

func (b *Block) allocateTail(size vk.DeviceSize) *Allocation {
	a := &Allocation{Handle: b.handle, Offset: b.next, Size: size, block: b}
	b.next += size
	b.children = append(b.children, a)
	return a
}

// reuse scans destroyed children in insertion order for the first whose
// Size is at least requested, repurposing it by clearing the destroyed
// flag. Surplus bytes (child.Size - requested) are not tracked — they
// are orphaned, matching the accepted-fragmentation policy documented in
// the allocator's design notes.
func (b *Block) reuse(requested vk.DeviceSize) *Allocation {
	for _, c := range b.children {
		if c.destroyed && c.Size >= requested {
			c.destroyed = false
			return c
		}
	}
	return nil
}

func (b *Block) mapRegion(offset, size vk.DeviceSize) ([]byte, error) {
	if b.hasMapping {
		b.unmap()
	}
	var ptr unsafe.Pointer
	ret := vk.MapMemory(b.device, b.handle, offset, size, 0, &ptr)
	if err := vkerr.Result("vkMapMemory", ret); err != nil {
		return nil, err
	}
	view := unsafe.Slice((*byte)(ptr), int(size))
	b.mapped = view
	b.mappedOff = offset
	b.hasMapping = true
	return view, nil
}

func (b *Block) unmap() {
	if !b.hasMapping {
		return
	}
	vk.UnmapMemory(b.device, b.handle)
	b.mapped = nil
	b.hasMapping = false
}

// Destroy frees the block's underlying device memory and clears the
// children list.
func (b *Block) Destroy() {
	b.unmap()
	vk.FreeMemory(b.device, b.handle, nil)
	b.children = nil
	b.size = 0
	b.next = 0
}
