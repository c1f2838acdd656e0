package memory

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// Pool is the per-MemoryType block list plus its running total size.
type Pool struct {
	device    vk.Device
	typeIndex uint32
	blocks    []*Block
	total     vk.DeviceSize
}

func newPool(dev vk.Device, typeIndex uint32) *Pool {
	return &Pool{device: dev, typeIndex: typeIndex}
}

// allocate serves one request against this pool per spec §4.3's
// three-step pool strategy: tail-allocate from an existing block with
// enough free space, else reuse a destroyed child allocation of
// sufficient size, else grow the pool with a new block.
func (p *Pool) allocate(size, minBlockSize vk.DeviceSize) (*Allocation, error) {
	for _, b := range p.blocks {
		if b.Free() >= size {
			return b.allocateTail(size), nil
		}
	}
	for _, b := range p.blocks {
		if a := b.reuse(size); a != nil {
			return a, nil
		}
	}

	blockSize := minBlockSize
	if size > blockSize {
		blockSize = size
	}
	block, err := newBlock(p.device, p.typeIndex, blockSize)
	if err != nil {
		return nil, err
	}
	p.blocks = append(p.blocks, block)
	p.total += blockSize
	return block.allocateTail(size), nil
}

// release marks every live allocation across every block in the pool
// destroyed, without freeing the underlying blocks.
func (p *Pool) release() {
	for _, b := range p.blocks {
		for _, c := range b.children {
			c.destroyed = true
		}
	}
}

// destroy destroys every block in the pool.
func (p *Pool) destroy() {
	for _, b := range p.blocks {
		b.Destroy()
	}
	p.blocks = nil
	p.total = 0
}

// Allocator is the pool-based device-memory allocator: one Pool per
// MemoryType (created on demand), page quantisation against the
// device's allocation granularity, and a cap on in-flight native
// allocations.
type Allocator struct {
	device            vk.Device
	memProps          vk.PhysicalDeviceMemoryProperties
	granularity       vk.DeviceSize
	maxAllocations    uint32
	minBlockPages     vk.DeviceSize
	pools             map[uint32]*Pool
	nativeAllocations uint32
}

// Limits carries the device-limit fields the allocator quantises
// against: bufferImageGranularity and maxMemoryAllocationCount.
type Limits struct {
	Granularity    vk.DeviceSize
	MaxAllocations uint32
}

// NewAllocator builds an Allocator against dev's memory properties and
// limits. minBlockPages sets the configured-minimum block size (in
// bytes, already page-quantised by the caller) used when a pool must
// grow.
func NewAllocator(dev vk.Device, memProps vk.PhysicalDeviceMemoryProperties, limits Limits, minBlockPages vk.DeviceSize) *Allocator {
	granularity := limits.Granularity
	if granularity == 0 {
		granularity = 1
	}
	return &Allocator{
		device:         dev,
		memProps:       memProps,
		granularity:    granularity,
		maxAllocations: limits.MaxAllocations,
		minBlockPages:  minBlockPages,
		pools:          make(map[uint32]*Pool),
	}
}

func (a *Allocator) quantise(size vk.DeviceSize) vk.DeviceSize {
	if size%a.granularity == 0 {
		return size
	}
	return (size/a.granularity + 1) * a.granularity
}

// Allocate serves (req, want) by selecting a memory type, quantising the
// size to the device's granularity, and delegating to the appropriate
// per-type Pool. Every genuinely new native allocation (a pool block
// growth) counts against maxAllocations.
func (a *Allocator) Allocate(req vk.MemoryRequirements, want PropertyRequest) (*Allocation, error) {
	if req.Size == 0 {
		return nil, vkerr.NewAllocationError(vkerr.InvalidSize)
	}

	typeIndex, err := SelectMemoryType(a.memProps, req.MemoryTypeBits, want)
	if err != nil {
		return nil, err
	}

	size := a.quantise(req.Size)

	pool, ok := a.pools[typeIndex]
	if !ok {
		pool = newPool(a.device, typeIndex)
		a.pools[typeIndex] = pool
	}

	blocksBefore := len(pool.blocks)
	if a.wouldGrow(pool, size) && a.maxAllocations != 0 && a.nativeAllocations >= a.maxAllocations {
		return nil, vkerr.NewAllocationError(vkerr.CapacityExceeded)
	}

	alloc, err := pool.allocate(size, a.quantise(a.minBlockPages))
	if err != nil {
		return nil, err
	}
	if len(pool.blocks) > blocksBefore {
		a.nativeAllocations++
	}
	return alloc, nil
}

func (a *Allocator) wouldGrow(p *Pool, size vk.DeviceSize) bool {
	for _, b := range p.blocks {
		if b.Free() >= size {
			return false
		}
	}
	for _, b := range p.blocks {
		if b.reusableSize(size) {
			return false
		}
	}
	return true
}

// reusableSize reports (without mutating state) whether the block has a
// destroyed child of sufficient size.
func (b *Block) reusableSize(requested vk.DeviceSize) bool {
	for _, c := range b.children {
		if c.destroyed && c.Size >= requested {
			return true
		}
	}
	return false
}

// Release marks every allocation across every pool destroyed.
func (a *Allocator) Release() {
	for _, p := range a.pools {
		p.release()
	}
}

// Destroy destroys every pool and its blocks.
func (a *Allocator) Destroy() {
	for _, p := range a.pools {
		p.destroy()
	}
	a.pools = nil
	a.nativeAllocations = 0
}
