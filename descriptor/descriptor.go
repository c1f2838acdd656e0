// Package descriptor manages descriptor-set layouts, pools, and
// dirty-tracked per-set resource bindings, grounded on the teacher's
// buffers.go.NewCoreUniformBuffer (DescriptorSetLayoutBinding /
// DescriptorSetLayoutCreateInfo pair) and generalized past its single
// hard-coded uniform-buffer binding into spec §4.9's ordered
// multi-binding layout, budgeted pool, and batch-update model.
package descriptor

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/command"
	"github.com/andewx/vkforge/vkerr"
)

// Binding identifies a descriptor binding slot within a set layout.
type Binding uint32

// BindingSlot describes one binding in a Layout.
type BindingSlot struct {
	Binding Binding
	Type    vk.DescriptorType
	Stages  vk.ShaderStageFlagBits
	Count   uint32
}

// Layout is an ordered list of bindings created up-front.
type Layout struct {
	device   vk.Device
	Handle   vk.DescriptorSetLayout
	Bindings []BindingSlot
}

// NewLayout creates a descriptor-set layout from an ordered binding list.
func NewLayout(dev vk.Device, bindings []BindingSlot) (*Layout, error) {
	native := make([]vk.DescriptorSetLayoutBinding, len(bindings))
	for i, b := range bindings {
		count := b.Count
		if count == 0 {
			count = 1
		}
		native[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(b.Binding),
			DescriptorType:  b.Type,
			DescriptorCount: count,
			StageFlags:      vk.ShaderStageFlags(b.Stages),
		}
	}
	var handle vk.DescriptorSetLayout
	info := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(native)),
	}
	if len(native) > 0 {
		info.PBindings = native
	}
	ret := vk.CreateDescriptorSetLayout(dev, &info, nil, &handle)
	if err := vkerr.Result("vkCreateDescriptorSetLayout", ret); err != nil {
		return nil, err
	}
	return &Layout{device: dev, Handle: handle, Bindings: bindings}, nil
}

// typeOf returns the descriptor type declared for binding, if any.
func (l *Layout) typeOf(b Binding) (vk.DescriptorType, bool) {
	for _, slot := range l.Bindings {
		if slot.Binding == b {
			return slot.Type, true
		}
	}
	return 0, false
}

// Destroy destroys the underlying descriptor-set layout.
func (l *Layout) Destroy() {
	vk.DestroyDescriptorSetLayout(l.device, l.Handle, nil)
}

// Budget is a total (type -> count) allocation budget for a Pool.
type Budget map[vk.DescriptorType]uint32

// Pool allocates descriptor sets against a fixed (type -> count) budget
// and a maxSets ceiling.
type Pool struct {
	device  vk.Device
	handle  vk.DescriptorPool
	maxSets uint32
	used    uint32
}

// NewPool creates a descriptor pool sized by budget with the given
// maxSets ceiling.
func NewPool(dev vk.Device, budget Budget, maxSets uint32) (*Pool, error) {
	sizes := make([]vk.DescriptorPoolSize, 0, len(budget))
	for t, count := range budget {
		sizes = append(sizes, vk.DescriptorPoolSize{Type: t, DescriptorCount: count})
	}
	var handle vk.DescriptorPool
	ret := vk.CreateDescriptorPool(dev, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       maxSets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &handle)
	if err := vkerr.Result("vkCreateDescriptorPool", ret); err != nil {
		return nil, err
	}
	return &Pool{device: dev, handle: handle, maxSets: maxSets}, nil
}

// Allocate allocates one descriptor set per layout, returning a parallel
// list of Sets.
func (p *Pool) Allocate(layouts []*Layout) ([]*Set, error) {
	if p.used+uint32(len(layouts)) > p.maxSets {
		return nil, vkerr.NewAllocationError(vkerr.CapacityExceeded)
	}
	native := make([]vk.DescriptorSetLayout, len(layouts))
	for i, l := range layouts {
		native[i] = l.Handle
	}
	handles := make([]vk.DescriptorSet, len(layouts))
	ret := vk.AllocateDescriptorSets(p.device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     p.handle,
		DescriptorSetCount: uint32(len(native)),
		PSetLayouts:        native,
	}, handles)
	if err := vkerr.Result("vkAllocateDescriptorSets", ret); err != nil {
		return nil, err
	}
	p.used += uint32(len(layouts))

	sets := make([]*Set, len(handles))
	for i, h := range handles {
		sets[i] = &Set{device: p.device, handle: h, layout: layouts[i], entries: make(map[Binding]*Entry)}
	}
	return sets, nil
}

// Destroy destroys the pool and every set it allocated.
func (p *Pool) Destroy() {
	vk.DestroyDescriptorPool(p.device, p.handle, nil)
}

// Resource is the native form a descriptor entry's data takes: either
// a buffer region or a sampled image.
type Resource struct {
	Buffer       vk.Buffer
	BufferOffset vk.DeviceSize
	BufferRange  vk.DeviceSize

	ImageView   vk.ImageView
	Sampler     vk.Sampler
	ImageLayout vk.ImageLayout
}

func (r Resource) isImage() bool { return r.ImageView != vk.NullImageView || r.Sampler != vk.NullSampler }

// Entry is one set's binding: its bound resource, its declared
// descriptor type, and whether it has changed since the last update.
type Entry struct {
	Type     vk.DescriptorType
	Resource Resource
	Dirty    bool
}

// Set is one allocated descriptor set plus its dirty-tracked bindings.
type Set struct {
	device  vk.Device
	handle  vk.DescriptorSet
	layout  *Layout
	entries map[Binding]*Entry
}

// Handle returns the native descriptor set.
func (s *Set) Handle() vk.DescriptorSet { return s.handle }

// Set validates resource against binding's declared descriptor type
// and records it, marking the entry dirty.
func (s *Set) Set(binding Binding, resource Resource) error {
	declared, ok := s.layout.typeOf(binding)
	if !ok {
		return vkerr.NewInteropError("descriptor set has no such binding")
	}
	isImageType := declared == vk.DescriptorTypeCombinedImageSampler || declared == vk.DescriptorTypeSampledImage
	if isImageType != resource.isImage() {
		return vkerr.NewInteropError("descriptor resource type does not match binding type")
	}
	s.entries[binding] = &Entry{Type: declared, Resource: resource, Dirty: true}
	return nil
}

// Update collects dirty entries across sets, writes them in one
// vkUpdateDescriptorSets batch, then clears the dirty flags.
func Update(dev vk.Device, sets []*Set) error {
	var writes []vk.WriteDescriptorSet
	var dirty []*Entry

	for _, s := range sets {
		for binding, entry := range s.entries {
			if !entry.Dirty {
				continue
			}
			write := vk.WriteDescriptorSet{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          s.handle,
				DstBinding:      uint32(binding),
				DstArrayElement: 0,
				DescriptorCount: 1,
				DescriptorType:  entry.Type,
			}
			if entry.Resource.isImage() {
				write.PImageInfo = []vk.DescriptorImageInfo{{
					Sampler:     entry.Resource.Sampler,
					ImageView:   entry.Resource.ImageView,
					ImageLayout: entry.Resource.ImageLayout,
				}}
			} else {
				write.PBufferInfo = []vk.DescriptorBufferInfo{{
					Buffer: entry.Resource.Buffer,
					Offset: entry.Resource.BufferOffset,
					Range:  entry.Resource.BufferRange,
				}}
			}
			writes = append(writes, write)
			dirty = append(dirty, entry)
		}
	}

	if len(writes) == 0 {
		return nil
	}
	vk.UpdateDescriptorSets(dev, uint32(len(writes)), writes, 0, nil)
	for _, e := range dirty {
		e.Dirty = false
	}
	return nil
}

// Bind records vkCmdBindDescriptorSets at the GRAPHICS bind point,
// starting at set 0.
func Bind(layout vk.PipelineLayout, sets []*Set) command.Command {
	handles := make([]vk.DescriptorSet, len(sets))
	for i, s := range sets {
		handles[i] = s.handle
	}
	return func(cmd vk.CommandBuffer) {
		vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointGraphics, layout, 0, uint32(len(handles)), handles, 0, nil)
	}
}
