// Package device owns physical-device selection, queue-family discovery,
// and logical-device/work-queue creation.
package device

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/interop"
	"github.com/andewx/vkforge/vkerr"
)

// QueueFamily is an immutable snapshot of one physical-device queue
// family: its index, queue count, and capability flag set.
type QueueFamily struct {
	Index int
	Count int
	Flags interop.EnumMask
}

var queueFlagNames = map[uint32]string{
	uint32(vk.QueueGraphicsBit):     "GRAPHICS",
	uint32(vk.QueueComputeBit):      "COMPUTE",
	uint32(vk.QueueTransferBit):     "TRANSFER",
	uint32(vk.QueueSparseBindingBit): "SPARSE_BINDING",
}

// Has reports whether this family supports every bit in want.
func (q QueueFamily) Has(want vk.QueueFlagBits) bool {
	return q.Flags.Has(uint32(want))
}

// PhysicalDevice is immutable after creation: a handle, its queue
// families, and a memory-properties snapshot. It is not an owned native
// object — Instance does not destroy it.
type PhysicalDevice struct {
	Handle           vk.PhysicalDevice
	Properties       vk.PhysicalDeviceProperties
	MemoryProperties vk.PhysicalDeviceMemoryProperties
	Families         []QueueFamily
}

// EnumeratePhysicalDevices lists every physical device visible to
// instance via the two-stage enumeration helper.
func EnumeratePhysicalDevices(inst vk.Instance) ([]PhysicalDevice, error) {
	handles, err := interop.Enumerate(func(count *uint32, data []vk.PhysicalDevice) vk.Result {
		return vk.EnumeratePhysicalDevices(inst, count, data)
	})
	if err != nil {
		return nil, err
	}
	out := make([]PhysicalDevice, 0, len(handles))
	for _, h := range handles {
		out = append(out, describe(h))
	}
	return out, nil
}

func describe(h vk.PhysicalDevice) PhysicalDevice {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(h, &props)
	props.Deref()

	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(h, &memProps)
	memProps.Deref()

	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(h, &count, nil)
	qprops := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(h, &count, qprops)

	families := make([]QueueFamily, 0, count)
	for i, qp := range qprops {
		qp.Deref()
		families = append(families, QueueFamily{
			Index: i,
			Count: int(qp.QueueCount),
			Flags: interop.NewEnumMask(uint32(qp.QueueFlags), queueFlagNames),
		})
	}

	return PhysicalDevice{Handle: h, Properties: props, MemoryProperties: memProps, Families: families}
}

// FindFamily returns the first queue family satisfying every bit in want,
// optionally also required to support presentation to surface (pass
// vk.NullSurface to skip the presentation check).
func (p PhysicalDevice) FindFamily(want vk.QueueFlagBits, surface vk.Surface) (QueueFamily, bool) {
	for _, f := range p.Families {
		if !f.Has(want) {
			continue
		}
		if surface != vk.NullSurface {
			var supported vk.Bool32
			vk.GetPhysicalDeviceSurfaceSupport(p.Handle, uint32(f.Index), surface, &supported)
			if supported == vk.False {
				continue
			}
		}
		return f, true
	}
	return QueueFamily{}, false
}

// AvailableExtensions enumerates device extensions via the two-stage
// pattern.
func AvailableExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	props, err := interop.Enumerate(func(count *uint32, data []vk.ExtensionProperties) vk.Result {
		return vk.EnumerateDeviceExtensionProperties(gpu, "", count, data)
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(props))
	for _, p := range props {
		p.Deref()
		out = append(out, vk.ToString(p.ExtensionName[:]))
	}
	return out, nil
}

// WorkQueue wraps a queue handle plus its originating family.
type WorkQueue struct {
	Handle vk.Queue
	Family QueueFamily
}

// WaitIdle blocks until this queue is idle.
func (q WorkQueue) WaitIdle() error {
	return vkerr.Result("vkQueueWaitIdle", vk.QueueWaitIdle(q.Handle))
}

// LogicalDevice owns a set of WorkQueues indexed by queue-family index
// and records the enabled extensions. It does not hold the memory
// allocator (memory.NewAllocator is built separately from the device
// handle) and does not keep the enabled layers.
type LogicalDevice struct {
	Handle     vk.Device
	Physical   PhysicalDevice
	extensions []string
	queues     map[int]WorkQueue
	destroyed  bool
}

// Config describes how to create a LogicalDevice: the families to
// request one queue from each of, plus device extensions/layers.
type Config struct {
	Physical   PhysicalDevice
	Families   []QueueFamily
	Extensions []string
	Layers     []string
}

// New creates the logical device and one queue per requested family,
// following the teacher's queue.go create-info-per-family shape.
func New(cfg Config) (*LogicalDevice, error) {
	priority := float32(1.0)
	infos := make([]vk.DeviceQueueCreateInfo, len(cfg.Families))
	for i, f := range cfg.Families {
		infos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(f.Index),
			QueueCount:       1,
			PQueuePriorities: []float32{priority},
		}
	}

	var handle vk.Device
	ret := vk.CreateDevice(cfg.Physical.Handle, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(infos)),
		PQueueCreateInfos:       infos,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}, nil, &handle)
	if err := vkerr.Result("vkCreateDevice", ret); err != nil {
		return nil, err
	}

	dev := &LogicalDevice{
		Handle:     handle,
		Physical:   cfg.Physical,
		extensions: cfg.Extensions,
		queues:     make(map[int]WorkQueue, len(cfg.Families)),
	}
	for _, f := range cfg.Families {
		var q vk.Queue
		vk.GetDeviceQueue(handle, uint32(f.Index), 0, &q)
		dev.queues[f.Index] = WorkQueue{Handle: q, Family: f}
	}
	return dev, nil
}

// Queue returns the WorkQueue bound to the given family index.
func (d *LogicalDevice) Queue(familyIndex int) (WorkQueue, bool) {
	q, ok := d.queues[familyIndex]
	return q, ok
}

// WaitIdle blocks until every queue on this device is idle.
func (d *LogicalDevice) WaitIdle() error {
	return vkerr.Result("vkDeviceWaitIdle", vk.DeviceWaitIdle(d.Handle))
}

// Destroy destroys the logical device. Not idempotent.
func (d *LogicalDevice) Destroy() error {
	if d.destroyed {
		return vkerr.NewResourceDestroyedError("device")
	}
	vk.DestroyDevice(d.Handle, nil)
	d.destroyed = true
	return nil
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		if len(s) == 0 || s[len(s)-1] != 0 {
			out[i] = s + "\x00"
		} else {
			out[i] = s
		}
	}
	return out
}
