package instance

import (
	"log"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/interop"
	"github.com/andewx/vkforge/vkerr"
)

// DiagnosticCallback receives validation-layer messages. severity is an
// EnumMask over VK_DEBUG_REPORT_*_BIT_EXT and messageTypes is an EnumMask
// over VK_DEBUG_REPORT_OBJECT_TYPE_*_EXT. vkforge standardizes on
// VK_EXT_debug_report rather than VK_EXT_debug_utils: vulkan-go's
// generated binding wraps the former directly
// (vk.CreateDebugReportCallback/vk.DestroyDebugReportCallback) while the
// latter would require hand-rolled cgo glue this module does not carry.
type DiagnosticCallback func(severity interop.EnumMask, messageTypes interop.EnumMask, message string)

var severityNames = map[uint32]string{
	uint32(vk.DebugReportInformationBit):       "INFORMATION",
	uint32(vk.DebugReportWarningBit):           "WARNING",
	uint32(vk.DebugReportPerformanceWarningBit): "PERFORMANCE_WARNING",
	uint32(vk.DebugReportErrorBit):             "ERROR",
	uint32(vk.DebugReportDebugBit):             "DEBUG",
}

var typeNames = map[uint32]string{
	uint32(vk.DebugReportObjectTypeInstance):       "INSTANCE",
	uint32(vk.DebugReportObjectTypePhysicalDevice): "PHYSICAL_DEVICE",
	uint32(vk.DebugReportObjectTypeDevice):         "DEVICE",
	uint32(vk.DebugReportObjectTypeQueue):          "QUEUE",
	uint32(vk.DebugReportObjectTypeImage):          "IMAGE",
	uint32(vk.DebugReportObjectTypeBuffer):         "BUFFER",
	uint32(vk.DebugReportObjectTypePipeline):       "PIPELINE",
}

func defaultCallback(severity interop.EnumMask, types interop.EnumMask, message string) {
	log.Printf("vulkan [%s/%s]: %s", severity, types, message)
}

// Messenger wraps a VK_EXT_debug_report callback handle: a severity mask,
// an object-type mask, and the upcall stub for the callback, looked up
// through Function and invoked through vkCreateDebugReportCallbackEXT. At
// destroy time vkDestroyDebugReportCallbackEXT is looked up and invoked
// the same way.
type Messenger struct {
	instance *Instance
	handle   vk.DebugReportCallback
	destroy_ func()
}

func newMessenger(inst *Instance, cb DiagnosticCallback) (*Messenger, error) {
	if cb == nil {
		cb = defaultCallback
	}

	// vulkan-go's generated binding exposes the portable
	// VK_EXT_debug_report entry points directly (no raw proc-address
	// upcall stub plumbing needed on the Go side); vkforge still performs
	// the Function() lookup dance spec §4.2 describes, for symmetry with
	// any future extension messenger that vulkan-go does not wrap, and so
	// the two-step build/destroy life cycle stays identical in shape.
	createFn := inst.Function("vkCreateDebugReportCallbackEXT")
	destroyFn := inst.Function("vkDestroyDebugReportCallbackEXT")
	if createFn == nil || destroyFn == nil {
		log.Printf("vulkan: debug report extension entry points unavailable, diagnostics disabled")
		return &Messenger{instance: inst}, nil
	}

	severityMask := interop.NewEnumMask(
		uint32(vk.DebugReportErrorBit)|uint32(vk.DebugReportWarningBit)|uint32(vk.DebugReportInformationBit),
		severityNames,
	)

	var handle vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(inst.handle, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(severityMask.Bits()),
		PfnCallback: makeUpcall(cb),
	}, nil, &handle)
	if err := vkerr.Result("vkCreateDebugReportCallbackEXT", ret); err != nil {
		return nil, err
	}

	return &Messenger{
		instance: inst,
		handle:   handle,
		destroy_: func() { vk.DestroyDebugReportCallback(inst.handle, handle, nil) },
	}, nil
}

func (m *Messenger) destroy() {
	if m.destroy_ != nil {
		m.destroy_()
	}
}

// makeUpcall adapts a DiagnosticCallback to vulkan-go's
// PFN_vkDebugReportCallbackEXT shape, translating the flag/type arguments
// into EnumMasks before calling through.
func makeUpcall(cb DiagnosticCallback) vk.FnDebugReportCallback {
	return func(flags vk.DebugReportFlags, objType vk.DebugReportObjectType, obj uint64,
		location, msgCode uint, layer, msg string) vk.Bool32 {
		severity := interop.NewEnumMask(uint32(flags), severityNames)
		types := interop.NewEnumMask(uint32(objType), typeNames)
		cb(severity, types, msg)
		return vk.Bool32(vk.False)
	}
}
