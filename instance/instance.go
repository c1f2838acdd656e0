// Package instance owns Vulkan instance creation and the optional debug
// messenger. It is the root of the ownership forest: an Instance destroys
// its diagnostic messenger before it destroys itself. Objects created
// from the instance elsewhere (surfaces, devices) are not tracked by it
// and are not destroyed by Instance.Destroy.
package instance

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/interop"
	"github.com/andewx/vkforge/vkerr"
)

// ExtensionSet tracks a three-way split between extensions the caller
// wants, extensions it requires, and extensions actually available on the
// platform — adapted from the teacher's BaseInstanceExtensions /
// BaseDeviceExtensions split (extensions_2.go).
type ExtensionSet struct {
	wanted   []string
	required []string
	actual   []string
}

// NewExtensionSet builds a set given the desired/required lists and the
// platform's actual list (as returned by Available/device.Available).
func NewExtensionSet(wanted, required, actual []string) *ExtensionSet {
	return &ExtensionSet{wanted: wanted, required: required, actual: actual}
}

// Missing reports which required extensions are absent from actual.
func (e *ExtensionSet) Missing() []string {
	var missing []string
	for _, req := range e.required {
		if !contains(e.actual, req) {
			missing = append(missing, req)
		}
	}
	return missing
}

// Resolve returns required plus any wanted extensions not already in
// required, the set that should actually be enabled at creation time.
func (e *ExtensionSet) Resolve() []string {
	out := append([]string{}, e.required...)
	for _, want := range e.wanted {
		if !contains(e.required, want) {
			out = append(out, want)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// AvailableExtensions enumerates instance extensions via the two-stage
// pattern.
func AvailableExtensions() ([]string, error) {
	props, err := interop.Enumerate(func(count *uint32, data []vk.ExtensionProperties) vk.Result {
		return vk.EnumerateInstanceExtensionProperties("", count, data)
	})
	if err != nil {
		return nil, err
	}
	return namesOf(props, func(p vk.ExtensionProperties) [256]byte { return p.ExtensionName }), nil
}

// AvailableLayers enumerates instance validation layers via the two-stage
// pattern.
func AvailableLayers() ([]string, error) {
	props, err := interop.Enumerate(func(count *uint32, data []vk.LayerProperties) vk.Result {
		return vk.EnumerateInstanceLayerProperties(count, data)
	})
	if err != nil {
		return nil, err
	}
	return namesOf(props, func(p vk.LayerProperties) [256]byte { return p.LayerName }), nil
}

func namesOf[T any](list []T, field func(T) [256]byte) []string {
	names := make([]string, 0, len(list))
	for _, v := range list {
		raw := field(v)
		names = append(names, vk.ToString(raw[:]))
	}
	return names
}

// Config describes how to build an Instance: application name/version,
// the Vulkan API version to request, and the extensions/layers to enable.
type Config struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	APIVersion         uint32
	Extensions         []string
	Layers             []string
	// EnableDiagnostics registers a VK_EXT_debug_report callback using
	// Callback (or a default stderr logger when Callback is nil).
	EnableDiagnostics bool
	Callback          DiagnosticCallback
}

// Instance is the root native object. It holds the loaded library handle
// (implicit in vulkan-go's global proc table), the enabled extensions and
// layers, and an optional diagnostic messenger.
type Instance struct {
	handle     vk.Instance
	extensions []string
	layers     []string
	messenger  *Messenger
	destroyed  bool
}

// New creates a Vulkan instance per spec §4.2: it populates an
// application-info and instance-create descriptor and invokes
// vkCreateInstance, requesting API version 1.1.0 by default when
// cfg.APIVersion is zero.
func New(cfg Config) (*Instance, error) {
	apiVersion := cfg.APIVersion
	if apiVersion == 0 {
		apiVersion = vk.MakeVersion(1, 1, 0)
	}
	appVersion := cfg.ApplicationVersion
	if appVersion == 0 {
		appVersion = vk.MakeVersion(1, 0, 0)
	}
	engineName := cfg.EngineName
	if engineName == "" {
		engineName = "vkforge"
	}

	var handle vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   safeString(cfg.ApplicationName),
			ApplicationVersion: appVersion,
			PEngineName:        safeString(engineName),
			ApiVersion:         apiVersion,
		},
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}, nil, &handle)
	if err := vkerr.Result("vkCreateInstance", ret); err != nil {
		return nil, err
	}

	inst := &Instance{handle: handle, extensions: cfg.Extensions, layers: cfg.Layers}

	if cfg.EnableDiagnostics {
		messenger, err := newMessenger(inst, cfg.Callback)
		if err != nil {
			vk.DestroyInstance(handle, nil)
			return nil, err
		}
		inst.messenger = messenger
	}

	return inst, nil
}

// Handle returns the native vk.Instance handle.
func (i *Instance) Handle() vk.Instance { return i.handle }

// Function looks up an extension entry point by name, e.g.
// "vkCreateDebugUtilsMessengerEXT".
func (i *Instance) Function(name string) unsafe.Pointer {
	return vk.GetInstanceProcAddr(i.handle, safeString(name))
}

// Destroy destroys the messenger (if any) and then the instance. Calling
// Destroy twice raises ResourceDestroyedError — destruction is not
// idempotent by design, matching spec §8's "destroy is not idempotent"
// law.
func (i *Instance) Destroy() error {
	if i.destroyed {
		return vkerr.NewResourceDestroyedError("instance")
	}
	if i.messenger != nil {
		i.messenger.destroy()
	}
	vk.DestroyInstance(i.handle, nil)
	i.destroyed = true
	return nil
}

func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}
