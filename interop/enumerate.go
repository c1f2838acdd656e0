// Package interop bridges typed vkforge domain values to the native
// Vulkan structures vulkan-go already marshals across the cgo boundary.
// It owns the handful of conversions that are vkforge's own
// responsibility rather than the binding's: the two-stage "count, then
// fill" enumeration pattern, bitmask enumerations, format-name building,
// and component-mapping swizzles.
package interop

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// Enumerate implements the "call once for size, allocate, call again to
// fill" pattern used throughout the Vulkan API
// (vkEnumerateInstanceExtensionProperties, vkGetSwapchainImagesKHR, ...).
// This is the only place the pattern is spelled out; every enumeration in
// vkforge goes through it.
//
// fn is called first with a non-nil count pointer and a nil slice to
// discover the element count, then again with the same count and a slice
// sized to it. fn must never write more than *count elements into data.
func Enumerate[T any](fn func(count *uint32, data []T) vk.Result) ([]T, error) {
	var count uint32
	ret := fn(&count, nil)
	if err := vkerr.Result("enumerate:count", ret); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	data := make([]T, count)
	ret = fn(&count, data)
	if err := vkerr.Result("enumerate:fill", ret); err != nil {
		return nil, err
	}
	return data[:count], nil
}
