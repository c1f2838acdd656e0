package interop

import (
	"strconv"
	"strings"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// FormatKind is the Khronos "kind" suffix of a format name: UNORM, SNORM,
// UINT, SINT, SFLOAT, SRGB, ...
type FormatKind string

const (
	KindUnorm  FormatKind = "UNORM"
	KindSnorm  FormatKind = "SNORM"
	KindUint   FormatKind = "UINT"
	KindSint   FormatKind = "SINT"
	KindSfloat FormatKind = "SFLOAT"
	KindSrgb   FormatKind = "SRGB"
)

// formatTable maps the Khronos-convention name (e.g. "R8G8B8A8_UNORM") to
// its vk.Format constant. Only a subset (swapchain colour formats,
// common vertex-attribute and texture formats, and the common
// depth/stencil formats) is populated;
// BuildFormat returns an *InteropError for anything else, matching spec
// §4.1's "unsupported parameter type is fatal at build time".
var formatTable = map[string]vk.Format{
	"R8_UNORM":            vk.FormatR8Unorm,
	"R8_SNORM":            vk.FormatR8Snorm,
	"R8_UINT":             vk.FormatR8Uint,
	"R8_SINT":             vk.FormatR8Sint,
	"R8G8_UNORM":          vk.FormatR8g8Unorm,
	"R8G8_SNORM":          vk.FormatR8g8Snorm,
	"R8G8B8_UNORM":        vk.FormatR8g8b8Unorm,
	"R8G8B8_SRGB":         vk.FormatR8g8b8Srgb,
	"R8G8B8A8_UNORM":      vk.FormatR8g8b8a8Unorm,
	"R8G8B8A8_SNORM":      vk.FormatR8g8b8a8Snorm,
	"R8G8B8A8_SRGB":       vk.FormatR8g8b8a8Srgb,
	"R8G8B8A8_UINT":       vk.FormatR8g8b8a8Uint,
	"R8G8B8A8_SINT":       vk.FormatR8g8b8a8Sint,
	"B8G8R8A8_UNORM":      vk.FormatB8g8r8a8Unorm,
	"B8G8R8A8_SRGB":       vk.FormatB8g8r8a8Srgb,
	"R16_SFLOAT":          vk.FormatR16Sfloat,
	"R16G16_SFLOAT":       vk.FormatR16g16Sfloat,
	"R16G16B16_SFLOAT":    vk.FormatR16g16b16Sfloat,
	"R16G16B16A16_SFLOAT": vk.FormatR16g16b16a16Sfloat,
	"R32_SFLOAT":          vk.FormatR32Sfloat,
	"R32G32_SFLOAT":       vk.FormatR32g32Sfloat,
	"R32G32B32_SFLOAT":    vk.FormatR32g32b32Sfloat,
	"R32G32B32A32_SFLOAT": vk.FormatR32g32b32a32Sfloat,
	"D16_UNORM":           vk.FormatD16Unorm,
	"D32_SFLOAT":          vk.FormatD32Sfloat,
	"D24_UNORM_S8_UINT":   vk.FormatD24UnormS8Uint,
	"D32_SFLOAT_S8_UINT":  vk.FormatD32SfloatS8Uint,
}

// BuildFormat composes the Khronos-convention format name from its parts
// and looks up the matching vk.Format constant. components is the
// channel-order string (e.g. "RGBA", "BGRA"); bytesPerComponent maps to
// the bit width (1 byte -> 8 bits, 2 -> 16, 4 -> 32); signed selects the
// S-prefixed kinds where applicable (SNORM/SINT/SFLOAT vs
// UNORM/UINT/SFLOAT — SFLOAT has no unsigned counterpart and ignores
// signed).
func BuildFormat(components string, bytesPerComponent int, signed bool, kind FormatKind) (vk.Format, error) {
	bits := bytesPerComponent * 8
	var b strings.Builder
	for _, c := range components {
		b.WriteRune(c)
		b.WriteString(strconv.Itoa(bits))
	}
	b.WriteByte('_')
	b.WriteString(string(resolveKind(kind, signed)))
	name := b.String()
	f, ok := formatTable[name]
	if !ok {
		return vk.FormatUndefined, vkerr.NewInteropError("unknown format " + name)
	}
	return f, nil
}

func resolveKind(kind FormatKind, signed bool) FormatKind {
	switch kind {
	case KindUnorm:
		if signed {
			return KindSnorm
		}
		return KindUnorm
	case KindUint:
		if signed {
			return KindSint
		}
		return KindUint
	default:
		return kind
	}
}

// FormatName renders the Khronos-convention name for a vk.Format already
// present in formatTable, for logging. Returns "" if unknown.
func FormatName(f vk.Format) string {
	for name, v := range formatTable {
		if v == f {
			return name
		}
	}
	return ""
}
