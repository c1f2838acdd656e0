// Package mesh describes renderable geometry: compound vertex layouts,
// indexed draw data, and cube geometry plus rotation math for a
// rotating-cube scene. New relative to the teacher (which hard-codes
// three unindexed vertices); the component-layout and index-type rules
// are grounded on spec §4.8 and §8.
package mesh

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// ElementType is the scalar type backing one vertex-attribute
// component.
type ElementType int

const (
	ElementFloat ElementType = iota
	ElementInt
)

// Component describes one scalar or vector field of a compound vertex
// layout: how many sub-elements it has, their scalar type, signedness,
// and per-component byte width.
type Component struct {
	Count          int
	Element        ElementType
	Signed         bool
	BytesPerComponent int
}

// Size is the total byte size this component occupies in the vertex.
func (c Component) Size() int { return c.Count * c.BytesPerComponent }

func (c Component) format() (vk.Format, error) {
	key := [4]int{c.Count, int(c.Element), boolToInt(c.Signed), c.BytesPerComponent}
	f, ok := componentFormats[key]
	if !ok {
		return vk.FormatUndefined, vkerr.NewInteropError("no vertex format for component layout")
	}
	return f, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var componentFormats = map[[4]int]vk.Format{
	{1, int(ElementFloat), 1, 4}: vk.FormatR32Sfloat,
	{2, int(ElementFloat), 1, 4}: vk.FormatR32g32Sfloat,
	{3, int(ElementFloat), 1, 4}: vk.FormatR32g32b32Sfloat,
	{4, int(ElementFloat), 1, 4}: vk.FormatR32g32b32a32Sfloat,
	{1, int(ElementInt), 1, 4}:   vk.FormatR32Sint,
	{2, int(ElementInt), 1, 4}:   vk.FormatR32g32Sint,
	{3, int(ElementInt), 1, 4}:   vk.FormatR32g32b32Sint,
	{4, int(ElementInt), 1, 4}:   vk.FormatR32g32b32a32Sint,
	{1, int(ElementInt), 0, 4}:   vk.FormatR32Uint,
	{2, int(ElementInt), 0, 4}:   vk.FormatR32g32Uint,
	{3, int(ElementInt), 0, 4}:   vk.FormatR32g32b32Uint,
	{4, int(ElementInt), 0, 4}:   vk.FormatR32g32b32a32Uint,
}

// VertexLayout is a compound layout: an ordered list of components
// describing one interleaved vertex struct, e.g. position + normal +
// uv.
type VertexLayout struct {
	Components []Component
}

// Stride is the total byte size of one vertex under this layout.
func (v VertexLayout) Stride() int {
	total := 0
	for _, c := range v.Components {
		total += c.Size()
	}
	return total
}

// Format resolves each component to the vk.Format its byte shape
// corresponds to, in component order.
func (v VertexLayout) Format() ([]vk.Format, error) {
	formats := make([]vk.Format, len(v.Components))
	for i, c := range v.Components {
		f, err := c.format()
		if err != nil {
			return nil, err
		}
		formats[i] = f
	}
	return formats, nil
}

// indexTypeBoundary is the count at or above which IndexedMesh selects
// a 32-bit index type (spec §8: "test both sides of the boundary").
const indexTypeBoundary = 65535

// IndexedMesh is a renderable with a primitive, vertex layout, and
// draw count, optionally indexed.
type IndexedMesh struct {
	Layout      VertexLayout
	VertexCount int
	Indices     []uint32
}

// IndexType selects vk.IndexTypeUint16 iff the index count is below
// indexTypeBoundary, otherwise vk.IndexTypeUint32.
func (m IndexedMesh) IndexType() vk.IndexType {
	if len(m.Indices) < indexTypeBoundary {
		return vk.IndexTypeUint16
	}
	return vk.IndexTypeUint32
}

// Indexed reports whether this mesh carries an index buffer.
func (m IndexedMesh) Indexed() bool { return len(m.Indices) > 0 }

// PackedIndices returns the index buffer's bytes in the width
// IndexType selects, ready to upload into a vk.BufferUsageIndexBufferBit
// buffer.
func (m IndexedMesh) PackedIndices() []byte {
	if m.IndexType() == vk.IndexTypeUint16 {
		out := make([]byte, len(m.Indices)*2)
		for i, idx := range m.Indices {
			out[2*i] = byte(idx)
			out[2*i+1] = byte(idx >> 8)
		}
		return out
	}
	out := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		out[4*i] = byte(idx)
		out[4*i+1] = byte(idx >> 8)
		out[4*i+2] = byte(idx >> 16)
		out[4*i+3] = byte(idx >> 24)
	}
	return out
}
