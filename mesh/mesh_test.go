package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func positionNormalLayout() VertexLayout {
	return VertexLayout{Components: []Component{
		{Count: 3, Element: ElementFloat, Signed: true, BytesPerComponent: 4},
		{Count: 3, Element: ElementFloat, Signed: true, BytesPerComponent: 4},
	}}
}

func TestVertexLayoutStride(t *testing.T) {
	assert.Equal(t, 24, positionNormalLayout().Stride())
}

func TestVertexLayoutFormatResolution(t *testing.T) {
	formats, err := positionNormalLayout().Format()
	require.NoError(t, err)
	assert.Equal(t, []vk.Format{vk.FormatR32g32b32Sfloat, vk.FormatR32g32b32Sfloat}, formats)
}

func TestComponentFormatUnsupportedShapeErrors(t *testing.T) {
	_, err := Component{Count: 5, Element: ElementFloat, Signed: true, BytesPerComponent: 4}.format()
	require.Error(t, err)
}

func TestIndexedMeshSelects16BitBelowBoundary(t *testing.T) {
	m := IndexedMesh{Indices: make([]uint32, indexTypeBoundary-1)}
	assert.Equal(t, vk.IndexTypeUint16, m.IndexType())
}

func TestIndexedMeshSelects32BitAtBoundary(t *testing.T) {
	m := IndexedMesh{Indices: make([]uint32, indexTypeBoundary)}
	assert.Equal(t, vk.IndexTypeUint32, m.IndexType())
}

func TestIndexedMeshSelects32BitAboveBoundary(t *testing.T) {
	m := IndexedMesh{Indices: make([]uint32, indexTypeBoundary+1)}
	assert.Equal(t, vk.IndexTypeUint32, m.IndexType())
}

func TestIndexedMeshUnindexedHasNoIndices(t *testing.T) {
	m := IndexedMesh{VertexCount: 8}
	assert.False(t, m.Indexed())
}

func TestPackedIndices16Bit(t *testing.T) {
	m := IndexedMesh{Indices: []uint32{1, 0x0102}}
	packed := m.PackedIndices()
	require.Len(t, packed, 4)
	assert.Equal(t, []byte{0x01, 0x00, 0x02, 0x01}, packed)
}

func TestPackedIndices32Bit(t *testing.T) {
	indices := make([]uint32, indexTypeBoundary)
	indices[indexTypeBoundary-1] = 0x01020304
	m := IndexedMesh{Indices: indices}
	packed := m.PackedIndices()
	require.Len(t, packed, len(indices)*4)
	last := packed[len(packed)-4:]
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, last)
}

func TestCubeVerticesProducesClosedIndexSet(t *testing.T) {
	layout, vertices, indices := CubeVertices()
	assert.Equal(t, 24, layout.Stride())
	assert.Len(t, vertices, 8*6)
	assert.Len(t, indices, 36)
	for _, idx := range indices {
		assert.Less(t, idx, uint32(8))
	}
}
