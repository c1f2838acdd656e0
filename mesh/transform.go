package mesh

import (
	"math"

	lin "github.com/xlab/linmath"
)

// VulkanProjection converts an OpenGL-style clip-space projection
// matrix to Vulkan's: Y flipped (Vulkan's NDC has +Y down) and Z
// rescaled to the [0, 1] depth range, grounded verbatim on the
// teacher's math.go.VulkanProjectionMat.
func VulkanProjection(proj *lin.Mat4x4) lin.Mat4x4 {
	var m lin.Mat4x4
	m.Fill(1.0)
	m.ScaleAniso(&m, 1.0, -1.0, 1.0)
	m.ScaleAniso(&m, 1.0, 1.0, 0.5)
	m.Translate(0.0, 0.0, 1.0)
	m.Mult(&m, proj)
	return m
}

// Rotation builds a model matrix rotating a unit cube about the Y axis
// by angleRadians, the rotating-cube scene's model transform, grounded
// on the daoshengmu-vulkan-gltf reference's
// `modelMatrix.Rotate(&modelMatrix, 0, 1, 0, angle)` call.
func Rotation(angleRadians float32) lin.Mat4x4 {
	var m lin.Mat4x4
	m.Identity()
	m.Rotate(&m, 0.0, 1.0, 0.0, angleRadians)
	return m
}

// CubeVertices returns the 8-vertex, 36-index unit cube for the
// rotating-cube scene, laid out as position (3 floats) + normal
// (3 floats).
func CubeVertices() (VertexLayout, []float32, []uint32) {
	layout := VertexLayout{Components: []Component{
		{Count: 3, Element: ElementFloat, Signed: true, BytesPerComponent: 4},
		{Count: 3, Element: ElementFloat, Signed: true, BytesPerComponent: 4},
	}}

	positions := [8][3]float32{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}

	vertices := make([]float32, 0, 8*6)
	for _, p := range positions {
		n := normalize(p)
		vertices = append(vertices, p[0], p[1], p[2], n[0], n[1], n[2])
	}

	indices := []uint32{
		0, 1, 2, 2, 3, 0,
		4, 6, 5, 6, 4, 7,
		0, 4, 5, 5, 1, 0,
		3, 2, 6, 6, 7, 3,
		1, 5, 6, 6, 2, 1,
		0, 3, 7, 7, 4, 0,
	}
	return layout, vertices, indices
}

func normalize(p [3]float32) [3]float32 {
	length := float32(math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])))
	if length == 0 {
		return p
	}
	return [3]float32{p[0] / length, p[1] / length, p[2] / length}
}
