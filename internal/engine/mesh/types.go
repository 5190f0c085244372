// Package mesh loads Wavefront OBJ models into GPU-ready vertex and index
// buffers.
package mesh

import "github.com/Faultbox/skylark/pkg/math"

// Vertex is one interleaved vertex. The layout matches the renderer's
// attribute pointers: position at 0, normal at 12, texcoord at 24.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexSize is the byte stride of Vertex.
const VertexSize = 32

// Material is the diffuse part of an MTL material.
type Material struct {
	Name           string
	Diffuse        [3]float32
	DiffuseTexture string // resolved against the MTL directory
}

// Group is a run of indices drawn with one material. Material is an index
// into Model.Materials, or -1 for none.
type Group struct {
	Material   int
	StartIndex int32
	IndexCount int32
}

// Mesh is one named object from the OBJ file.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Groups   []Group
	Bounds   Bounds
}

// Model is a parsed OBJ file with its materials.
type Model struct {
	Meshes    []Mesh
	Materials []Material
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Triangles returns the total triangle count across all meshes.
func (m *Model) Triangles() int {
	n := 0
	for i := range m.Meshes {
		n += len(m.Meshes[i].Indices) / 3
	}
	return n
}

// Bounds returns the union of all mesh bounds.
func (m *Model) Bounds() Bounds {
	var b Bounds
	for i := range m.Meshes {
		if i == 0 {
			b = m.Meshes[i].Bounds
			continue
		}
		b.Min = b.Min.Min(m.Meshes[i].Bounds.Min)
		b.Max = b.Max.Max(m.Meshes[i].Bounds.Max)
	}
	return b
}

func (b *Bounds) extend(p math.Vec3, first bool) {
	if first {
		b.Min, b.Max = p, p
		return
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}
