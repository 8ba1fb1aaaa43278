// Package models provides mesh representation, loading and primitive shapes
// for the splat painter.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/splat/pkg/math3d"
)

// ErrNotTriangulated is returned when a shape has no usable triangle list.
var ErrNotTriangulated = errors.New("mesh is not an indexed triangle list")

// Shape is anything that can produce an indexed triangle mesh in local space.
type Shape interface {
	TriangleMesh() (*Mesh, error)
}

// Mesh represents an indexed triangle mesh with per-vertex UVs.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Primitives dropped by the loader because they were not triangles.
	SkippedPrimitives int

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face represents a triangle face as indices into Mesh.Vertices.
// Counter-clockwise winding is front facing.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// TriangleMesh validates the mesh and returns it unchanged.
// It implements Shape.
func (m *Mesh) TriangleMesh() (*Mesh, error) {
	if m == nil || len(m.Faces) == 0 {
		return nil, ErrNotTriangulated
	}
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f.V {
			if idx < 0 || idx >= n {
				return nil, fmt.Errorf("face %d references vertex %d of %d: %w", i, idx, n, ErrNotTriangulated)
			}
		}
	}
	return m, nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Bounds returns the local-space bounding box.
func (m *Mesh) Bounds() math3d.AABB {
	return math3d.NewAABB(m.BoundsMin, m.BoundsMax)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceNormal returns the unit geometric normal of face i in local space.
// Degenerate faces return the zero vector.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	f := m.Faces[i]
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}

// CalculateNormals assigns flat face normals to vertices.
// Shared vertices end up with the normal of the last face that touches them.
func (m *Mesh) CalculateNormals() {
	for i, f := range m.Faces {
		normal := m.FaceNormal(i)
		for _, idx := range f.V {
			m.Vertices[idx].Normal = normal
		}
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:              m.Name,
		Vertices:          make([]MeshVertex, len(m.Vertices)),
		Faces:             make([]Face, len(m.Faces)),
		SkippedPrimitives: m.SkippedPrimitives,
		BoundsMin:         m.BoundsMin,
		BoundsMax:         m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// GetVertex returns the position, normal, and UV for vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}
