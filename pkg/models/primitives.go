package models

import (
	"fmt"
	"math"

	"github.com/taigrr/splat/pkg/math3d"
)

// PlaneShape is a flat grid on the XZ plane facing +Y, centered at the origin.
type PlaneShape struct {
	Width, Depth float64
	SubdivideW   int // Extra cuts across the width
	SubdivideD   int // Extra cuts across the depth
}

// BoxShape is an axis-aligned box centered at the origin. Each side maps the
// full [0,1] UV square.
type BoxShape struct {
	Size math3d.Vec3
}

// SphereShape is a UV sphere centered at the origin.
type SphereShape struct {
	Radius         float64
	RadialSegments int
	Rings          int
}

// TriangleMesh generates the plane. It implements Shape.
func (p PlaneShape) TriangleMesh() (*Mesh, error) {
	if p.Width <= 0 || p.Depth <= 0 {
		return nil, fmt.Errorf("plane %vx%v: %w", p.Width, p.Depth, ErrNotTriangulated)
	}
	cols := max(p.SubdivideW, 0) + 1
	rows := max(p.SubdivideD, 0) + 1

	mesh := NewMesh("plane")
	for r := 0; r <= rows; r++ {
		v := float64(r) / float64(rows)
		for c := 0; c <= cols; c++ {
			u := float64(c) / float64(cols)
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: math3d.V3((u-0.5)*p.Width, 0, (v-0.5)*p.Depth),
				Normal:   math3d.Up(),
				UV:       math3d.V2(u, v),
			})
		}
	}
	// (a, d, b) winds counter-clockwise when seen from +Y.
	for r := range rows {
		for c := range cols {
			a := r*(cols+1) + c
			b := a + 1
			d := a + cols + 1
			e := d + 1
			mesh.Faces = append(mesh.Faces,
				Face{V: [3]int{a, d, b}},
				Face{V: [3]int{b, d, e}},
			)
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// TriangleMesh generates the box. It implements Shape.
func (b BoxShape) TriangleMesh() (*Mesh, error) {
	if b.Size.X <= 0 || b.Size.Y <= 0 || b.Size.Z <= 0 {
		return nil, fmt.Errorf("box %+v: %w", b.Size, ErrNotTriangulated)
	}
	h := b.Size.Scale(0.5)

	// Each side: outward normal plus the in-plane U and V directions.
	// U x V points opposite the normal so image-space V (downwards) keeps
	// counter-clockwise winding.
	sides := []struct{ n, u, v math3d.Vec3 }{
		{math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, -1, 0)},
		{math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, -1, 0)},
		{math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1)},
		{math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1)},
		{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, -1, 0)},
		{math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0), math3d.V3(0, -1, 0)},
	}

	mesh := NewMesh("box")
	for _, s := range sides {
		base := len(mesh.Vertices)
		center := s.n.Mul(h)
		du := s.u.Mul(h)
		dv := s.v.Mul(h)
		for _, uv := range [4]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}} {
			pos := center.Add(du.Scale(uv.X*2 - 1)).Add(dv.Scale(uv.Y*2 - 1))
			mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: pos, Normal: s.n, UV: uv})
		}
		mesh.Faces = append(mesh.Faces,
			Face{V: [3]int{base, base + 2, base + 1}},
			Face{V: [3]int{base + 1, base + 2, base + 3}},
		)
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// TriangleMesh generates the sphere. It implements Shape.
func (s SphereShape) TriangleMesh() (*Mesh, error) {
	if s.Radius <= 0 || s.RadialSegments < 3 || s.Rings < 2 {
		return nil, fmt.Errorf("sphere r=%v segments=%d rings=%d: %w", s.Radius, s.RadialSegments, s.Rings, ErrNotTriangulated)
	}

	mesh := NewMesh("sphere")
	for r := 0; r <= s.Rings; r++ {
		v := float64(r) / float64(s.Rings)
		phi := v * math.Pi
		for c := 0; c <= s.RadialSegments; c++ {
			u := float64(c) / float64(s.RadialSegments)
			theta := u * 2 * math.Pi
			n := math3d.V3(math.Sin(phi)*math.Sin(theta), math.Cos(phi), math.Sin(phi)*math.Cos(theta))
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: n.Scale(s.Radius),
				Normal:   n,
				UV:       math3d.V2(u, v),
			})
		}
	}

	stride := s.RadialSegments + 1
	for r := range s.Rings {
		for c := range s.RadialSegments {
			a := r*stride + c
			b := a + 1
			d := a + stride
			e := d + 1
			// Skip the collapsed triangles at the poles.
			if r != 0 {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{a, d, b}})
			}
			if r != s.Rings-1 {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{b, d, e}})
			}
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}
