// Package locator finds which triangle of a mesh a world-space point lies on
// and converts that point into the triangle's texture coordinates.
//
// A Locator is built once per mesh instance and queried per paint event. It
// snapshots the mesh geometry at construction; if the topology or transform
// changes a new Locator must be built.
package locator

import (
	"errors"
	"fmt"

	"github.com/taigrr/splat/pkg/math3d"
	"github.com/taigrr/splat/pkg/models"
)

// DefaultNormalEpsilon is the maximum distance between a face normal and the
// query normal for the face to be considered.
const DefaultNormalEpsilon = 0.2

// degenerateEpsilon is the smallest accepted barycentric denominator,
// relative to the product of the squared edge lengths.
const degenerateEpsilon = 1e-12

// UnsupportedMeshError is returned when the geometry cannot be triangulated.
type UnsupportedMeshError struct {
	Mesh string
	Err  error
}

func (e *UnsupportedMeshError) Error() string {
	if e.Mesh == "" {
		return fmt.Sprintf("unsupported mesh: %v", e.Err)
	}
	return fmt.Sprintf("unsupported mesh %q: %v", e.Mesh, e.Err)
}

func (e *UnsupportedMeshError) Unwrap() error {
	return e.Err
}

// Face is the per-triangle record cached by a Locator.
type Face struct {
	Index    int            // Triangle index in the source mesh
	Vertices [3]int         // Local vertex indices, used to fetch UVs
	World    [3]math3d.Vec3 // World-space vertex positions
	Normal   math3d.Vec3    // World-space unit face normal
}

// Hit is a located point: the containing face and its barycentric weights.
type Hit struct {
	Face        int         // Index into the locator's face list
	Barycentric math3d.Vec3 // (u, v, w) weights for vertices 0, 1, 2
}

// Locator resolves world-space points to triangles and UVs.
type Locator struct {
	faces  []Face
	uvs    []math3d.Vec2
	bounds math3d.AABB
}

// New builds a Locator for shape placed in the world by transform.
//
// Face normals are taken from the world-space vertices, so they match the
// normal a collider reports for the placed mesh under any affine transform.
func New(shape models.Shape, transform math3d.Mat4) (*Locator, error) {
	if shape == nil {
		return nil, &UnsupportedMeshError{Err: models.ErrNotTriangulated}
	}
	mesh, err := shape.TriangleMesh()
	if err != nil {
		var name string
		if m, ok := shape.(*models.Mesh); ok && m != nil {
			name = m.Name
		}
		return nil, &UnsupportedMeshError{Mesh: name, Err: err}
	}

	l := &Locator{
		faces: make([]Face, len(mesh.Faces)),
		uvs:   make([]math3d.Vec2, len(mesh.Vertices)),
	}
	for i, v := range mesh.Vertices {
		l.uvs[i] = v.UV
	}

	points := make([]math3d.Vec3, 0, len(mesh.Faces)*3)
	for i, f := range mesh.Faces {
		face := Face{Index: i, Vertices: f.V}
		for k, idx := range f.V {
			face.World[k] = transform.MulVec3(mesh.Vertices[idx].Position)
		}
		w := face.World
		face.Normal = w[1].Sub(w[0]).Cross(w[2].Sub(w[0])).Normalize()
		points = append(points, face.World[:]...)
		l.faces[i] = face
	}
	l.bounds = math3d.BoundPoints(points)

	return l, nil
}

// FaceCount returns the number of cached triangles.
func (l *Locator) FaceCount() int {
	return len(l.faces)
}

// Face returns the cached record for face i.
func (l *Locator) Face(i int) Face {
	return l.faces[i]
}

// Bounds returns the world-space bounding box of the mesh.
func (l *Locator) Bounds() math3d.AABB {
	return l.bounds
}

// LongestAxis returns the largest world-space dimension of the mesh.
func (l *Locator) LongestAxis() float64 {
	return l.bounds.LongestAxis()
}

// Locate finds the triangle containing point using DefaultNormalEpsilon.
func (l *Locator) Locate(point, normal math3d.Vec3) (Hit, bool) {
	return l.LocateEpsilon(point, normal, DefaultNormalEpsilon)
}

// LocateEpsilon scans the faces in order and returns the first one whose
// normal is within normalEpsilon of normal (Euclidean distance between the
// two vectors) and whose barycentric weights for point all lie in [0, 1].
//
// The normal filter is a cheap direction check, not an angular tolerance;
// callers should pass a normal close to the true surface normal so that
// adjacent or overlapping faces are told apart.
func (l *Locator) LocateEpsilon(point, normal math3d.Vec3, normalEpsilon float64) (Hit, bool) {
	epsSq := normalEpsilon * normalEpsilon
	for i := range l.faces {
		f := &l.faces[i]
		if f.Normal.DistanceSq(normal) >= epsSq {
			continue
		}
		bary, ok := Barycentric(point, f.World[0], f.World[1], f.World[2])
		if !ok || !inUnitRange(bary) {
			continue
		}
		return Hit{Face: i, Barycentric: bary}, true
	}
	return Hit{}, false
}

// Interpolate returns the UV at a hit: the barycentric-weighted sum of the
// face's three vertex UVs.
func (l *Locator) Interpolate(hit Hit) math3d.Vec2 {
	f := l.faces[hit.Face]
	b := hit.Barycentric
	return l.uvs[f.Vertices[0]].Scale(b.X).
		Add(l.uvs[f.Vertices[1]].Scale(b.Y)).
		Add(l.uvs[f.Vertices[2]].Scale(b.Z))
}

// UV locates point and interpolates its texture coordinates. It reports
// false only when no face contains the point.
func (l *Locator) UV(point, normal math3d.Vec3) (math3d.Vec2, bool) {
	hit, ok := l.Locate(point, normal)
	if !ok {
		return math3d.Vec2{}, false
	}
	return l.Interpolate(hit), true
}

// Barycentric returns the (u, v, w) weights of p against triangle (a, b, c),
// with p = u*a + v*b + w*c. Points off the triangle's plane are projected
// onto it. It reports false for zero-area triangles.
func Barycentric(p, a, b, c math3d.Vec3) (math3d.Vec3, bool) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if denom <= degenerateEpsilon*d00*d11 {
		return math3d.Vec3{}, false
	}

	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return math3d.V3(1-v-w, v, w), true
}

func inUnitRange(b math3d.Vec3) bool {
	return b.X >= 0 && b.X <= 1 &&
		b.Y >= 0 && b.Y <= 1 &&
		b.Z >= 0 && b.Z <= 1
}

// IsUnsupported reports whether err came from building a locator on
// geometry that cannot be triangulated.
func IsUnsupported(err error) bool {
	var target *UnsupportedMeshError
	return errors.As(err, &target)
}
