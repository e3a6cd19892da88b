package model

import stdmath "math"

// indexedMesh is a shared-vertex mesh expanded to a triangle soup by soup.
type indexedMesh struct {
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	indices   []int
}

func (m *indexedMesh) add(pos, normal [3]float32, uv [2]float32) {
	m.positions = append(m.positions, pos)
	m.normals = append(m.normals, normal)
	m.uvs = append(m.uvs, uv)
}

func (m *indexedMesh) soup() ModelData {
	var b builder
	for _, i := range m.indices {
		b.vertex(m.positions[i], m.normals[i], m.uvs[i])
	}
	return b.md
}

// Sphere generates a UV sphere centered on the origin. segments is clamped
// to at least 3 and rings to at least 2.
func Sphere(radius float32, segments, rings int) ModelData {
	segments = max(segments, 3)
	rings = max(rings, 2)

	var m indexedMesh
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi, cosPhi := float32(stdmath.Sin(phi)), float32(stdmath.Cos(phi))
		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * stdmath.Pi / float64(segments)
			sinTheta, cosTheta := float32(stdmath.Sin(theta)), float32(stdmath.Cos(theta))

			n := [3]float32{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			m.add(
				[3]float32{n[0] * radius, n[1] * radius, n[2] * radius},
				n,
				[2]float32{float32(seg) / float32(segments), float32(ring) / float32(rings)},
			)
		}
	}
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			cur := ring*(segments+1) + seg
			next := cur + segments + 1
			m.indices = append(m.indices, cur, cur+1, next, cur+1, next+1, next)
		}
	}
	return m.soup()
}

// Plane generates a flat XZ plane facing +Y, split into subdivisions^2
// quads.
func Plane(width, depth float32, subdivisions int) ModelData {
	subdivisions = max(subdivisions, 1)
	halfW, halfD := width/2, depth/2

	var m indexedMesh
	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			m.add([3]float32{-halfW + u*width, 0, -halfD + v*depth}, [3]float32{0, 1, 0}, [2]float32{u, v})
		}
	}
	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			tl := z*(subdivisions+1) + x
			tr := tl + 1
			bl := tl + subdivisions + 1
			br := bl + 1
			m.indices = append(m.indices, tl, bl, tr, tr, bl, br)
		}
	}
	return m.soup()
}

// Pyramid generates a square-based pyramid centered on the origin with
// flat-shaded faces.
func Pyramid(width, height float32) ModelData {
	hw, hh := width/2, height/2
	base := [4][3]float32{{-hw, -hh, -hw}, {hw, -hh, -hw}, {hw, -hh, hw}, {-hw, -hh, hw}}
	tip := [3]float32{0, hh, 0}

	var b builder
	tri := func(p0, p1, p2 [3]float32, uv0, uv1, uv2 [2]float32) {
		n := faceNormal(p0, p1, p2)
		b.vertex(p0, n, uv0)
		b.vertex(p1, n, uv1)
		b.vertex(p2, n, uv2)
	}
	tri(base[0], base[1], base[2], [2]float32{0, 0}, [2]float32{1, 0}, [2]float32{1, 1})
	tri(base[0], base[2], base[3], [2]float32{0, 0}, [2]float32{1, 1}, [2]float32{0, 1})
	for i := range base {
		tri(base[(i+1)%4], base[i], tip, [2]float32{1, 0}, [2]float32{0, 0}, [2]float32{0.5, 1})
	}
	return b.md
}
