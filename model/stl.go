package model

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// ReadSTL parses binary or ASCII STL. STL carries no texture coordinates;
// zero facet normals are replaced by the computed face normal. A file
// without any facet is an error.
func ReadSTL(r io.Reader) (ModelData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ModelData{}, err
	}
	if isBinarySTL(data) {
		return readBinarySTL(data)
	}
	md, err := readASCIISTL(data)
	if err == nil && md.VertexCount() > 0 {
		return md, nil
	}
	// Binary files with a "solid" header and padding after the last
	// triangle end up here.
	if bmd, berr := readBinarySTL(data); berr == nil && bmd.VertexCount() > 0 {
		return bmd, nil
	}
	if err != nil {
		return ModelData{}, err
	}
	return ModelData{}, fmt.Errorf("stl: no facets")
}

// isBinarySTL trusts the triangle count over the "solid" prefix, since
// many binary exporters also start their header with "solid".
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	if uint64(len(data)) == stlHeaderSize+4+uint64(n)*stlTriangleSize {
		return true
	}
	return !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid"))
}

func readBinarySTL(data []byte) (ModelData, error) {
	if len(data) < stlHeaderSize+4 {
		return ModelData{}, fmt.Errorf("stl: truncated header")
	}
	n := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	body := data[stlHeaderSize+4:]
	if len(body) < n*stlTriangleSize {
		return ModelData{}, fmt.Errorf("stl: want %d triangles, have data for %d", n, len(body)/stlTriangleSize)
	}

	var b builder
	for i := 0; i < n; i++ {
		tri := body[i*stlTriangleSize:]
		var v [4][3]float32 // normal, then three vertices
		for j := range v {
			for k := 0; k < 3; k++ {
				off := (j*3 + k) * 4
				v[j][k] = math.Float32frombits(binary.LittleEndian.Uint32(tri[off:]))
			}
		}
		addFacet(&b, v[0], v[1], v[2], v[3])
	}
	return b.md, nil
}

func readASCIISTL(data []byte) (ModelData, error) {
	var (
		b      builder
		normal [3]float32
		verts  [][3]float32
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return ModelData{}, fmt.Errorf("stl line %d: malformed facet", lineNo)
			}
			n, err := parseFloats3(fields[2:])
			if err != nil {
				return ModelData{}, fmt.Errorf("stl line %d: %w", lineNo, err)
			}
			normal, verts = n, verts[:0]
		case "vertex":
			p, err := parseFloats3(fields[1:])
			if err != nil {
				return ModelData{}, fmt.Errorf("stl line %d: %w", lineNo, err)
			}
			verts = append(verts, p)
		case "endfacet":
			if len(verts) != 3 {
				return ModelData{}, fmt.Errorf("stl line %d: facet has %d vertices", lineNo, len(verts))
			}
			addFacet(&b, normal, verts[0], verts[1], verts[2])
		}
	}
	if err := scanner.Err(); err != nil {
		return ModelData{}, fmt.Errorf("scan stl: %w", err)
	}
	return b.md, nil
}

func addFacet(b *builder, normal, a, c, d [3]float32) {
	if normal == ([3]float32{}) {
		normal = faceNormal(a, c, d)
	}
	var uv [2]float32
	b.vertex(a, normal, uv)
	b.vertex(c, normal, uv)
	b.vertex(d, normal, uv)
}
