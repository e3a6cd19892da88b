package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// objRef is one face corner: 0-based position / UV / normal indices, -1 when absent.
type objRef struct{ v, vt, vn int }

// ReadOBJ parses Wavefront OBJ geometry. Polygons are fan-triangulated and
// negative (relative) indices are resolved. Materials and groups are ignored.
func ReadOBJ(r io.Reader) (ModelData, error) {
	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
		faces     [][3]objRef
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloats3(fields[1:])
			if err != nil {
				return ModelData{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, p)

		case "vn":
			n, err := parseFloats3(fields[1:])
			if err != nil {
				return ModelData{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, n)

		case "vt":
			if len(fields) < 3 {
				return ModelData{}, fmt.Errorf("line %d: vt needs 2 values", lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 32)
			v, err2 := strconv.ParseFloat(fields[2], 32)
			if err1 != nil || err2 != nil {
				return ModelData{}, fmt.Errorf("line %d: bad texture coordinate", lineNo)
			}
			uvs = append(uvs, [2]float32{float32(u), float32(v)})

		case "f":
			if len(fields) < 4 {
				return ModelData{}, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			refs := make([]objRef, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				ref, err := parseFaceVertex(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return ModelData{}, fmt.Errorf("line %d: %w", lineNo, err)
				}
				refs = append(refs, ref)
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(refs); i++ {
				faces = append(faces, [3]objRef{refs[0], refs[i], refs[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return ModelData{}, fmt.Errorf("scan obj: %w", err)
	}

	var b builder
	for _, face := range faces {
		var pos [3][3]float32
		for c, ref := range face {
			pos[c] = positions[ref.v]
		}
		flat := faceNormal(pos[0], pos[1], pos[2])
		for c, ref := range face {
			n := flat
			if ref.vn >= 0 {
				n = normals[ref.vn]
			}
			var uv [2]float32
			if ref.vt >= 0 {
				uv = uvs[ref.vt]
			}
			b.vertex(pos[c], n, uv)
		}
	}
	return b.md, nil
}

// parseFaceVertex parses one face token: "v", "v/vt", "v//vn" or "v/vt/vn".
// OBJ indices are 1-based; negative values count back from the last element.
func parseFaceVertex(tok string, nv, nvt, nvn int) (objRef, error) {
	parts := strings.Split(tok, "/")
	ref := objRef{v: -1, vt: -1, vn: -1}
	counts := [3]int{nv, nvt, nvn}
	dst := [3]*int{&ref.v, &ref.vt, &ref.vn}
	for i := 0; i < len(parts) && i < 3; i++ {
		if parts[i] == "" {
			continue
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return objRef{}, fmt.Errorf("bad face index %q", tok)
		}
		idx := n - 1
		if n < 0 {
			idx = counts[i] + n
		}
		if n == 0 || idx < 0 || idx >= counts[i] {
			return objRef{}, fmt.Errorf("face index %d out of range in %q", n, tok)
		}
		*dst[i] = idx
	}
	if ref.v < 0 {
		return objRef{}, fmt.Errorf("face vertex %q has no position", tok)
	}
	return ref, nil
}

func parseFloats3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("need 3 values, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, fmt.Errorf("bad number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}
