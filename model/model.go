// Package model loads mesh files into flat, non-indexed triangle lists.
package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"tiny-engine/core"
	emath "tiny-engine/math"
)

var ErrUnsupportedFormat = errors.New("unsupported model format")

// ModelData is a triangle soup: every three vertices form one triangle.
// Vertices and Normals hold 3 floats per vertex, TexCoords holds 2.
// Normals and TexCoords are zero-filled when the source has none.
type ModelData struct {
	Vertices  []float32
	TexCoords []float32
	Normals   []float32
}

func (m ModelData) VertexCount() int { return len(m.Vertices) / 3 }
func (m ModelData) Empty() bool      { return len(m.Vertices) == 0 }

type Format int

const (
	FormatUnknown Format = iota
	FormatPLY
	FormatOBJ
	FormatSTL
	FormatGLTF
)

func (f Format) String() string {
	switch f {
	case FormatPLY:
		return "ply"
	case FormatOBJ:
		return "obj"
	case FormatSTL:
		return "stl"
	case FormatGLTF:
		return "gltf"
	}
	return "unknown"
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		return FormatPLY
	case ".obj":
		return FormatOBJ
	case ".stl":
		return FormatSTL
	case ".gltf", ".glb":
		return FormatGLTF
	}
	return FormatUnknown
}

// Load reads the model at path. An unrecognized extension logs a warning and
// returns an empty ModelData with an error wrapping ErrUnsupportedFormat.
func Load(path string) (ModelData, error) {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		core.Logger().Warn("cannot find model extension type, returning nothing", "path", path)
		return ModelData{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	var (
		md  ModelData
		err error
	)
	if format == FormatGLTF {
		md, err = loadGLTF(path)
	} else {
		md, err = loadFile(path, format)
	}
	if err != nil {
		return ModelData{}, fmt.Errorf("load %s model %q: %w", format, path, err)
	}
	core.Logger().Debug("model loaded", "path", path, "vertices", md.VertexCount())
	return md, nil
}

func loadFile(path string, format Format) (ModelData, error) {
	f, err := os.Open(path)
	if err != nil {
		return ModelData{}, err
	}
	defer f.Close()

	switch format {
	case FormatOBJ:
		return ReadOBJ(f)
	case FormatSTL:
		return ReadSTL(f)
	case FormatPLY:
		return ReadPLY(f)
	}
	return ModelData{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// LoadAll loads every path concurrently and returns the results in input
// order. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string) ([]ModelData, error) {
	out := make([]ModelData, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			md, err := Load(path)
			if err != nil {
				return err
			}
			out[i] = md
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// builder accumulates triangle-soup attributes.
type builder struct {
	md ModelData
}

func (b *builder) vertex(pos, normal [3]float32, uv [2]float32) {
	b.md.Vertices = append(b.md.Vertices, pos[0], pos[1], pos[2])
	b.md.Normals = append(b.md.Normals, normal[0], normal[1], normal[2])
	b.md.TexCoords = append(b.md.TexCoords, uv[0], uv[1])
}

// faceNormal returns the unit normal of triangle a, b, c wound
// counter-clockwise, or zero for a degenerate triangle.
func faceNormal(a, b, c [3]float32) [3]float32 {
	n := vec3(b).Sub(vec3(a)).Cross(vec3(c).Sub(vec3(a)))
	if n.Length() == 0 {
		return [3]float32{}
	}
	n = n.Normalize()
	return [3]float32{n.X, n.Y, n.Z}
}

func vec3(p [3]float32) emath.FVec { return emath.Vec3(p[0], p[1], p[2]) }
