package model

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"tiny-engine/core"
)

// loadGLTF flattens every triangle primitive of a .gltf or .glb file into one
// triangle soup. Node transforms, materials and textures are not applied.
func loadGLTF(path string) (ModelData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return ModelData{}, fmt.Errorf("gltf open: %w", err)
	}
	return readGLTF(doc)
}

func readGLTF(doc *gltf.Document) (ModelData, error) {
	var b builder
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				core.Logger().Warn("gltf: skipping non-triangle primitive", "mesh", mi, "primitive", pi, "mode", prim.Mode)
				continue
			}
			if err := appendPrimitive(&b, doc, prim); err != nil {
				return ModelData{}, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}
	return b.md, nil
}

func appendPrimitive(b *builder, doc *gltf.Document, prim *gltf.Primitive) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var (
		normals [][3]float32
		uvs     [][2]float32
	)
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acc, nil); err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if acc, err = accessor(doc, *prim.Indices); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
		if indices, err = modeler.ReadIndices(doc, acc, nil); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for t := 0; t+2 < len(indices); t += 3 {
		tri := [3]uint32{indices[t], indices[t+1], indices[t+2]}
		for _, idx := range tri {
			if int(idx) >= len(positions) {
				return fmt.Errorf("index %d out of range", idx)
			}
		}
		flat := faceNormal(positions[tri[0]], positions[tri[1]], positions[tri[2]])
		for _, idx := range tri {
			n := flat
			if int(idx) < len(normals) {
				n = normals[idx]
			}
			var uv [2]float32
			if int(idx) < len(uvs) {
				uv = uvs[idx]
			}
			b.vertex(positions[idx], n, uv)
		}
	}
	return nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}
