package opengl

import (
	"errors"
	"fmt"

	"tiny-engine/core"
	"tiny-engine/model"
)

var ErrNotJoined = errors.New("render data not joined since last AddModel")

const (
	DefaultTextureID    float32 = 32
	DefaultTextureLayer float32 = 0
)

const floatSize = 4

// Category is one per-vertex attribute stream of a RenderData. Its value is
// also the attribute location used by Rebind.
type Category int

const (
	Vertices Category = iota
	TexCoords
	Normals
	TextureIDs
	TextureLayers
	Colors

	numCategories
)

var categoryDims = [numCategories]int{3, 2, 3, 1, 1, 4}

var categoryNames = [numCategories]string{"vertices", "texcoords", "normals", "texture ids", "texture layers", "colors"}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Dim is the number of floats per vertex in the category.
func (c Category) Dim() int { return categoryDims[c] }

// Segment locates one category inside the joined buffer.
type Segment struct {
	Offset int // bytes from the start of the joined buffer
	Size   int // bytes per vertex, used as the attribute stride
	Len    int // floats in the segment
}

// RenderData aggregates models into a single buffer. Each category is laid
// out contiguously for all models (every vertex, then every texcoord, and so
// on), not interleaved per vertex.
//
// Join must be called after the last AddModel and before Rebind.
type RenderData struct {
	array  *VertexArray
	buffer *Buffer

	models        []model.ModelData
	textureIDs    []float32
	textureLayers []float32
	colors        []float32

	joined      []float32
	segments    [numCategories]Segment
	vertexCount int
	stale       bool
}

func (d *Device) NewRenderData() *RenderData {
	rd := &RenderData{array: d.NewVertexArray(), buffer: d.NewBuffer(), stale: true}
	d.own(rd)
	return rd
}

// AddModel appends md with texture id 32, layer 0 and opaque white for
// every vertex.
func (rd *RenderData) AddModel(md model.ModelData) {
	rd.AddModelWith(md, DefaultTextureID, DefaultTextureLayer, core.ColorWhite)
}

// AddModelWith appends md with the given texture id, texture layer and
// color for every vertex.
func (rd *RenderData) AddModelWith(md model.ModelData, textureID, textureLayer float32, c core.Color) {
	rd.models = append(rd.models, md)
	for i := 0; i < md.VertexCount(); i++ {
		rd.textureIDs = append(rd.textureIDs, textureID)
		rd.textureLayers = append(rd.textureLayers, textureLayer)
		rd.colors = append(rd.colors, c.R, c.G, c.B, c.A)
	}
	rd.stale = true
}

// Join concatenates every category across all models into one buffer and
// records where each category starts.
func (rd *RenderData) Join() {
	rd.joined = rd.joined[:0]
	rd.vertexCount = 0
	for _, md := range rd.models {
		rd.vertexCount += md.VertexCount()
	}

	streams := [numCategories]func(){
		Vertices: func() {
			for _, md := range rd.models {
				rd.joined = append(rd.joined, md.Vertices...)
			}
		},
		TexCoords: func() {
			for _, md := range rd.models {
				rd.joined = append(rd.joined, md.TexCoords...)
			}
		},
		Normals: func() {
			for _, md := range rd.models {
				rd.joined = append(rd.joined, md.Normals...)
			}
		},
		TextureIDs:    func() { rd.joined = append(rd.joined, rd.textureIDs...) },
		TextureLayers: func() { rd.joined = append(rd.joined, rd.textureLayers...) },
		Colors:        func() { rd.joined = append(rd.joined, rd.colors...) },
	}
	for c, appendStream := range streams {
		start := len(rd.joined)
		appendStream()
		rd.segments[c] = Segment{
			Offset: start * floatSize,
			Size:   categoryDims[c] * floatSize,
			Len:    len(rd.joined) - start,
		}
	}
	rd.stale = false
}

// Rebind uploads the joined buffer and points the six vertex attributes
// (locations 0 to 5, in Category order) at their segments.
func (rd *RenderData) Rebind() error {
	if rd.stale {
		return ErrNotJoined
	}
	rd.array.Bind()
	rd.buffer.BindData(rd.joined)
	ptrs := make([]AttribPointer, numCategories)
	for c := range numCategories {
		seg := rd.segments[c]
		ptrs[c] = AttribPointer{
			Index:  uint32(c),
			Size:   int32(categoryDims[c]),
			Type:   TypeFloat,
			Stride: int32(seg.Size),
			Offset: seg.Offset,
		}
	}
	rd.buffer.BindPtr(ptrs)
	rd.array.Unbind()
	core.Logger().Debug("render data rebound", "models", len(rd.models), "vertices", rd.vertexCount, "floats", len(rd.joined))
	return nil
}

// Segment returns the layout of c as of the last Join.
func (rd *RenderData) Segment(c Category) Segment { return rd.segments[c] }

// VertexCount is the number of vertices present at the last Join.
func (rd *RenderData) VertexCount() int { return rd.vertexCount }

// Joined returns the buffer built by the last Join. It must not be modified.
func (rd *RenderData) Joined() []float32 { return rd.joined }

func (rd *RenderData) Models() int { return len(rd.models) }

func (rd *RenderData) Bind()   { rd.array.Bind() }
func (rd *RenderData) Unbind() { rd.array.Unbind() }

// Delete releases the vertex array and buffer. Added models are kept, so a
// later Rebind recreates them.
func (rd *RenderData) Delete() {
	rd.array.Delete()
	rd.buffer.Delete()
}
