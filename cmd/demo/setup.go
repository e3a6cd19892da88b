package main

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"tiny-engine/app"
	"tiny-engine/core"
	gldriver "tiny-engine/internal/opengl"
	"tiny-engine/layer"
	"tiny-engine/model"
	"tiny-engine/opengl"
	"tiny-engine/textures"
)

const textureSize = 64

// builtinTriangle is drawn with layer 0 of the texture array.
var builtinTriangle = model.ModelData{
	Vertices:  []float32{-0.6, -0.5, 0, 0.6, -0.5, 0, 0, 0.6, 0},
	TexCoords: []float32{0, 0, 1, 0, 0.5, 1},
	Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
}

// setupLayer builds the GPU resources once the context is current, then
// hands the renderer to the scene.
type setupLayer struct {
	layer.Base

	ctx   context.Context
	app   *app.App
	scene *MainScene
}

func newSetupLayer(ctx context.Context, a *app.App, s *MainScene) *setupLayer {
	return &setupLayer{Base: layer.NewBase("Setup", layer.Start), ctx: ctx, app: a, scene: s}
}

func (l *setupLayer) Start() {
	dev := opengl.NewDevice(gldriver.Driver{})
	// Registered first so the device is released even if setup fails.
	l.app.Layers().Add(opengl.ReleaseOnEnd(dev))

	r, err := l.build(dev)
	if err != nil {
		core.Logger().Error("demo setup failed", "err", err)
		l.app.Close()
		return
	}
	l.app.Layers().Add(r)
	l.scene.renderer = r
}

func (l *setupLayer) build(dev *opengl.Device) (*opengl.Renderer, error) {
	cfg := l.app.Config()

	shaders, err := loadShaders(dev, cfg.Shaders)
	if err != nil {
		return nil, err
	}

	layers := []*image.RGBA{
		textures.Checker(textureSize, color.RGBA{230, 230, 230, 255}, color.RGBA{200, 60, 60, 255}),
	}
	cache := textures.NewCache()
	for _, path := range cfg.Textures {
		img := cache.GetOrDefault(path)
		layers = append(layers, textures.FlipVertical(textures.Resize(img, textureSize, textureSize)))
	}
	tex := dev.NewTexture()
	if err := tex.SetLayers(layers); err != nil {
		return nil, err
	}
	tex.SetFilter(opengl.FilterLinear, opengl.FilterLinear)

	models, err := model.LoadAll(l.ctx, cfg.Models)
	if err != nil {
		return nil, err
	}
	data := dev.NewRenderData()
	data.AddModelWith(builtinTriangle, 0, 0, core.ColorWhite)
	data.AddModelWith(offset(model.Sphere(0.3, 24, 12), 1.1, 0, 0), opengl.DefaultTextureID, 0, core.Color{R: 1, G: 0.6, B: 0.2, A: 1})
	data.AddModelWith(offset(model.Pyramid(0.5, 0.6), -1.1, 0, 0), 0, 0, core.ColorWhite)
	for i, md := range models {
		if len(cfg.Textures) == 0 {
			data.AddModel(md)
			continue
		}
		data.AddModelWith(md, 0, float32(1+i%len(cfg.Textures)), core.ColorWhite)
	}
	data.Join()
	if err := data.Rebind(); err != nil {
		return nil, err
	}

	r := opengl.NewRenderer(dev, data)
	if err := r.AttachShaders(shaders); err != nil {
		return nil, err
	}
	r.Program().Use()
	r.Program().SetInt("u_textures", 0)
	r.Program().Unuse()
	tex.Bind(0)

	core.Logger().Info("demo scene ready", "models", data.Models(), "vertices", data.VertexCount(), "texture_layers", tex.Layers())
	return r, nil
}

// loadShaders compiles the configured shader files, or the built-in pair
// when none are configured.
func loadShaders(dev *opengl.Device, paths []string) ([]*opengl.Shader, error) {
	if len(paths) == 0 {
		vs, fs := dev.NewShader(), dev.NewShader()
		if err := vs.LoadSource(vertexShaderSource, opengl.StageVertex); err != nil {
			return nil, err
		}
		if err := fs.LoadSource(fragmentShaderSource, opengl.StageFragment); err != nil {
			return nil, err
		}
		return []*opengl.Shader{vs, fs}, nil
	}

	shaders := make([]*opengl.Shader, 0, len(paths))
	for _, path := range paths {
		s := dev.NewShader()
		if err := s.LoadFile(path); err != nil {
			return nil, fmt.Errorf("loading shaders: %w", err)
		}
		shaders = append(shaders, s)
	}
	return shaders, nil
}

// offset translates every vertex of md in place and returns it.
func offset(md model.ModelData, x, y, z float32) model.ModelData {
	for i := 0; i+2 < len(md.Vertices); i += 3 {
		md.Vertices[i] += x
		md.Vertices[i+1] += y
		md.Vertices[i+2] += z
	}
	return md
}
