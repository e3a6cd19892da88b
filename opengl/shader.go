package opengl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tiny-engine/core"
	"tiny-engine/math"
)

// Stage is a shader pipeline stage. Values match the GL shader type enums.
type Stage uint32

const (
	StageVertex         Stage = 0x8B31
	StageFragment       Stage = 0x8B30
	StageGeometry       Stage = 0x8DD9
	StageCompute        Stage = 0x91B9
	StageTessControl    Stage = 0x8E88
	StageTessEvaluation Stage = 0x8E87
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageGeometry:
		return "geometry"
	case StageCompute:
		return "compute"
	case StageTessControl:
		return "tess-control"
	case StageTessEvaluation:
		return "tess-evaluation"
	}
	return fmt.Sprintf("Stage(0x%X)", uint32(s))
}

var stageByExt = map[string]Stage{
	".vert": StageVertex,
	".vs":   StageVertex,
	".frag": StageFragment,
	".fs":   StageFragment,
	".geom": StageGeometry,
	".gs":   StageGeometry,
	".comp": StageCompute,
	".cs":   StageCompute,
	".tesc": StageTessControl,
	".tcs":  StageTessControl,
	".tese": StageTessEvaluation,
	".tes":  StageTessEvaluation,
}

// StageFromPath infers the stage from the file extension. Unknown
// extensions report ok=false and StageVertex.
func StageFromPath(path string) (stage Stage, ok bool) {
	stage, ok = stageByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return StageVertex, false
	}
	return stage, true
}

// Shader is a single compiled shader object.
type Shader struct {
	dev     *Device
	id      uint32
	created bool
	stage   Stage
}

// LoadSource creates the shader for stage and compiles src. Loading into a
// shader that already exists replaces it.
func (s *Shader) LoadSource(src string, stage Stage) error {
	s.Delete()
	drv := s.dev.drv
	s.id = drv.CreateShader(stage)
	s.created = true
	s.stage = stage
	if err := drv.CompileShader(s.id, src); err != nil {
		core.Logger().Error("shader compile failed", "stage", stage, "err", err)
		return fmt.Errorf("compile %s shader: %w", stage, err)
	}
	core.Logger().Debug("shader compiled", "stage", stage, "id", s.id)
	return nil
}

// LoadFile reads a shader source file, inferring the stage from its
// extension. Unknown extensions are compiled as vertex shaders.
func (s *Shader) LoadFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading shader: %w", err)
	}
	stage, ok := StageFromPath(path)
	if !ok {
		core.Logger().Warn("unknown shader extension, assuming vertex stage", "path", path)
	}
	if err := s.LoadSource(string(src), stage); err != nil {
		return fmt.Errorf("shader %q: %w", path, err)
	}
	return nil
}

func (s *Shader) ID() uint32    { return s.id }
func (s *Shader) Stage() Stage  { return s.stage }
func (s *Shader) Created() bool { return s.created }

// Delete releases the shader. It is safe to call more than once.
func (s *Shader) Delete() {
	if !s.created {
		return
	}
	s.dev.drv.DeleteShader(s.id)
	s.id, s.created = 0, false
}

// Program is a linked shader program. Uniform locations are cached by name.
type Program struct {
	dev       *Device
	id        uint32
	created   bool
	linked    bool
	locations map[string]int32
}

// Init creates the native program if it does not exist yet.
func (p *Program) Init() {
	if p.created {
		return
	}
	p.id = p.dev.drv.CreateProgram()
	p.created = true
	p.locations = make(map[string]int32)
}

func (p *Program) Attach(s *Shader) {
	p.Init()
	if !s.created {
		core.Logger().Warn("attaching a shader that was never loaded", "program", p.id)
		return
	}
	p.dev.drv.AttachShader(p.id, s.id)
}

func (p *Program) Link() error {
	p.Init()
	p.linked = false
	if err := p.dev.drv.LinkProgram(p.id); err != nil {
		core.Logger().Error("program link failed", "program", p.id, "err", err)
		return fmt.Errorf("link program: %w", err)
	}
	p.linked = true
	clear(p.locations)
	return nil
}

func (p *Program) Use() {
	p.Init()
	p.dev.drv.UseProgram(p.id)
}

func (p *Program) Unuse() {
	p.dev.drv.UseProgram(0)
}

func (p *Program) ID() uint32    { return p.id }
func (p *Program) Created() bool { return p.created }
func (p *Program) Linked() bool  { return p.linked }

// UniformLocation returns the location of name, or -1 if the program has no
// such active uniform.
func (p *Program) UniformLocation(name string) int32 {
	p.Init()
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.drv.UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// SetMat4 uploads a row-major matrix; the driver transposes it on upload.
// The program must be in use.
func (p *Program) SetMat4(name string, m math.FMat) {
	if loc := p.UniformLocation(name); loc >= 0 {
		arr := [16]float32(m)
		p.dev.drv.UniformMatrix4(loc, true, &arr)
	}
}

func (p *Program) SetInt(name string, v int32) {
	if loc := p.UniformLocation(name); loc >= 0 {
		p.dev.drv.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.UniformLocation(name); loc >= 0 {
		p.dev.drv.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec4(name string, v math.FVec) {
	if loc := p.UniformLocation(name); loc >= 0 {
		p.dev.drv.Uniform4f(loc, v.X, v.Y, v.Z, v.W)
	}
}

// Delete releases the program. It is safe to call more than once, and the
// program can be reused afterwards: the next Attach creates a new one.
func (p *Program) Delete() {
	if !p.created {
		return
	}
	p.dev.drv.DeleteProgram(p.id)
	p.id, p.created, p.linked = 0, false, false
	p.locations = nil
}
