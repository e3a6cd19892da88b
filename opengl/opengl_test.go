package opengl

import (
	"errors"
	"image"
	"slices"
	"strconv"
	"testing"

	"tiny-engine/core"
	"tiny-engine/layer"
	"tiny-engine/math"
	"tiny-engine/model"
)

func triangle() model.ModelData {
	return model.ModelData{
		Vertices:  []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		TexCoords: []float32{0, 0, 1, 0, 0, 1},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
	}
}

func quad() model.ModelData {
	md := triangle()
	md.Vertices = append(md.Vertices, 1, 0, 0, 1, 1, 0, 0, 1, 0)
	md.TexCoords = append(md.TexCoords, 1, 0, 1, 1, 0, 1)
	md.Normals = append(md.Normals, 0, 0, 1, 0, 0, 1, 0, 0, 1)
	return md
}

func TestHandlesAreLazy(t *testing.T) {
	drv := newFakeDriver(t)
	dev := NewDevice(drv)

	a := dev.NewVertexArray()
	b := dev.NewBuffer()
	tex := dev.NewTexture()
	if len(drv.calls) != 0 {
		t.Fatalf("factories issued calls: %v", drv.calls)
	}
	if a.Created() || b.Created() || tex.Created() {
		t.Fatal("handle created before first use")
	}

	a.Bind()
	a.Bind()
	if got := drv.live["array"]; len(got) != 1 {
		t.Errorf("live arrays = %d after two binds, want 1", len(got))
	}
	if !a.Created() || a.ID() == 0 {
		t.Errorf("array not created after Bind: created=%v id=%d", a.Created(), a.ID())
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	drv := newFakeDriver(t)
	dev := NewDevice(drv)

	s := dev.NewShader()
	if err := s.LoadSource("void main() {}", StageVertex); err != nil {
		t.Fatal(err)
	}
	p := dev.NewProgram()
	p.Attach(s)
	b := dev.NewBuffer()
	b.Bind()

	for range 3 {
		s.Delete()
		p.Delete()
		b.Delete()
	}
	if n := drv.liveCount(); n != 0 {
		t.Errorf("live objects = %d, want 0", n)
	}
	if s.Created() || p.Created() || b.Created() {
		t.Error("handle still reports created after Delete")
	}

	// A deleted program can be rebuilt.
	p.Attach(s)
	if !p.Created() {
		t.Error("program not recreated after Delete")
	}
}

func TestDeviceReleaseNewestFirst(t *testing.T) {
	drv := newFakeDriver(t)
	dev := NewDevice(drv)

	first := dev.NewBuffer()
	second := dev.NewBuffer()
	unused := dev.NewBuffer()
	first.Bind()
	second.Bind()
	_ = unused

	firstID, secondID := first.ID(), second.ID()
	drv.calls = nil
	dev.Release()

	want := []string{
		"delete buffer " + itoa(secondID),
		"delete buffer " + itoa(firstID),
	}
	if !slices.Equal(drv.calls, want) {
		t.Errorf("release calls = %v, want %v", drv.calls, want)
	}

	drv.calls = nil
	dev.Release()
	if len(drv.calls) != 0 {
		t.Errorf("second Release issued calls: %v", drv.calls)
	}
}

func TestDeviceReleaseAfterReuse(t *testing.T) {
	drv := newFakeDriver(t)
	dev := NewDevice(drv)

	b := dev.NewBuffer()
	b.Bind()
	p := dev.NewProgram()
	if err := p.Link(); err != nil {
		t.Fatal(err)
	}
	dev.Release()

	b.Bind()
	if err := p.Link(); err != nil {
		t.Fatal(err)
	}
	if drv.liveCount() != 2 {
		t.Fatalf("live objects = %d after reuse, want 2", drv.liveCount())
	}
	dev.Release()
	if n := drv.liveCount(); n != 0 {
		t.Errorf("live objects after second Release = %d, want 0: %v", n, drv.live)
	}
}

func TestDeviceReleaseEverything(t *testing.T) {
	drv := newFakeDriver(t)
	dev := NewDevice(drv)

	rd := dev.NewRenderData()
	rd.AddModel(triangle())
	rd.Join()
	if err := rd.Rebind(); err != nil {
		t.Fatal(err)
	}
	s := dev.NewShader()
	if err := s.LoadSource("src", StageFragment); err != nil {
		t.Fatal(err)
	}
	p := dev.NewProgram()
	p.Attach(s)
	if err := p.Link(); err != nil {
		t.Fatal(err)
	}
	tex := dev.NewTexture()
	if err := tex.SetLayers([]*image.RGBA{image.NewRGBA(image.Rect(0, 0, 2, 2))}); err != nil {
		t.Fatal(err)
	}
	fb := dev.NewFramebuffer()
	fb.AttachColor(tex, 0)
	fb.AttachDepth(2, 2)

	dev.Release()
	if n := drv.liveCount(); n != 0 {
		t.Errorf("live objects after Release = %d, want 0: %v", n, drv.live)
	}
}

func TestReleaseOnEnd(t *testing.T) {
	drv := newFakeDriver(t)
	dev := NewDevice(drv)
	dev.NewBuffer().Bind()

	l := ReleaseOnEnd(dev)
	if l.Flags() != layer.End {
		t.Errorf("flags = %v, want End", l.Flags())
	}
	h := layer.NewHandler()
	h.Add(l)
	h.Update()
	if drv.liveCount() != 1 {
		t.Fatal("device released before End")
	}
	h.End()
	if n := drv.liveCount(); n != 0 {
		t.Errorf("live objects after End = %d, want 0", n)
	}
}

func TestStageFromPath(t *testing.T) {
	tests := []struct {
		path   string
		want   Stage
		wantOK bool
	}{
		{"basic.vert", StageVertex, true},
		{"basic.VS", StageVertex, true},
		{"shaders/basic.frag", StageFragment, true},
		{"basic.fs", StageFragment, true},
		{"basic.geom", StageGeometry, true},
		{"basic.comp", StageCompute, true},
		{"basic.tesc", StageTessControl, true},
		{"basic.tese", StageTessEvaluation, true},
		{"basic.glsl", StageVertex, false},
		{"noext", StageVertex, false},
	}
	for _, tt := range tests {
		got, ok := StageFromPath(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("StageFromPath(%q) = %v, %v, want %v, %v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestShaderCompileError(t *testing.T) {
	drv := newFakeDriver(t)
	drv.compileErr = errFake
	s := NewDevice(drv).NewShader()

	err := s.LoadSource("broken", StageFragment)
	if !errors.Is(err, errFake) {
		t.Fatalf("LoadSource err = %v, want wrapping %v", err, errFake)
	}
	if s.Stage() != StageFragment {
		t.Errorf("stage = %v, want fragment", s.Stage())
	}
}

func TestShaderReloadReplaces(t *testing.T) {
	drv := newFakeDriver(t)
	s := NewDevice(drv).NewShader()
	if err := s.LoadSource("a", StageVertex); err != nil {
		t.Fatal(err)
	}
	old := s.ID()
	if err := s.LoadSource("b", StageVertex); err != nil {
		t.Fatal(err)
	}
	if s.ID() == old {
		t.Error("reload kept the old shader id")
	}
	if got := len(drv.live["shader"]); got != 1 {
		t.Errorf("live shaders = %d, want 1", got)
	}
}

func TestProgramLinkError(t *testing.T) {
	drv := newFakeDriver(t)
	drv.linkErr = errFake
	dev := NewDevice(drv)
	s := dev.NewShader()
	if err := s.LoadSource("src", StageVertex); err != nil {
		t.Fatal(err)
	}
	p := dev.NewProgram()
	p.Attach(s)
	if err := p.Link(); !errors.Is(err, errFake) {
		t.Fatalf("Link err = %v, want wrapping %v", err, errFake)
	}
	if p.Linked() {
		t.Error("program reports linked after a failed link")
	}
}

func TestAttachUnloadedShader(t *testing.T) {
	drv := newFakeDriver(t)
	dev := NewDevice(drv)
	p := dev.NewProgram()
	p.Attach(dev.NewShader())
	if drv.has("attach") {
		t.Errorf("unloaded shader attached: %v", drv.calls)
	}
}

func TestSetMat4(t *testing.T) {
	drv := newFakeDriver(t)
	p := NewDevice(drv).NewProgram()
	if err := p.Link(); err != nil {
		t.Fatal(err)
	}
	m := math.Translate(math.Vec3[float32](1, 2, 3))

	p.SetMat4(MVPUniform, m)
	p.SetMat4(MVPUniform, m)
	p.SetMat4("u_missing", m)

	lookups, uploads := 0, 0
	for _, c := range drv.calls {
		switch c {
		case "uniform location " + MVPUniform:
			lookups++
		case "uniform mat4 3 transpose=true":
			uploads++
		}
	}
	if lookups != 1 {
		t.Errorf("location lookups = %d, want 1 (cached)", lookups)
	}
	if uploads != 2 {
		t.Errorf("uploads = %d, want 2", uploads)
	}
	if drv.matrix != [16]float32(m) {
		t.Errorf("uploaded %v, want row-major %v", drv.matrix, m)
	}
}

func TestBindPtrDefaultsToFloat(t *testing.T) {
	drv := newFakeDriver(t)
	b := NewDevice(drv).NewBuffer()
	b.BindPtr([]AttribPointer{{Index: 2, Size: 3, Stride: 12, Offset: 8}})

	if !drv.has("attrib 2 size=3 type=0x1406 stride=12 offset=8") {
		t.Errorf("calls = %v, want float attribute", drv.calls)
	}
	if !drv.has("enable 2") {
		t.Errorf("attribute 2 not enabled: %v", drv.calls)
	}
}

func TestRenderDataJoin(t *testing.T) {
	drv := newFakeDriver(t)
	rd := NewDevice(drv).NewRenderData()
	a, b := triangle(), quad()
	rd.AddModel(a)
	rd.AddModelWith(b, 3, 1, core.Color{R: 1, G: 0, B: 0, A: 1})
	rd.Join()

	nA, nB := a.VertexCount(), b.VertexCount()
	n := nA + nB
	if rd.VertexCount() != n {
		t.Errorf("VertexCount = %d, want %d", rd.VertexCount(), n)
	}

	want := [numCategories]Segment{}
	offset := 0
	for c := range numCategories {
		want[c] = Segment{Offset: offset * floatSize, Size: c.Dim() * floatSize, Len: c.Dim() * n}
		offset += c.Dim() * n
	}
	for c := range numCategories {
		if got := rd.Segment(c); got != want[c] {
			t.Errorf("segment %v = %+v, want %+v", c, got, want[c])
		}
	}
	if len(rd.Joined()) != offset {
		t.Errorf("joined len = %d, want %d", len(rd.Joined()), offset)
	}

	floats := func(c Category) []float32 {
		seg := rd.Segment(c)
		start := seg.Offset / floatSize
		return rd.Joined()[start : start+seg.Len]
	}
	if got := floats(Vertices); !slices.Equal(got, append(slices.Clone(a.Vertices), b.Vertices...)) {
		t.Errorf("vertices = %v", got)
	}
	ids := floats(TextureIDs)
	for i, id := range ids {
		want := DefaultTextureID
		if i >= nA {
			want = 3
		}
		if id != want {
			t.Errorf("texture id[%d] = %v, want %v", i, id, want)
		}
	}
	colors := floats(Colors)
	for i := 0; i < nA*4; i++ {
		if colors[i] != 1 {
			t.Fatalf("default color component %d = %v, want 1", i, colors[i])
		}
	}
	if got := colors[nA*4 : nA*4+4]; !slices.Equal(got, []float32{1, 0, 0, 1}) {
		t.Errorf("second model color = %v, want red", got)
	}
}

func TestRenderDataRebind(t *testing.T) {
	drv := newFakeDriver(t)
	rd := NewDevice(drv).NewRenderData()

	if err := rd.Rebind(); !errors.Is(err, ErrNotJoined) {
		t.Fatalf("Rebind before Join err = %v, want ErrNotJoined", err)
	}
	rd.AddModel(triangle())
	rd.Join()
	if err := rd.Rebind(); err != nil {
		t.Fatalf("Rebind: %v", err)
	}
	if len(drv.uploaded) != len(rd.Joined()) {
		t.Errorf("uploaded %d floats, want %d", len(drv.uploaded), len(rd.Joined()))
	}
	for c := range numCategories {
		seg := rd.Segment(c)
		call := "attrib " + itoa(c) +
			" size=" + itoa(c.Dim()) +
			" type=0x1406 stride=" + itoa(seg.Size) +
			" offset=" + itoa(seg.Offset)
		if !drv.has(call) {
			t.Errorf("missing %q in %v", call, drv.calls)
		}
	}

	rd.AddModel(triangle())
	if err := rd.Rebind(); !errors.Is(err, ErrNotJoined) {
		t.Errorf("Rebind after AddModel err = %v, want ErrNotJoined", err)
	}
}

func TestTextureSetLayers(t *testing.T) {
	drv := newFakeDriver(t)
	tex := NewDevice(drv).NewTexture()

	small := image.NewRGBA(image.Rect(0, 0, 2, 2))
	big := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := tex.SetLayers([]*image.RGBA{small, big}); err == nil {
		t.Error("mismatched layer sizes accepted")
	}
	if err := tex.SetLayers(nil); err == nil {
		t.Error("empty layer list accepted")
	}

	small.Pix[0] = 7
	other := image.NewRGBA(image.Rect(0, 0, 2, 2))
	other.Pix[0] = 9
	if err := tex.SetLayers([]*image.RGBA{small, other}); err != nil {
		t.Fatal(err)
	}
	if tex.Width() != 2 || tex.Height() != 2 || tex.Layers() != 2 {
		t.Errorf("size = %dx%dx%d, want 2x2x2", tex.Width(), tex.Height(), tex.Layers())
	}
	if len(drv.pixels) != 2*2*4*2 || drv.pixels[0] != 7 || drv.pixels[16] != 9 {
		t.Errorf("uploaded pixels wrong: len=%d", len(drv.pixels))
	}
	if !drv.has("teximage 2x2x2") {
		t.Errorf("calls = %v", drv.calls)
	}
}

func TestFramebufferStatus(t *testing.T) {
	drv := newFakeDriver(t)
	fb := NewDevice(drv).NewFramebuffer()
	if err := fb.Status(); err != nil {
		t.Fatalf("complete framebuffer: %v", err)
	}
	drv.status = 0x8CD6
	if err := fb.Status(); !errors.Is(err, ErrFramebufferIncomplete) {
		t.Errorf("Status err = %v, want ErrFramebufferIncomplete", err)
	}
}

func TestRendererUpdate(t *testing.T) {
	drv := newFakeDriver(t)
	dev := NewDevice(drv)
	rd := dev.NewRenderData()
	rd.AddModel(quad())
	rd.Join()
	if err := rd.Rebind(); err != nil {
		t.Fatal(err)
	}

	r := NewRenderer(dev, rd)
	if r.Flags() != layer.Update {
		t.Errorf("flags = %v, want Update", r.Flags())
	}
	r.Update()
	if drv.has("draw") {
		t.Fatal("drew with an unlinked program")
	}

	s := dev.NewShader()
	if err := s.LoadSource("src", StageVertex); err != nil {
		t.Fatal(err)
	}
	if err := r.AttachShaders([]*Shader{s}); err != nil {
		t.Fatal(err)
	}
	r.Update()
	if !drv.has("draw 0 6") {
		t.Errorf("calls = %v, want draw of 6 vertices", drv.calls)
	}
	if drv.has("uniform mat4") {
		t.Error("uploaded a matrix before SetMVP")
	}

	r.SetMVP(math.Mat4Identity[float32]())
	r.Update()
	if !drv.has("uniform mat4 3 transpose=true") {
		t.Errorf("MVP not uploaded: %v", drv.calls)
	}
}

func TestRendererLinkError(t *testing.T) {
	drv := newFakeDriver(t)
	dev := NewDevice(drv)
	r := NewRenderer(dev, dev.NewRenderData())
	drv.linkErr = errFake
	if err := r.AttachShaders(nil); !errors.Is(err, errFake) {
		t.Errorf("AttachShaders err = %v, want wrapping %v", err, errFake)
	}
}

func itoa[T ~uint32 | ~int](v T) string { return strconv.Itoa(int(v)) }
