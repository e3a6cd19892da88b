package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tiny-engine/core"
	"tiny-engine/layer"
)

type trace struct {
	mu    sync.Mutex
	calls []string
}

func (t *trace) add(call string) {
	t.mu.Lock()
	t.calls = append(t.calls, call)
	t.mu.Unlock()
}

func (t *trace) snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.calls)
}

type fakeSurface struct {
	tr         *trace
	frames     int
	shouldStop func(frames int) bool
	loadErr    error
	cleared    core.Color
}

func (s *fakeSurface) MakeCurrent() { s.tr.add("MakeCurrent") }

func (s *fakeSurface) LoadFunctions() error {
	s.tr.add("LoadFunctions")
	return s.loadErr
}

func (s *fakeSurface) ShouldClose() bool {
	s.tr.add("ShouldClose")
	return s.shouldStop != nil && s.shouldStop(s.frames)
}

func (s *fakeSurface) Clear(c core.Color) {
	s.tr.add("Clear")
	s.cleared = c
}

func (s *fakeSurface) SwapBuffers() { s.tr.add("SwapBuffers") }

func (s *fakeSurface) PollEvents() {
	s.tr.add("PollEvents")
	s.frames++
	time.Sleep(100 * time.Microsecond)
}

func (s *fakeSurface) Destroy() { s.tr.add("Destroy") }

type fakePlatform struct {
	tr        *trace
	surface   *fakeSurface
	createErr error
}

func (p *fakePlatform) CreateWindow(core.WindowConfig) (core.Surface, error) {
	p.tr.add("CreateWindow")
	if p.createErr != nil {
		return nil, p.createErr
	}
	return p.surface, nil
}

func newFakes(stop func(frames int) bool) (*trace, *fakePlatform) {
	tr := &trace{}
	return tr, &fakePlatform{tr: tr, surface: &fakeSurface{tr: tr, shouldStop: stop}}
}

func closeAfter(n int) func(int) bool {
	return func(frames int) bool { return frames >= n }
}

// tracer records its one-shot and per-frame phases into a trace and counts
// fixed updates, which arrive on another goroutine.
type tracer struct {
	layer.Base
	tr       *trace
	fixed    atomic.Int64
	onUpdate func()
}

func newTracer(tr *trace) *tracer {
	return &tracer{Base: layer.NewBase("tracer", layer.All), tr: tr}
}

func (l *tracer) Awake()      { l.tr.add("Awake") }
func (l *tracer) Start()      { l.tr.add("Start") }
func (l *tracer) LateUpdate() { l.tr.add("LateUpdate") }
func (l *tracer) End()        { l.tr.add("End") }

func (l *tracer) Update() {
	l.tr.add("Update")
	if l.onUpdate != nil {
		l.onUpdate()
	}
}

func (l *tracer) FixedUpdate() { l.fixed.Add(1) }

func testConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.FixedUpdateRate = 1000
	return cfg
}

func TestRunOrder(t *testing.T) {
	tr, platform := newFakes(closeAfter(2))
	a := New(testConfig(), platform)
	a.Layers().Add(newTracer(tr))

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	frame := []string{"ShouldClose", "Clear", "Update", "SwapBuffers", "LateUpdate", "PollEvents"}
	want := []string{"Awake", "CreateWindow", "MakeCurrent", "LoadFunctions", "Start"}
	want = append(want, frame...)
	want = append(want, frame...)
	want = append(want, "ShouldClose", "End", "Destroy")
	if got := tr.snapshot(); !slices.Equal(got, want) {
		t.Errorf("trace =\n%v\nwant\n%v", got, want)
	}
	if a.Frame() != 2 {
		t.Errorf("Frame = %d, want 2", a.Frame())
	}
	if platform.surface.cleared != core.DefaultClearColor {
		t.Errorf("cleared with %v, want %v", platform.surface.cleared, core.DefaultClearColor)
	}
}

func TestRunWindowCreateFailure(t *testing.T) {
	tr, platform := newFakes(nil)
	platform.createErr = fmt.Errorf("%w: no display", core.ErrWindowCreate)
	a := New(testConfig(), platform)
	a.Layers().Add(newTracer(tr))

	err := a.Run(context.Background())
	if !errors.Is(err, core.ErrWindowCreate) {
		t.Fatalf("Run err = %v, want ErrWindowCreate", err)
	}
	if got, want := tr.snapshot(), []string{"Awake", "CreateWindow"}; !slices.Equal(got, want) {
		t.Errorf("trace = %v, want %v", got, want)
	}
}

func TestRunLoadFunctionsFailure(t *testing.T) {
	tr, platform := newFakes(nil)
	platform.surface.loadErr = core.ErrLoadFunctions
	a := New(testConfig(), platform)
	a.Layers().Add(newTracer(tr))

	err := a.Run(context.Background())
	if !errors.Is(err, core.ErrLoadFunctions) {
		t.Fatalf("Run err = %v, want ErrLoadFunctions", err)
	}
	want := []string{"Awake", "CreateWindow", "MakeCurrent", "LoadFunctions", "Destroy"}
	if got := tr.snapshot(); !slices.Equal(got, want) {
		t.Errorf("trace = %v, want %v", got, want)
	}
	if a.Frame() != 0 {
		t.Errorf("Frame = %d, want 0", a.Frame())
	}
}

func TestFixedUpdateCadence(t *testing.T) {
	var a *App
	deadline := time.Now().Add(5 * time.Second)
	tr, platform := newFakes(func(int) bool {
		return a.FixedTicks() >= 5 || time.Now().After(deadline)
	})
	a = New(testConfig(), platform)
	l := newTracer(tr)
	a.Layers().Add(l)

	start := time.Now()
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	elapsed := time.Since(start)

	ticks := a.FixedTicks()
	if ticks < 5 {
		t.Fatalf("FixedTicks = %d, want at least 5", ticks)
	}
	// One tick per millisecond, plus the immediate first tick.
	if limit := uint64(elapsed/time.Millisecond) + 2; ticks > limit {
		t.Errorf("FixedTicks = %d in %v, want at most %d", ticks, elapsed, limit)
	}
	if got := l.fixed.Load(); uint64(got) != ticks {
		t.Errorf("layer saw %d fixed updates, app counted %d", got, ticks)
	}
}

func TestRunTwice(t *testing.T) {
	_, platform := newFakes(nil)
	a := New(testConfig(), platform)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	for a.Frame() == 0 {
		time.Sleep(time.Millisecond)
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run err = %v, want ErrAlreadyRunning", err)
	}

	a.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}

	if err := a.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run after stop err = %v, want ErrAlreadyRunning", err)
	}
}

func TestRunContextCancel(t *testing.T) {
	tr, platform := newFakes(nil)
	a := New(testConfig(), platform)
	a.Layers().Add(newTracer(tr))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for a.Frame() < 3 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := tr.snapshot()
	if tail := got[len(got)-2:]; !slices.Equal(tail, []string{"End", "Destroy"}) {
		t.Errorf("trace ends with %v, want End, Destroy", tail)
	}
}

func TestCloseFromLayer(t *testing.T) {
	tr, platform := newFakes(nil)
	a := New(testConfig(), platform)
	l := newTracer(tr)
	updates := 0
	l.onUpdate = func() {
		updates++
		if updates == 3 {
			a.Close()
		}
	}
	a.Layers().Add(l)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", a.Frame())
	}
}

func TestNewDefaults(t *testing.T) {
	a := New(core.Config{}, &fakePlatform{})
	cfg := a.Config()
	if cfg.ShutdownGrace.Duration() != time.Second {
		t.Errorf("ShutdownGrace = %v, want 1s", cfg.ShutdownGrace.Duration())
	}
	if cfg.ClearColor == nil || *cfg.ClearColor != core.DefaultClearColor {
		t.Errorf("ClearColor = %v, want default", cfg.ClearColor)
	}
	if a.Scenes() == nil || a.Layers().Len() != 0 {
		t.Error("new app should have a scene handler and no layers")
	}
}
