// Package app runs the engine: it owns the layer stack, the scene handler
// and the window, and drives the per-frame and fixed-rate passes.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tiny-engine/core"
	"tiny-engine/layer"
	"tiny-engine/scene"
)

var ErrAlreadyRunning = errors.New("app is already running")

// App is the application context. Create it with New, register layers and
// scenes, then call Run from the main goroutine.
type App struct {
	cfg      core.Config
	platform core.Platform

	layers *layer.Handler
	scenes *scene.Handler

	running    atomic.Bool
	closed     atomic.Bool
	frame      atomic.Uint64
	fixedTicks atomic.Uint64
}

// New returns an App for cfg. Unset shutdown grace and clear color take
// their defaults.
func New(cfg core.Config, platform core.Platform) *App {
	def := core.DefaultConfig()
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = def.ShutdownGrace
	}
	if cfg.ClearColor == nil {
		cfg.ClearColor = def.ClearColor
	}
	return &App{
		cfg:      cfg,
		platform: platform,
		layers:   layer.NewHandler(),
		scenes:   scene.NewHandler(),
	}
}

func (a *App) Layers() *layer.Handler { return a.layers }
func (a *App) Scenes() *scene.Handler { return a.scenes }
func (a *App) Config() core.Config    { return a.cfg }

// Frame is the number of completed main-loop iterations.
func (a *App) Frame() uint64 { return a.frame.Load() }

// FixedTicks is the number of completed fixed updates.
func (a *App) FixedTicks() uint64 { return a.fixedTicks.Load() }

// Close asks the main loop to stop after the current frame. It is safe to
// call from any goroutine.
func (a *App) Close() { a.closed.Store(true) }

// Run opens the window and blocks until it is closed, ctx is cancelled or
// Close is called. It must be called from the goroutine that locked the OS
// thread for the platform, and only once.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		core.Logger().Warn("app run called while already running")
		return ErrAlreadyRunning
	}
	log := core.Logger()

	a.layers.Add(a.scenes)
	a.layers.Awake()

	surface, err := a.platform.CreateWindow(a.cfg.Window)
	if err != nil {
		log.Error("window creation failed", "err", err)
		return fmt.Errorf("app: %w", err)
	}
	surface.MakeCurrent()
	if err := surface.LoadFunctions(); err != nil {
		log.Error("loading graphics functions failed", "err", err)
		surface.Destroy()
		return fmt.Errorf("app: %w", err)
	}

	a.layers.Start()

	fixedCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.fixedLoop(fixedCtx, a.cfg.FixedInterval())
	}()

	log.Info("main loop started", "fixed_rate", a.cfg.FixedUpdateRate)
	clearColor := *a.cfg.ClearColor
	for !a.closed.Load() && ctx.Err() == nil && !surface.ShouldClose() {
		surface.Clear(clearColor)
		a.layers.Update()
		surface.SwapBuffers()
		a.layers.LateUpdate()
		surface.PollEvents()
		a.frame.Add(1)
	}

	a.closed.Store(true)
	a.layers.End()
	cancel()
	if !waitTimeout(&wg, a.cfg.ShutdownGrace.Duration()) {
		log.Warn("fixed update did not stop within grace period", "grace", a.cfg.ShutdownGrace.Duration())
	}
	surface.Destroy()
	log.Info("app stopped", "frames", a.Frame(), "fixed_ticks", a.FixedTicks())
	return nil
}

func (a *App) fixedLoop(ctx context.Context, interval time.Duration) {
	timer := time.NewTimer(interval)
	timer.Stop()
	defer timer.Stop()

	for !a.closed.Load() {
		start := time.Now()
		a.layers.FixedUpdate()
		a.fixedTicks.Add(1)

		wait := interval - time.Since(start)
		if wait <= 0 {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// waitTimeout waits for wg and reports whether it finished within d.
func waitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
