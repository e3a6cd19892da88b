package main

import (
	"context"
	"flag"
	"fmt"
	stdmath "math"
	"os"
	"os/signal"
	"syscall"

	"tiny-engine/app"
	"tiny-engine/core"
	"tiny-engine/internal/platform"
	"tiny-engine/math"
	"tiny-engine/opengl"
	"tiny-engine/scene"
)

// MainScene spins the rendered geometry at a fixed angular speed.
type MainScene struct {
	scene.Base

	renderer  *opengl.Renderer
	transform math.Transform
	viewProj  math.FMat
	step      float32
}

func NewMainScene(cfg core.Config) *MainScene {
	cam := scene.NewOrbitCamera(math.Vec3[float32](0, 0, 0), 3, math.ToRadians[float32](60), 1)
	cam.UpdateAspectRatio(float32(cfg.Window.Width), float32(cfg.Window.Height))
	// a quarter turn per second
	step := float32(cfg.FixedInterval().Seconds() * stdmath.Pi / 2)
	return &MainScene{
		Base:      scene.NewBase("MainScene"),
		transform: math.NewTransform(),
		viewProj:  cam.ViewProjection(),
		step:      step,
	}
}

func (s *MainScene) Start() {
	fmt.Println("MainScene started")
}

// FixedUpdate runs on the fixed-rate goroutine.
func (s *MainScene) FixedUpdate() {
	if s.renderer == nil {
		return
	}
	rot := s.transform.Rotation()
	rot.Y += s.step
	s.transform.SetRotation(rot)
	s.renderer.SetMVP(s.viewProj.Mul(s.transform.Matrix()))
}

func (s *MainScene) End() {
	fmt.Println("MainScene ended")
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := core.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = core.LoadConfig(configPath); err != nil {
			return err
		}
	}
	core.SetLogger(core.NewLogger(os.Stderr, cfg.Level()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, platform.GLFWPlatform{CloseKey: platform.KeyEscape})
	mainScene := NewMainScene(cfg)
	a.Layers().Add(newSetupLayer(ctx, a, mainScene))
	a.Scenes().Add(mainScene)
	if err := a.Scenes().Switch(mainScene); err != nil {
		return err
	}
	return a.Run(ctx)
}
