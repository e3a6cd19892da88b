package scene

import (
	"errors"
	"fmt"
	"sync"

	"tiny-engine/core"
	"tiny-engine/layer"
)

var ErrSceneNotFound = errors.New("scene not found")

const (
	HandlerName = "SceneHandler"
	HandlerTag  = "SceneHandlerTag"
	KindHandler = "SCENE_HANDLER"
)

// Scene is a unit of behaviour that is active one at a time. A scene takes
// part in a phase by implementing the matching interface from package layer
// (layer.Awaker, layer.Updater, ...).
type Scene interface {
	Name() string
}

// Base gives a scene its name.
type Base struct {
	name string
}

func NewBase(name string) Base { return Base{name: name} }

func (b *Base) Name() string        { return b.name }
func (b *Base) SetName(name string) { b.name = name }

type sceneEntry struct {
	scene       Scene
	initialized bool
}

// Handler holds the registered scenes and forwards update passes to the
// active one. It is itself a layer and is registered with the layer handler
// like any other.
type Handler struct {
	layer.Base

	mu      sync.RWMutex
	scenes  []*sceneEntry
	current Scene
}

func NewHandler() *Handler {
	h := &Handler{Base: layer.NewBase(HandlerName, layer.Update|layer.LateUpdate|layer.FixedUpdate|layer.End)}
	h.SetTag(HandlerTag)
	h.SetKind(KindHandler)
	return h
}

// Add registers s. Adding nil, a scene twice, or a second scene with the
// same name logs a warning and does nothing.
func (h *Handler) Add(s Scene) {
	if s == nil {
		core.Logger().Warn("ignoring nil scene")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.scenes {
		if e.scene == s || e.scene.Name() == s.Name() {
			core.Logger().Warn("scene already registered", "name", s.Name())
			return
		}
	}
	h.scenes = append(h.scenes, &sceneEntry{scene: s})
}

// Switch makes s the active scene. The first time a scene becomes active
// its Awake and Start run, in that order.
func (h *Handler) Switch(s Scene) error {
	if s == nil {
		return fmt.Errorf("%w: nil scene", ErrSceneNotFound)
	}
	return h.activate(func(e Scene) bool { return e == s }, s.Name())
}

func (h *Handler) SwitchByName(name string) error {
	return h.activate(func(e Scene) bool { return e.Name() == name }, name)
}

func (h *Handler) activate(match func(Scene) bool, what string) error {
	h.mu.Lock()
	var found *sceneEntry
	for _, e := range h.scenes {
		if match(e.scene) {
			found = e
			break
		}
	}
	if found == nil {
		h.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSceneNotFound, what)
	}
	first := !found.initialized
	found.initialized = true
	h.mu.Unlock()

	if first {
		if a, ok := found.scene.(layer.Awaker); ok {
			a.Awake()
		}
		if s, ok := found.scene.(layer.Starter); ok {
			s.Start()
		}
	}

	h.mu.Lock()
	h.current = found.scene
	h.mu.Unlock()
	core.Logger().Info("scene switched", "name", found.scene.Name(), "first", first)
	return nil
}

// Current returns the active scene, or nil before the first switch.
func (h *Handler) Current() Scene {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

func (h *Handler) Scenes() []Scene {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Scene, len(h.scenes))
	for i, e := range h.scenes {
		out[i] = e.scene
	}
	return out
}

func (h *Handler) Update() {
	if u, ok := h.Current().(layer.Updater); ok {
		u.Update()
	}
}

func (h *Handler) LateUpdate() {
	if u, ok := h.Current().(layer.LateUpdater); ok {
		u.LateUpdate()
	}
}

func (h *Handler) FixedUpdate() {
	if u, ok := h.Current().(layer.FixedUpdater); ok {
		u.FixedUpdate()
	}
}

func (h *Handler) End() {
	if u, ok := h.Current().(layer.Ender); ok {
		u.End()
	}
}
