package layer

import (
	"errors"
	"fmt"
	"sync"

	"tiny-engine/core"
)

var ErrLayerNotFound = errors.New("layer not found")

type entry struct {
	layer    Layer
	awakened bool
	started  bool
}

// Handler owns an ordered list of layers and dispatches update passes to
// them in registration order. It is safe for concurrent use: passes iterate
// a snapshot, so a callback may add or remove layers.
type Handler struct {
	mu      sync.RWMutex
	entries []*entry
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Add(l Layer) {
	h.mu.Lock()
	h.entries = append(h.entries, &entry{layer: l})
	h.mu.Unlock()
	core.Logger().Debug("layer added", "name", l.Name(), "kind", l.Kind(), "flags", l.Flags())
}

// Remove removes l, compared by identity.
func (h *Handler) Remove(l Layer) error {
	return h.removeFirst(func(e Layer) bool { return e == l }, "layer "+l.Name())
}

// RemoveByName removes the first layer named name.
func (h *Handler) RemoveByName(name string) error {
	return h.removeFirst(func(e Layer) bool { return e.Name() == name }, "name "+name)
}

// RemoveByTag removes the first layer tagged tag.
func (h *Handler) RemoveByTag(tag string) error {
	return h.removeFirst(func(e Layer) bool { return e.Tag() == tag }, "tag "+tag)
}

func (h *Handler) removeFirst(match func(Layer) bool, what string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, e := range h.entries {
		if match(e.layer) {
			h.entries = append(h.entries[:i:i], h.entries[i+1:]...)
			core.Logger().Debug("layer removed", "name", e.layer.Name())
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLayerNotFound, what)
}

func (h *Handler) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Layers returns the registered layers in order.
func (h *Handler) Layers() []Layer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Layer, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.layer
	}
	return out
}

func (h *Handler) snapshot() []*entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*entry(nil), h.entries...)
}

// Awake runs Awake on every flagged layer that has not been awakened yet.
func (h *Handler) Awake() {
	for _, e := range h.snapshot() {
		if !h.claim(e, Awake, &e.awakened) {
			continue
		}
		if a, ok := e.layer.(Awaker); ok {
			a.Awake()
		}
	}
}

// Start runs Start on every flagged layer that has not been started yet.
// Each layer starts at most once over the lifetime of the handler.
func (h *Handler) Start() {
	for _, e := range h.snapshot() {
		if !h.claim(e, Start, &e.started) {
			continue
		}
		if s, ok := e.layer.(Starter); ok {
			s.Start()
		}
	}
}

// claim marks a one-shot phase as fired and reports whether the caller
// should run it.
func (h *Handler) claim(e *entry, phase Flags, fired *bool) bool {
	if !e.layer.Flags().Has(phase) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if *fired {
		return false
	}
	*fired = true
	return true
}

func (h *Handler) Update() {
	for _, e := range h.snapshot() {
		if u, ok := e.layer.(Updater); ok && e.layer.Flags().Has(Update) {
			u.Update()
		}
	}
}

func (h *Handler) LateUpdate() {
	for _, e := range h.snapshot() {
		if u, ok := e.layer.(LateUpdater); ok && e.layer.Flags().Has(LateUpdate) {
			u.LateUpdate()
		}
	}
}

func (h *Handler) FixedUpdate() {
	for _, e := range h.snapshot() {
		if u, ok := e.layer.(FixedUpdater); ok && e.layer.Flags().Has(FixedUpdate) {
			u.FixedUpdate()
		}
	}
}

func (h *Handler) End() {
	for _, e := range h.snapshot() {
		if u, ok := e.layer.(Ender); ok && e.layer.Flags().Has(End) {
			u.End()
		}
	}
}
