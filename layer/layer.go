package layer

import "strings"

// Flags selects the update phases a layer participates in.
type Flags uint8

const (
	Awake Flags = 1 << iota
	Start
	Update
	LateUpdate
	FixedUpdate
	End

	None Flags = 0
	All        = Awake | Start | Update | LateUpdate | FixedUpdate | End
)

var flagNames = [...]string{"Awake", "Start", "Update", "LateUpdate", "FixedUpdate", "End"}

// Has reports whether every bit of o is set in f.
func (f Flags) Has(o Flags) bool { return f&o == o }

func (f Flags) String() string {
	if f == None {
		return "None"
	}
	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// Layer is an update-phase participant. Which callbacks run is decided by
// Flags together with the phase interfaces the layer implements.
type Layer interface {
	Name() string
	Tag() string
	Kind() string
	Flags() Flags
}

type Awaker interface{ Awake() }
type Starter interface{ Start() }
type Updater interface{ Update() }
type LateUpdater interface{ LateUpdate() }

// FixedUpdater runs on the fixed-rate goroutine, not the render goroutine.
type FixedUpdater interface{ FixedUpdate() }

type Ender interface{ End() }

const (
	DefaultName = "N_DEF"
	DefaultTag  = "T_DEF"
	KindLayer   = "T_LAYER"
)

// Base implements the identity half of Layer. Embed it in concrete layers.
// Setters are not synchronized; call them before the layer is registered.
type Base struct {
	name  string
	tag   string
	kind  string
	flags Flags
}

func NewBase(name string, flags Flags) Base {
	return Base{name: name, tag: DefaultTag, kind: KindLayer, flags: flags}
}

func (b *Base) Name() string {
	if b.name == "" {
		return DefaultName
	}
	return b.name
}

func (b *Base) Tag() string {
	if b.tag == "" {
		return DefaultTag
	}
	return b.tag
}

func (b *Base) Kind() string {
	if b.kind == "" {
		return KindLayer
	}
	return b.kind
}

func (b *Base) Flags() Flags { return b.flags }

func (b *Base) SetName(name string)  { b.name = name }
func (b *Base) SetTag(tag string)    { b.tag = tag }
func (b *Base) SetKind(kind string)  { b.kind = kind }
func (b *Base) SetFlags(flags Flags) { b.flags = flags }
