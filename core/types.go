package core

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}

	DefaultClearColor = Color{0.1, 0.1, 0.1, 1}
)

// UnmarshalYAML accepts either a sequence [r, g, b] / [r, g, b, a] or a
// mapping with r, g, b, a keys. Alpha defaults to 1.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var rgba []float32
		if err := value.Decode(&rgba); err != nil {
			return err
		}
		if len(rgba) != 3 && len(rgba) != 4 {
			return fmt.Errorf("color needs 3 or 4 components, got %d", len(rgba))
		}
		*c = Color{R: rgba[0], G: rgba[1], B: rgba[2], A: 1}
		if len(rgba) == 4 {
			c.A = rgba[3]
		}
		return nil
	case yaml.MappingNode:
		m := struct {
			R, G, B float32
			A       *float32
		}{}
		if err := value.Decode(&m); err != nil {
			return err
		}
		*c = Color{R: m.R, G: m.G, B: m.B, A: 1}
		if m.A != nil {
			c.A = *m.A
		}
		return nil
	}
	return fmt.Errorf("line %d: color must be a sequence or mapping", value.Line)
}

func (c Color) RGBA() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
