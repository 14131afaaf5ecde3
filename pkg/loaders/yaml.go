package loaders

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Treecase/Raytracer/pkg/core"
)

// yamlWorld is the top level of a YAML scene:
//
//	surfaces:
//	  - points: [[-1, -1, 0], [1, -1, 0], [-1, 1, 0]]
//	    colour: [200, 100, 50]
//	lights:
//	  - position: [0, 0, -5]
//	    color: "ff ff ff"
type yamlWorld struct {
	Surfaces []yamlEntity `yaml:"surfaces"`
	Lights   []yamlEntity `yaml:"lights"`
}

type yamlEntity struct {
	Kind     string      `yaml:"kind"`
	Points   [][]float64 `yaml:"points"`
	Position []float64   `yaml:"position"`
	Colour   yamlColour  `yaml:"colour"`
	Color    yamlColour  `yaml:"color"`
	line     int
}

// yamlColour accepts either a [r, g, b] sequence or a "rr gg bb" string
type yamlColour struct {
	spec core.ColorSpec
}

func (c *yamlColour) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		c.spec = core.ColorSpec{Hex: value.Value}
		return nil
	case yaml.SequenceNode:
		var channels []int
		if err := value.Decode(&channels); err != nil {
			return err
		}
		if len(channels) != 3 {
			return fmt.Errorf("line %d: colour needs 3 channels, got %d", value.Line, len(channels))
		}
		c.spec = core.ColorSpec{Triple: &[3]int{channels[0], channels[1], channels[2]}}
		return nil
	default:
		return fmt.Errorf("line %d: colour must be a sequence or a hex string", value.Line)
	}
}

// entityFields are the keys a surface or light mapping may use
var entityFields = map[string]bool{
	"kind":     true,
	"points":   true,
	"position": true,
	"colour":   true,
	"color":    true,
}

func (e *yamlEntity) UnmarshalYAML(value *yaml.Node) error {
	// A custom unmarshaller does not inherit the decoder's KnownFields
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if !entityFields[key.Value] {
				return fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
			}
		}
	}

	// plain avoids recursing into this method
	type plain yamlEntity
	if err := value.Decode((*plain)(e)); err != nil {
		return err
	}
	e.line = value.Line
	return nil
}

// ParseYAML parses a YAML scene with "surfaces" and "lights" lists.
// Surfaces default to kind Quad and lights to PointLight.
func ParseYAML(reader io.Reader) ([]Descriptor, error) {
	var world yamlWorld
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&world); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid YAML scene: %w", err)
	}

	var descriptors []Descriptor
	for i, entity := range world.Surfaces {
		desc, err := entity.descriptor(KindQuad)
		if err != nil {
			return nil, fmt.Errorf("surface %d: %w", i+1, err)
		}
		descriptors = append(descriptors, desc)
	}
	for i, entity := range world.Lights {
		desc, err := entity.descriptor(KindPointLight)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i+1, err)
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

// descriptor converts the entity, using defaultKind when none is given
func (e yamlEntity) descriptor(defaultKind string) (Descriptor, error) {
	desc := Descriptor{Kind: e.Kind, Line: e.line}
	if desc.Kind == "" {
		desc.Kind = defaultKind
	}

	switch {
	case !e.Colour.spec.IsZero() && !e.Color.spec.IsZero():
		return desc, fmt.Errorf("line %d: both colour and color given", e.line)
	case !e.Colour.spec.IsZero():
		desc.Colour = e.Colour.spec
	default:
		desc.Colour = e.Color.spec
	}

	if e.Position != nil && e.Points != nil {
		return desc, fmt.Errorf("line %d: both position and points given", e.line)
	}
	coords := e.Points
	if e.Position != nil {
		coords = [][]float64{e.Position}
	}
	for _, c := range coords {
		if len(c) != 3 {
			return desc, fmt.Errorf("line %d: point %v needs 3 coordinates", e.line, c)
		}
		desc.Points = append(desc.Points, core.NewVec3(c[0], c[1], c[2]))
	}

	return desc, nil
}
