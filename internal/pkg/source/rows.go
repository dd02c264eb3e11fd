package source

import (
	"fmt"
	"math"

	"go.yaml.in/yaml/v3"

	"github.com/processout/picasso/internal/pkg/model"
)

type point struct {
	key   string
	value number
}

// points of a line, either as a sequence of {key, value} mappings, or as one mapping from keys
// to values.
type points []point

func (p *points) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			var pt point
			pt.key = node.Content[i].Value
			if err := node.Content[i+1].Decode(&pt.value); err != nil {
				return err
			}

			*p = append(*p, pt)
		}

		return nil

	case yaml.SequenceNode:
		for _, item := range node.Content {
			var raw struct {
				Key   string `yaml:"key"`
				Value number `yaml:"value"`
			}

			if err := item.Decode(&raw); err != nil {
				return err
			}

			*p = append(*p, point{key: raw.Key, value: raw.Value})
		}

		return nil

	default:
		return fmt.Errorf("line %d: points should be a sequence or a mapping", node.Line)
	}
}

type field struct {
	name  string
	value number
}

// rowSpec is a bar row. Its fields keep the order of the document, which defines the order of
// the bar columns.
type rowSpec struct {
	key    string
	color  string
	fields []field
}

func (r *rowSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: a bar row should be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i].Value, node.Content[i+1]

		switch name {
		case "key":
			r.key = value.Value
		case "color":
			r.color = value.Value
		default:
			f := field{name: name}
			if err := value.Decode(&f.value); err != nil {
				return err
			}

			r.fields = append(r.fields, f)
		}
	}

	return nil
}

// colorScaleSpec colors countries without an explicit color, from their value.
type colorScaleSpec struct {
	From string   `yaml:"from"`
	To   string   `yaml:"to"`
	Min  *float64 `yaml:"min"`
	Max  *float64 `yaml:"max"`
}

func (s colorScaleSpec) build(countries []countrySpec) (model.ColorFunc, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range countries {
		if !c.Value.valid {
			continue
		}

		lo = math.Min(lo, c.Value.value)
		hi = math.Max(hi, c.Value.value)
	}

	if s.Min != nil {
		lo = *s.Min
	}

	if s.Max != nil {
		hi = *s.Max
	}

	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 0, 0
	}

	return model.ColorScale(s.From, s.To, lo, hi)
}
