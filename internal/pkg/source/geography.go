package source

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/processout/picasso/internal/pkg/layout"
)

// Geography holds pre-projected features, read from a JSON (or YAML) list of {id, path} objects.
//
// Paths are SVG path data, projected by an external tool for the size of the chart.
type Geography struct {
	Name    string    `yaml:"name"`
	Regions []feature `yaml:"features"`
}

type feature struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// LoadGeography reads a geography file.
func LoadGeography(file string) (*Geography, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("geography %q: %w", file, err)
	}
	defer func() {
		_ = f.Close()
	}()

	geo, err := ReadGeography(f)
	if err != nil {
		return nil, fmt.Errorf("geography %q: %w", file, err)
	}

	return geo, nil
}

// ReadGeography decodes a geography: either a bare list of features, or an object with a name and
// a list of features.
func ReadGeography(r io.Reader) (*Geography, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading geography: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(content, &node); err != nil {
		return nil, fmt.Errorf("decoding geography: %w", err)
	}

	geo := &Geography{}
	if len(node.Content) == 0 {
		return geo, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		err = root.Decode(&geo.Regions)
	} else {
		err = root.Decode(geo)
	}

	if err != nil {
		return nil, fmt.Errorf("decoding geography: %w", err)
	}

	for i, f := range geo.Regions {
		if f.ID == "" {
			return nil, fmt.Errorf("decoding geography: features[%d] has no id", i)
		}
	}

	return geo, nil
}

// Features implements [layout.Geography]. Paths are used as is, whatever the size.
func (g *Geography) Features(_, _ float64) []layout.Feature {
	features := make([]layout.Feature, 0, len(g.Regions))
	for _, f := range g.Regions {
		features = append(features, layout.Feature(f))
	}

	return features
}
