// Package source loads chart documents and geographies from files.
package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/processout/picasso/internal/pkg/model"
)

// Kind of chart described by a document.
type Kind string

// Supported chart kinds.
const (
	KindBarLine Kind = "barline"
	KindPie     Kind = "pie"
	KindMap     Kind = "map"
)

// IsValid reports whether the kind is supported.
func (k Kind) IsValid() bool {
	switch k {
	case KindBarLine, KindPie, KindMap:
		return true
	default:
		return false
	}
}

// ErrInvalidDocument is returned when a chart document cannot be used.
var ErrInvalidDocument = errors.New("invalid chart document")

// Document is a chart described in a YAML file.
type Document struct {
	Name string
	Kind Kind
	// Options holds the raw chart options of the document, to be decoded on top of the
	// configured ones.
	Options any

	Lines     []model.LineInput
	Bars      []model.BarInput
	Slices    []model.SliceInput
	Countries []model.CountryInput

	// Geography is the path of the geography file of a map, relative to the working directory.
	Geography string
}

type document struct {
	Name       string          `yaml:"name"`
	Kind       Kind            `yaml:"kind"`
	Options    yaml.Node       `yaml:"options"`
	Lines      []lineSpec      `yaml:"lines"`
	Bars       []barSpec       `yaml:"bars"`
	Slices     []sliceSpec     `yaml:"slices"`
	Countries  []countrySpec   `yaml:"countries"`
	ColorScale *colorScaleSpec `yaml:"colorScale"`
	Geography  string          `yaml:"geography"`
}

type lineSpec struct {
	Name           string         `yaml:"name"`
	Color          string         `yaml:"color"`
	TimeLayout     string         `yaml:"timeLayout"`
	DotOutsideSize *float64       `yaml:"dotOutsideSize"`
	DotInsideSize  *float64       `yaml:"dotInsideSize"`
	Gradient       []gradientSpec `yaml:"gradient"`
	Points         points         `yaml:"points"`
}

type gradientSpec struct {
	Offset    string   `yaml:"offset"`
	Threshold *float64 `yaml:"threshold"`
	Color     string   `yaml:"color"`
}

type barSpec struct {
	Name       string    `yaml:"name"`
	Colors     []string  `yaml:"colors"`
	TimeLayout string    `yaml:"timeLayout"`
	Rows       []rowSpec `yaml:"rows"`
}

type sliceSpec struct {
	Name  string `yaml:"name"`
	Value number `yaml:"value"`
	Color string `yaml:"color"`
}

type countrySpec struct {
	Name        string `yaml:"name"`
	Value       number `yaml:"value"`
	Color       string `yaml:"color"`
	BorderColor string `yaml:"borderColor"`
}

// LoadDocument reads a chart document.
//
// Values that are not numbers load as NaN, with a warning.
func LoadDocument(file string) (*Document, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("chart document %q: %w", file, err)
	}
	defer func() {
		_ = f.Close()
	}()

	doc, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("chart document %q: %w", file, err)
	}

	if doc.Geography != "" && !filepath.IsAbs(doc.Geography) {
		doc.Geography = filepath.Join(filepath.Dir(file), doc.Geography)
	}

	return doc, nil
}

// ReadDocument decodes a chart document.
func ReadDocument(r io.Reader) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading chart document: %w", err)
	}

	var raw document
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	l := slog.Default().With(slog.String("module", "source"))

	return raw.build(l)
}

func (d document) build(l *slog.Logger) (*Document, error) {
	doc := &Document{
		Name:      d.Name,
		Kind:      d.Kind,
		Geography: d.Geography,
	}

	if !d.Options.IsZero() {
		var options map[string]any
		if err := d.Options.Decode(&options); err != nil {
			return nil, fmt.Errorf("%w: options: %w", ErrInvalidDocument, err)
		}

		doc.Options = options
	}

	if doc.Kind == "" {
		doc.Kind = d.guessKind()
	}

	if !doc.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown kind %q (should be one of %q, %q or %q)", ErrInvalidDocument, doc.Kind, KindBarLine, KindPie, KindMap)
	}

	for i, spec := range d.Lines {
		line, err := spec.build(l)
		if err != nil {
			return nil, fmt.Errorf("%w: lines[%d]: %w", ErrInvalidDocument, i, err)
		}

		doc.Lines = append(doc.Lines, line)
	}

	for i, spec := range d.Bars {
		bar, err := spec.build(l)
		if err != nil {
			return nil, fmt.Errorf("%w: bars[%d]: %w", ErrInvalidDocument, i, err)
		}

		doc.Bars = append(doc.Bars, bar)
	}

	for _, spec := range d.Slices {
		doc.Slices = append(doc.Slices, model.SliceInput{
			Name:  spec.Name,
			Value: spec.Value.float(l, "slice", spec.Name),
			Color: spec.Color,
		})
	}

	var scale model.ColorFunc
	if d.ColorScale != nil {
		fn, err := d.ColorScale.build(d.Countries)
		if err != nil {
			return nil, fmt.Errorf("%w: colorScale: %w", ErrInvalidDocument, err)
		}

		scale = fn
	}

	for _, spec := range d.Countries {
		country := model.CountryInput{
			Name:        spec.Name,
			Value:       spec.Value.float(l, "country", spec.Name),
			Color:       model.Solid(spec.Color),
			BorderColor: model.Solid(spec.BorderColor),
		}

		if spec.Color == "" && scale != nil {
			country.Color = model.Computed(scale)
		}

		doc.Countries = append(doc.Countries, country)
	}

	if doc.Kind == KindMap && doc.Geography == "" {
		return nil, fmt.Errorf("%w: a map requires a geography file", ErrInvalidDocument)
	}

	l.Info("chart document loaded",
		slog.String("name", doc.Name),
		slog.String("kind", string(doc.Kind)),
		slog.Int("lines", len(doc.Lines)),
		slog.Int("bars", len(doc.Bars)),
		slog.Int("slices", len(doc.Slices)),
		slog.Int("countries", len(doc.Countries)),
	)

	return doc, nil
}

func (d document) guessKind() Kind {
	switch {
	case len(d.Slices) > 0:
		return KindPie
	case len(d.Countries) > 0:
		return KindMap
	default:
		return KindBarLine
	}
}

func (s lineSpec) build(l *slog.Logger) (model.LineInput, error) {
	line := model.LineInput{
		Name:           s.Name,
		Color:          s.Color,
		DotOutsideSize: s.DotOutsideSize,
		DotInsideSize:  s.DotInsideSize,
	}

	for _, g := range s.Gradient {
		line.Gradient = append(line.Gradient, model.GradientColor(g))
	}

	for i, p := range s.Points {
		key, err := parseKey(p.key, s.TimeLayout)
		if err != nil {
			return model.LineInput{}, fmt.Errorf("points[%d]: %w", i, err)
		}

		line.Points = append(line.Points, model.LinePoint{
			Key:   key,
			Value: p.value.float(l, "line", s.Name),
		})
	}

	return line, nil
}

func (s barSpec) build(l *slog.Logger) (model.BarInput, error) {
	bar := model.BarInput{
		Name:   s.Name,
		Colors: s.Colors,
	}

	for i, r := range s.Rows {
		key, err := parseKey(r.key, s.TimeLayout)
		if err != nil {
			return model.BarInput{}, fmt.Errorf("rows[%d]: %w", i, err)
		}

		row := model.BarRowInput{
			Key:   key,
			Color: model.Solid(r.color),
		}

		for _, f := range r.fields {
			if model.IsReservedField(f.name) {
				continue
			}

			row.Fields = append(row.Fields, model.Field{
				Name:  f.name,
				Value: f.value.float(l, "bar", s.Name),
			})
		}

		bar.Rows = append(bar.Rows, row)
	}

	return bar, nil
}

func parseKey(key, timeLayout string) (model.Key, error) {
	if timeLayout == "" {
		return model.CategoryKey(key), nil
	}

	t, err := time.Parse(timeLayout, key)
	if err != nil {
		return model.Key{}, fmt.Errorf("key %q is not a time in layout %q: %w", key, timeLayout, err)
	}

	return model.TimeKey(t), nil
}

// number is a value that tolerates non-numeric input.
type number struct {
	value float64
	raw   string
	valid bool
}

func (n *number) UnmarshalYAML(node *yaml.Node) error {
	n.raw = node.Value
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		n.value = math.NaN()

		return nil
	}

	if err := node.Decode(&n.value); err != nil {
		n.value = math.NaN()

		return nil //nolint:nilerr // non-numeric values are tolerated
	}

	n.valid = true

	return nil
}

func (n number) float(l *slog.Logger, kind, name string) float64 {
	if !n.valid {
		l.Warn("non-numeric value loaded as NaN",
			slog.String(kind, name),
			slog.String("value", n.raw),
		)

		return math.NaN()
	}

	return n.value
}
