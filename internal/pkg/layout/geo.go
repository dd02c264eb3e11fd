package layout

import (
	"github.com/processout/picasso/internal/pkg/model"
)

// Feature is a projected geographic feature, identified by its ISO 3166-1 alpha-3 code.
type Feature struct {
	ID   string
	Path string
}

// Geography projects geographic features onto a drawing area.
type Geography interface {
	Features(width, height float64) []Feature
}

// CountryShape is a projected feature, possibly matched to a registered country.
type CountryShape struct {
	Feature

	Class   string
	Fill    string
	Stroke  string
	Country *model.Country
}

// MapFrame is the geometry produced by one draw of a map chart.
type MapFrame struct {
	Width     float64
	Height    float64
	Prefix    string
	Countries []CountryShape
}

// Find returns the shape of a feature by ID.
func (f *MapFrame) Find(id string) (CountryShape, bool) {
	for _, c := range f.Countries {
		if c.ID == id {
			return c, true
		}
	}

	return CountryShape{}, false
}

// Map resolves the style of every feature from the registered countries.
//
// Features without a registered country are kept unstyled. When several countries share a name,
// the first one registered wins.
func Map(geo Geography, countries []model.Country, width, height float64, prefix string) *MapFrame {
	f := &MapFrame{
		Width:  width,
		Height: height,
		Prefix: prefix,
	}

	index := make(map[string]int, len(countries))
	for i, c := range countries {
		if _, seen := index[c.Name]; seen {
			continue
		}

		index[c.Name] = i
	}

	features := geo.Features(width, height)
	f.Countries = make([]CountryShape, 0, len(features))

	for _, feat := range features {
		shape := CountryShape{
			Feature: feat,
			Class:   prefix + "country " + prefix + feat.ID,
		}

		if i, ok := index[feat.ID]; ok {
			c := countries[i]
			ctx := model.ColorContext{Series: c.Name, Value: c.Value, Country: &c}
			shape.Country = &c
			shape.Fill = c.Color.Resolve(ctx)
			shape.Stroke = c.BorderColor.Resolve(ctx)
		}

		f.Countries = append(f.Countries, shape)
	}

	return f
}
