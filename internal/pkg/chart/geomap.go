package chart

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/processout/picasso/internal/pkg/layout"
	"github.com/processout/picasso/internal/pkg/model"
)

// ErrNoGeography is returned when drawing a map chart without geographic features.
var ErrNoGeography = errors.New("map chart has no geography")

// MapChart colors the countries of a world map.
type MapChart struct {
	options
	interaction

	painter   Painter
	geo       layout.Geography
	countries []model.Country
	frame     *layout.MapFrame
	l         *slog.Logger
}

// NewMapChart builds a [MapChart] over a [layout.Geography], painting onto the given [Painter].
func NewMapChart(painter Painter, geo layout.Geography, opts ...Option) *MapChart {
	return &MapChart{
		options: optionsWithDefaults(opts),
		painter: painter,
		geo:     geo,
		l:       slog.Default().With(slog.String("module", "chart"), slog.String("chart", "map")),
	}
}

// AddCountry registers a country, identified by its ISO 3166-1 alpha-3 code.
func (c *MapChart) AddCountry(in model.CountryInput) {
	c.countries = append(c.countries, model.NormalizeCountry(in))
}

// Reset removes all countries.
func (c *MapChart) Reset() {
	c.countries = nil
}

// Countries returns the registered countries.
func (c *MapChart) Countries() []model.Country {
	return append([]model.Country(nil), c.countries...)
}

// Frame returns the frame of the last successful draw, or nil.
func (c *MapChart) Frame() *layout.MapFrame {
	return c.frame
}

// Draw paints all the features of the geography, styled by the registered countries.
//
// Features are drawn even when no country is registered.
func (c *MapChart) Draw() error {
	if c.geo == nil {
		return ErrNoGeography
	}

	frame := layout.Map(c.geo, c.Countries(), c.Width, c.Height, c.Prefix)

	if c.painter != nil {
		if err := c.painter.PaintMap(frame); err != nil {
			return fmt.Errorf("painting map chart: %w", err)
		}
	}

	c.frame = frame
	c.Clear()
	c.l.Info("chart drawn", slog.Int("features", len(frame.Countries)), slog.Int("countries", len(c.countries)))

	return nil
}

// Hover shows the tooltip of a country feature.
//
// Maps are hit by feature ID: point-in-path tests belong to the surface displaying the map.
func (c *MapChart) Hover(id string) (Tooltip, bool) {
	c.Clear()

	country, ok := c.find(id)
	if !ok || c.CountryTip == nil {
		return Tooltip{}, false
	}

	return c.show(Tooltip{
		Text:  c.CountryTip(*country),
		Class: c.Prefix + "chart-tooltip",
	})
}

// Click dispatches the click handler of a country feature.
func (c *MapChart) Click(id string) bool {
	country, ok := c.find(id)
	if !ok || c.OnCountryClick == nil {
		return false
	}

	c.OnCountryClick(*country)

	return true
}

func (c *MapChart) find(id string) (*model.Country, bool) {
	if c.frame == nil {
		return nil, false
	}

	shape, ok := c.frame.Find(id)
	if !ok || shape.Country == nil {
		return nil, false
	}

	return shape.Country, true
}
