package chart

import (
	"github.com/processout/picasso/internal/pkg/layout"
	"github.com/processout/picasso/internal/pkg/model"
)

// Option configures a chart.
type Option func(*options)

type options struct {
	Width  float64
	Height float64
	Prefix string
	Layout []layout.Option

	LinesTip       func([]model.LinePoint) string
	SliceTip       func(model.Slice) string
	OnSliceClick   func(model.Slice)
	CountryTip     func(model.Country) string
	OnCountryClick func(model.Country)
}

const (
	defaultWidth  = 800
	defaultHeight = 400
)

// WithSize sets the size of the drawing area, margins excluded.
//
// The size is fixed for the lifetime of the chart.
func WithSize(width, height float64) Option {
	return func(o *options) {
		if width > 0 {
			o.Width = width
		}

		if height > 0 {
			o.Height = height
		}
	}
}

// WithPrefix sets the prefix of the CSS classes and identifiers generated for the chart.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.Prefix = prefix
	}
}

// WithLayoutOptions passes options to the layout engine of bar/line charts.
func WithLayoutOptions(opts ...layout.Option) Option {
	return func(o *options) {
		o.Layout = append(o.Layout, opts...)
	}
}

// WithLinesTip sets the tooltip shown for the line points under the pointer.
func WithLinesTip(fn func([]model.LinePoint) string) Option {
	return func(o *options) {
		o.LinesTip = fn
	}
}

// WithSliceTip sets the tooltip of pie slices.
func WithSliceTip(fn func(model.Slice) string) Option {
	return func(o *options) {
		o.SliceTip = fn
	}
}

// WithSliceClick sets the click handler of pie slices.
func WithSliceClick(fn func(model.Slice)) Option {
	return func(o *options) {
		o.OnSliceClick = fn
	}
}

// WithCountryTip sets the tooltip of map countries.
func WithCountryTip(fn func(model.Country) string) Option {
	return func(o *options) {
		o.CountryTip = fn
	}
}

// WithCountryClick sets the click handler of map countries.
func WithCountryClick(fn func(model.Country)) Option {
	return func(o *options) {
		o.OnCountryClick = fn
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Width:  defaultWidth,
		Height: defaultHeight,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
