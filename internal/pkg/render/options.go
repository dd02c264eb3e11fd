package render

import (
	"strconv"

	"github.com/processout/picasso/internal/pkg/config"
)

// Option tunes the SVG painter.
type Option func(*options)

type options struct {
	Margins       config.Margins
	Title         string
	XLegendBottom bool
	YLegendLeft   bool
	YLegendRight  bool
	Tips          bool
	Format        func(float64) string
	TimeFormat    string
	FontSize      int
}

const (
	defaultFontSize = 11
	tickSize        = 5
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Margins:       config.Margins{Top: 10, Right: 55, Bottom: 45, Left: 55},
		XLegendBottom: true,
		YLegendLeft:   true,
		Tips:          true,
		Format: func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		TimeFormat: "2006-01-02",
		FontSize:   defaultFontSize,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithOptions applies chart options: margins, legends and value formatting.
func WithOptions(chart config.Options) Option {
	return func(o *options) {
		o.Margins = chart.Margins()
		o.XLegendBottom = chart.XLegendBottom
		o.YLegendLeft = chart.YLegendLeft
		o.YLegendRight = chart.YLegendRight

		if chart.TimeFormat != "" {
			o.TimeFormat = chart.TimeFormat
		}

		if format, err := chart.YAxisFormatter(); err == nil {
			o.Format = format
		}
	}
}

// WithMargins sets the margins around the drawing area.
func WithMargins(margins config.Margins) Option {
	return func(o *options) {
		o.Margins = margins
	}
}

// WithTitle sets a title, drawn above the chart.
func WithTitle(title string) Option {
	return func(o *options) {
		o.Title = title
	}
}

// WithLegends tells which axes are labeled.
//
// Defaults to the bottom and left axes.
func WithLegends(bottom, left, right bool) Option {
	return func(o *options) {
		o.XLegendBottom = bottom
		o.YLegendLeft = left
		o.YLegendRight = right
	}
}

// WithTips embeds tooltips as SVG titles on interactive elements.
//
// Defaults to true.
func WithTips(enabled bool) Option {
	return func(o *options) {
		o.Tips = enabled
	}
}

// WithFontSize sets the font size of labels, in pixels.
func WithFontSize(size int) Option {
	return func(o *options) {
		if size <= 0 {
			return
		}

		o.FontSize = size
	}
}
