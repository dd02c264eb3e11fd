package layout

import (
	"strconv"
)

// Option configures an [Engine].
type Option func(*options)

type options struct {
	Width          float64
	Height         float64
	Bounds         Bounds
	Nice           bool
	XAxisTicks     int
	YAxisTicks     int
	YAxisFormatter func(float64) string
	TimeFormat     string
	Prefix         string
}

const (
	defaultWidth      = 800
	defaultHeight     = 400
	defaultTicks      = 5
	defaultTimeFormat = "2006-01-02"
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Width:          defaultWidth,
		Height:         defaultHeight,
		Bounds:         Bounds{Padding: DefaultPadding},
		Nice:           true,
		XAxisTicks:     defaultTicks,
		YAxisTicks:     defaultTicks,
		YAxisFormatter: plainFormat,
		TimeFormat:     defaultTimeFormat,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

func plainFormat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WithSize sets the size of the drawing area, margins excluded.
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

// WithMin sets an explicit lower bound for values. A nil bound is resolved from the data.
func WithMin(min *float64) Option {
	return func(o *options) {
		o.Bounds.Min = min
	}
}

// WithMax sets an explicit upper bound for values. A nil bound is resolved from the data.
func WithMax(max *float64) Option {
	return func(o *options) {
		o.Bounds.Max = max
	}
}

// WithPadding sets the ratio by which computed bounds are widened.
//
// Defaults to 0.1.
func WithPadding(ratio float64) Option {
	return func(o *options) {
		if ratio < 0 {
			return
		}

		o.Bounds.Padding = ratio
	}
}

// WithStrictBaseline suppresses the max padding when bars reset the min value to zero.
func WithStrictBaseline(enabled bool) Option {
	return func(o *options) {
		o.Bounds.StrictBaseline = enabled
	}
}

// WithNice extends the value axis to round tick values.
//
// Defaults to true.
func WithNice(enabled bool) Option {
	return func(o *options) {
		o.Nice = enabled
	}
}

// WithTicks sets the tick budget of the x and y axes.
func WithTicks(x, y int) Option {
	return func(o *options) {
		if x > 0 {
			o.XAxisTicks = x
		}

		if y > 0 {
			o.YAxisTicks = y
		}
	}
}

// WithYAxisFormatter sets the formatter of value labels.
func WithYAxisFormatter(fn func(float64) string) Option {
	return func(o *options) {
		if fn == nil {
			return
		}

		o.YAxisFormatter = fn
	}
}

// WithTimeFormat sets the layout used to format instants on a time axis.
func WithTimeFormat(layout string) Option {
	return func(o *options) {
		if layout == "" {
			return
		}

		o.TimeFormat = layout
	}
}

// WithPrefix sets the prefix of generated identifiers.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.Prefix = prefix
	}
}
