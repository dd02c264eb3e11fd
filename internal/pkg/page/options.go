package page

import (
	"time"
)

// Theme constants from go-echarts.
const (
	ThemeRoma = "roma"
)

// Option configures a [Page].
type Option func(*options)

type options struct {
	Title      string
	Subtitle   string
	Theme      string
	Width      float64
	Height     float64
	ShowLegend bool
	Horizontal bool
	TimeFormat string
}

// WithTitle sets the title of the page and of its charts.
func WithTitle(title string) Option {
	return func(o *options) {
		o.Title = title
	}
}

// WithSubtitle sets the subtitle of the charts.
func WithSubtitle(subtitle string) Option {
	return func(o *options) {
		o.Subtitle = subtitle
	}
}

// WithTheme sets the color theme.
//
// Defaults to "roma".
func WithTheme(theme string) Option {
	return func(o *options) {
		if theme == "" {
			return
		}

		o.Theme = theme
	}
}

// WithSize sets the size of each chart, in pixels.
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

// WithLegend enables or disables the legend.
func WithLegend(show bool) Option {
	return func(o *options) {
		o.ShowLegend = show
	}
}

// WithHorizontal enables or disables horizontal bar orientation.
func WithHorizontal(enabled bool) Option {
	return func(o *options) {
		o.Horizontal = enabled
	}
}

// WithTimeFormat sets the layout of temporal keys on the x axis.
func WithTimeFormat(layout string) Option {
	return func(o *options) {
		if layout == "" {
			return
		}

		o.TimeFormat = layout
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Theme:      ThemeRoma,
		Width:      900,
		Height:     500,
		ShowLegend: true,
		TimeFormat: time.DateOnly,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
