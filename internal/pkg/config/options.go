package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Supported value formats, besides fmt patterns such as "%.2f ms".
const (
	FormatPlain  = "plain"
	FormatNumber = "number"
)

// Options of a chart.
//
// Width and Height are the size of the whole surface: the drawing area is what remains inside the
// margins.
type Options struct {
	Width  float64
	Height float64

	// Min and Max override the bounds of the value axis.
	Min *float64
	Max *float64

	XAxisTicks int
	YAxisTicks int

	XLegendBottom bool
	YLegendLeft   bool
	YLegendRight  bool

	YAxisFormat string
	TimeFormat  string

	// Unset margins are derived from the axis margins.
	MarginTop    *float64
	MarginRight  *float64
	MarginBottom *float64
	MarginLeft   *float64
	XAxisMargin  float64
	YAxisMargin  float64

	Prefix         string
	Padding        float64
	Nice           bool
	StrictBaseline bool
}

// Margins around the drawing area.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

const (
	defaultMarginTop   = 10
	sideLegendWidth    = 40
	bottomLegendHeight = 30
)

// Margins resolves the margins around the drawing area.
func (o Options) Margins() Margins {
	m := Margins{
		Top:    defaultMarginTop,
		Right:  o.XAxisMargin + sideLegendWidth,
		Bottom: o.YAxisMargin + bottomLegendHeight,
		Left:   o.XAxisMargin + sideLegendWidth,
	}

	if o.MarginTop != nil {
		m.Top = *o.MarginTop
	}
	if o.MarginRight != nil {
		m.Right = *o.MarginRight
	}
	if o.MarginBottom != nil {
		m.Bottom = *o.MarginBottom
	}
	if o.MarginLeft != nil {
		m.Left = *o.MarginLeft
	}

	return m
}

// DrawingSize returns the size of the drawing area, inside the margins.
func (o Options) DrawingSize() (width, height float64) {
	m := o.Margins()

	return o.Width - m.Left - m.Right, o.Height - m.Top - m.Bottom
}

// YAxisFormatter returns the formatter of value labels.
func (o Options) YAxisFormatter() (func(float64) string, error) {
	switch format := o.YAxisFormat; {
	case format == "" || format == FormatPlain:
		return func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}, nil

	case format == FormatNumber:
		p := message.NewPrinter(language.English)

		return func(v float64) string {
			return p.Sprint(number.Decimal(v))
		}, nil

	case strings.Contains(format, "%"):
		if probe := fmt.Sprintf(format, 1.5); strings.Contains(probe, "%!") {
			return nil, fmt.Errorf("invalid options: yAxisFormat %q does not format a number: %s", format, probe)
		}

		return func(v float64) string {
			return fmt.Sprintf(format, v)
		}, nil

	default:
		return nil, fmt.Errorf("invalid options: unknown yAxisFormat %q (should be %q, %q or a fmt pattern)", format, FormatPlain, FormatNumber)
	}
}

// Validate the options.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid options: width and height must be positive: %vx%v", o.Width, o.Height)
	}

	if w, h := o.DrawingSize(); w <= 0 || h <= 0 {
		return fmt.Errorf("invalid options: margins leave no room to draw in %vx%v: %+v", o.Width, o.Height, o.Margins())
	}

	if o.XAxisTicks < 0 || o.YAxisTicks < 0 {
		return fmt.Errorf("invalid options: negative tick count: xAxisTicks=%d, yAxisTicks=%d", o.XAxisTicks, o.YAxisTicks)
	}

	if o.Padding < 0 {
		return fmt.Errorf("invalid options: negative padding: %v", o.Padding)
	}

	if o.Min != nil && o.Max != nil && *o.Min >= *o.Max {
		return fmt.Errorf("invalid options: min must be lower than max: min=%v, max=%v", *o.Min, *o.Max)
	}

	if _, err := o.YAxisFormatter(); err != nil {
		return err
	}

	return nil
}

// DecodeOptions decodes raw settings, e.g. the options section of a chart document, on top of
// the given options.
func DecodeOptions(raw any, o *Options) error {
	if raw == nil {
		return nil
	}

	// pointers may be shared with the options this copy was made from
	*o = o.Clone()

	if err := mapstructure.Decode(raw, o); err != nil {
		return fmt.Errorf("decoding chart options: %w", err)
	}

	return o.Validate()
}

// Clone returns a deep copy of the options.
func (o Options) Clone() Options {
	o.Min = clonePtr(o.Min)
	o.Max = clonePtr(o.Max)
	o.MarginTop = clonePtr(o.MarginTop)
	o.MarginRight = clonePtr(o.MarginRight)
	o.MarginBottom = clonePtr(o.MarginBottom)
	o.MarginLeft = clonePtr(o.MarginLeft)

	return o
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
