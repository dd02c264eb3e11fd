// Package chart exposes the chart instances: bar/line, pie and map charts.
//
// A chart holds the registered series, runs the layout of a draw and hands the resulting frame to
// a [Painter]. Charts are not safe for concurrent use: callers serialize add, reset, draw and
// interaction calls.
package chart

import (
	"github.com/processout/picasso/internal/pkg/layout"
)

// Painter paints the frames produced by charts onto a surface.
type Painter interface {
	PaintBarLine(*layout.Frame) error
	PaintPie(*layout.PieFrame) error
	PaintMap(*layout.MapFrame) error
}

// Tooltip is the tip shown for the element under the pointer.
type Tooltip struct {
	Text  string
	Class string
	// X and Y anchor the tooltip in the drawing area.
	X float64
	Y float64
}

// interaction holds the active tooltip of a chart.
type interaction struct {
	active *Tooltip
}

func (i *interaction) show(tip Tooltip) (Tooltip, bool) {
	i.active = &tip

	return tip, true
}

// Active returns the tooltip currently shown, if any.
func (i *interaction) Active() (Tooltip, bool) {
	if i.active == nil {
		return Tooltip{}, false
	}

	return *i.active, true
}

// Clear hides the active tooltip. Registered series are kept.
func (i *interaction) Clear() {
	i.active = nil
}
