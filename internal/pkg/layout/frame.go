package layout

import (
	"github.com/processout/picasso/internal/pkg/model"
)

// Frame is the geometry produced by one draw of a bar/line chart.
//
// A [Frame] is a pure function of the registered series and options. It is frozen once built:
// interaction callbacks operate on the frame of the last draw.
type Frame struct {
	Width  float64
	Height float64
	Prefix string

	Domain   Domain
	Grouping Grouping

	// YMin and YMax are the bounds of the value scale (after nice rounding, if enabled).
	YMin float64
	YMax float64
	// Baseline is the pixel position of the bottom of the value scale.
	Baseline float64
	// LineOffset is the horizontal offset applied to line vertices.
	LineOffset float64

	Bars     []BarShape
	Lines    []LineShape
	Overlays []Overlay
	XTicks   []Tick
	YTicks   []Tick

	// Snapshot of the series drawn on this frame.
	SourceLines []model.Line
	SourceBars  []model.Bar
}

// Rect is an axis-aligned rectangle in pixel space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// BarShape is one rectangle of a bar series: a full bar, or one segment of a stacked bar.
type BarShape struct {
	Rect

	Series      int
	SeriesName  string
	Row         int
	Key         model.Key
	Column      string
	ColumnIndex int
	Fill        string
}

// Vertex is the projected position of a line point.
type Vertex struct {
	X     float64
	Y     float64
	Point model.LinePoint
}

// GradientStop is one stop of a line gradient.
type GradientStop struct {
	Offset string
	Color  string
}

// Gradient is a vertical gradient in user space, spanning value zero to the max value.
type Gradient struct {
	ID    string
	X1    float64
	Y1    float64
	X2    float64
	Y2    float64
	Stops []GradientStop
}

// LineShape is the projected path and dots of a line series.
type LineShape struct {
	Series     int
	Name       string
	Class      string
	Path       string
	Vertices   []Vertex
	Stroke     string
	Gradient   *Gradient
	DotOutside float64
	DotInside  float64
}

// OverlayKind tells what an interactive overlay is attached to.
type OverlayKind uint8

// Supported overlay kinds.
const (
	OverlayLine OverlayKind = iota
	OverlayBar
)

// Overlay is a transparent hit target carrying interaction metadata.
//
// Line overlays cover one key column and carry all the line points at that key. Bar overlays cover
// one bar column of a series.
//
// Lines holds the index in the source lines of each point, in the same order as Points.
type Overlay struct {
	Rect

	Kind      OverlayKind
	Class     string
	Key       model.Key
	Series    int
	Row       int
	Points    []model.LinePoint
	Lines     []int
	Clickable bool
}

// Tick is a labeled axis tick.
type Tick struct {
	Pos   float64
	Label string
}

// HitTest returns the last overlay containing the point, as overlays painted later are on top.
func (f *Frame) HitTest(x, y float64) (Overlay, bool) {
	for i := len(f.Overlays) - 1; i >= 0; i-- {
		if f.Overlays[i].Contains(x, y) {
			return f.Overlays[i], true
		}
	}

	return Overlay{}, false
}
