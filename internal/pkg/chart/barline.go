package chart

import (
	"fmt"
	"log/slog"

	"github.com/processout/picasso/internal/pkg/layout"
	"github.com/processout/picasso/internal/pkg/model"
)

// BarLineChart draws grouped or stacked bars along with lines, over a shared x axis.
type BarLineChart struct {
	options
	interaction

	painter Painter
	engine  *layout.Engine
	lines   []model.Line
	bars    []model.Bar
	frame   *layout.Frame
	l       *slog.Logger
}

// NewBarLineChart builds a [BarLineChart] painting onto the given [Painter].
//
// A nil painter only runs the layout, which is useful to inspect frames.
func NewBarLineChart(painter Painter, opts ...Option) *BarLineChart {
	o := optionsWithDefaults(opts)
	layoutOpts := append([]layout.Option{
		layout.WithSize(o.Width, o.Height),
		layout.WithPrefix(o.Prefix),
	}, o.Layout...)

	return &BarLineChart{
		options: o,
		painter: painter,
		engine:  layout.New(layoutOpts...),
		l:       slog.Default().With(slog.String("module", "chart"), slog.String("chart", "barline")),
	}
}

// AddLine registers a line.
func (c *BarLineChart) AddLine(in model.LineInput) {
	c.lines = append(c.lines, model.NormalizeLine(in))
}

// AddBar registers a bar series. A bar without rows is ignored.
func (c *BarLineChart) AddBar(in model.BarInput) {
	b, ok := model.NormalizeBar(in)
	if !ok {
		c.l.Warn("bar without rows ignored", slog.String("bar", in.Name))

		return
	}

	c.bars = append(c.bars, b)
}

// Reset removes all lines and bars.
func (c *BarLineChart) Reset() {
	c.ResetLines()
	c.ResetBars()
}

// ResetLines removes all lines.
func (c *BarLineChart) ResetLines() {
	c.lines = nil
}

// ResetBars removes all bars.
func (c *BarLineChart) ResetBars() {
	c.bars = nil
}

// Lines returns the registered lines.
func (c *BarLineChart) Lines() []model.Line {
	return append([]model.Line(nil), c.lines...)
}

// Bars returns the registered bars.
func (c *BarLineChart) Bars() []model.Bar {
	return append([]model.Bar(nil), c.bars...)
}

// Frame returns the frame of the last successful draw, or nil.
func (c *BarLineChart) Frame() *layout.Frame {
	return c.frame
}

// Draw lays out the registered series and paints them.
//
// Drawing an empty chart does nothing. When the layout or the painter fails, the previous frame
// is kept.
func (c *BarLineChart) Draw() error {
	if len(c.lines) == 0 && len(c.bars) == 0 {
		c.l.Debug("nothing to draw")

		return nil
	}

	frame, err := c.engine.Run(c.Lines(), c.Bars())
	if err != nil {
		return fmt.Errorf("drawing bar/line chart: %w", err)
	}

	if c.painter != nil {
		if err := c.painter.PaintBarLine(frame); err != nil {
			return fmt.Errorf("painting bar/line chart: %w", err)
		}
	}

	c.frame = frame
	c.Clear()
	c.l.Info("chart drawn", slog.Int("lines", len(frame.Lines)), slog.Int("bars", len(frame.Bars)))

	return nil
}

// Hover shows the tooltip of the element under the point, in drawing area coordinates.
func (c *BarLineChart) Hover(x, y float64) (Tooltip, bool) {
	c.Clear()
	if c.frame == nil {
		return Tooltip{}, false
	}

	o, ok := c.frame.HitTest(x, y)
	if !ok {
		return Tooltip{}, false
	}

	tip := Tooltip{
		Class: c.Prefix + "chart-tooltip",
		X:     o.X + o.Width/2,
		Y:     o.Y,
	}

	switch o.Kind {
	case layout.OverlayLine:
		if c.LinesTip == nil || len(o.Points) == 0 {
			return Tooltip{}, false
		}

		tip.Text = c.LinesTip(o.Points)
	case layout.OverlayBar:
		bar := c.frame.SourceBars[o.Series]
		if bar.Tip == nil {
			return Tooltip{}, false
		}

		tip.Text = bar.Tip(bar.Rows[o.Row])
	}

	return c.show(tip)
}

// Click dispatches the click handler of the element under the point. It reports whether a handler
// was called.
func (c *BarLineChart) Click(x, y float64) bool {
	if c.frame == nil {
		return false
	}

	o, ok := c.frame.HitTest(x, y)
	if !ok || !o.Clickable {
		return false
	}

	switch o.Kind {
	case layout.OverlayLine:
		var called bool
		for i, p := range o.Points {
			if i >= len(o.Lines) {
				break
			}

			line := c.frame.SourceLines[o.Lines[i]]
			if line.OnClick == nil {
				continue
			}

			line.OnClick(p)
			called = true
		}

		return called
	case layout.OverlayBar:
		bar := c.frame.SourceBars[o.Series]
		if bar.OnClick == nil {
			return false
		}

		bar.OnClick(bar.Rows[o.Row])

		return true
	default:
		return false
	}
}
