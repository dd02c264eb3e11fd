package chart

import (
	"fmt"
	"log/slog"

	"github.com/processout/picasso/internal/pkg/layout"
	"github.com/processout/picasso/internal/pkg/model"
)

// PieChart draws slices over a full circle, in registration order.
type PieChart struct {
	options
	interaction

	painter Painter
	slices  []model.Slice
	frame   *layout.PieFrame
	l       *slog.Logger
}

// NewPieChart builds a [PieChart] painting onto the given [Painter].
func NewPieChart(painter Painter, opts ...Option) *PieChart {
	return &PieChart{
		options: optionsWithDefaults(opts),
		painter: painter,
		l:       slog.Default().With(slog.String("module", "chart"), slog.String("chart", "pie")),
	}
}

// AddSlice registers a slice.
func (c *PieChart) AddSlice(in model.SliceInput) {
	c.slices = append(c.slices, model.NormalizeSlice(in))
}

// Reset removes all slices.
func (c *PieChart) Reset() {
	c.slices = nil
}

// Slices returns the registered slices.
func (c *PieChart) Slices() []model.Slice {
	return append([]model.Slice(nil), c.slices...)
}

// Frame returns the frame of the last successful draw, or nil.
func (c *PieChart) Frame() *layout.PieFrame {
	return c.frame
}

// Draw lays out the registered slices and paints them.
func (c *PieChart) Draw() error {
	if len(c.slices) == 0 {
		c.l.Debug("nothing to draw")

		return nil
	}

	frame := layout.Pie(c.Slices(), c.Width, c.Height, c.Prefix)

	if c.painter != nil {
		if err := c.painter.PaintPie(frame); err != nil {
			return fmt.Errorf("painting pie chart: %w", err)
		}
	}

	c.frame = frame
	c.Clear()
	c.l.Info("chart drawn", slog.Int("slices", len(frame.Arcs)))

	return nil
}

// Hover shows the tooltip of the slice under the point.
func (c *PieChart) Hover(x, y float64) (Tooltip, bool) {
	c.Clear()
	if c.frame == nil || c.SliceTip == nil {
		return Tooltip{}, false
	}

	a, ok := c.frame.HitTest(x, y)
	if !ok {
		return Tooltip{}, false
	}

	return c.show(Tooltip{
		Text:  c.SliceTip(a.Slice),
		Class: c.Prefix + "chart-tooltip",
		X:     c.frame.CenterX + a.LabelX,
		Y:     c.frame.CenterY + a.LabelY,
	})
}

// Click dispatches the click handler of the slice under the point.
func (c *PieChart) Click(x, y float64) bool {
	if c.frame == nil || c.OnSliceClick == nil {
		return false
	}

	a, ok := c.frame.HitTest(x, y)
	if !ok {
		return false
	}

	c.OnSliceClick(a.Slice)

	return true
}
