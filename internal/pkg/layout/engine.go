// Package layout implements the chart layout engine.
//
// A draw runs the pipeline Validate → Resolve → Stack → Project to completion, and produces a
// [Frame] holding all the geometry needed by a painter. The engine is synchronous and keeps no
// state between runs: the same series and options always yield the same frame.
package layout

import (
	"fmt"
	"log/slog"

	"github.com/processout/picasso/internal/pkg/model"
)

// Engine lays out bar/line charts.
type Engine struct {
	options

	l *slog.Logger
}

// New builds a layout [Engine].
func New(opts ...Option) *Engine {
	return &Engine{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "layout")),
	}
}

// Run lays out the given series.
//
// It fails with [ErrInconsistentKeyKind] or [ErrUnsupportedTemporalBars] when the series can't be
// drawn together, and with [ErrNoSeries] when there is nothing to draw.
func (e *Engine) Run(lines []model.Line, bars []model.Bar) (*Frame, error) {
	if len(lines) == 0 && len(bars) == 0 {
		return nil, ErrNoSeries
	}

	timeScaled, err := Validate(lines, bars)
	if err != nil {
		return nil, fmt.Errorf("validating series: %w", err)
	}

	domain := Resolve(lines, bars, timeScaled, e.Bounds)
	y := e.ValueScale(domain)
	grouping := Stack(domain, bars, e.Width, y.Min())

	projector := Projector{
		Width:          e.Width,
		Height:         e.Height,
		XAxisTicks:     e.XAxisTicks,
		YAxisTicks:     e.YAxisTicks,
		YAxisFormatter: e.YAxisFormatter,
		TimeFormat:     e.TimeFormat,
		Prefix:         e.Prefix,
	}
	frame := projector.Project(domain, grouping, y, lines, bars)

	e.l.Debug("chart laid out",
		slog.Bool("time_scaled", timeScaled),
		slog.Int("keys", len(domain.Keys)),
		slog.Float64("min_value", domain.MinValue),
		slog.Float64("max_value", domain.MaxValue),
		slog.Int("bars", len(frame.Bars)),
		slog.Int("lines", len(frame.Lines)),
	)

	return frame, nil
}

// ValueScale builds the vertical scale of a resolved domain, with the pixel range reversed so that
// larger values are drawn higher.
func (e *Engine) ValueScale(d Domain) Linear {
	y := NewLinear(d.MinValue, d.MaxValue, e.Height, 0)
	if e.Nice {
		y.Nice(e.YAxisTicks)
	}

	return y
}
