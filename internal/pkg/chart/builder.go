package chart

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/processout/picasso/internal/pkg/config"
	"github.com/processout/picasso/internal/pkg/layout"
	"github.com/processout/picasso/internal/pkg/model"
	"github.com/processout/picasso/internal/pkg/source"
)

// Drawer is a chart ready to be drawn.
type Drawer interface {
	Draw() error
}

// Builder constructs charts from chart documents or benchmark results.
type Builder struct {
	cfg     *config.Config
	painter Painter
	format  func(float64) string
	l       *slog.Logger
}

// New creates a new chart [Builder], given a [config.Config] and the [Painter] of the built charts.
//
// The chart options of the configuration apply to every built chart.
func New(cfg *config.Config, painter Painter) (*Builder, error) {
	format, err := cfg.Chart.YAxisFormatter()
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg:     cfg,
		painter: painter,
		format:  format,
		l:       slog.Default().With(slog.String("module", "chart")),
	}, nil
}

// Build creates the chart described by a document and registers its series.
func (b *Builder) Build(doc *source.Document) (Drawer, error) {
	switch doc.Kind {
	case source.KindBarLine:
		c := NewBarLineChart(b.painter, b.options()...)
		for _, line := range doc.Lines {
			c.AddLine(line)
		}

		for _, bar := range doc.Bars {
			c.AddBar(b.withBarTip(bar))
		}

		b.l.Info("built bar/line chart", slog.String("name", doc.Name), slog.Int("lines", len(c.lines)), slog.Int("bars", len(c.bars)))

		return c, nil

	case source.KindPie:
		c := NewPieChart(b.painter, b.options()...)
		for _, slice := range doc.Slices {
			c.AddSlice(slice)
		}

		b.l.Info("built pie chart", slog.String("name", doc.Name), slog.Int("slices", len(c.slices)))

		return c, nil

	case source.KindMap:
		geo, err := source.LoadGeography(doc.Geography)
		if err != nil {
			return nil, fmt.Errorf("building map chart %q: %w", doc.Name, err)
		}

		c := NewMapChart(b.painter, geo, b.options()...)
		for _, country := range doc.Countries {
			c.AddCountry(country)
		}

		b.l.Info("built map chart", slog.String("name", doc.Name), slog.Int("countries", len(c.countries)))

		return c, nil

	default:
		return nil, fmt.Errorf("building chart %q: %w: unknown kind %q", doc.Name, source.ErrInvalidDocument, doc.Kind)
	}
}

// BuildBars creates a bar chart, e.g. from benchmark results.
func (b *Builder) BuildBars(bars []model.BarInput) *BarLineChart {
	c := NewBarLineChart(b.painter, b.options()...)
	for _, bar := range bars {
		c.AddBar(b.withBarTip(bar))
	}

	b.l.Info("built bar chart", slog.Int("bars", len(c.bars)))

	return c
}

func (b *Builder) options() []Option {
	o := b.cfg.Chart
	width, height := o.DrawingSize()

	return []Option{
		WithSize(width, height),
		WithPrefix(o.Prefix),
		WithLayoutOptions(
			layout.WithMin(o.Min),
			layout.WithMax(o.Max),
			layout.WithPadding(o.Padding),
			layout.WithNice(o.Nice),
			layout.WithStrictBaseline(o.StrictBaseline),
			layout.WithTicks(o.XAxisTicks, o.YAxisTicks),
			layout.WithYAxisFormatter(b.format),
			layout.WithTimeFormat(o.TimeFormat),
		),
		WithLinesTip(b.linesTip),
		WithSliceTip(func(s model.Slice) string {
			return s.Name + ": " + b.format(s.Value)
		}),
		WithCountryTip(func(c model.Country) string {
			return c.Name + ": " + b.format(c.Value)
		}),
	}
}

func (b *Builder) linesTip(points []model.LinePoint) string {
	if len(points) == 0 {
		return ""
	}

	var tip strings.Builder
	tip.WriteString(b.keyLabel(points[0].Key))

	for _, p := range points {
		tip.WriteString("\n")
		tip.WriteString(p.LineName)
		tip.WriteString(": ")
		tip.WriteString(b.format(p.Value))
	}

	return tip.String()
}

// withBarTip sets a default tip to a bar, listing the values of each column.
func (b *Builder) withBarTip(in model.BarInput) model.BarInput {
	if in.Tip != nil || len(in.Rows) == 0 {
		return in
	}

	var columns []string
	for _, f := range in.Rows[0].Fields {
		if !model.IsReservedField(f.Name) {
			columns = append(columns, f.Name)
		}
	}

	name := in.Name
	in.Tip = func(row model.BarRow) string {
		var tip strings.Builder
		tip.WriteString(b.keyLabel(row.Key))

		if len(columns) == 1 {
			tip.WriteString("\n")
			tip.WriteString(name)
			tip.WriteString(": ")
			tip.WriteString(b.format(row.Value(0)))

			return tip.String()
		}

		for i, column := range columns {
			tip.WriteString("\n")
			tip.WriteString(column)
			tip.WriteString(": ")
			tip.WriteString(b.format(row.Value(i)))
		}

		return tip.String()
	}

	return in
}

func (b *Builder) keyLabel(k model.Key) string {
	if k.IsTemporal() {
		return k.Time().Format(b.cfg.Chart.TimeFormat)
	}

	return k.String()
}
