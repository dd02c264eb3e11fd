// Package page paints charts onto an interactive HTML page, with go-echarts.
package page

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"

	"github.com/processout/picasso/internal/pkg/layout"
	"github.com/processout/picasso/internal/pkg/model"
)

var (
	// ErrUnsupported is returned when painting a chart kind that HTML pages can't render.
	ErrUnsupported = errors.New("chart not supported on HTML pages")

	// ErrEmptyPage is returned when rendering a page without charts.
	ErrEmptyPage = errors.New("no chart to render on the page")
)

const missing = "-"

// Page collects painted charts, and knows how to [Page.Render] them as HTML.
type Page struct {
	options

	charts []components.Charter
	l      *slog.Logger
}

// New HTML [Page].
func New(opts ...Option) *Page {
	return &Page{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "page")),
	}
}

// Len returns the number of charts on the page.
func (p *Page) Len() int {
	return len(p.charts)
}

// PaintBarLine adds a bar chart, overlapped by the lines of the frame.
//
// Values are plotted against the keys of the frame: echarts lays out the bars and scales by
// itself, bounded by the value range of the frame.
func (p *Page) PaintBarLine(f *layout.Frame) error {
	labels := make([]string, 0, len(f.Domain.Keys))
	for _, k := range f.Domain.Keys {
		labels = append(labels, p.keyLabel(k))
	}

	globals := append(p.globalOptions(),
		charts.WithGridOpts(echartsopts.Grid{
			Bottom: "100",
			Top:    "100",
		}),
		charts.WithXAxisOpts(echartsopts.XAxis{
			Type: "category",
			AxisTick: &echartsopts.AxisTick{
				AlignWithLabel: echartsopts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Type: "value",
			Min:  f.YMin,
			Max:  f.YMax,
		}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "axis",
			AxisPointer: &echartsopts.AxisPointer{
				Type: "shadow",
			},
		}),
	)

	line := charts.NewLine()
	line.SetXAxis(labels)
	p.addLines(line, f)

	if len(f.SourceBars) == 0 {
		line.SetGlobalOptions(globals...)
		p.charts = append(p.charts, line)
		p.l.Info("added line chart", slog.Int("lines", len(f.SourceLines)))

		return nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globals...)
	bar.SetXAxis(labels)
	p.addBars(bar, f)

	if len(f.SourceLines) > 0 {
		bar.Overlap(line)
	}

	if p.Horizontal {
		bar = bar.XYReversal()
	}

	p.charts = append(p.charts, bar)
	p.l.Info("added bar chart", slog.Int("bars", len(f.SourceBars)), slog.Int("lines", len(f.SourceLines)))

	return nil
}

// PaintPie adds a pie chart.
func (p *Page) PaintPie(f *layout.PieFrame) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(append(p.globalOptions(),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "item",
		}),
	)...)

	data := make([]echartsopts.PieData, 0, len(f.Arcs))
	for _, a := range f.Arcs {
		data = append(data, echartsopts.PieData{
			Name:      a.Slice.Name,
			Value:     value(a.Slice.Value),
			ItemStyle: &echartsopts.ItemStyle{Color: a.Fill},
		})
	}

	pie.AddSeries(p.Title, data,
		charts.WithLabelOpts(echartsopts.Label{
			Show:      echartsopts.Bool(true),
			Formatter: "{b}: {c}",
		}),
	)

	p.charts = append(p.charts, pie)
	p.l.Info("added pie chart", slog.Int("slices", len(f.Arcs)))

	return nil
}

// PaintMap is not supported: maps are painted from pre-projected paths, which echarts can't use.
func (p *Page) PaintMap(*layout.MapFrame) error {
	return fmt.Errorf("painting map: %w", ErrUnsupported)
}

// Render writes the page HTML to the given writer.
func (p *Page) Render(w io.Writer) error {
	if len(p.charts) == 0 {
		return ErrEmptyPage
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.SetPageTitle(p.Title)
	page.AddCharts(p.charts...)

	return page.Render(w)
}

func (p *Page) globalOptions() []charts.GlobalOpts {
	titleOpts := echartsopts.Title{
		Title: p.Title,
	}
	if p.Subtitle != "" {
		titleOpts.Subtitle = p.Subtitle
		titleOpts.SubtitleStyle = &echartsopts.TextStyle{
			FontStyle: "italic",
		}
	}

	legendOpts := echartsopts.Legend{
		Show: echartsopts.Bool(p.ShowLegend),
	}
	if p.ShowLegend {
		legendOpts.X = "right"
		legendOpts.Y = "bottom"
	}

	return []charts.GlobalOpts{
		charts.WithInitializationOpts(echartsopts.Initialization{
			Theme:  p.Theme,
			Width:  fmt.Sprintf("%.0fpx", p.Width),
			Height: fmt.Sprintf("%.0fpx", p.Height),
		}),
		charts.WithToolboxOpts(echartsopts.Toolbox{
			Left: "right",
			Feature: &echartsopts.ToolBoxFeature{
				SaveAsImage: &echartsopts.ToolBoxFeatureSaveAsImage{
					Title: "Save as image",
				},
			},
		}),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(legendOpts),
	}
}

// addBars adds one series per bar column. Columns of a stacked bar share their stack.
func (p *Page) addBars(bar *charts.Bar, f *layout.Frame) {
	type segment struct {
		series int
		key    string
		column int
	}

	fills := make(map[segment]string, len(f.Bars))
	for _, b := range f.Bars {
		fills[segment{b.Series, b.Key.String(), b.ColumnIndex}] = b.Fill
	}

	for i, b := range f.SourceBars {
		for j, column := range b.Columns {
			data := make([]echartsopts.BarData, 0, len(f.Domain.Keys))
			for _, k := range f.Domain.Keys {
				d := echartsopts.BarData{Value: missing}
				if r, ok := findRow(b, k); ok {
					d.Value = value(r.Value(j))
				}

				if fill, ok := fills[segment{i, k.String(), j}]; ok {
					d.ItemStyle = &echartsopts.ItemStyle{Color: fill}
				}

				data = append(data, d)
			}

			name := b.Name
			var seriesOpts []charts.SeriesOpts
			if b.Stacked() {
				name = b.Name + " - " + column
				seriesOpts = append(seriesOpts, charts.WithBarChartOpts(echartsopts.BarChart{Stack: b.Name}))
			}

			if j < len(b.Colors) {
				seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: b.Colors[j]}))
			}

			bar.AddSeries(name, data, seriesOpts...)
		}
	}
}

func (p *Page) addLines(line *charts.Line, f *layout.Frame) {
	for i, l := range f.SourceLines {
		data := make([]echartsopts.LineData, 0, len(f.Domain.Keys))
		for _, k := range f.Domain.Keys {
			d := echartsopts.LineData{Value: missing}
			for _, pt := range l.Points {
				if pt.Key.Equal(k) {
					d.Value = value(pt.Value)

					break
				}
			}

			data = append(data, d)
		}

		var seriesOpts []charts.SeriesOpts
		if i < len(f.Lines) {
			if stroke := f.Lines[i].Stroke; stroke != "" && !strings.HasPrefix(stroke, "url(") {
				seriesOpts = append(seriesOpts,
					charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: stroke}),
					charts.WithLineStyleOpts(echartsopts.LineStyle{Color: stroke}),
				)
			}
		}

		line.AddSeries(l.Name, data, seriesOpts...)
	}
}

func (p *Page) keyLabel(k model.Key) string {
	if k.IsTemporal() {
		return k.Time().Format(p.TimeFormat)
	}

	return k.String()
}

func findRow(b model.Bar, k model.Key) (model.BarRow, bool) {
	for _, r := range b.Rows {
		if r.Key.Equal(k) {
			return r, true
		}
	}

	return model.BarRow{}, false
}

// value returns a plottable value: non-finite values are missing for echarts.
func value(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missing
	}

	return v
}
