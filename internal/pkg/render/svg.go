// Package render paints chart frames as standalone SVG documents.
package render

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/processout/picasso/internal/pkg/layout"
	"github.com/processout/picasso/internal/pkg/model"
)

// SVG paints frames onto an [io.Writer], one SVG document per paint.
type SVG struct {
	options

	w io.Writer
	l *slog.Logger
}

// New SVG painter writing to w.
func New(w io.Writer, opts ...Option) *SVG {
	return &SVG{
		options: optionsWithDefaults(opts),
		w:       w,
		l:       slog.Default().With(slog.String("module", "render")),
	}
}

// PaintBarLine paints a bar/line chart: axes, bars, lines with their dots, then hit overlays.
func (p *SVG) PaintBarLine(f *layout.Frame) error {
	canvas, ew := p.start(f.Width, f.Height, f.Prefix+"barline")

	p.defs(canvas, f)
	p.yAxis(canvas, f)
	p.xAxis(canvas, f)

	canvas.Group(attr("class", f.Prefix+"bars"))
	for _, b := range f.Bars {
		canvas.Rect(px(b.X), px(b.Y), px(b.Width), px(b.Height),
			attr("class", f.Prefix+"bar "+f.Prefix+"bar-"+strconv.Itoa(b.Series)),
			attr("fill", b.Fill),
		)
	}
	canvas.Gend()

	for _, line := range f.Lines {
		stroke := orDefault(line.Stroke, model.Category10[line.Series%len(model.Category10)])

		canvas.Group(attr("class", line.Class))
		if line.Path != "" {
			canvas.Path(line.Path, `fill="none"`, attr("stroke", stroke), `stroke-width="2"`)
		}

		for _, v := range line.Vertices {
			canvas.Circle(px(v.X), px(v.Y), px(line.DotOutside), attr("fill", stroke))
			canvas.Circle(px(v.X), px(v.Y), px(line.DotInside), `fill="white"`)
		}
		canvas.Gend()
	}

	for _, o := range f.Overlays {
		attrs := []string{attr("class", o.Class), `fill="transparent"`}
		if o.Clickable {
			attrs = append(attrs, `cursor="pointer"`)
		}

		tip := p.overlayTip(f, o)
		if tip == "" {
			canvas.Rect(px(o.X), px(o.Y), px(o.Width), px(o.Height), attrs...)

			continue
		}

		canvas.Group()
		p.title(ew, tip)
		canvas.Rect(px(o.X), px(o.Y), px(o.Width), px(o.Height), attrs...)
		canvas.Gend()
	}

	return p.end(canvas, ew, "bar/line")
}

// PaintPie paints the arcs of a pie chart, and their labels.
func (p *SVG) PaintPie(f *layout.PieFrame) error {
	canvas, ew := p.start(f.Width, f.Height, f.Prefix+"pie")

	canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", ff(f.CenterX), ff(f.CenterY)))
	for _, a := range f.Arcs {
		if a.End <= a.Start {
			continue
		}

		canvas.Group(attr("class", f.Prefix+"slice"))
		if p.Tips {
			p.title(ew, a.Slice.Name+": "+p.Format(a.Slice.Value))
		}
		canvas.Path(a.Path, attr("fill", a.Fill), `stroke="white"`)
		canvas.Text(px(a.LabelX), px(a.LabelY), a.Label, `text-anchor="middle"`, `dy=".3em"`)
		canvas.Gend()
	}
	canvas.Gend()

	return p.end(canvas, ew, "pie")
}

// PaintMap paints the features of a map. Unregistered features are drawn with the default style.
func (p *SVG) PaintMap(f *layout.MapFrame) error {
	canvas, ew := p.start(f.Width, f.Height, f.Prefix+"map")

	for _, c := range f.Countries {
		attrs := []string{attr("class", c.Class), attr("fill", orDefault(c.Fill, "#eeeeee"))}
		attrs = append(attrs, attr("stroke", orDefault(c.Stroke, "#999999")))

		if c.Country == nil || !p.Tips {
			canvas.Path(c.Path, attrs...)

			continue
		}

		canvas.Group()
		p.title(ew, c.Country.Name+": "+p.Format(c.Country.Value))
		canvas.Path(c.Path, attrs...)
		canvas.Gend()
	}

	return p.end(canvas, ew, "map")
}

// start opens the document and the group of the drawing area, translated inside the margins.
func (p *SVG) start(width, height float64, class string) (*svg.SVG, *errWriter) {
	ew := &errWriter{w: p.w}
	canvas := svg.New(ew)
	m := p.Margins

	canvas.Start(px(width+m.Left+m.Right), px(height+m.Top+m.Bottom),
		fmt.Sprintf(`font-size="%dpx" font-family="sans-serif"`, p.FontSize),
	)

	if p.Title != "" {
		canvas.Text(px((width+m.Left+m.Right)/2), px(m.Top), p.Title, `text-anchor="middle"`, `dy="1em"`, `font-weight="bold"`)
	}

	canvas.Group(attr("class", class), fmt.Sprintf(`transform="translate(%s,%s)"`, ff(m.Left), ff(m.Top)))

	return canvas, ew
}

func (p *SVG) end(canvas *svg.SVG, ew *errWriter, kind string) error {
	canvas.Gend()
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("writing %s SVG: %w", kind, ew.err)
	}

	p.l.Debug("chart painted", slog.String("chart", kind), slog.Int64("bytes", ew.n))

	return nil
}

// defs writes the line gradients. They are in user space: svgo only knows about bounding box
// percentages.
func (p *SVG) defs(canvas *svg.SVG, f *layout.Frame) {
	var gradients []*layout.Gradient
	for _, line := range f.Lines {
		if line.Gradient != nil {
			gradients = append(gradients, line.Gradient)
		}
	}

	if len(gradients) == 0 {
		return
	}

	canvas.Def()
	for _, g := range gradients {
		fmt.Fprintf(canvas.Writer, `<linearGradient %s gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`+"\n",
			attr("id", g.ID), ff(g.X1), ff(g.Y1), ff(g.X2), ff(g.Y2),
		)

		for _, stop := range g.Stops {
			fmt.Fprintf(canvas.Writer, "<stop %s %s/>\n", attr("offset", stop.Offset), attr("stop-color", stop.Color))
		}

		fmt.Fprintln(canvas.Writer, "</linearGradient>")
	}
	canvas.DefEnd()
}

func (p *SVG) yAxis(canvas *svg.SVG, f *layout.Frame) {
	canvas.Group(attr("class", f.Prefix+"y-axis"))
	for _, tick := range f.YTicks {
		y := px(tick.Pos)
		canvas.Line(0, y, px(f.Width), y, `stroke="#e0e0e0"`)

		if p.YLegendLeft {
			canvas.Text(-tickSize-2, y, tick.Label, `text-anchor="end"`, `dy=".3em"`, `fill="#666"`)
		}

		if p.YLegendRight {
			canvas.Text(px(f.Width)+tickSize+2, y, tick.Label, `text-anchor="start"`, `dy=".3em"`, `fill="#666"`)
		}
	}
	canvas.Gend()
}

func (p *SVG) xAxis(canvas *svg.SVG, f *layout.Frame) {
	canvas.Group(attr("class", f.Prefix+"x-axis"))
	canvas.Line(0, px(f.Baseline), px(f.Width), px(f.Baseline), `stroke="#888"`)

	if p.XLegendBottom {
		for _, tick := range f.XTicks {
			x := px(tick.Pos)
			canvas.Line(x, px(f.Height), x, px(f.Height)+tickSize, `stroke="#888"`)
			canvas.Text(x, px(f.Height)+tickSize, tick.Label, `text-anchor="middle"`, `dy="1em"`, `fill="#666"`)
		}
	}
	canvas.Gend()
}

func (p *SVG) overlayTip(f *layout.Frame, o layout.Overlay) string {
	if !p.Tips {
		return ""
	}

	switch o.Kind {
	case layout.OverlayLine:
		if len(o.Points) == 0 {
			return ""
		}

		lines := []string{p.keyLabel(o.Key)}
		for _, pt := range o.Points {
			lines = append(lines, pt.LineName+": "+p.Format(pt.Value))
		}

		return strings.Join(lines, "\n")

	case layout.OverlayBar:
		if o.Series < 0 || o.Series >= len(f.SourceBars) {
			return ""
		}

		bar := f.SourceBars[o.Series]
		if bar.Tip == nil || o.Row < 0 || o.Row >= len(bar.Rows) {
			return ""
		}

		return bar.Tip(bar.Rows[o.Row])

	default:
		return ""
	}
}

func (p *SVG) keyLabel(k model.Key) string {
	if k.IsTemporal() {
		return k.Time().Format(p.TimeFormat)
	}

	return k.String()
}

func (p *SVG) title(w io.Writer, text string) {
	fmt.Fprintf(w, "<title>%s</title>\n", html.EscapeString(text))
}

// errWriter keeps the first write error: svgo does not report errors.
type errWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	n, err := e.w.Write(b)
	e.n += int64(n)
	e.err = err

	return n, err
}

func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func px(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return int(math.Round(v))
}

func ff(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
