package layout

import (
	"math"
	"strconv"

	"github.com/processout/picasso/internal/pkg/model"
)

// Projector maps a resolved domain and a bar grouping onto pixel positions.
type Projector struct {
	Width          float64
	Height         float64
	XAxisTicks     int
	YAxisTicks     int
	YAxisFormatter func(float64) string
	TimeFormat     string
	Prefix         string
}

// Project computes bar rectangles, line vertices, gradients, overlays and axis ticks.
func (p Projector) Project(d Domain, g Grouping, y Linear, lines []model.Line, bars []model.Bar) *Frame {
	f := &Frame{
		Width:       p.Width,
		Height:      p.Height,
		Prefix:      p.Prefix,
		Domain:      d,
		Grouping:    g,
		YMin:        y.Min(),
		YMax:        y.Max(),
		Baseline:    y.Scale(y.Min()),
		SourceLines: lines,
		SourceBars:  bars,
	}

	x := p.keyScale(d, g)
	if !d.TimeScaled {
		f.LineOffset = g.Keys.Bandwidth / 2
	}

	f.Bars = p.projectBars(g, bars, x, y)
	f.Lines = p.projectLines(d, lines, x, y, f.LineOffset)
	f.Overlays = p.projectOverlays(d, g, lines, bars, x, y, f)
	f.XTicks = p.xTicks(d, g)
	f.YTicks = p.yTicks(y)

	return f
}

// keyScale returns the x position of a key: the start of its band, or its instant.
func (p Projector) keyScale(d Domain, g Grouping) func(model.Key) float64 {
	if d.TimeScaled && len(d.Keys) > 0 {
		t := NewTime(d.Keys[0].Time(), d.Keys[len(d.Keys)-1].Time(), 0, p.Width)

		return func(k model.Key) float64 {
			return t.Scale(k.Time())
		}
	}

	return func(k model.Key) float64 {
		i, _ := d.Index(k)

		return g.Keys.Pos(i)
	}
}

func (p Projector) projectBars(g Grouping, bars []model.Bar, x func(model.Key) float64, y Linear) []BarShape {
	var shapes []BarShape

	for _, s := range g.Series {
		bar := bars[s.Index]

		for _, row := range s.Rows {
			source := bar.Rows[row.Row]

			for _, seg := range row.Segments {
				top := y.Scale(seg.Upper)
				height := math.Max(0, y.Scale(seg.Lower)-top)

				fill := source.Color.Resolve(model.ColorContext{
					Series: bar.Name,
					Key:    row.Key,
					Column: seg.Column,
					Value:  seg.Value,
					Lower:  seg.Lower,
					Upper:  seg.Upper,
					Total:  row.Total,
				})
				if fill == "" && seg.ColumnIndex < len(bar.Colors) {
					fill = bar.Colors[seg.ColumnIndex]
				}

				shapes = append(shapes, BarShape{
					Rect: Rect{
						X:      x(row.Key) + s.Offset,
						Y:      top,
						Width:  s.Width,
						Height: height,
					},
					Series:      s.Index,
					SeriesName:  bar.Name,
					Row:         row.Row,
					Key:         row.Key,
					Column:      seg.Column,
					ColumnIndex: seg.ColumnIndex,
					Fill:        fill,
				})
			}
		}
	}

	return shapes
}

func (p Projector) projectLines(d Domain, lines []model.Line, x func(model.Key) float64, y Linear, offset float64) []LineShape {
	shapes := make([]LineShape, 0, len(lines))

	for i, l := range lines {
		shape := LineShape{
			Series:     i,
			Name:       l.Name,
			Class:      p.Prefix + "line",
			Stroke:     l.Color.Resolve(model.ColorContext{Series: l.Name}),
			DotOutside: l.DotOutsideSize,
			DotInside:  l.DotInsideSize,
			Vertices:   make([]Vertex, 0, len(l.Points)),
		}

		xs := make([]float64, 0, len(l.Points))
		ys := make([]float64, 0, len(l.Points))

		for _, pt := range l.Points {
			vx := x(pt.Key) + offset
			vy := y.Scale(pt.Value)
			xs = append(xs, vx)
			ys = append(ys, vy)

			if !isFinite(vx) || !isFinite(vy) {
				continue
			}

			shape.Vertices = append(shape.Vertices, Vertex{X: vx, Y: vy, Point: pt})
		}

		shape.Path = pathData(xs, ys)

		if shape.Stroke == "" && len(l.Gradient) > 0 {
			shape.Gradient = p.gradient(i, l.Gradient, d, y)
			shape.Stroke = "url(#" + shape.Gradient.ID + ")"
		}

		shapes = append(shapes, shape)
	}

	return shapes
}

// gradient positions the stops relative to the resolved max value: it must be recomputed on
// every draw.
func (p Projector) gradient(i int, colors []model.GradientColor, d Domain, y Linear) *Gradient {
	g := &Gradient{
		ID:    p.Prefix + "line-gradient-" + strconv.Itoa(i),
		X1:    0,
		Y1:    y.Scale(0),
		X2:    0,
		Y2:    y.Scale(d.MaxValue),
		Stops: make([]GradientStop, 0, len(colors)),
	}

	for _, c := range colors {
		g.Stops = append(g.Stops, GradientStop{
			Offset: c.OffsetFor(d.MaxValue),
			Color:  c.Color,
		})
	}

	return g
}

func (p Projector) projectOverlays(d Domain, g Grouping, lines []model.Line, bars []model.Bar, x func(model.Key) float64, y Linear, f *Frame) []Overlay {
	var (
		overlays []Overlay
		top      = y.Scale(d.MaxValue)
	)

	// line overlays would collide with bar overlays: only when there is no bar
	if len(lines) > 0 && len(bars) == 0 {
		bottom := y.Scale(d.MinValue)
		for _, k := range d.Keys {
			var (
				points  []model.LinePoint
				sources []int
			)
			for i, l := range lines {
				for _, pt := range l.Points {
					if pt.Key.Equal(k) {
						points = append(points, pt)
						sources = append(sources, i)
					}
				}
			}

			overlays = append(overlays, Overlay{
				Rect: Rect{
					X:      x(k) + f.LineOffset - g.Slots.Bandwidth/2,
					Y:      top,
					Width:  g.Slots.Bandwidth,
					Height: bottom - top,
				},
				Kind:      OverlayLine,
				Class:     p.Prefix + "line-collision",
				Key:       k,
				Series:    -1,
				Row:       -1,
				Points:    points,
				Lines:     sources,
				Clickable: hasLineClick(lines),
			})
		}
	}

	for _, s := range g.Series {
		bar := bars[s.Index]
		if bar.Tip == nil && bar.OnClick == nil {
			continue
		}

		class := p.Prefix + "bar-collision"
		if bar.OnClick != nil {
			class += " " + p.Prefix + "bar-collision-onclick"
		}

		for _, row := range s.Rows {
			overlays = append(overlays, Overlay{
				Rect: Rect{
					X:      x(row.Key) + s.Offset,
					Y:      top,
					Width:  s.Width,
					Height: f.Baseline - top,
				},
				Kind:      OverlayBar,
				Class:     class,
				Key:       row.Key,
				Series:    s.Index,
				Row:       row.Row,
				Clickable: bar.OnClick != nil,
			})
		}
	}

	return overlays
}

func hasLineClick(lines []model.Line) bool {
	for _, l := range lines {
		if l.OnClick != nil {
			return true
		}
	}

	return false
}

func (p Projector) xTicks(d Domain, g Grouping) []Tick {
	if len(d.Keys) == 0 {
		return nil
	}

	if !d.TimeScaled {
		ticks := make([]Tick, 0, len(d.Keys))
		for i, k := range d.Keys {
			ticks = append(ticks, Tick{Pos: g.Keys.Center(i), Label: k.String()})
		}

		return ticks
	}

	t := NewTime(d.Keys[0].Time(), d.Keys[len(d.Keys)-1].Time(), 0, p.Width)
	values := t.Values(p.XAxisTicks)
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{Pos: t.Scale(v), Label: v.Format(p.TimeFormat)})
	}

	return ticks
}

func (p Projector) yTicks(y Linear) []Tick {
	values := y.Ticks(p.YAxisTicks)
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{Pos: y.Scale(v), Label: p.YAxisFormatter(v)})
	}

	return ticks
}

// pathData builds a polyline path through the points. Non-finite points break the line.
func pathData(xs, ys []float64) string {
	var (
		path   []byte
		inLine bool
	)

	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			inLine = false

			continue
		}

		if !inLine {
			path = append(path, 'M')
			inLine = true
		} else {
			path = append(path, 'L')
		}

		path = strconv.AppendFloat(path, xs[i], 'f', 2, 64)
		path = append(path, ',')
		path = strconv.AppendFloat(path, ys[i], 'f', 2, 64)
	}

	return string(path)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
