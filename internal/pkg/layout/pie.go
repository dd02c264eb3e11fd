package layout

import (
	"math"
	"strconv"

	"github.com/processout/picasso/internal/pkg/model"
)

const (
	fullCircle = 2 * math.Pi
	// labelRadius is the ratio of the radius at which slice labels are centered.
	labelRadius = 0.7
)

// Arc is one projected pie slice. Angles are in radians, clockwise from twelve o'clock.
type Arc struct {
	Index  int
	Slice  model.Slice
	Start  float64
	End    float64
	Path   string
	LabelX float64
	LabelY float64
	Label  string
	Fill   string
}

// Contains reports whether a point, relative to the pie center, lies on the arc.
func (a Arc) Contains(x, y, radius float64) bool {
	if math.Hypot(x, y) > radius || a.End <= a.Start {
		return false
	}

	angle := math.Atan2(x, -y)
	if angle < 0 {
		angle += fullCircle
	}

	return angle >= a.Start && angle < a.End
}

// PieFrame is the geometry produced by one draw of a pie chart.
type PieFrame struct {
	Width   float64
	Height  float64
	Prefix  string
	CenterX float64
	CenterY float64
	Radius  float64
	Arcs    []Arc
}

// HitTest returns the arc under a point of the drawing area.
func (f *PieFrame) HitTest(x, y float64) (Arc, bool) {
	for _, a := range f.Arcs {
		if a.Contains(x-f.CenterX, y-f.CenterY, f.Radius) {
			return a, true
		}
	}

	return Arc{}, false
}

// Pie lays out slices in their registration order over the full circle.
//
// Slices with a non-positive value get an empty arc.
func Pie(slices []model.Slice, width, height float64, prefix string) *PieFrame {
	f := &PieFrame{
		Width:   width,
		Height:  height,
		Prefix:  prefix,
		CenterX: width / 2,
		CenterY: height / 2,
		Radius:  math.Min(width, height) / 2,
		Arcs:    make([]Arc, 0, len(slices)),
	}

	var total float64
	for _, s := range slices {
		if s.Value > 0 && isFinite(s.Value) {
			total += s.Value
		}
	}

	var angle float64
	for i, s := range slices {
		var span float64
		if total > 0 && s.Value > 0 && isFinite(s.Value) {
			span = s.Value / total * fullCircle
		}

		fill := s.Color.Resolve(model.ColorContext{Series: s.Name, Value: s.Value, Slice: &slices[i]})
		if fill == "" {
			fill = model.Category10[i%len(model.Category10)]
		}

		mid := angle + span/2
		a := Arc{
			Index:  i,
			Slice:  s,
			Start:  angle,
			End:    angle + span,
			Path:   arcPath(angle, angle+span, f.Radius),
			LabelX: labelRadius * f.Radius * math.Sin(mid),
			LabelY: -labelRadius * f.Radius * math.Cos(mid),
			Label:  strconv.FormatFloat(s.Value, 'f', -1, 64),
			Fill:   fill,
		}

		f.Arcs = append(f.Arcs, a)
		angle += span
	}

	return f
}

// arcPath returns the path of a pie sector centered on the origin.
func arcPath(start, end, r float64) string {
	span := end - start
	if span <= 0 || r <= 0 {
		return ""
	}

	if span >= fullCircle-1e-9 {
		// a full circle can't be drawn as a single arc
		return "M0," + ff(-r) + "A" + ff(r) + "," + ff(r) + " 0 1,1 0," + ff(r) +
			"A" + ff(r) + "," + ff(r) + " 0 1,1 0," + ff(-r) + "Z"
	}

	large := "0"
	if span > math.Pi {
		large = "1"
	}

	x0, y0 := r*math.Sin(start), -r*math.Cos(start)
	x1, y1 := r*math.Sin(end), -r*math.Cos(end)

	return "M" + ff(x0) + "," + ff(y0) +
		"A" + ff(r) + "," + ff(r) + " 0 " + large + ",1 " + ff(x1) + "," + ff(y1) +
		"L0,0Z"
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
