package layout

import (
	"math"
	"time"

	"github.com/aclements/go-moremath/scale"
)

// Band splits a pixel range into n evenly spaced bands.
//
// Padding ratios follow the usual band scale semantics: inner padding separates bands, outer
// padding is left before the first and after the last band. Rounded bands snap the step, start
// and bandwidth to whole pixels.
type Band struct {
	N         int
	Start     float64
	Step      float64
	Bandwidth float64
}

// NewBand builds a [Band] of n bands over [lo, hi].
func NewBand(n int, lo, hi, paddingInner, paddingOuter float64, round bool) Band {
	b := Band{N: n}
	step := (hi - lo) / math.Max(1, float64(n)-paddingInner+paddingOuter*2)
	if round {
		step = math.Floor(step)
	}

	start := lo + (hi-lo-step*(float64(n)-paddingInner))*0.5
	bandwidth := step * (1 - paddingInner)
	if round {
		start = math.Round(start)
		bandwidth = math.Round(bandwidth)
	}

	b.Start = start
	b.Step = step
	b.Bandwidth = bandwidth

	return b
}

// Pos returns the start of the i-th band.
func (b Band) Pos(i int) float64 {
	return b.Start + b.Step*float64(i)
}

// Center returns the middle of the i-th band.
func (b Band) Center(i int) float64 {
	return b.Pos(i) + b.Bandwidth/2
}

// Linear maps values onto a pixel range, with the range reversed for vertical axes.
type Linear struct {
	s      scale.Linear
	lo, hi float64
}

// NewLinear builds a [Linear] scale mapping [min, max] onto [lo, hi].
//
// A degenerate domain is widened so that values still map inside the range.
func NewLinear(min, max, lo, hi float64) Linear {
	if min > max {
		min, max = max, min
	}

	if min == max {
		min -= 0.5
		max += 0.5
	}

	return Linear{
		s:  scale.Linear{Min: min, Max: max},
		lo: lo,
		hi: hi,
	}
}

// Nice extends the domain to round tick values, given a budget of ticks.
func (l *Linear) Nice(ticks int) {
	l.s.Nice(tickOptions(ticks))
}

// Min bound of the domain.
func (l Linear) Min() float64 {
	return l.s.Min
}

// Max bound of the domain.
func (l Linear) Max() float64 {
	return l.s.Max
}

// Scale maps a value to a pixel position.
func (l Linear) Scale(v float64) float64 {
	return l.lo + l.s.Map(v)*(l.hi-l.lo)
}

// Ticks returns the major tick values of the domain.
func (l Linear) Ticks(ticks int) []float64 {
	major, _ := l.s.Ticks(tickOptions(ticks))

	return major
}

func tickOptions(ticks int) scale.TickOptions {
	const defaultTicks = 5
	if ticks <= 0 {
		ticks = defaultTicks
	}

	// tick budget includes both ends of the axis
	return scale.TickOptions{Max: ticks + 1}
}

// Time maps instants onto a pixel range.
type Time struct {
	from, to time.Time
	lo, hi   float64
}

// NewTime builds a [Time] scale mapping [from, to] onto [lo, hi].
func NewTime(from, to time.Time, lo, hi float64) Time {
	if from.After(to) {
		from, to = to, from
	}

	return Time{from: from, to: to, lo: lo, hi: hi}
}

// Scale maps an instant to a pixel position. A degenerate domain maps to the middle of the range.
func (t Time) Scale(v time.Time) float64 {
	extent := t.to.Sub(t.from)
	if extent == 0 {
		return (t.lo + t.hi) / 2
	}

	return t.lo + float64(v.Sub(t.from))/float64(extent)*(t.hi-t.lo)
}

// Values returns n+1 evenly spaced instants spanning the domain.
func (t Time) Values(n int) []time.Time {
	if n <= 0 {
		n = 1
	}

	var (
		all  = make([]time.Time, 0, n+1)
		step = float64(t.to.Sub(t.from)) / float64(n)
	)

	if step == 0 {
		return []time.Time{t.from}
	}

	for i := range n {
		all = append(all, t.from.Add(time.Duration(float64(i)*step)))
	}

	return append(all, t.to)
}
