package layout

import (
	"math"
	"sort"

	"github.com/processout/picasso/internal/pkg/model"
)

// DefaultPadding is the ratio applied to both bounds of the value range when no explicit bound is
// configured.
const DefaultPadding = 0.1

// Bounds configures how the value range is resolved.
type Bounds struct {
	// Min and Max are explicit bounds. When set, they take precedence over padding and baseline
	// resets.
	Min *float64
	Max *float64

	// Padding is the ratio by which the computed bounds are widened.
	Padding float64

	// StrictBaseline suppresses the max padding whenever the min value is reset to zero
	// (single bar, or stacked bars).
	StrictBaseline bool
}

// Domain is the resolved domain of one draw.
type Domain struct {
	TimeScaled bool
	Keys       []model.Key
	MinValue   float64
	MaxValue   float64

	// DataMin and DataMax are the bounds of the data, before padding and resets.
	DataMin float64
	DataMax float64

	NbBars    int
	Stacked   bool
	BaseReset bool

	index map[string]int
}

// Index returns the position of a key in the ordered keys.
func (d Domain) Index(k model.Key) (int, bool) {
	i, ok := d.index[k.String()]

	return i, ok
}

// Resolve computes the ordered keys and the value range of validated series.
func Resolve(lines []model.Line, bars []model.Bar, timeScaled bool, bounds Bounds) Domain {
	d := Domain{
		TimeScaled: timeScaled,
		DataMin:    math.Inf(1),
		DataMax:    math.Inf(-1),
		index:      make(map[string]int),
	}

	addKey := func(k model.Key) {
		s := k.String()
		if _, seen := d.index[s]; seen {
			return
		}

		d.index[s] = len(d.Keys)
		d.Keys = append(d.Keys, k)
	}

	include := func(v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}

		d.DataMin = math.Min(d.DataMin, v)
		d.DataMax = math.Max(d.DataMax, v)
	}

	for _, b := range bars {
		if b.Stacked() {
			d.Stacked = true
		}

		for _, r := range b.Rows {
			addKey(r.Key)
			include(r.Total)
			d.NbBars++
		}
	}

	for _, l := range lines {
		for _, p := range l.Points {
			addKey(p.Key)
			include(p.Value)
		}
	}

	if timeScaled {
		sort.SliceStable(d.Keys, func(i, j int) bool {
			return d.Keys[i].Time().Before(d.Keys[j].Time())
		})

		for i, k := range d.Keys {
			d.index[k.String()] = i
		}
	}

	if math.IsInf(d.DataMin, 1) {
		// no finite value at all
		d.DataMin, d.DataMax = 0, 0
	}

	d.MinValue, d.MaxValue = d.DataMin, d.DataMax
	padding := bounds.Padding

	if bounds.Min != nil {
		d.MinValue = *bounds.Min
	} else {
		d.MinValue -= math.Abs(d.MinValue) * padding
		if d.NbBars == 1 || d.Stacked {
			// bars grow from zero; negative totals keep their padded floor
			d.MinValue = math.Min(0, d.MinValue)
			d.BaseReset = true
		}
	}

	if bounds.Max != nil {
		d.MaxValue = *bounds.Max
	} else if !(bounds.StrictBaseline && d.BaseReset) {
		d.MaxValue += math.Abs(d.MaxValue) * padding
	}

	return d
}
