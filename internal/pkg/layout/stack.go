package layout

import (
	"github.com/processout/picasso/internal/pkg/model"
)

const (
	// KeyPadding is the padding ratio between key bands on a categorical axis.
	KeyPadding = 0.1
	// GroupPadding is the padding ratio between grouped bar series within a key band.
	GroupPadding = 0.05
)

// Segment is the vertical extent of one column of a bar row, in value space.
type Segment struct {
	Column      string
	ColumnIndex int
	Value       float64
	Lower       float64
	Upper       float64
}

// RowStack is the stack of segments of one bar row.
type RowStack struct {
	Row      int
	Key      model.Key
	KeyIndex int
	Total    float64
	Segments []Segment
}

// SeriesLayout is the horizontal placement and the vertical stacks of one bar series.
type SeriesLayout struct {
	Index   int
	Name    string
	Offset  float64
	Width   float64
	Stacked bool
	Rows    []RowStack
}

// Grouping holds the bands of the x axis and the per-series bar layout.
type Grouping struct {
	// Keys is the primary band over the ordered keys.
	Keys Band
	// Slots is the unpadded band over the ordered keys, used to size per-key overlays.
	Slots Band
	// Groups partitions one key band across the bar series.
	Groups Band
	Series []SeriesLayout
}

// Stack lays out grouped and stacked bars over a drawing area of the given width.
//
// Stacked series pile up their columns in column order, starting at zero. Single column series
// grow from the baseline.
func Stack(d Domain, bars []model.Bar, width, baseline float64) Grouping {
	n := len(d.Keys)
	g := Grouping{
		Keys:  NewBand(n, 0, width, KeyPadding, KeyPadding, false),
		Slots: NewBand(n, 0, width, 0, 0, false),
	}

	if d.TimeScaled {
		// instants are positioned by the time scale: bands only size the slots
		g.Keys = g.Slots
	}

	if len(bars) == 0 {
		return g
	}

	g.Groups = NewBand(len(bars), 0, g.Keys.Bandwidth, GroupPadding, GroupPadding, true)
	g.Series = make([]SeriesLayout, 0, len(bars))

	for i, b := range bars {
		s := SeriesLayout{
			Index:   i,
			Name:    b.Name,
			Offset:  g.Groups.Pos(i),
			Width:   g.Groups.Bandwidth,
			Stacked: b.Stacked(),
			Rows:    make([]RowStack, 0, len(b.Rows)),
		}

		for j, r := range b.Rows {
			keyIndex, _ := d.Index(r.Key)
			rs := RowStack{
				Row:      j,
				Key:      r.Key,
				KeyIndex: keyIndex,
				Total:    r.Total,
				Segments: make([]Segment, 0, len(b.Columns)),
			}

			var cumulative float64
			for k, column := range b.Columns {
				v := r.Value(k)
				seg := Segment{
					Column:      column,
					ColumnIndex: k,
					Value:       v,
				}

				if s.Stacked {
					seg.Lower = cumulative
					cumulative += v
					seg.Upper = cumulative
				} else {
					seg.Lower = baseline
					seg.Upper = v
				}

				rs.Segments = append(rs.Segments, seg)
			}

			s.Rows = append(s.Rows, rs)
		}

		g.Series = append(g.Series, s)
	}

	return g
}
