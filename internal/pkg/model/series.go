package model

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
)

const (
	// DefaultDotOutsideSize is the radius of the outer dot drawn on each line point.
	DefaultDotOutsideSize = 5.0
	// DefaultDotInsideSize is the radius of the inner dot drawn on each line point.
	DefaultDotInsideSize = 3.0
)

// LinePoint is a single point of a [Line].
type LinePoint struct {
	Key      Key
	Value    float64
	LineName string
}

// GradientColor is one stop of a line gradient.
//
// When Threshold is set, Offset is recomputed at each draw relative to the resolved maximum value
// of the chart.
type GradientColor struct {
	Offset    string
	Threshold *float64
	Color     string
}

// OffsetFor returns the offset of the stop for a resolved maximum value.
func (g GradientColor) OffsetFor(maxValue float64) string {
	if g.Threshold == nil || maxValue == 0 || math.IsNaN(maxValue) {
		return g.Offset
	}

	return fmt.Sprintf("%d%%", int(math.Floor(*g.Threshold/maxValue*100)))
}

// LineInput is the raw description of a line, as provided by callers.
type LineInput struct {
	Name           string
	Points         []LinePoint
	Color          string
	Gradient       []GradientColor
	DotOutsideSize *float64
	DotInsideSize  *float64
	OnClick        func(LinePoint)
}

// Line is a normalized line series.
type Line struct {
	Name           string
	Points         []LinePoint
	Color          ColorSpec
	Gradient       []GradientColor
	DotOutsideSize float64
	DotInsideSize  float64
	OnClick        func(LinePoint)
}

// NormalizeLine applies defaults to a [LineInput] and returns an independent [Line].
func NormalizeLine(in LineInput) Line {
	l := Line{
		Name:           in.Name,
		Color:          Solid(in.Color),
		DotOutsideSize: DefaultDotOutsideSize,
		DotInsideSize:  DefaultDotInsideSize,
		OnClick:        in.OnClick,
	}

	if in.DotOutsideSize != nil {
		l.DotOutsideSize = *in.DotOutsideSize
	}

	if in.DotInsideSize != nil {
		l.DotInsideSize = *in.DotInsideSize
	}

	if len(in.Gradient) > 0 {
		l.Gradient = make([]GradientColor, len(in.Gradient))
		copy(l.Gradient, in.Gradient)
	}

	l.Points = make([]LinePoint, len(in.Points))
	for i, p := range in.Points {
		p.LineName = l.Name
		l.Points[i] = p
	}

	return l
}

// Field is a named value of a bar row.
type Field struct {
	Name  string
	Value float64
}

// BarRowInput is the raw description of a bar row: its key, optional color and ordered fields.
//
// The field order of the first row of a bar defines the column order.
type BarRowInput struct {
	Key    Key
	Color  ColorSpec
	Fields []Field
}

// BarInput is the raw description of a bar series.
type BarInput struct {
	Name    string
	Rows    []BarRowInput
	Colors  []string
	Tip     func(BarRow) string
	OnClick func(BarRow)
}

// BarRow is a normalized row of a [Bar]. Values are aligned with the columns of the series.
type BarRow struct {
	Key    Key
	Color  ColorSpec
	Values []float64
	Total  float64
}

// Value returns the value of the row for the column at index i.
func (r BarRow) Value(i int) float64 {
	if i < 0 || i >= len(r.Values) {
		return 0
	}

	return r.Values[i]
}

// Bar is a normalized bar series.
type Bar struct {
	Name    string
	Rows    []BarRow
	Columns []string
	Colors  []string
	Tip     func(BarRow) string
	OnClick func(BarRow)
}

// Stacked reports whether the series renders as stacked segments.
func (b Bar) Stacked() bool {
	return len(b.Columns) > 1
}

// IsReservedField reports whether a row field name is excluded from the columns.
func IsReservedField(name string) bool {
	switch name {
	case "key", "color", "total":
		return true
	default:
		return strings.HasPrefix(name, "_")
	}
}

// NormalizeBar infers columns and totals for a [BarInput].
//
// It returns false when the input has no rows: such a bar is not registered.
func NormalizeBar(in BarInput) (Bar, bool) {
	if len(in.Rows) == 0 {
		return Bar{}, false
	}

	l := slog.Default().With(slog.String("module", "model"))
	b := Bar{
		Name:    in.Name,
		Tip:     in.Tip,
		OnClick: in.OnClick,
	}

	for _, f := range in.Rows[0].Fields {
		if IsReservedField(f.Name) {
			continue
		}

		b.Columns = append(b.Columns, f.Name)
	}

	if len(b.Columns) == 0 {
		l.Warn("bar has no column: zero-height bars", slog.String("bar", b.Name))
	}

	b.Colors = Palette(in.Colors, len(b.Columns))
	b.Rows = make([]BarRow, 0, len(in.Rows))

	for i, raw := range in.Rows {
		row := BarRow{
			Key:    raw.Key,
			Color:  raw.Color,
			Values: make([]float64, len(b.Columns)),
		}

		for j, column := range b.Columns {
			v, ok := lookupField(raw.Fields, column)
			if !ok {
				l.Warn("missing bar column counted as zero",
					slog.String("bar", b.Name),
					slog.Int("row", i),
					slog.String("column", column),
				)
			}

			row.Values[j] = v
			row.Total += v
		}

		b.Rows = append(b.Rows, row)
	}

	return b, true
}

func lookupField(fields []Field, name string) (float64, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return 0, false
}
