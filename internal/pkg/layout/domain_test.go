package layout

import (
	"math"
	"testing"
	"time"

	"github.com/processout/picasso/internal/pkg/model"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

const epsilon = 1e-9

func keyStrings(keys []model.Key) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}

	return out
}

func TestResolve(t *testing.T) {
	padding := Bounds{Padding: DefaultPadding}

	t.Run("single line is padded", func(t *testing.T) {
		d := Resolve([]model.Line{catLine("l", kv{"A", 1}, kv{"B", 3})}, nil, false, padding)

		assert.Equal(t, []string{"A", "B"}, keyStrings(d.Keys))
		assert.InDelta(t, 0.9, d.MinValue, epsilon)
		assert.InDelta(t, 3.3, d.MaxValue, epsilon)
		assert.False(t, d.BaseReset)
	})

	t.Run("stacked bar resets the floor", func(t *testing.T) {
		b := bar("b", row("A", field("col1", 2), field("col2", 3)))
		require.Equal(t, []string{"col1", "col2"}, b.Columns)
		require.InDelta(t, 5.0, b.Rows[0].Total, epsilon)

		d := Resolve(nil, []model.Bar{b}, false, padding)

		assert.True(t, d.Stacked)
		assert.True(t, d.BaseReset)
		assert.InDelta(t, 0.0, d.MinValue, epsilon)
		assert.InDelta(t, 5.5, d.MaxValue, epsilon)
	})

	t.Run("single bar row resets the floor", func(t *testing.T) {
		d := Resolve(nil, []model.Bar{bar("b", row("A", field("v", 4)))}, false, padding)

		assert.Equal(t, 1, d.NbBars)
		assert.InDelta(t, 0.0, d.MinValue, epsilon)
		assert.InDelta(t, 4.4, d.MaxValue, epsilon)
	})

	t.Run("several single column rows keep the padded floor", func(t *testing.T) {
		d := Resolve(nil, []model.Bar{bar("b", row("A", field("v", 2)), row("B", field("v", 4)))}, false, padding)

		assert.Equal(t, 2, d.NbBars)
		assert.False(t, d.BaseReset)
		assert.InDelta(t, 1.8, d.MinValue, epsilon)
		assert.InDelta(t, 4.4, d.MaxValue, epsilon)
	})

	t.Run("explicit bounds take precedence", func(t *testing.T) {
		b := bar("b", row("A", field("col1", 2), field("col2", 3)))
		d := Resolve(nil, []model.Bar{b}, false, Bounds{Min: ptr(-1.0), Max: ptr(10.0), Padding: DefaultPadding})

		assert.InDelta(t, -1.0, d.MinValue, epsilon)
		assert.InDelta(t, 10.0, d.MaxValue, epsilon)
		assert.False(t, d.BaseReset)
	})

	t.Run("negative values keep the bounds around the data", func(t *testing.T) {
		d := Resolve([]model.Line{catLine("l", kv{"A", -2}, kv{"B", 3})}, nil, false, padding)

		assert.InDelta(t, -2.2, d.MinValue, epsilon)
		assert.InDelta(t, 3.3, d.MaxValue, epsilon)
		assert.LessOrEqual(t, d.MinValue, d.DataMin)
		assert.GreaterOrEqual(t, d.MaxValue, d.DataMax)
	})

	t.Run("negative stacked totals keep their floor", func(t *testing.T) {
		b := bar("b", row("A", field("col1", -2), field("col2", -3)))
		d := Resolve(nil, []model.Bar{b}, false, padding)

		assert.InDelta(t, -5.5, d.MinValue, epsilon)
		assert.LessOrEqual(t, d.MinValue, d.DataMin)
	})

	t.Run("non finite values are ignored", func(t *testing.T) {
		d := Resolve([]model.Line{catLine("l", kv{"A", 1}, kv{"B", math.NaN()}, kv{"C", 3}, kv{"D", math.Inf(1)})}, nil, false, padding)

		assert.Equal(t, []string{"A", "B", "C", "D"}, keyStrings(d.Keys))
		assert.InDelta(t, 0.9, d.MinValue, epsilon)
		assert.InDelta(t, 3.3, d.MaxValue, epsilon)
	})

	t.Run("no finite value", func(t *testing.T) {
		d := Resolve([]model.Line{catLine("l", kv{"A", math.NaN()})}, nil, false, padding)

		assert.InDelta(t, 0.0, d.MinValue, epsilon)
		assert.InDelta(t, 0.0, d.MaxValue, epsilon)
	})

	t.Run("bar keys come first", func(t *testing.T) {
		d := Resolve(
			[]model.Line{catLine("l", kv{"C", 1}, kv{"A", 2})},
			[]model.Bar{bar("b", row("B", field("v", 1)), row("A", field("v", 2)))},
			false, padding,
		)

		assert.Equal(t, []string{"B", "A", "C"}, keyStrings(d.Keys))

		i, ok := d.Index(model.CategoryKey("C"))
		require.True(t, ok)
		assert.Equal(t, 2, i)

		_, ok = d.Index(model.CategoryKey("Z"))
		assert.False(t, ok)
	})

	t.Run("time keys are sorted and deduplicated", func(t *testing.T) {
		paris := time.FixedZone("CET", 3600)
		d := Resolve(
			[]model.Line{
				timeLine("a", tv{day(3), 1}, tv{day(1), 2}),
				timeLine("b", tv{day(2), 1}, tv{day(1).In(paris), 5}),
			},
			nil, true, padding,
		)

		require.Len(t, d.Keys, 3)
		assert.True(t, d.Keys[0].Time().Equal(day(1)))
		assert.True(t, d.Keys[1].Time().Equal(day(2)))
		assert.True(t, d.Keys[2].Time().Equal(day(3)))

		i, ok := d.Index(model.TimeKey(day(2).In(paris)))
		require.True(t, ok)
		assert.Equal(t, 1, i)
	})
}

func TestResolveStrictBaseline(t *testing.T) {
	stacked := []model.Bar{bar("b", row("A", field("col1", 2), field("col2", 3)))}
	lines := []model.Line{catLine("l", kv{"A", 1}, kv{"B", 3})}

	t.Run("reset fired, strict", func(t *testing.T) {
		d := Resolve(nil, stacked, false, Bounds{Padding: DefaultPadding, StrictBaseline: true})

		assert.InDelta(t, 0.0, d.MinValue, epsilon)
		assert.InDelta(t, 5.0, d.MaxValue, epsilon)
	})

	t.Run("reset fired, not strict", func(t *testing.T) {
		d := Resolve(nil, stacked, false, Bounds{Padding: DefaultPadding})

		assert.InDelta(t, 0.0, d.MinValue, epsilon)
		assert.InDelta(t, 5.5, d.MaxValue, epsilon)
	})

	t.Run("no reset, strict", func(t *testing.T) {
		d := Resolve(lines, nil, false, Bounds{Padding: DefaultPadding, StrictBaseline: true})

		assert.InDelta(t, 0.9, d.MinValue, epsilon)
		assert.InDelta(t, 3.3, d.MaxValue, epsilon)
	})
}
