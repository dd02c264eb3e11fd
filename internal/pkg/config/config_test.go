package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"
	"golang.org/x/tools/benchmark/parse"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestLoadDefault(t *testing.T) {
	cfg, err := loadDefaults()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.EncodeYAML(&buf))
	t.Log(buf.String())
}

func TestLoadDefaultContent(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)

	assert.Equal(t, "picasso", cfg.Name)
	assert.Equal(t, "Picasso", cfg.Title())

	t.Run("chart options", func(t *testing.T) {
		o := cfg.Chart
		assert.InDelta(t, 960.0, o.Width, 1e-9)
		assert.InDelta(t, 480.0, o.Height, 1e-9)
		assert.Equal(t, 5, o.XAxisTicks)
		assert.Equal(t, 5, o.YAxisTicks)
		assert.True(t, o.XLegendBottom)
		assert.True(t, o.YLegendLeft)
		assert.True(t, o.YLegendRight)
		assert.True(t, o.Nice)
		assert.False(t, o.StrictBaseline)
		assert.InDelta(t, 0.1, o.Padding, 1e-9)
		assert.Nil(t, o.Min)
		assert.Nil(t, o.Max)
		assert.Equal(t, "2006-01-02", o.TimeFormat)
	})

	t.Run("margins", func(t *testing.T) {
		assert.Equal(t, Margins{Top: 10, Right: 55, Bottom: 45, Left: 55}, cfg.Chart.Margins())

		w, h := cfg.Chart.DrawingSize()
		assert.InDelta(t, 850.0, w, 1e-9)
		assert.InDelta(t, 425.0, h, 1e-9)
	})

	t.Run("rendering", func(t *testing.T) {
		assert.Equal(t, "roma", cfg.Render.Theme)
		assert.Equal(t, int64(1280), cfg.Render.Screenshot.Width)
		assert.Positive(t, cfg.Render.Screenshot.SleepDuration())
	})

	t.Run("metrics", func(t *testing.T) {
		assert.Equal(t, MetricNsPerOp, cfg.Bench.Metric)
		assert.Len(t, cfg.Bench.Metrics, 4)

		for _, name := range AllMetricNames() {
			_, ok := cfg.GetMetric(name)
			assert.True(t, ok, "expected metric %q in index", name)
		}

		m, ok := cfg.GetMetric(MetricNsPerOp)
		require.True(t, ok)
		assert.Equal(t, "ns/op", m.Axis)
	})
}

func TestLoadFromFile(t *testing.T) {
	file := writeConfig(t, `
name: sales_report
render:
  title: ""
chart:
  width: 400
  height: 300
  min: -5
  yAxisFormat: number
  marginLeft: 80
`)

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "Sales Report", cfg.Title())
	assert.InDelta(t, 400.0, cfg.Chart.Width, 1e-9)
	require.NotNil(t, cfg.Chart.Min)
	assert.InDelta(t, -5.0, *cfg.Chart.Min, 1e-9)
	assert.Nil(t, cfg.Chart.Max)

	// defaults are kept for unset keys
	assert.Equal(t, 5, cfg.Chart.YAxisTicks)
	assert.True(t, cfg.Chart.Nice)

	m := cfg.Chart.Margins()
	assert.InDelta(t, 80.0, m.Left, 1e-9)
	assert.InDelta(t, 55.0, m.Right, 1e-9)

	format, err := cfg.Chart.YAxisFormatter()
	require.NoError(t, err)
	assert.Equal(t, "12,345.5", format(12345.5))
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := load(os.DirFS(dir), "nonexistent.yaml", &Config{})
	require.Error(t, err)

	_, err = Load(filepath.Join(dir, "nonexistent.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte(":\n  :\n    - [invalid"), 0o600))

	_, err := load(os.DirFS(dir), "bad.yaml", &Config{})
	require.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "negative size",
			yaml: "chart:\n  width: -1\n",
		},
		{
			name: "margins larger than the surface",
			yaml: "chart:\n  width: 100\n  marginLeft: 60\n  marginRight: 60\n",
		},
		{
			name: "min above max",
			yaml: "chart:\n  min: 10\n  max: 1\n",
		},
		{
			name: "negative padding",
			yaml: "chart:\n  padding: -0.5\n",
		},
		{
			name: "unknown format",
			yaml: "chart:\n  yAxisFormat: roman\n",
		},
		{
			name: "bad metric",
			yaml: "bench:\n  metric: furlongsPerFortnight\n",
		},
		{
			name: "wrong type",
			yaml: "chart:\n  xAxisTicks: many\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestYAxisFormatter(t *testing.T) {
	tests := []struct {
		format string
		value  float64
		want   string
	}{
		{"", 0.25, "0.25"},
		{FormatPlain, 1200, "1200"},
		{FormatNumber, 1234567, "1,234,567"},
		{"%.1f ms", 3.14159, "3.1 ms"},
		{"%g%%", 50, "50%"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			format, err := Options{YAxisFormat: tt.format}.YAxisFormatter()
			require.NoError(t, err)
			assert.Equal(t, tt.want, format(tt.value))
		})
	}

	t.Run("pattern without verb", func(t *testing.T) {
		_, err := Options{YAxisFormat: "%d items"}.YAxisFormatter()
		require.Error(t, err)
	})
}

func TestDecodeOptions(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)

	var raw any
	require.NoError(t, yaml.Unmarshal([]byte("max: 100\nmarginTop: 0\nstrictBaseline: true\n"), &raw))

	opts := cfg.Chart
	require.NoError(t, DecodeOptions(raw, &opts))

	require.NotNil(t, opts.Max)
	assert.InDelta(t, 100.0, *opts.Max, 1e-9)
	assert.True(t, opts.StrictBaseline)
	assert.InDelta(t, 0.0, opts.Margins().Top, 1e-9)

	// the source options are left untouched
	assert.Nil(t, cfg.Chart.Max)
	assert.InDelta(t, 10.0, cfg.Chart.Margins().Top, 1e-9)
	assert.False(t, cfg.Chart.StrictBaseline)

	t.Run("nothing to decode", func(t *testing.T) {
		o := cfg.Chart
		require.NoError(t, DecodeOptions(nil, &o))
		assert.Equal(t, cfg.Chart, o)
	})

	t.Run("invalid result", func(t *testing.T) {
		o := cfg.Chart
		require.Error(t, DecodeOptions(map[string]any{"height": 0}, &o))
	})
}

func TestEncodeYAML(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)
	cfg.Outputs = Output{File: "secret.svg"}

	var buf bytes.Buffer
	require.NoError(t, cfg.EncodeYAML(&buf))

	assert.NotContains(t, buf.String(), "secret.svg")

	// the dump loads back
	reloaded, err := Load(writeConfig(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg.Chart.Margins(), reloaded.Chart.Margins())
	assert.Equal(t, cfg.Bench.Metric, reloaded.Bench.Metric)
}

func TestMetricName(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "nsPerOp", MetricNsPerOp.String())
	})

	t.Run("IsValid", func(t *testing.T) {
		valid := []MetricName{MetricNsPerOp, MetricAllocsPerOp, MetricBytesPerOp, MetricMBPerS}
		for _, m := range valid {
			assert.True(t, m.IsValid(), "expected %q to be valid", m)
		}

		invalid := []MetricName{"unknown", "", "nsperop", "NS_PER_OP"}
		for _, m := range invalid {
			assert.False(t, m.IsValid(), "expected %q to be invalid", m)
		}
	})

	t.Run("AllMetricNames", func(t *testing.T) {
		names := AllMetricNames()
		require.Len(t, names, 4)
		for _, n := range names {
			assert.True(t, n.IsValid(), "AllMetricNames() returned invalid name %q", n)
		}
	})
}

func TestMetricValue(t *testing.T) {
	bench, err := parse.ParseLine("BenchmarkDecode-8   	 1000000	      1250 ns/op	     512 B/op	       3 allocs/op")
	require.NoError(t, err)

	v, ok := MetricNsPerOp.Value(bench)
	require.True(t, ok)
	assert.InDelta(t, 1250.0, v, 1e-9)

	v, ok = MetricBytesPerOp.Value(bench)
	require.True(t, ok)
	assert.InDelta(t, 512.0, v, 1e-9)

	v, ok = MetricAllocsPerOp.Value(bench)
	require.True(t, ok)
	assert.InDelta(t, 3.0, v, 1e-9)

	_, ok = MetricMBPerS.Value(bench)
	assert.False(t, ok, "throughput was not measured")

	_, ok = MetricName("unknown").Value(bench)
	assert.False(t, ok)

	_, ok = MetricNsPerOp.Value(nil)
	assert.False(t, ok)
}

func TestSleepDuration(t *testing.T) {
	assert.Zero(t, Screenshot{Sleep: "soon"}.SleepDuration())
	assert.Zero(t, Screenshot{}.SleepDuration())
	assert.Equal(t, "2s", Screenshot{Sleep: "2s"}.SleepDuration().String())
}

func writeConfig(t *testing.T, yamlContent string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yamlContent), 0o600))

	return file
}
