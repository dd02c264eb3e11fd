package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/processout/picasso/internal/pkg/config"
	"github.com/processout/picasso/internal/pkg/layout"
	"github.com/processout/picasso/internal/pkg/page"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestNewCommand(t *testing.T) {
	cli := NewCommand()
	require.NotNil(t, cli)
	assert.NotNil(t, cli.L)
	// Verify defaults from registerFlags
	assert.Empty(t, cli.Config)
	assert.Equal(t, "-", cli.OutputFile)
	assert.False(t, cli.HTML)
	assert.Zero(t, cli.Width)
}

func TestInferFile(t *testing.T) {
	tests := []struct {
		input string
		ext   string
		want  string
	}{
		{"output.png", ".svg", "output.svg"},
		{"output.svg", ".svg", "output.svg"},
		{"output", ".html", "output.html"},
		{"path/to/output.png", ".html", "path/to/output.html"},
		{"output.html", ".png", "output.png"},
	}

	for _, tt := range tests {
		t.Run(tt.input+tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, inferFile(tt.input, tt.ext))
		})
	}

	assert.Equal(t, "path/to/output.png", inferImageFile("path/to/output.svg"))
}

func TestSetConfig(t *testing.T) {
	t.Run("standard output", func(t *testing.T) {
		cfg := &config.Config{}
		cli := &Command{OutputFile: "-", Png: true, L: newTestLogger()}

		require.NoError(t, cli.setConfig(cfg))
		assert.Equal(t, "-", cfg.Outputs.File)
		assert.Empty(t, cfg.Outputs.PngFile, "no screenshot without an output file")
	})

	t.Run("output file", func(t *testing.T) {
		cfg := &config.Config{}
		cli := &Command{OutputFile: "chart.svg", HTML: true, L: newTestLogger()}

		require.NoError(t, cli.setConfig(cfg))
		assert.True(t, cfg.IsHTML)
		assert.Equal(t, "chart.svg", cfg.Outputs.File)
		assert.Empty(t, cfg.Outputs.PngFile)
	})

	t.Run("output file with PNG", func(t *testing.T) {
		cfg := &config.Config{}
		cli := &Command{OutputFile: "results.html", HTML: true, Png: true, L: newTestLogger()}

		require.NoError(t, cli.setConfig(cfg))
		assert.Equal(t, "results.html", cfg.Outputs.File)
		assert.Equal(t, "results.png", cfg.Outputs.PngFile)
		assert.False(t, cfg.Outputs.IsTemp)
	})

	t.Run("PNG only", func(t *testing.T) {
		cfg := &config.Config{}
		cli := &Command{OutputFile: "output.png", Png: true, L: newTestLogger()}

		require.NoError(t, cli.setConfig(cfg))
		t.Cleanup(func() { _ = os.Remove(cfg.Outputs.File) })

		assert.True(t, cfg.Outputs.IsTemp)
		assert.Equal(t, "output.png", cfg.Outputs.PngFile)
		assert.Contains(t, filepath.Base(cfg.Outputs.File), "picasso")
		assert.Equal(t, ".svg", filepath.Ext(cfg.Outputs.File))
	})

	t.Run("metric", func(t *testing.T) {
		cfg := &config.Config{}
		cli := &Command{Metric: "allocsPerOp", L: newTestLogger()}

		require.NoError(t, cli.setConfig(cfg))
		assert.Equal(t, config.MetricAllocsPerOp, cfg.Bench.Metric)

		cli.Metric = "furlongs"
		require.ErrorIs(t, cli.setConfig(cfg), ErrUsage)
	})
}

func TestPrepareConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cli := &Command{L: newTestLogger()}

		cfg, cleanup, err := cli.prepareConfig()
		require.NoError(t, err)
		defer cleanup()

		assert.Equal(t, "picasso", cfg.Name)
		assert.Equal(t, "-", cfg.Outputs.File)
	})

	t.Run("from file", func(t *testing.T) {
		cli := &Command{Config: writeTestConfig(t, testConfig()), L: newTestLogger()}

		cfg, cleanup, err := cli.prepareConfig()
		require.NoError(t, err)
		defer cleanup()

		assert.Equal(t, "Test Charts", cfg.Title())
		assert.InDelta(t, 600.0, cfg.Chart.Width, 1e-9)
	})

	t.Run("missing file", func(t *testing.T) {
		cli := &Command{Config: "/nonexistent/config.yaml", L: newTestLogger()}

		_, cleanup, err := cli.prepareConfig()
		require.Error(t, err)
		assert.Nil(t, cleanup)
	})
}

func TestExecuteBarLine(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "sales.svg")
	cli := &Command{OutputFile: outFile, Width: 640, L: newTestLogger()}

	require.NoError(t, cli.Execute(sourceTestdataPath("sales.yaml")))

	svg := readOutput(t, outFile)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `width="640" height="480"`, "the size flag overrides the configuration")
	assert.Contains(t, svg, "Quarterly Sales")
	assert.Contains(t, svg, `class="bar bar-0"`)
	assert.Contains(t, svg, "<title>Q1\nonline: 12\nretail: 20</title>")
}

func TestExecuteWithConfig(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "browsers.svg")
	cli := &Command{Config: writeTestConfig(t, testConfig()), OutputFile: outFile, L: newTestLogger()}

	require.NoError(t, cli.Execute(sourceTestdataPath("browsers.yaml")))

	svg := readOutput(t, outFile)
	assert.Contains(t, svg, `width="600" height="300"`)
	assert.Contains(t, svg, "Test Charts", "the configured title wins over the document name")
	assert.Equal(t, 3, strings.Count(svg, `class="slice"`))
}

func TestExecuteMap(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "world.svg")
	cli := &Command{OutputFile: outFile, L: newTestLogger()}

	require.NoError(t, cli.Execute(sourceTestdataPath("world.yaml")))

	svg := readOutput(t, outFile)
	assert.Contains(t, svg, `class="country FRA"`)
	assert.Contains(t, svg, `class="country ESP"`)

	t.Run("not on HTML pages", func(t *testing.T) {
		cli := &Command{OutputFile: filepath.Join(t.TempDir(), "world.html"), HTML: true, L: newTestLogger()}

		require.ErrorIs(t, cli.Execute(sourceTestdataPath("world.yaml")), page.ErrUnsupported)
	})
}

func TestExecuteHTML(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "visits.html")
	cli := &Command{OutputFile: outFile, HTML: true, L: newTestLogger()}

	require.NoError(t, cli.Execute(sourceTestdataPath("visits.yaml")))

	html := readOutput(t, outFile)
	assert.Contains(t, html, "echarts")
}

func TestExecuteBench(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "bench.svg")
	cli := &Command{OutputFile: outFile, Bench: true, Metric: "allocsPerOp", L: newTestLogger()}

	require.NoError(t, cli.Execute(
		parserTestdataPath("run.txt"),
		parserTestdataPath("run.json"),
	))

	svg := readOutput(t, outFile)
	assert.Contains(t, svg, "Benchmark Allocations")
	assert.Contains(t, svg, `class="bar bar-0"`)
	assert.Contains(t, svg, `class="bar bar-1"`)

	t.Run("as HTML", func(t *testing.T) {
		outFile := filepath.Join(t.TempDir(), "bench.html")
		cli := &Command{OutputFile: outFile, Bench: true, HTML: true, L: newTestLogger()}

		require.NoError(t, cli.Execute(parserTestdataPath("run.txt"), parserTestdataPath("run1.txt")))
		assert.Contains(t, readOutput(t, outFile), "Benchmark Timings")
	})
}

func TestExecuteErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.svg")

	t.Run("too many documents", func(t *testing.T) {
		cli := &Command{OutputFile: out, L: newTestLogger()}
		require.ErrorIs(t, cli.Execute(sourceTestdataPath("sales.yaml"), sourceTestdataPath("world.yaml")), ErrUsage)
	})

	t.Run("missing document", func(t *testing.T) {
		cli := &Command{OutputFile: out, L: newTestLogger()}
		require.Error(t, cli.Execute("/nonexistent/chart.yaml"))
	})

	t.Run("missing benchmark output", func(t *testing.T) {
		cli := &Command{OutputFile: out, Bench: true, L: newTestLogger()}
		require.Error(t, cli.Execute("/nonexistent/file.txt"))
	})

	t.Run("invalid document options", func(t *testing.T) {
		doc := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(doc, []byte("kind: pie\noptions:\n  width: wide\nslices:\n  - name: a\n    value: 1\n"), 0o600))

		cli := &Command{OutputFile: out, L: newTestLogger()}
		err := cli.Execute(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chart document options")
	})
}

func TestExecuteKeepsOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "chart.svg")
	previous := "<svg>previous render</svg>"
	require.NoError(t, os.WriteFile(outFile, []byte(previous), 0o600))

	doc := filepath.Join(dir, "mixed.yaml")
	require.NoError(t, os.WriteFile(doc, []byte(`name: mixed
lines:
  - name: visits
    timeLayout: "2006-01-02"
    points:
      - key: "2024-01-01"
        value: 8
bars:
  - name: sales
    rows:
      - key: Q1
        online: 12
`), 0o600))

	cli := &Command{OutputFile: outFile, L: newTestLogger()}
	err := cli.Execute(doc)
	require.ErrorIs(t, err, layout.ErrUnsupportedTemporalBars)

	content, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, previous, string(content), "a failed draw leaves the previous output untouched")

	t.Run("successful draw replaces the output", func(t *testing.T) {
		cli := &Command{OutputFile: outFile, L: newTestLogger()}
		require.NoError(t, cli.Execute(sourceTestdataPath("sales.yaml")))
		assert.True(t, strings.HasPrefix(readOutput(t, outFile), "<?xml"))
	})
}

func TestExecuteDumpConfig(t *testing.T) {
	t.Run("without document", func(t *testing.T) {
		var out bytes.Buffer
		cli := &Command{OutputFile: "-", Width: 641.5, Height: 333, DumpConfig: true, Stdout: &out, L: newTestLogger()}

		require.NoError(t, cli.Execute([]string{}...))

		dump := out.String()
		require.NotEmpty(t, dump)
		assert.Contains(t, dump, "641.5")

		reloaded, err := config.Load(writeTestConfig(t, dump))
		require.NoError(t, err)
		assert.InDelta(t, 641.5, reloaded.Chart.Width, 1e-9)
		assert.InDelta(t, 333.0, reloaded.Chart.Height, 1e-9)
	})

	t.Run("with document options", func(t *testing.T) {
		var out bytes.Buffer
		cli := &Command{OutputFile: "-", DumpConfig: true, Stdout: &out, L: newTestLogger()}

		require.NoError(t, cli.Execute(sourceTestdataPath("sales.yaml")))

		reloaded, err := config.Load(writeTestConfig(t, out.String()))
		require.NoError(t, err)
		assert.Equal(t, config.FormatNumber, reloaded.Chart.YAxisFormat, "document options are dumped")
	})
}

func TestExecutePNG(t *testing.T) {
	skipIfNoBrowser(t)

	dir := t.TempDir()
	cli := &Command{OutputFile: filepath.Join(dir, "browsers.png"), Png: true, L: newTestLogger()}

	require.NoError(t, cli.Execute(sourceTestdataPath("browsers.yaml")))

	png, err := os.ReadFile(filepath.Join(dir, "browsers.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 0x50, 0x4E, 0x47}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the intermediate SVG is removed")
}

// helpers

func newTestLogger() *slog.Logger {
	return slog.Default().With(slog.String("module", "test"))
}

func writeTestConfig(t *testing.T, yamlContent string) string {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yamlContent), 0o600))
	return file
}

func readOutput(t *testing.T, file string) string {
	t.Helper()
	content, err := os.ReadFile(file)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	return string(content)
}

func sourceTestdataPath(name string) string {
	return filepath.Join("..", "pkg", "source", "testdata", name)
}

func parserTestdataPath(name string) string {
	return filepath.Join("..", "pkg", "parser", "testdata", name)
}

func skipIfNoBrowser(t *testing.T) {
	t.Helper()
	for _, name := range []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome/Chromium browser found, skipping integration test")
}

func testConfig() string {
	return `
name: test_charts
chart:
  width: 600
  height: 300
render:
  title: Test Charts
  theme: roma
`
}
