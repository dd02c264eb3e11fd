// Package cmd owns the implementation details of the CLI command.
package cmd

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/processout/picasso/internal/pkg/chart"
	"github.com/processout/picasso/internal/pkg/config"
	"github.com/processout/picasso/internal/pkg/image"
	"github.com/processout/picasso/internal/pkg/page"
	"github.com/processout/picasso/internal/pkg/parser"
	"github.com/processout/picasso/internal/pkg/render"
	"github.com/processout/picasso/internal/pkg/source"
)

// ErrUsage is returned when the command line arguments can't be used.
var ErrUsage = errors.New("invalid usage")

// Command holds command line flags and executes the picasso command.
//
// It knows how to load a configuration file in a [config.Config] and manage CLI flag configuration overrides.
//
// The main purpose of this package is to deal with io's: opening and closing files.
// All other invoked functionalities deal with streams, except the benchmark parser which may collect several files
// directly.
type Command struct {
	Config     string
	OutputFile string
	HTML       bool
	Png        bool
	Bench      bool
	Metric     string
	Width      float64
	Height     float64
	DumpConfig bool
	Stdout     io.Writer
	L          *slog.Logger
}

// NewCommand builds a CLI command with registered flags and an injected logger.
func NewCommand() *Command {
	cli := &Command{
		Stdout: os.Stdout,
		L:      slog.Default().With(slog.String("module", "main")),
	}

	cli.registerFlags()

	return cli
}

// Parse command line flags and arguments.
func (*Command) Parse() error {
	return flag.CommandLine.Parse(os.Args[1:])
}

// Fatalf logs an error message then exits. The output is spewed on both stderr and the structured logger output.
func (c *Command) Fatalf(err error) {
	c.L.Error(err.Error())
	log.Fatalf("%v", err)
}

// Execute the CLI with flags and extra arguments.
//
// If no argument is passed, command line arguments (i.e. [os.Args]) are used.
// Without any argument, the chart document (or the benchmark output) is read from the standard input,
// unless only the configuration is dumped.
//
// The chart is drawn in memory first: a failed draw leaves any previous output file untouched.
func (c *Command) Execute(args ...string) error {
	if args == nil { // passing explicit args allows for testing Execute without altering [os.Args]
		args = c.args()
	}
	explicit := len(args) > 0
	if !explicit {
		args = append(args, "-")
	}

	if !c.Bench && len(args) > 1 {
		return fmt.Errorf("%w: expected a single chart document, got %d arguments", ErrUsage, len(args))
	}

	cfg, cleanup, err := c.prepareConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	var doc *source.Document
	if !c.Bench && (explicit || !c.DumpConfig) {
		if doc, err = loadDocument(args[0]); err != nil {
			return err
		}

		// document options override the configuration, CLI flags override both
		if err = config.DecodeOptions(doc.Options, &cfg.Chart); err != nil {
			return fmt.Errorf("chart document options: %w", err)
		}
	}

	c.setSize(cfg)

	if c.DumpConfig {
		return cfg.EncodeYAML(c.stdout())
	}

	// 1. draw the chart in memory: the output is only written once drawn
	var buf bytes.Buffer
	t0 := time.Now()
	if err = c.draw(cfg, doc, args, &buf); err != nil {
		return err
	}

	writer, closer, err := getWriter(cfg.Outputs.File, c.kind(), c.stdout())
	if err != nil {
		return err
	}

	_, err = buf.WriteTo(writer)
	closer()
	if err != nil {
		return fmt.Errorf("writing %s output: %w", c.kind(), err)
	}

	c.L.Info("chart drawn", slog.String("output", cfg.Outputs.File), slog.Duration("duration", time.Since(t0)))

	if cfg.Outputs.PngFile == "" {
		return nil
	}

	// 2. take a screenshot of the chart as a PNG image, possibly to stdout
	reader, readCloser, err := getReader(cfg.Outputs.File, c.kind())
	if err != nil {
		return err
	}
	defer readCloser()

	pngWriter, pngCloser, err := getWriter(cfg.Outputs.PngFile, "PNG", c.stdout())
	if err != nil {
		return err
	}
	defer pngCloser()

	r := image.New(
		image.WithFormat(c.format()),
		image.WithScreenshot(cfg.Render.Screenshot),
	)

	if err = r.Render(pngWriter, reader); err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	return nil
}

func (*Command) args() []string {
	return flag.CommandLine.Args()
}

func (c *Command) registerFlags() {
	defaults := Command{
		Config:     "",
		OutputFile: "-",
		Metric:     "",
	}

	flag.StringVar(&c.Config, "config", defaults.Config, "config file (defaults to the embedded settings)")
	flag.StringVar(&c.Config, "c", defaults.Config, "config file (shorthand)")
	flag.StringVar(&c.OutputFile, "output", defaults.OutputFile, "file output or - for standard output")
	flag.StringVar(&c.OutputFile, "o", defaults.OutputFile, "file output or - for standard output (shorthand)")
	flag.BoolVar(&c.HTML, "html", defaults.HTML, "render an interactive HTML page instead of SVG")
	flag.BoolVar(&c.Png, "png", defaults.Png, "enable PNG screenshot output")
	flag.BoolVar(&c.Bench, "bench", defaults.Bench, "chart Go benchmark outputs (text or JSON) instead of a chart document")
	flag.StringVar(&c.Metric, "metric", defaults.Metric, "benchmark metric to chart, e.g. nsPerOp, allocsPerOp")
	flag.Float64Var(&c.Width, "width", defaults.Width, "chart width, in pixels")
	flag.Float64Var(&c.Width, "w", defaults.Width, "chart width, in pixels (shorthand)")
	flag.Float64Var(&c.Height, "height", defaults.Height, "chart height, in pixels")
	flag.Float64Var(&c.Height, "h", defaults.Height, "chart height, in pixels (shorthand)")
	flag.BoolVar(&c.DumpConfig, "dump-config", defaults.DumpConfig, "print the effective configuration as YAML, then exit")
}

func (c *Command) prepareConfig() (cfg *config.Config, cleanup func(), err error) {
	if c.Config == "" {
		cfg, err = config.LoadDefaults()
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err = c.setConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("preparing config: %w", err)
	}

	if cfg.Outputs.IsTemp {
		cleanup = func() {
			_ = os.Remove(cfg.Outputs.File)
		}

		return cfg, cleanup, nil
	}

	return cfg, func() {}, nil
}

// apply CLI flags overrides to YAML config.
func (c *Command) setConfig(cfg *config.Config) error {
	cfg.IsHTML = c.HTML

	if c.Metric != "" {
		metric := config.MetricName(c.Metric)
		if !metric.IsValid() {
			return fmt.Errorf("%w: unknown metric %q (should be one of %v)", ErrUsage, c.Metric, config.AllMetricNames())
		}

		cfg.Bench.Metric = metric
	}

	if c.OutputFile == "" || c.OutputFile == "-" {
		cfg.Outputs.File = "-"
		if c.Png {
			c.L.Info("set an output file to render a PNG image")
		}

		return nil
	}

	if !c.Png {
		cfg.Outputs.File = c.OutputFile

		return nil
	}

	cfg.Outputs.PngFile = inferImageFile(c.OutputFile)
	if !strings.EqualFold(path.Ext(c.OutputFile), ".png") {
		// the chart is kept next to its screenshot
		cfg.Outputs.File = inferFile(c.OutputFile, c.ext())

		return nil
	}

	c.L.Info("chart generated as a temporary file to produce PNG")
	tmp, err := os.CreateTemp("", "picasso.*"+c.ext())
	if err != nil {
		return err
	}
	cfg.Outputs.File = tmp.Name()
	cfg.Outputs.IsTemp = true
	_ = tmp.Close()

	return nil
}

// setSize overrides the chart size, after the document options are applied.
func (c *Command) setSize(cfg *config.Config) {
	if c.Width > 0 {
		cfg.Chart.Width = c.Width
	}

	if c.Height > 0 {
		cfg.Chart.Height = c.Height
	}
}

// draw builds the chart and draws it onto w, with the SVG or HTML painter.
func (c *Command) draw(cfg *config.Config, doc *source.Document, args []string, w io.Writer) error {
	title := c.title(cfg, doc)

	var (
		painter  chart.Painter
		htmlPage *page.Page
	)

	if cfg.IsHTML {
		htmlPage = page.New(
			page.WithTitle(title),
			page.WithTheme(cfg.Render.Theme),
			page.WithSize(cfg.Chart.Width, cfg.Chart.Height),
			page.WithTimeFormat(cfg.Chart.TimeFormat),
		)
		painter = htmlPage
	} else {
		painter = render.New(w,
			render.WithOptions(cfg.Chart),
			render.WithTitle(title),
		)
	}

	builder, err := chart.New(cfg, painter)
	if err != nil {
		return fmt.Errorf("chart options: %w", err)
	}

	var drawer chart.Drawer
	if c.Bench {
		p := parser.New(cfg, parser.WithAutoDetect(true))
		if err = p.ParseFiles(args...); err != nil {
			return fmt.Errorf("parsing files: %w", err)
		}

		drawer = builder.BuildBars(p.Bars(cfg.Bench.Metric))
	} else {
		if drawer, err = builder.Build(doc); err != nil {
			return fmt.Errorf("building chart: %w", err)
		}
	}

	if err = drawer.Draw(); err != nil {
		return fmt.Errorf("drawing chart: %w", err)
	}

	if htmlPage == nil {
		return nil
	}

	if err = htmlPage.Render(w); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	return nil
}

// title of the chart: the configured title, else the document name, else the benchmark metric title.
func (c *Command) title(cfg *config.Config, doc *source.Document) string {
	switch {
	case cfg.Render.Title != "":
		return cfg.Render.Title
	case doc != nil && doc.Name != "":
		cfg.Name = doc.Name

		return cfg.Title()
	case c.Bench:
		if metric, ok := cfg.GetMetric(cfg.Bench.Metric); ok {
			return metric.Title
		}
	}

	return cfg.Title()
}

func (c *Command) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}

	return c.Stdout
}

func (c *Command) kind() string {
	if c.HTML {
		return "HTML"
	}

	return "SVG"
}

func (c *Command) ext() string {
	if c.HTML {
		return ".html"
	}

	return ".svg"
}

func (c *Command) format() image.Format {
	if c.HTML {
		return image.FormatHTML
	}

	return image.FormatSVG
}

func loadDocument(file string) (*source.Document, error) {
	if file != "-" {
		return source.LoadDocument(file)
	}

	doc, err := source.ReadDocument(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("chart document from standard input: %w", err)
	}

	return doc, nil
}

func getReader(file, kind string) (rdr io.Reader, cleanup func(), err error) {
	if file == "-" {
		return nil, nil, fmt.Errorf("%w: can't read back the %s output from the standard output", ErrUsage, kind)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = f.Close()
	}

	return f, cleanup, nil
}

func getWriter(file, kind string, stdout io.Writer) (wrt io.Writer, cleanup func(), err error) {
	if file == "" || file == "-" {
		return stdout, func() {}, nil
	}

	f, err := os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = f.Close()
	}

	return f, cleanup, nil
}

func inferFile(base, ext string) string {
	stem, _ := strings.CutSuffix(base, path.Ext(base))

	return stem + ext
}

func inferImageFile(base string) string {
	return inferFile(base, ".png")
}
