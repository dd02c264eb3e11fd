package config

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed default_config.yaml
var efs embed.FS

// Config holds the configuration for picasso.
type Config struct {
	Name    string
	IsHTML  bool `mapstructure:"-"`
	Chart   Options
	Render  Rendering
	Bench   Bench
	Outputs Output `mapstructure:"-"`

	metricIndex map[MetricName]Metric
}

// Title of the chart: the rendering title, or the titleized name.
func (c Config) Title() string {
	if c.Render.Title != "" {
		return c.Render.Title
	}

	return titleize(c.Name)
}

// GetMetric retrieves a metric definition by its [MetricName].
func (c Config) GetMetric(id MetricName) (Metric, bool) {
	v, ok := c.metricIndex[id]

	return v, ok
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (IsHTML, Outputs) are excluded from the output.
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	return yaml.NewEncoder(w).Encode(raw)
}

// Rendering holds the settings of the painted output.
type Rendering struct {
	Title      string
	Theme      string
	Screenshot Screenshot
}

// Screenshot configures the headless Chrome screenshot used for PNG rendering.
type Screenshot struct {
	Height int64
	Width  int64
	Sleep  string
}

// SleepDuration parses the Sleep field as a [time.Duration].
func (s Screenshot) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Sleep)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// Bench holds the settings used to chart Go benchmark results.
type Bench struct {
	Metric  MetricName
	Metrics []Metric
}

// Metric defines a benchmark metric with its display title and axis label.
type Metric struct {
	ID    MetricName
	Title string
	Axis  string
}

// Output holds the resolved output file paths.
type Output struct {
	File    string
	PngFile string
	IsTemp  bool
}

// Load a configuration file from the local file system, on top of the defaults.
func Load(file string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	fsys := os.DirFS(filepath.Dir(file))
	pth := filepath.Join(".", filepath.Base(file))

	return load(fsys, pth, cfg)
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	err = yaml.Unmarshal(content, &raw)
	if err != nil {
		return nil, err
	}

	err = mapstructure.Decode(raw, cfg)
	if err != nil {
		return nil, err
	}

	cfg.metricIndex = make(map[MetricName]Metric, len(cfg.Bench.Metrics))

	if err = cfg.validateMetrics(); err != nil {
		return nil, err
	}

	if err = cfg.Chart.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validateMetrics() error {
	for i, v := range c.Bench.Metrics {
		if v.ID == "" {
			return fmt.Errorf("invalid metrics: empty ID found: bench.metrics[%d]", i)
		}
		if !v.ID.IsValid() {
			return fmt.Errorf("invalid metrics: invalid metric ID: bench.metrics[%d]=%v (should be one of %v)", i, v.ID, AllMetricNames())
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}
		if _, ok := c.metricIndex[v.ID]; ok {
			return fmt.Errorf("invalid metrics: duplicate ID key found: %s", v.ID)
		}

		c.metricIndex[v.ID] = v
	}

	if c.Bench.Metric != "" && !c.Bench.Metric.IsValid() {
		return fmt.Errorf("invalid bench: unknown metric %q (should be one of %v)", c.Bench.Metric, AllMetricNames())
	}

	return nil
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the case is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}
