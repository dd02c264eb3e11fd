// Package parser reads Go benchmark results and turns them into bar series.
package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/processout/picasso/internal/pkg/config"
	"github.com/processout/picasso/internal/pkg/model"
	"golang.org/x/tools/benchmark/parse"
)

// Set wraps [parse.Set] to include file and benchmark environment information.
type Set struct {
	parse.Set

	File        string
	Environment string
}

// BenchmarkParser parses benchmark outputs, in text or JSON format.
type BenchmarkParser struct {
	options

	config *config.Config
	sets   []Set
	l      *slog.Logger
}

// New [BenchmarkParser] ready to parse benchmark files.
func New(cfg *config.Config, opts ...Option) *BenchmarkParser {
	return &BenchmarkParser{
		options: optionsWithDefaults(opts),
		config:  cfg,
		l:       slog.Default().With(slog.String("module", "parser")),
	}
}

// ParseFiles parses benchmark files. The "-" file name reads from the standard input.
func (p *BenchmarkParser) ParseFiles(files ...string) error {
	for _, file := range files {
		var (
			reader io.ReadCloser
			err    error
		)

		if file == "-" {
			reader = os.Stdin
		} else {
			reader, err = os.Open(file)
			if err != nil {
				return fmt.Errorf("input file %q: %w", file, err)
			}
		}

		set, err := p.ParseInput(reader)
		if file != "-" {
			_ = reader.Close()
		}

		if err != nil {
			return fmt.Errorf("input file %q: %w", file, err)
		}

		set.File = file
		p.sets = append(p.sets, set)
	}

	p.l.Info("benchmark input parsed", slog.Int("parsed_files", len(files)))

	return nil
}

// ParseInput parses one benchmark output.
func (p *BenchmarkParser) ParseInput(r io.Reader) (Set, error) {
	if p.autoDetect {
		content, err := io.ReadAll(r)
		if err != nil {
			return Set{}, fmt.Errorf("reading input: %w", err)
		}

		if strings.HasPrefix(strings.TrimSpace(string(content)), "{") {
			return p.parseJSON(bytes.NewReader(content))
		}

		return p.parseText(bytes.NewReader(content))
	}

	if p.isJSON {
		return p.parseJSON(r)
	}

	return p.parseText(r)
}

// Sets returns all parsed sets, in parsing order.
func (p *BenchmarkParser) Sets() []Set {
	return p.sets
}

// Bars builds one bar series per parsed set, holding one value of the metric per benchmark.
//
// Rows are keyed by benchmark name, without the "Benchmark" prefix and the GOMAXPROCS suffix,
// in the order benchmarks appear in the output. Repeated runs of a benchmark are averaged.
// An empty metric falls back to the configured one.
func (p *BenchmarkParser) Bars(metric config.MetricName) []model.BarInput {
	if metric == "" && p.config != nil {
		metric = p.config.Bench.Metric
	}

	if metric == "" {
		metric = config.MetricNsPerOp
	}

	bars := make([]model.BarInput, 0, len(p.sets))
	for _, set := range p.sets {
		bar := model.BarInput{Name: setName(set)}

		for _, name := range orderedNames(set.Set) {
			var (
				sum   float64
				count int
			)

			for _, bench := range set.Set[name] {
				v, ok := metric.Value(bench)
				if !ok {
					continue
				}

				sum += v
				count++
			}

			if count == 0 {
				p.l.Warn("benchmark without the requested metric skipped",
					slog.String("benchmark", name),
					slog.String("metric", metric.String()),
					slog.String("file", set.File),
				)

				continue
			}

			bar.Rows = append(bar.Rows, model.BarRowInput{
				Key:    model.CategoryKey(BenchmarkKey(name)),
				Fields: []model.Field{{Name: metric.String(), Value: sum / float64(count)}},
			})
		}

		bars = append(bars, bar)
	}

	return bars
}

// BenchmarkKey shortens a benchmark name into a chart key.
//
// It strips the "Benchmark" prefix and the GOMAXPROCS suffix (e.g. "-16").
func BenchmarkKey(name string) string {
	key := strings.TrimPrefix(name, "Benchmark")
	key = strings.TrimPrefix(key, "_")

	if idx := strings.LastIndex(key, "-"); idx > 0 {
		suffix := key[idx+1:]
		allDigits := suffix != ""
		for _, r := range suffix {
			if r < '0' || r > '9' {
				allDigits = false

				break
			}
		}

		if allDigits {
			key = key[:idx]
		}
	}

	return key
}

func setName(set Set) string {
	if set.File == "" || set.File == "-" {
		return set.Environment
	}

	base := filepath.Base(set.File)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func orderedNames(set parse.Set) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}

	first := func(name string) int {
		benchmarks := set[name]
		if len(benchmarks) == 0 {
			return 0
		}

		return benchmarks[0].Ord
	}

	sort.Slice(names, func(i, j int) bool {
		return first(names[i]) < first(names[j])
	})

	return names
}

func (p *BenchmarkParser) parseText(r io.Reader) (Set, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Set{}, fmt.Errorf("reading input: %w", err)
	}

	text := string(content)
	set, err := parse.ParseSet(strings.NewReader(text))
	if err != nil {
		return Set{}, fmt.Errorf("parsing benchmark output: %w", err)
	}

	return Set{
		Set:         set,
		Environment: extractEnvironment(text),
	}, nil
}

// parseJSON parses JSON output from `go test -json -bench`.
// It extracts the Output fields from "output" events and feeds them
// to the standard benchmark parser.
func (p *BenchmarkParser) parseJSON(r io.Reader) (Set, error) {
	var textOutput strings.Builder
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event testEvent
		if err := json.Unmarshal(line, &event); err != nil { //nolint:musttag // JSON produced uses titleized keys expected by std json/encoding
			p.l.Debug("skipped non-JSON line", slog.String("error", err.Error()))

			continue
		}

		if event.Action == "output" && event.Output != "" {
			textOutput.WriteString(event.Output)
		}
	}

	if err := scanner.Err(); err != nil {
		return Set{}, fmt.Errorf("scanning input: %w", err)
	}

	return p.parseText(strings.NewReader(textOutput.String()))
}

// extractEnvironment extracts environment information from benchmark output.
// It looks for goos, goarch, and cpu lines and combines them.
func extractEnvironment(text string) string {
	var parts []string
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "goos: "):
			parts = append(parts, strings.TrimPrefix(line, "goos: "))
		case strings.HasPrefix(line, "goarch: "):
			parts = append(parts, strings.TrimPrefix(line, "goarch: "))
		case strings.HasPrefix(line, "cpu: "):
			parts = append(parts, "cpu: "+strings.TrimSpace(strings.TrimPrefix(line, "cpu: ")))
		}
	}

	if len(parts) == 0 {
		return "unknown environment"
	}

	return strings.Join(parts, " ")
}

// testEvent represents a single JSON event from `go test -json` output.
// See: https://pkg.go.dev/cmd/test2json
type testEvent struct {
	Action  string
	Package string
	Test    string
	Output  string
}
