package layout

import (
	"time"

	"github.com/processout/picasso/internal/pkg/model"
)

type kv struct {
	key   string
	value float64
}

func catLine(name string, points ...kv) model.Line {
	in := model.LineInput{Name: name}
	for _, p := range points {
		in.Points = append(in.Points, model.LinePoint{Key: model.CategoryKey(p.key), Value: p.value})
	}

	return model.NormalizeLine(in)
}

type tv struct {
	at    time.Time
	value float64
}

func timeLine(name string, points ...tv) model.Line {
	in := model.LineInput{Name: name}
	for _, p := range points {
		in.Points = append(in.Points, model.LinePoint{Key: model.TimeKey(p.at), Value: p.value})
	}

	return model.NormalizeLine(in)
}

func row(key string, fields ...model.Field) model.BarRowInput {
	return model.BarRowInput{Key: model.CategoryKey(key), Fields: fields}
}

func field(name string, value float64) model.Field {
	return model.Field{Name: name, Value: value}
}

func bar(name string, rows ...model.BarRowInput) model.Bar {
	b, ok := model.NormalizeBar(model.BarInput{Name: name, Rows: rows})
	if !ok {
		panic("bar without rows in test fixture")
	}

	return b
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
