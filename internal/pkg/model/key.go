// Package model holds the in-memory representation of the series registered on a chart.
//
// Callers build input records ([LineInput], [BarInput], [SliceInput], [CountryInput]) and hand
// them by value to the normalize functions, which apply defaults and derive computed fields
// (bar columns and totals) without ever mutating the caller's data.
package model

import (
	"time"
)

// KeyKind tells whether a [Key] is a category or an instant.
type KeyKind uint8

// Supported key kinds.
const (
	KindCategory KeyKind = iota
	KindTime
)

func (k KeyKind) String() string {
	switch k {
	case KindTime:
		return "temporal"
	default:
		return "categorical"
	}
}

// Key identifies a point on the x axis: either a category (string) or an instant.
type Key struct {
	kind     KeyKind
	category string
	instant  time.Time
}

// CategoryKey builds a categorical [Key].
func CategoryKey(category string) Key {
	return Key{kind: KindCategory, category: category}
}

// TimeKey builds a temporal [Key].
func TimeKey(instant time.Time) Key {
	return Key{kind: KindTime, instant: instant}
}

// Kind of the key.
func (k Key) Kind() KeyKind {
	return k.kind
}

// IsTemporal reports whether the key is an instant.
func (k Key) IsTemporal() bool {
	return k.kind == KindTime
}

// Time returns the instant held by a temporal key, and the zero time otherwise.
func (k Key) Time() time.Time {
	return k.instant
}

// String returns the canonical string form of the key.
//
// Temporal keys are formatted as RFC3339 in UTC, so that the same instant expressed in different
// locations yields the same canonical form.
func (k Key) String() string {
	if k.kind == KindTime {
		return k.instant.UTC().Format(time.RFC3339Nano)
	}

	return k.category
}

// Equal reports whether two keys have the same kind and canonical form.
func (k Key) Equal(other Key) bool {
	return k.kind == other.kind && k.String() == other.String()
}
