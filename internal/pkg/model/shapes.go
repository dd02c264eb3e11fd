package model

// SliceInput is the raw description of a pie slice.
type SliceInput struct {
	Name  string
	Value float64
	Color string
}

// Slice is a normalized pie slice.
type Slice struct {
	Name  string
	Value float64
	Color ColorSpec
}

// NormalizeSlice returns an independent [Slice].
func NormalizeSlice(in SliceInput) Slice {
	return Slice{
		Name:  in.Name,
		Value: in.Value,
		Color: Solid(in.Color),
	}
}

// CountryInput is the raw description of a country drawn on a map.
//
// Name is the ISO 3166-1 alpha-3 code of the country.
type CountryInput struct {
	Name        string
	Value       float64
	Color       ColorSpec
	BorderColor ColorSpec
}

// Country is a normalized map country.
type Country struct {
	Name        string
	Value       float64
	Color       ColorSpec
	BorderColor ColorSpec
}

// NormalizeCountry returns an independent [Country].
func NormalizeCountry(in CountryInput) Country {
	return Country(in)
}
