package parser //nolint:revive // it's okay for an internal package to use this name

// Option configures a [BenchmarkParser].
type Option func(*options)

type options struct {
	isJSON     bool
	autoDetect bool
}

// WithParseJSON enables JSON input parsing instead of the default text format.
func WithParseJSON(enabled bool) Option {
	return func(o *options) {
		o.isJSON = enabled
	}
}

// WithAutoDetect guesses the format of each input: JSON events, or plain text.
//
// It takes precedence over [WithParseJSON].
func WithAutoDetect(enabled bool) Option {
	return func(o *options) {
		o.autoDetect = enabled
	}
}

func optionsWithDefaults(opts []Option) options {
	var o options
	for _, apply := range opts {
		apply(&o)
	}

	return o
}
