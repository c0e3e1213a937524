package pagination

const (
	defaultPageSize = 20
	defaultMaxSize  = 100
)

// Options configures Normalize.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

type Option func(*Options)

func WithMaxPageSize(maxSize int) Option {
	return func(o *Options) {
		o.MaxPageSize = maxSize
	}
}

func WithDefaultPageSize(size int) Option {
	return func(o *Options) {
		o.DefaultPageSize = size
	}
}

func defaultOptions() Options {
	return Options{DefaultPageSize: defaultPageSize, MaxPageSize: defaultMaxSize}
}
