package cfgloader

// Options tune Load.
type Options struct {
	// Silent skips printing the loaded config.
	Silent bool
	// Dir holds the ${ENVIRONMENT}.yaml files.
	Dir string
	// Environment overrides the ENVIRONMENT variable.
	Environment string
}

type Option func(*Options)

func WithSilent() Option {
	return func(o *Options) { o.Silent = true }
}

// WithConfigDir reads config files from dir instead of ./config.
func WithConfigDir(dir string) Option {
	return func(o *Options) { o.Dir = dir }
}

// WithEnvironment selects the environment instead of reading ENVIRONMENT.
func WithEnvironment(env string) Option {
	return func(o *Options) { o.Environment = env }
}
