package cmd

// Options holds the shared command-line options for the repohealth CLI.
type Options struct {
	Query      string
	MaxRepos   int
	PageSize   int
	Format     string
	OutputFile string
	Sort       string
	Verbosity  int
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Query:    "stars:>100",
		MaxRepos: 100,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithQuery sets the repository search query.
func WithQuery(query string) Option {
	return func(o *Options) {
		o.Query = query
	}
}

// WithMaxRepos sets the maximum number of repositories to check.
func WithMaxRepos(max int) Option {
	return func(o *Options) {
		o.MaxRepos = max
	}
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithOutputFile sets the JSON report file path.
func WithOutputFile(path string) Option {
	return func(o *Options) {
		o.OutputFile = path
	}
}

// WithSort sets the report ordering (stars, fetched).
func WithSort(sort string) Option {
	return func(o *Options) {
		o.Sort = sort
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}
