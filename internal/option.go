package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	outputDir  string
	editedDays int
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutputDir sets the directory the Org-mode files are exported to.
func WithOutputDir(dir string) Option {
	return func(a *application) {
		a.outputDir = dir
	}
}

// WithEditedDays restricts the export to notes modified in the past N days.
func WithEditedDays(days int) Option {
	return func(a *application) {
		a.editedDays = days
	}
}
