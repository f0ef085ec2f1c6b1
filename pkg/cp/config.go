package cp

// Config holds engine parameters. The zero value is not useful; start from
// DefaultConfig.
type Config struct {
	// QueueCapacity is the initial capacity of the propagation queue.
	QueueCapacity int

	// Name labels the solver in monitor output and traces.
	Name string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		QueueCapacity: 64,
		Name:          "solver",
	}
}

// Option configures a Solver at construction.
type Option func(*Solver)

// WithConfig replaces the solver configuration. A nil config is ignored.
func WithConfig(c *Config) Option {
	return func(s *Solver) {
		if c != nil {
			s.config = c
		}
	}
}

// WithMonitor attaches a statistics monitor.
func WithMonitor(m *Monitor) Option {
	return func(s *Solver) { s.monitor = m }
}
