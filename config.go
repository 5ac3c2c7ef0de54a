package priopool

import (
	"runtime"
	"time"

	"github.com/go-foundations/priopool/poolerr"
)

// Config holds the tunables for a Pool. Construct one with Default and
// layer Option values on top, or build the struct directly — both paths
// are validated the same way by Validate.
type Config struct {
	MinWorkers               int
	MaxWorkers               int
	BacklogPerWorkerScaleOut int
	IdleTimeout              time.Duration
	HighPriorityWeight       float64
	NormalPriorityWeight     float64
	LowPriorityWeight        float64
	AgingFactor              float64
	ManagementInterval       time.Duration
}

// Default returns the recommended configuration from the pool's design
// notes: one worker minimum, one worker per CPU as the ceiling, and a
// scheduler biased heavily toward High without starving Low.
func Default() Config {
	return Config{
		MinWorkers:               1,
		MaxWorkers:               runtime.NumCPU(),
		BacklogPerWorkerScaleOut: 4,
		IdleTimeout:              20 * time.Second,
		HighPriorityWeight:       8,
		NormalPriorityWeight:     3,
		LowPriorityWeight:        1,
		AgingFactor:              0.1,
		ManagementInterval:       1 * time.Second,
	}
}

// Option mutates a Config. Apply via NewConfig.
type Option func(*Config)

// NewConfig builds a Config starting from Default and applying opts in
// order.
func NewConfig(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithMinWorkers(n int) Option { return func(c *Config) { c.MinWorkers = n } }
func WithMaxWorkers(n int) Option { return func(c *Config) { c.MaxWorkers = n } }
func WithBacklogPerWorkerScaleOut(n int) Option {
	return func(c *Config) { c.BacklogPerWorkerScaleOut = n }
}
func WithIdleTimeout(d time.Duration) Option { return func(c *Config) { c.IdleTimeout = d } }
func WithPriorityWeights(high, normal, low float64) Option {
	return func(c *Config) {
		c.HighPriorityWeight = high
		c.NormalPriorityWeight = normal
		c.LowPriorityWeight = low
	}
}
func WithAgingFactor(f float64) Option { return func(c *Config) { c.AgingFactor = f } }
func WithManagementInterval(d time.Duration) Option {
	return func(c *Config) { c.ManagementInterval = d }
}

// weightFor returns the configured base weight for a priority class.
func (c Config) weightFor(p WorkPriority) float64 {
	switch p {
	case High:
		return c.HighPriorityWeight
	case Normal:
		return c.NormalPriorityWeight
	case Low:
		return c.LowPriorityWeight
	default:
		return 0
	}
}

// Validate checks every invariant from the configuration table. It
// collects all violations instead of returning on the first one, so a
// caller fixing configuration sees the whole picture at once.
func (c Config) Validate() error {
	var violations []string

	if c.MinWorkers < 0 {
		violations = append(violations, "MinWorkers must be >= 0")
	}
	if c.MaxWorkers < 1 || c.MaxWorkers < c.MinWorkers {
		violations = append(violations, "MaxWorkers must be >= max(MinWorkers, 1)")
	}
	if c.HighPriorityWeight < 0 || c.NormalPriorityWeight < 0 || c.LowPriorityWeight < 0 {
		violations = append(violations, "priority weights must be >= 0")
	}
	if c.AgingFactor < 0 {
		violations = append(violations, "AgingFactor must be >= 0")
	}
	if c.ManagementInterval <= 0 {
		violations = append(violations, "ManagementInterval must be > 0")
	}
	if c.BacklogPerWorkerScaleOut < 0 {
		violations = append(violations, "BacklogPerWorkerScaleOut must be >= 0")
	}

	if len(violations) > 0 {
		return &poolerr.ConfigurationError{Violations: violations}
	}
	return nil
}
