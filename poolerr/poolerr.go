// Package poolerr holds the two error types the pool surfaces
// synchronously to callers. Every other failure mode described by the
// pool's error taxonomy is caught internally instead of returned here:
// work failures are reported through the metrics sink as unsuccessful
// completions, while sink panics and management-tick panics are only
// logged through the pool's logger.
package poolerr

import "fmt"

// ConfigurationError reports an invalid Config detected at Start.
type ConfigurationError struct {
	Violations []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invalid pool configuration: %s", e.Violations[0])
	}
	return fmt.Sprintf("invalid pool configuration: %d violations (%v)", len(e.Violations), e.Violations)
}

// LifecycleError reports Enqueue called before Start or after Stop.
type LifecycleError struct {
	Op     string
	Reason string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("pool: %s rejected: %s", e.Op, e.Reason)
}
