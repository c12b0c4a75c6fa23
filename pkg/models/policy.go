package models

import "time"

// Policy controls how the orchestrator executes agent tasks: per-attempt
// timeout, retry count, linear backoff, result-cache TTL and the consecutive
// failure threshold that opens the per-agent circuit breaker.
//
// Zero and negative values are legal and meaningful: MaxRetries <= 0 means
// exactly one attempt, CacheTTLMs <= 0 disables caching, and
// BreakerThreshold <= 0 disables circuit-breaking entirely.
type Policy struct {
	// TimeoutMs bounds each individual attempt, in milliseconds.
	TimeoutMs int `json:"timeout_ms" yaml:"timeout_ms"`
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
	// BackoffMs is the linear backoff base: attempt N waits N*BackoffMs
	// before retrying.
	BackoffMs int `json:"backoff_ms" yaml:"backoff_ms"`
	// CacheTTLMs is how long a successful result is served from cache.
	CacheTTLMs int `json:"cache_ttl_ms" yaml:"cache_ttl_ms"`
	// BreakerThreshold is the consecutive-failure count that opens the
	// per-agent circuit breaker for the remainder of a run.
	BreakerThreshold int `json:"breaker_threshold" yaml:"breaker_threshold"`
	// Governance holds the acceptance thresholds a run's summary is
	// evaluated against.
	Governance Governance `json:"governance" yaml:"governance"`
}

// Governance declares caller-side acceptance bounds for a run's aggregate
// health. Each threshold is independently optional; a nil threshold is
// never evaluated.
type Governance struct {
	// MinSuccessRate is the success-rate floor in [0,1].
	MinSuccessRate *float64 `json:"min_success_rate,omitempty" yaml:"min_success_rate,omitempty"`
	// MaxErrorRate is the error-rate ceiling in [0,1].
	MaxErrorRate *float64 `json:"max_error_rate,omitempty" yaml:"max_error_rate,omitempty"`
	// MaxTimeoutsPerAgent is the per-agent timeout-count ceiling.
	MaxTimeoutsPerAgent *int `json:"max_timeouts_per_agent,omitempty" yaml:"max_timeouts_per_agent,omitempty"`
}

// DefaultPolicy returns the engine-level policy defaults applied when a
// workflow leaves a field unset.
func DefaultPolicy() Policy {
	return Policy{
		TimeoutMs:        30000,
		MaxRetries:       2,
		BackoffMs:        250,
		CacheTTLMs:       300000,
		BreakerThreshold: 3,
	}
}

// Timeout returns the per-attempt timeout as a duration.
func (p Policy) Timeout() time.Duration {
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

// Backoff returns the linear backoff base as a duration.
func (p Policy) Backoff() time.Duration {
	return time.Duration(p.BackoffMs) * time.Millisecond
}

// CacheTTL returns the result-cache TTL as a duration.
func (p Policy) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLMs) * time.Millisecond
}

// Attempts returns the total attempt budget (first attempt plus retries).
func (p Policy) Attempts() int {
	if p.MaxRetries <= 0 {
		return 1
	}
	return p.MaxRetries + 1
}

// Float64Ptr returns a pointer to v, for optional governance thresholds.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v, for optional governance thresholds.
func IntPtr(v int) *int { return &v }
