package orchestrator

import (
	"errors"
	"fmt"
	"time"
)

// The orchestrator recovers every task-level failure inside the run
// boundary and surfaces it as result data. These types classify the
// failure modes; none of them escape Run for task-level failures.

// ApplicationError wraps a business error returned by an agent.
type ApplicationError struct {
	Agent string
	Err   error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("agent %s: %v", e.Agent, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// TimeoutError records an attempt that exceeded the policy timeout.
type TimeoutError struct {
	Agent   string
	Attempt int
	Limit   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("agent %s: attempt %d exceeded %s", e.Agent, e.Attempt, e.Limit)
}

// CircuitOpenError records a task that was never attempted because the
// agent's circuit breaker was open.
type CircuitOpenError struct {
	Agent    string
	Failures int
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("agent %s: circuit open after %d consecutive failures", e.Agent, e.Failures)
}

// TransportError records a failure of the transport itself (spawn, connect,
// auth), as opposed to a task-level failure. Adapters synthesize error
// results from it for every remaining task rather than raising.
type TransportError struct {
	Transport string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Transport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
