// Package orchestrator implements the policy engine at the heart of
// ringmaster: given an ordered task list, an execution context and a
// policy, it produces exactly one terminal result per task while enforcing
// per-attempt timeouts, linear-backoff retries, per-agent circuit-breaking
// and TTL-bounded result caching.
//
// All state (cache, breaker counters) is owned by one Engine instance and
// scoped to a single run. Engines are constructed fresh per run and must
// not be shared across concurrent runs.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/alawein/ringmaster/internal/agents"
	"github.com/alawein/ringmaster/pkg/models"
)

// Engine executes agent tasks under a policy. Tasks within one run execute
// sequentially, in list order, so cache and breaker transitions are
// observed deterministically by later tasks.
type Engine struct {
	runner  agents.Runner
	policy  models.Policy
	cache   *resultCache
	breaker *breaker
}

// NewEngine creates a run-scoped engine. A nil runner is a programmer
// error and fails synchronously, before any task executes.
func NewEngine(runner agents.Runner, policy models.Policy) (*Engine, error) {
	if runner == nil {
		return nil, fmt.Errorf("orchestrator requires an agent runner")
	}
	return &Engine{
		runner:  runner,
		policy:  policy,
		cache:   newResultCache(policy.CacheTTL()),
		breaker: newBreaker(policy.BreakerThreshold),
	}, nil
}

// Run executes the task list and returns one terminal result per task.
// Task-level failures never surface as errors; they are recorded in the
// result statuses.
func (e *Engine) Run(ctx context.Context, tasks []models.AgentTask, ec models.ExecutionContext) []models.AgentResult {
	results := make([]models.AgentResult, 0, len(tasks))
	for _, task := range tasks {
		results = append(results, e.runTask(ctx, task, ec))
	}
	return results
}

func (e *Engine) runTask(ctx context.Context, task models.AgentTask, ec models.ExecutionContext) models.AgentResult {
	start := time.Now()
	key := task.Key()

	if output, ok := e.cache.get(key); ok {
		debugLog("run=%s agent=%s cache hit", ec.RunID, task.Name)
		return models.AgentResult{
			Task:       task.Name,
			Status:     models.StatusSuccess,
			Output:     output,
			Attempts:   0,
			Cached:     true,
			DurationMs: msSince(start),
		}
	}

	if e.breaker.open(task.Name) {
		cerr := &CircuitOpenError{Agent: task.Name, Failures: e.breaker.failures[task.Name]}
		debugLog("run=%s agent=%s skipped: %v", ec.RunID, task.Name, cerr)
		return models.AgentResult{
			Task:       task.Name,
			Status:     models.StatusSkipped,
			Error:      cerr.Error(),
			Attempts:   0,
			DurationMs: msSince(start),
		}
	}

	budget := e.policy.Attempts()
	var lastErr error
	for attempt := 1; attempt <= budget; attempt++ {
		output, err := e.attempt(ctx, task, attempt)
		if err == nil {
			e.cache.put(key, output)
			e.breaker.reset(task.Name)
			debugLog("run=%s agent=%s success attempts=%d", ec.RunID, task.Name, attempt)
			return models.AgentResult{
				Task:       task.Name,
				Status:     models.StatusSuccess,
				Output:     output,
				Attempts:   attempt,
				DurationMs: msSince(start),
			}
		}

		lastErr = err
		debugLog("run=%s agent=%s attempt=%d failed: %v", ec.RunID, task.Name, attempt, err)

		// Parent cancellation ends the attempt loop; the result still
		// lands as an error so the run stays complete.
		if ctx.Err() != nil {
			lastErr = &ApplicationError{Agent: task.Name, Err: ctx.Err()}
			e.breaker.recordFailure(task.Name)
			return models.AgentResult{
				Task:       task.Name,
				Status:     models.StatusError,
				Error:      lastErr.Error(),
				Attempts:   attempt,
				DurationMs: msSince(start),
			}
		}

		if attempt < budget {
			if werr := e.waitBackoff(ctx, attempt); werr != nil {
				lastErr = &ApplicationError{Agent: task.Name, Err: werr}
				e.breaker.recordFailure(task.Name)
				return models.AgentResult{
					Task:       task.Name,
					Status:     models.StatusError,
					Error:      lastErr.Error(),
					Attempts:   attempt,
					DurationMs: msSince(start),
				}
			}
		}
	}

	e.breaker.recordFailure(task.Name)

	// The terminal status reflects the last attempt's failure mode.
	status := models.StatusError
	if IsTimeout(lastErr) {
		status = models.StatusTimeout
	}
	return models.AgentResult{
		Task:       task.Name,
		Status:     status,
		Error:      lastErr.Error(),
		Attempts:   budget,
		DurationMs: msSince(start),
	}
}

// attempt runs the agent once under the policy timeout. The runner is
// invoked in a goroutine so a non-cooperative agent cannot stall the run
// past its deadline; the in-flight call is cancelled best-effort through
// its context.
func (e *Engine) attempt(ctx context.Context, task models.AgentTask, attempt int) (any, error) {
	attemptCtx := ctx
	timeout := e.policy.Timeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		output any
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		output, err := e.runner.Run(attemptCtx, task)
		done <- outcome{output: output, err: err}
	}()

	select {
	case o := <-done:
		if o.err == nil {
			return o.output, nil
		}
		if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, &TimeoutError{Agent: task.Name, Attempt: attempt, Limit: timeout}
		}
		return nil, &ApplicationError{Agent: task.Name, Err: o.err}
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return nil, &ApplicationError{Agent: task.Name, Err: ctx.Err()}
		}
		return nil, &TimeoutError{Agent: task.Name, Attempt: attempt, Limit: timeout}
	}
}

// waitBackoff sleeps for the linear backoff of the given attempt number,
// honoring cancellation.
func (e *Engine) waitBackoff(ctx context.Context, attempt int) error {
	backoff := e.policy.Backoff() * time.Duration(attempt)
	if backoff <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func msSince(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
