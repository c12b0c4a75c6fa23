package orchestrator

// breaker tracks per-agent consecutive failures within one run. Once an
// agent's count reaches the threshold, every later task for that agent in
// the same run is skipped. A threshold <= 0 disables the breaker.
type breaker struct {
	threshold int
	failures  map[string]int
}

func newBreaker(threshold int) *breaker {
	return &breaker{
		threshold: threshold,
		failures:  make(map[string]int),
	}
}

// open reports whether the breaker for agent has tripped.
func (b *breaker) open(agent string) bool {
	if b.threshold <= 0 {
		return false
	}
	return b.failures[agent] >= b.threshold
}

// recordFailure increments the agent's consecutive-failure count and
// returns the new count.
func (b *breaker) recordFailure(agent string) int {
	b.failures[agent]++
	return b.failures[agent]
}

// reset clears the agent's consecutive-failure count after a success.
func (b *breaker) reset(agent string) {
	delete(b.failures, agent)
}
