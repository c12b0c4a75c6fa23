package govern

import (
	"strings"
	"testing"

	"github.com/alawein/ringmaster/pkg/models"
)

func TestEvaluate_NoThresholds(t *testing.T) {
	summary := Summarize(results(map[string][]models.Status{
		"a": {models.StatusError, models.StatusError},
	}))

	c := Evaluate(summary, models.Governance{})
	if !c.Passed {
		t.Error("absent thresholds must never be evaluated")
	}
	if len(c.Violations) != 0 {
		t.Errorf("violations = %v", c.Violations)
	}
}

func TestEvaluate_SuccessRateFloor(t *testing.T) {
	summary := Summarize(results(map[string][]models.Status{
		"a": {models.StatusSuccess, models.StatusError},
	}))

	c := Evaluate(summary, models.Governance{MinSuccessRate: models.Float64Ptr(0.9)})
	if c.Passed {
		t.Error("success rate 0.5 below floor 0.9 should fail")
	}
	if len(c.Violations) != 1 || !strings.Contains(c.Violations[0], "success rate") {
		t.Errorf("violations = %v", c.Violations)
	}
}

func TestEvaluate_ErrorRateCeiling(t *testing.T) {
	summary := Summarize(results(map[string][]models.Status{
		"a": {models.StatusError, models.StatusSuccess, models.StatusSuccess, models.StatusSuccess},
	}))

	pass := Evaluate(summary, models.Governance{MaxErrorRate: models.Float64Ptr(0.25)})
	if !pass.Passed {
		t.Errorf("error rate 0.25 at the ceiling should pass: %v", pass.Violations)
	}

	fail := Evaluate(summary, models.Governance{MaxErrorRate: models.Float64Ptr(0.2)})
	if fail.Passed {
		t.Error("error rate 0.25 above ceiling 0.2 should fail")
	}
}

func TestEvaluate_PerAgentTimeoutCeiling(t *testing.T) {
	summary := Summarize(results(map[string][]models.Status{
		"slow-a": {models.StatusTimeout, models.StatusTimeout},
		"slow-b": {models.StatusTimeout, models.StatusTimeout},
		"fast":   {models.StatusSuccess},
	}))

	c := Evaluate(summary, models.Governance{MaxTimeoutsPerAgent: models.IntPtr(1)})
	if c.Passed {
		t.Error("expected per-agent timeout violations")
	}
	if len(c.Violations) != 2 {
		t.Fatalf("violations = %v, want one per offending agent", c.Violations)
	}
	// Deterministic order: sorted by agent name.
	if !strings.Contains(c.Violations[0], "slow-a") || !strings.Contains(c.Violations[1], "slow-b") {
		t.Errorf("violations out of order: %v", c.Violations)
	}
}

func TestEvaluate_EmptySummaryPasses(t *testing.T) {
	c := Evaluate(Summarize(nil), models.Governance{
		MaxErrorRate:        models.Float64Ptr(0.1),
		MaxTimeoutsPerAgent: models.IntPtr(0),
	})
	if !c.Passed {
		t.Errorf("zero-valued rates should not violate ceilings: %v", c.Violations)
	}
}

func TestEvaluate_ComplianceMonotonicity(t *testing.T) {
	summary := Summarize(results(map[string][]models.Status{
		"a": {models.StatusSuccess, models.StatusSuccess, models.StatusError},
	}))

	// Lowering the floor can only turn failed into passed, never the reverse.
	floors := []float64{0.9, 0.7, 0.5, 0.3}
	passedBefore := false
	for _, floor := range floors {
		c := Evaluate(summary, models.Governance{MinSuccessRate: models.Float64Ptr(floor)})
		if passedBefore && !c.Passed {
			t.Errorf("floor %v flipped a passing verdict back to failed", floor)
		}
		if c.Passed {
			passedBefore = true
		}
	}
	if !passedBefore {
		t.Error("some floor below the actual rate should pass")
	}
}
