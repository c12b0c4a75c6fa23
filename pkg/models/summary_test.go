package models

import "testing"

func TestStatusCountsAdd(t *testing.T) {
	var c StatusCounts
	for _, s := range []Status{StatusSuccess, StatusSuccess, StatusError, StatusTimeout, StatusSkipped} {
		c.Add(s)
	}

	if c.Total != 5 {
		t.Errorf("Total = %d, want 5", c.Total)
	}
	if c.Success != 2 || c.Error != 1 || c.Timeout != 1 || c.Skipped != 1 {
		t.Errorf("counts = %+v", c)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusSuccess, StatusError, StatusTimeout, StatusSkipped} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("running").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestTransportValid(t *testing.T) {
	for _, tr := range []Transport{TransportLocal, TransportProtocol, TransportManaged} {
		if !tr.Valid() {
			t.Errorf("%q should be valid", tr)
		}
	}
	if Transport("grpc").Valid() {
		t.Error("unknown transport should be invalid")
	}
}

func TestWorkflowValidate(t *testing.T) {
	valid := WorkflowDefinition{
		Name:      "audit",
		Transport: TransportLocal,
		Tasks:     []AgentTask{{Name: "probe"}},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid workflow rejected: %v", err)
	}

	tests := []struct {
		name string
		wf   WorkflowDefinition
	}{
		{"missing name", WorkflowDefinition{Transport: TransportLocal, Tasks: []AgentTask{{Name: "p"}}}},
		{"bad transport", WorkflowDefinition{Name: "x", Transport: "grpc", Tasks: []AgentTask{{Name: "p"}}}},
		{"no tasks", WorkflowDefinition{Name: "x", Transport: TransportLocal}},
		{"nameless task", WorkflowDefinition{Name: "x", Transport: TransportLocal, Tasks: []AgentTask{{}}}},
	}
	for _, tt := range tests {
		if err := tt.wf.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
