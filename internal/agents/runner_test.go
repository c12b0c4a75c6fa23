package agents

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/alawein/ringmaster/pkg/models"
)

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	r.Register("echo", RunnerFunc(func(ctx context.Context, task models.AgentTask) (any, error) {
		return task.Input["msg"], nil
	}))

	out, err := r.Run(context.Background(), models.AgentTask{
		Name:  "echo",
		Input: map[string]any{"msg": "hello"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out != "hello" {
		t.Errorf("output = %v, want hello", out)
	}
}

func TestRegistryUnknownAgent(t *testing.T) {
	r := NewRegistry()

	_, err := r.Run(context.Background(), models.AgentTask{Name: "missing"})
	if err == nil {
		t.Fatal("expected error for unregistered agent")
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", NewProbeAgent())
	r.Register("alpha", NewProbeAgent())

	if got, want := r.Names(), []string{"alpha", "zeta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistryReplaceBinding(t *testing.T) {
	sentinel := errors.New("second")
	r := NewRegistry()
	r.Register("a", RunnerFunc(func(context.Context, models.AgentTask) (any, error) {
		return nil, errors.New("first")
	}))
	r.Register("a", RunnerFunc(func(context.Context, models.AgentTask) (any, error) {
		return nil, sentinel
	}))

	_, err := r.Run(context.Background(), models.AgentTask{Name: "a"})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected the replacement runner to be called, got %v", err)
	}
}
