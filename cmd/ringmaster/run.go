package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/alawein/ringmaster/internal/agents"
	"github.com/alawein/ringmaster/internal/config"
	"github.com/alawein/ringmaster/internal/govern"
	"github.com/alawein/ringmaster/internal/report"
	"github.com/alawein/ringmaster/internal/state"
	"github.com/alawein/ringmaster/internal/transport"
	"github.com/alawein/ringmaster/internal/workflow"
	"github.com/alawein/ringmaster/pkg/models"
)

// buildRegistry returns the workflow registry: builtins plus any YAML
// definitions from the workflows directory.
func buildRegistry(cfg *config.Config, workflowsDir string) (*workflow.Registry, error) {
	if workflowsDir == "" {
		workflowsDir = cfg.Defaults.WorkflowsDir
	}
	registry := workflow.NewRegistry()
	defs, err := workflow.LoadDir(workflowsDir)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if err := registry.Add(def); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// buildTransportDeps wires the agent registry and transport configs from
// the loaded configuration. The managed access key goes through the
// credential resolution order (env over config file); a missing key stays
// empty so the managed transport falls back to local.
func buildTransportDeps(cfg *config.Config) transport.Deps {
	accessKey, err := config.GetAccessKey(cfg)
	if err != nil {
		accessKey = ""
	}

	runner := agents.BuiltinRegistry(agents.LLMConfig{
		Model:         anthropic.Model(cfg.LLM.Model),
		APIKey:        cfg.LLM.APIKey,
		UseAWSBedrock: cfg.LLM.UseAWSBedrock,
		AWSRegion:     cfg.LLM.AWSRegion,
		AWSProfile:    cfg.LLM.AWSProfile,
	})
	return transport.Deps{
		Runner: runner,
		Protocol: transport.ProtocolConfig{
			Command: cfg.Protocol.Command,
			Args:    cfg.Protocol.Args,
		},
		Managed: transport.ManagedConfig{
			EndpointURL: cfg.Managed.EndpointURL,
			AccessKey:   accessKey,
		},
	}
}

// repoTasks copies the workflow's tasks, pointing file-system agents at
// the target repository unless a task sets its own dir.
func repoTasks(def models.WorkflowDefinition, repoPath string) []models.AgentTask {
	tasks := make([]models.AgentTask, 0, len(def.Tasks))
	for _, task := range def.Tasks {
		input := make(map[string]any, len(task.Input)+1)
		for k, v := range task.Input {
			input[k] = v
		}
		if _, ok := input["dir"]; !ok && repoPath != "" {
			input["dir"] = repoPath
		}
		tasks = append(tasks, models.AgentTask{Name: task.Name, Input: input})
	}
	return tasks
}

// runWorkflow executes one workflow over one repository and assembles the
// run artifact. Task failures land in the artifact, never in the error.
func runWorkflow(ctx context.Context, def models.WorkflowDefinition, deps transport.Deps, repoPath string) (models.RunArtifact, error) {
	adapter, err := transport.Select(def.Transport, deps)
	if err != nil {
		return models.RunArtifact{}, err
	}

	label := filepath.Base(repoPath)
	if repoPath == "" {
		label = def.Name
	}
	ec := models.NewExecutionContext(label)
	tasks := repoTasks(def, repoPath)

	results := adapter.Execute(ctx, tasks, ec, def.Policy)
	summary := govern.Summarize(results)

	return models.RunArtifact{
		RunID:      ec.RunID,
		Label:      label,
		Workflow:   def.Name,
		Transport:  def.Transport,
		Policy:     def.Policy,
		Tasks:      tasks,
		Results:    results,
		Summary:    summary,
		Compliance: govern.Evaluate(summary, def.Policy.Governance),
		StartedAt:  ec.StartedAt,
		FinishedAt: time.Now().UTC(),
	}, nil
}

// persistRun writes the artifact and records it in run history. History
// failures are reported but do not fail the run.
func persistRun(writer *report.Writer, artifact models.RunArtifact) (string, error) {
	path, err := writer.WriteRun(artifact)
	if err != nil {
		return "", err
	}
	if err := recordHistory(artifact); err != nil {
		fmt.Printf("warning: could not record run history: %v\n", err)
	}
	return path, nil
}

func recordHistory(artifact models.RunArtifact) error {
	db, err := state.Open(state.DefaultDBPath())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}
	return db.RecordRun(artifact)
}
