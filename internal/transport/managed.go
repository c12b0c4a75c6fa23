package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alawein/ringmaster/internal/orchestrator"
	"github.com/alawein/ringmaster/pkg/models"
)

// runAgentPath is the hosted backend's task execution endpoint.
const runAgentPath = "/functions/v1/run-agent"

// ManagedConfig carries the hosted-backend credentials. Both values are
// required for the managed transport to engage; with either missing the
// adapter falls back to local execution so that absent remote credentials
// never block a local-only workflow.
type ManagedConfig struct {
	// EndpointURL is the backend base URL.
	EndpointURL string
	// AccessKey authenticates requests.
	AccessKey string
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Managed delegates task execution to a hosted backend over HTTP, one
// request per task. Policy timeout/retries/backoff are enforced around
// each request. Authentication and reachability failures are
// transport-level: they synthesize error results for every remaining task
// instead of raising.
type Managed struct {
	cfg      ManagedConfig
	fallback Transport
	client   *http.Client
}

// NewManaged creates the managed transport with the given fallback
// (normally the local transport).
func NewManaged(cfg ManagedConfig, fallback Transport) *Managed {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Managed{cfg: cfg, fallback: fallback, client: client}
}

// Configured reports whether both backend credentials are present.
func (m *Managed) Configured() bool {
	return m.cfg.EndpointURL != "" && m.cfg.AccessKey != ""
}

// Execute implements Transport.
func (m *Managed) Execute(ctx context.Context, tasks []models.AgentTask, ec models.ExecutionContext, policy models.Policy) []models.AgentResult {
	if !m.Configured() {
		return m.fallback.Execute(ctx, tasks, ec, policy)
	}

	results := make([]models.AgentResult, 0, len(tasks))
	for i, task := range tasks {
		result, terr := m.callTask(ctx, task, ec, policy)
		if terr != nil {
			results = append(results, failRemaining(tasks[i:], terr)...)
			return results
		}
		results = append(results, result)
	}
	return results
}

// runRequest is the per-task payload sent to the backend.
type runRequest struct {
	RunID  string           `json:"run_id"`
	Label  string           `json:"label"`
	Task   models.AgentTask `json:"task"`
	Policy policyHints      `json:"policy"`
}

type policyHints struct {
	TimeoutMs  int `json:"timeout_ms"`
	MaxRetries int `json:"max_retries"`
	BackoffMs  int `json:"backoff_ms"`
}

// runResponse is the backend's per-task verdict.
type runResponse struct {
	Status models.Status `json:"status"`
	Output any           `json:"output"`
	Error  string        `json:"error"`
}

func (m *Managed) callTask(ctx context.Context, task models.AgentTask, ec models.ExecutionContext, policy models.Policy) (models.AgentResult, *orchestrator.TransportError) {
	start := time.Now()
	budget := policy.Attempts()

	body, err := json.Marshal(runRequest{
		RunID: ec.RunID,
		Label: ec.Label,
		Task:  task,
		Policy: policyHints{
			TimeoutMs:  policy.TimeoutMs,
			MaxRetries: policy.MaxRetries,
			BackoffMs:  policy.BackoffMs,
		},
	})
	if err != nil {
		// Unserializable input is an application error on this task only.
		return models.AgentResult{
			Task:     task.Name,
			Status:   models.StatusError,
			Error:    fmt.Sprintf("encode task payload: %v", err),
			Attempts: 0,
		}, nil
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= budget; attempt++ {
		attempts = attempt
		resp, terr, err := m.post(ctx, task.Name, body, policy.Timeout())
		if terr != nil {
			return models.AgentResult{}, terr
		}
		if err == nil {
			result := models.AgentResult{
				Task:       task.Name,
				Status:     resp.Status,
				Output:     resp.Output,
				Error:      resp.Error,
				Attempts:   attempt,
				DurationMs: time.Since(start).Milliseconds(),
			}
			if !result.Status.Valid() {
				result.Status = models.StatusError
				result.Error = fmt.Sprintf("backend returned unknown status %q", resp.Status)
			}
			if result.Status == models.StatusSuccess {
				return result, nil
			}
			lastErr = fmt.Errorf("%s", orDefault(result.Error, "backend reported "+string(result.Status)))
			if result.Status == models.StatusTimeout {
				lastErr = &orchestrator.TimeoutError{Agent: task.Name, Attempt: attempt, Limit: policy.Timeout()}
			}
			if attempt == budget {
				result.DurationMs = time.Since(start).Milliseconds()
				return result, nil
			}
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			break
		}
		if attempt < budget {
			if werr := waitBackoff(ctx, policy, attempt); werr != nil {
				break
			}
		}
	}

	status := models.StatusError
	if orchestrator.IsTimeout(lastErr) {
		status = models.StatusTimeout
	}
	return models.AgentResult{
		Task:       task.Name,
		Status:     status,
		Error:      lastErr.Error(),
		Attempts:   attempts,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// post performs one backend request. It distinguishes transport-level
// failures (unreachable endpoint, auth rejection) from task-level ones
// (request timeout, backend-reported failure).
func (m *Managed) post(ctx context.Context, taskName string, body []byte, timeout time.Duration) (*runResponse, *orchestrator.TransportError, error) {
	reqCtx := ctx
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	url := strings.TrimRight(m.cfg.EndpointURL, "/") + runAgentPath
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &orchestrator.TransportError{Transport: "managed", Err: err}, nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.AccessKey)
	req.Header.Set("apikey", m.cfg.AccessKey)

	httpResp, err := m.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, nil, &orchestrator.TimeoutError{Agent: taskName, Limit: timeout}
		}
		return nil, &orchestrator.TransportError{Transport: "managed", Err: err}, nil
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, &orchestrator.TransportError{
			Transport: "managed",
			Err:       fmt.Errorf("backend rejected credentials: %s", httpResp.Status),
		}, nil
	case httpResp.StatusCode >= 500:
		return nil, nil, fmt.Errorf("backend unavailable: %s", httpResp.Status)
	case httpResp.StatusCode != http.StatusOK:
		data, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, nil, fmt.Errorf("backend returned %s: %s", httpResp.Status, strings.TrimSpace(string(data)))
	}

	var resp runResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, nil, fmt.Errorf("decode backend response: %w", err)
	}
	return &resp, nil, nil
}

var _ Transport = (*Managed)(nil)
