package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alawein/ringmaster/internal/orchestrator"
	"github.com/alawein/ringmaster/pkg/models"
)

// ProtocolConfig describes the external agent-protocol (MCP) server the
// protocol transport delegates to.
type ProtocolConfig struct {
	// Command launches the MCP server over stdio.
	Command string
	// Args are passed to the server command.
	Args []string
	// ClientName/ClientVersion identify this client during the MCP
	// handshake.
	ClientName    string
	ClientVersion string
}

// protocolClient is the slice of the MCP client the transport uses,
// extracted so tests can substitute a fake server.
type protocolClient interface {
	Start(ctx context.Context) error
	Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// Protocol delegates each task to an external MCP server: one tool call
// per task, tool name = agent name. Timeout, retries and backoff from the
// policy are enforced locally around each call; result caching and
// circuit-breaking are delegated to the remote side. Any retries the
// server performs internally are opaque — the policy here governs the
// observable result status.
type Protocol struct {
	cfg ProtocolConfig

	// connect is swappable in tests.
	connect func(ctx context.Context) (protocolClient, error)
}

// NewProtocol creates the protocol transport.
func NewProtocol(cfg ProtocolConfig) *Protocol {
	p := &Protocol{cfg: cfg}
	p.connect = p.dial
	return p
}

func (p *Protocol) dial(ctx context.Context) (protocolClient, error) {
	if p.cfg.Command == "" {
		return nil, fmt.Errorf("protocol transport requires a server command")
	}

	c, err := mcpclient.NewStdioMCPClient(p.cfg.Command, nil, p.cfg.Args...)
	if err != nil {
		return nil, fmt.Errorf("create MCP client: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("start MCP client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = "2024-11-05"
	initReq.Params.Capabilities = mcp.ClientCapabilities{}
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    orDefault(p.cfg.ClientName, "ringmaster"),
		Version: orDefault(p.cfg.ClientVersion, "1.0.0"),
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		c.Close()
		return nil, fmt.Errorf("initialize MCP client: %w", err)
	}

	return c, nil
}

// Execute implements Transport.
func (p *Protocol) Execute(ctx context.Context, tasks []models.AgentTask, ec models.ExecutionContext, policy models.Policy) []models.AgentResult {
	client, err := p.connect(ctx)
	if err != nil {
		return failRemaining(tasks, &orchestrator.TransportError{Transport: "protocol", Err: err})
	}
	defer client.Close()

	results := make([]models.AgentResult, 0, len(tasks))
	for _, task := range tasks {
		results = append(results, p.callTask(ctx, client, task, ec, policy))
	}
	return results
}

func (p *Protocol) callTask(ctx context.Context, client protocolClient, task models.AgentTask, ec models.ExecutionContext, policy models.Policy) models.AgentResult {
	start := time.Now()
	budget := policy.Attempts()

	req := mcp.CallToolRequest{}
	req.Params.Name = task.Name
	req.Params.Arguments = protocolArguments(task, ec, policy)

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= budget; attempt++ {
		attempts = attempt
		callCtx := ctx
		cancel := context.CancelFunc(func() {})
		if timeout := policy.Timeout(); timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, timeout)
		}

		res, err := client.CallTool(callCtx, req)
		timedOut := callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil
		cancel()

		switch {
		case err == nil && res != nil && !res.IsError:
			return models.AgentResult{
				Task:       task.Name,
				Status:     models.StatusSuccess,
				Output:     decodeToolContent(res),
				Attempts:   attempt,
				DurationMs: time.Since(start).Milliseconds(),
			}
		case err == nil:
			msg := extractToolText(res)
			if msg == "" {
				msg = "tool reported an error"
			}
			lastErr = &orchestrator.ApplicationError{Agent: task.Name, Err: fmt.Errorf("%s", msg)}
		case timedOut:
			lastErr = &orchestrator.TimeoutError{Agent: task.Name, Attempt: attempt, Limit: policy.Timeout()}
		default:
			lastErr = &orchestrator.ApplicationError{Agent: task.Name, Err: err}
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
	}
}

// protocolArguments builds the tool-call arguments: the task input plus
// correlation and policy hints under reserved keys.
func protocolArguments(task models.AgentTask, ec models.ExecutionContext, policy models.Policy) map[string]any {
	args := make(map[string]any, len(task.Input)+2)
	for k, v := range task.Input {
		args[k] = v
	}
	args["_context"] = map[string]any{
		"run_id": ec.RunID,
		"label":  ec.Label,
	}
	args["_policy"] = map[string]any{
		"timeout_ms":  policy.TimeoutMs,
		"max_retries": policy.MaxRetries,
		"backoff_ms":  policy.BackoffMs,
	}
	return args
}

// decodeToolContent converts tool result content into a structured output:
// JSON text is decoded, plain text kept as a string. The content list is
// round-tripped through JSON so the mapping is independent of the MCP
// library's concrete content types.
func decodeToolContent(res *mcp.CallToolResult) any {
	text := extractToolText(res)
	if text == "" {
		return nil
	}
	var structured any
	if err := json.Unmarshal([]byte(text), &structured); err == nil {
		return structured
	}
	return text
}

func extractToolText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	contentBytes, err := json.Marshal(res.Content)
	if err != nil {
		return ""
	}
	var contentList []map[string]any
	if err := json.Unmarshal(contentBytes, &contentList); err != nil {
		return ""
	}

	var sb strings.Builder
	for _, content := range contentList {
		if t, _ := content["type"].(string); t != "text" {
			continue
		}
		if text, ok := content["text"].(string); ok {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		}
	}
	return sb.String()
}

func waitBackoff(ctx context.Context, policy models.Policy, attempt int) error {
	backoff := policy.Backoff() * time.Duration(attempt)
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

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

var _ Transport = (*Protocol)(nil)
