package agents

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/alawein/ringmaster/pkg/models"
)

// LLMConfig contains configuration for creating an LLMAgent.
type LLMConfig struct {
	// Model is the Claude model to use. Empty selects a default.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY.
	APIKey string
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of the
	// direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g. "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// LLMAgent runs a task as a single Anthropic message call. The task input
// carries the prompt; the response text and token usage form the output.
//
// Input schema:
//
//	prompt:     string (required)
//	system:     string (optional) — system prompt
//	max_tokens: int    (optional) — response token cap, default 1024
type LLMAgent struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewLLMAgent creates an LLM agent from config. It fails when neither an
// API key nor a Bedrock configuration is available.
func NewLLMAgent(cfg LLMConfig) (*LLMAgent, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	return &LLMAgent{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

// Run implements Runner.
func (a *LLMAgent) Run(ctx context.Context, task models.AgentTask) (any, error) {
	prompt, _ := task.Input["prompt"].(string)
	if prompt == "" {
		return nil, fmt.Errorf("llm agent requires a %q input", "prompt")
	}

	maxTokens := int64(1024)
	switch v := task.Input["max_tokens"].(type) {
	case int:
		maxTokens = int64(v)
	case float64:
		maxTokens = int64(v)
	}

	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system, _ := task.Input["system"].(string); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if v, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += v.Text
		}
	}

	return map[string]any{
		"text":          text,
		"input_tokens":  resp.Usage.InputTokens,
		"output_tokens": resp.Usage.OutputTokens,
	}, nil
}

var _ Runner = (*LLMAgent)(nil)
