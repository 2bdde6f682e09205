package corrector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/beelink/governance-backend/internal/models"
)

// LLMClient is the interface all correction model implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// Corrector reviews one quiz answer at a time and produces a verdict, an
// explanation, and an improved version of the answer. A model failure never
// fails an evaluation: the correction degrades to nil fields with the error
// recorded in Raw.
type Corrector struct {
	llm   LLMClient
	model string
	delay time.Duration
}

func NewFromEnv() *Corrector {
	var llm LLMClient
	model := "mock"

	if os.Getenv("USE_CLI_CORRECTOR") == "true" {
		cliPath := os.Getenv("CLAUDE_CLI_PATH")
		if cliPath == "" {
			cliPath = "claude"
		}
		llm = NewCLIClient(cliPath)
		model = "claude-cli"
		log.Println("Corrector using Claude CLI (local plan)")
	} else if os.Getenv("MOCK_CORRECTOR") == "true" {
		llm = NewMockClient()
		log.Println("Corrector using mock data")
	} else if os.Getenv("ANTHROPIC_API_KEY") == "" {
		llm = nil
		model = "unconfigured"
		log.Println("Corrector disabled: ANTHROPIC_API_KEY not set")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-20250514"
		}
		llm = NewAPIClient(model)
		log.Println("Corrector using Anthropic API:", model)
	}

	delay := 600 * time.Millisecond
	if ms := os.Getenv("LLM_DELAY_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n >= 0 {
			delay = time.Duration(n) * time.Millisecond
		}
	}

	return &Corrector{llm: llm, model: model, delay: delay}
}

func New(llm LLMClient, delay time.Duration) *Corrector {
	return &Corrector{llm: llm, model: "custom", delay: delay}
}

func (c *Corrector) ModelName() string {
	return c.model
}

const strictInstructions = `Respond ONLY with a valid JSON object. No additional text. ` +
	`Keys: "verdict" (Correct|Improvable|Incorrect), ` +
	`"explanation" (brief), ` +
	`"improved_answer" (a single sentence faithful to the context).`

// Correct reviews one answer. The anti-burst delay runs after each model
// call so sequential corrections do not hammer the provider.
func (c *Corrector) Correct(ctx context.Context, question, userAnswer, contextText, systemPrompt string) models.Correction {
	if c.llm == nil {
		msg := "correction model not configured"
		return models.Correction{Raw: &msg}
	}

	userPrompt := fmt.Sprintf(
		"%s\n\nContext:\n\"\"\" %s \"\"\"\n\nQuestion: %s\nUser_answer: %s\nEvaluate the answer and propose an improved version.",
		strictInstructions, contextText, question, userAnswer,
	)

	raw, err := c.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		msg := fmt.Sprintf("correction model error: %v", err)
		return models.Correction{Raw: &msg}
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	corr, ok := ExtractCorrection(raw)
	corr.Raw = &raw
	if !ok {
		return models.Correction{Raw: &raw}
	}
	return corr
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   512,
		Temperature: param.NewOpt(0.0),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}

	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("no text content in API response")
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	return `{"verdict": "Improvable", "explanation": "[Mock] The answer covers the main point but omits supporting detail from the context.", "improved_answer": "[Mock] A single-sentence answer grounded in the provided context."}`, nil
}
