package governance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/beelink/governance-backend/internal/models"
	"github.com/beelink/governance-backend/internal/scoring"
	"github.com/tidwall/gjson"
)

// Evaluator is the interface both scoring implementations satisfy: the
// remote metrics service and the local demo rules.
type Evaluator interface {
	// ScoreText scores one free-text input. Text must be non-empty after
	// trimming; rejecting empty input is the caller's job, not a network
	// round trip.
	ScoreText(ctx context.Context, text string) (scoring.RawScore, error)

	// SubmitEvaluation scores a whole quiz submission in one batched call.
	// The returned rows match quiz order; a short array means trailing
	// answers have no data yet.
	SubmitEvaluation(ctx context.Context, req models.EvaluateRequest) ([]scoring.RawScore, error)
}

// NewFromEnv selects the evaluator. GOV_EVALUATOR=demo picks the offline
// rule table; anything else talks to the service at GOV_API_URL.
func NewFromEnv() Evaluator {
	if os.Getenv("GOV_EVALUATOR") == "demo" {
		log.Println("Governance evaluator using demo rules")
		return NewDemoEvaluator()
	}

	baseURL := getEnv("GOV_API_URL", "http://localhost:8000")
	timeout := 30 * time.Second
	if ms := os.Getenv("GOV_API_TIMEOUT_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Millisecond
		}
	}
	log.Println("Governance evaluator using remote service:", baseURL)
	return NewClient(baseURL, timeout)
}

// Client calls the remote scoring service. Every call is one independent
// outbound request: no retries, no caching, no deduplication.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) ScoreText(ctx context.Context, text string) (scoring.RawScore, error) {
	body, err := c.post(ctx, "/api/governance/score", models.ScoreTextRequest{Text: text})
	if err != nil {
		return scoring.RawScore{}, err
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return scoring.RawScore{}, fmt.Errorf("%w: body is not a JSON object", ErrMalformedResponse)
	}
	return scoring.RawScoreFromJSON(body), nil
}

// evaluatePayload is the upstream wire shape: quiz items carry only the
// question and ideal answer.
type evaluatePayload struct {
	Quiz             []evaluateQuizItem `json:"quiz"`
	Answers          []string           `json:"answers"`
	Context          string             `json:"context"`
	SystemPrompt     string             `json:"system_prompt"`
	NormalizeAnswers bool               `json:"normalize_answers"`
}

type evaluateQuizItem struct {
	Question    string `json:"question"`
	IdealAnswer string `json:"ideal_answer"`
}

func (c *Client) SubmitEvaluation(ctx context.Context, req models.EvaluateRequest) ([]scoring.RawScore, error) {
	payload := evaluatePayload{
		Quiz:             make([]evaluateQuizItem, len(req.Quiz)),
		Answers:          req.Answers,
		Context:          req.Context,
		SystemPrompt:     req.SystemPrompt,
		NormalizeAnswers: req.ShouldNormalize(),
	}
	for i, q := range req.Quiz {
		payload.Quiz[i] = evaluateQuizItem{Question: q.Question, IdealAnswer: q.IdealAnswer}
	}

	body, err := c.post(ctx, "/api/evaluate", payload)
	if err != nil {
		return nil, err
	}

	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("%w: missing results array", ErrMalformedResponse)
	}

	var rows []scoring.RawScore
	for _, el := range results.Array() {
		if el.IsObject() {
			rows = append(rows, scoring.RawScoreFromJSON([]byte(el.Raw)))
		} else {
			rows = append(rows, scoring.RawScore{})
		}
	}
	return rows, nil
}

// post issues one JSON POST and maps failures onto the client taxonomy:
// NetworkError / ErrTimedOut for transport, ServiceError for non-2xx.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode scoring request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimedOut
		}
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error").Str
		if msg == "" {
			msg = "scoring service request failed"
		}
		return nil, &ServiceError{Status: resp.StatusCode, Message: msg}
	}

	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
