package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-3.5-turbo"
	requestTimeout = 30 * time.Second
)

const systemPrompt = "You are an assistant that summarizes news in short, clear, friendly sentences suitable for elderly users."

// OpenAIClient calls the chat completions API to produce elderly-friendly
// summaries. Failures are ordinary error returns; the caller decides whether
// to fall back.
type OpenAIClient struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewOpenAIClient creates a client for the given key and model. An empty
// model selects the default.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = defaultModel
	}
	return &OpenAIClient{
		client:  resty.New().SetTimeout(requestTimeout),
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL overrides the API endpoint, mainly for tests.
func (c *OpenAIClient) SetBaseURL(u string) {
	c.baseURL = u
}

// Model reports the model identifier requests are made with.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Summarize asks the model for a concise, simple-language summary of text.
func (c *OpenAIClient) Summarize(ctx context.Context, text string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Summarize the following for an elderly reader, keep it concise and use simple language:\n\n" + text},
		},
		MaxTokens:   300,
		Temperature: 0.5,
	}

	var resp chatResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("completion API error: %s", resp.Error.Message)
	}
	if httpResp.IsError() {
		return "", fmt.Errorf("completion API status %d", httpResp.StatusCode())
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no content in completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
