package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

const maxResponseBytes = 1 << 20

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Stop        []string      `json:"stop"`
}

// Content is a pointer so a missing field can be told apart from "".
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIClient(s GeneratorSettings) *OpenAIClient {
	return &OpenAIClient{
		baseURL:   s.BaseURL,
		apiKey:    s.APIKey,
		model:     s.Model,
		maxTokens: s.MaxTokens,
		httpClient: &http.Client{
			Timeout: s.Timeout,
		},
	}
}

// POST /chat/completions 요청 후 choices[0].message.content 반환
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: temperature,
		TopP:        topP,
		Stop:        stopSequences,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AdapterError{Kind: Unreachable, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &AdapterError{Kind: Unreachable, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AdapterError{
			Kind:       Upstream,
			StatusCode: resp.StatusCode,
			Raw:        body,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", &AdapterError{Kind: Upstream, StatusCode: resp.StatusCode, Raw: body, Err: err}
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == nil {
		return "", &AdapterError{
			Kind:       Upstream,
			StatusCode: resp.StatusCode,
			Raw:        body,
			Err:        fmt.Errorf("missing choices[0].message.content"),
		}
	}

	return *completion.Choices[0].Message.Content, nil
}
