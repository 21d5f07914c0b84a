package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"google.golang.org/genai"
)

// GeminiClient generates text through the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

func NewGeminiClient(ctx context.Context, s GeneratorSettings) (*GeminiClient, error) {
	if s.APIKey == "" {
		return nil, ErrNotConfigured
	}
	clientCfg := &genai.ClientConfig{
		APIKey:     s.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: s.Timeout},
	}
	if s.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: s.Model, maxTokens: int32(s.MaxTokens)}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		TopP:            genai.Ptr[float32](topP),
		MaxOutputTokens: c.maxTokens,
		StopSequences:   stopSequences,
	})
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text, ok := firstCandidateText(res)
	if !ok {
		raw, _ := json.Marshal(res)
		return "", &AdapterError{Kind: Upstream, Raw: raw, Err: errors.New("empty candidate")}
	}
	return text, nil
}

// firstCandidateText joins the text parts of the first candidate.
func firstCandidateText(res *genai.GenerateContentResponse) (string, bool) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0] == nil || res.Candidates[0].Content == nil {
		return "", false
	}
	var b strings.Builder
	found := false
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		b.WriteString(part.Text)
		found = true
	}
	return b.String(), found
}

// API 응답 에러는 Upstream, 그 외 전송 실패는 Unreachable
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return geminiAPIError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return geminiAPIError(*apiErrPtr, err)
	}
	return &AdapterError{Kind: Unreachable, Err: err}
}

func geminiAPIError(apiErr genai.APIError, err error) error {
	raw, _ := json.Marshal(apiErr)
	return &AdapterError{Kind: Upstream, StatusCode: apiErr.Code, Raw: raw, Err: err}
}
