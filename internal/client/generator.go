// 외부 텍스트 생성 API 클라이언트 정의
//
// 환경변수:
//   - GENERATOR_PROVIDER: openai (default) | gemini
//   - GENERATOR_API_KEY: bearer credential (GPT_API_KEY 도 허용)
//   - GENERATOR_BASE_URL, GENERATOR_MODEL, GENERATOR_MAX_TOKENS, GENERATOR_TIMEOUT
//   - GENERATOR_BREAKER_FAILURES, GENERATOR_BREAKER_TIMEOUT
//
// 재시도는 하지 않습니다. 호출마다 과금되는 외부 요청입니다.

package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/challenge-hub/backend/internal/config"
)

// Fixed generation parameters: low randomness, single stop condition.
const (
	temperature = 0.1
	topP        = 0.5
)

var stopSequences = []string{"\n"}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-3.5-turbo"
	defaultGeminiModel   = "gemini-2.0-flash"
)

var (
	ErrUnreachable   = errors.New("generator unreachable")
	ErrUpstream      = errors.New("generator upstream error")
	ErrNotConfigured = errors.New("generator not configured")
)

// Generator sends a prompt to an external text-generation endpoint and
// returns the text of the first candidate.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type AdapterErrorKind int

const (
	Unreachable AdapterErrorKind = iota + 1
	Upstream
)

func (k AdapterErrorKind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case Upstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// AdapterError is returned by every Generator. Raw carries the upstream body
// when one was received.
type AdapterError struct {
	Kind       AdapterErrorKind
	StatusCode int
	Raw        []byte
	Err        error
}

func (e *AdapterError) Error() string {
	msg := "generator " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

func (e *AdapterError) Is(target error) bool {
	switch target {
	case ErrUnreachable:
		return e.Kind == Unreachable
	case ErrUpstream:
		return e.Kind == Upstream
	}
	return false
}

// GeneratorSettings is the parsed form of config.GeneratorConfig.
type GeneratorSettings struct {
	Provider        string
	APIKey          string
	BaseURL         string
	Model           string
	MaxTokens       int
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func ParseGeneratorConfig(cfg config.GeneratorConfig) (GeneratorSettings, error) {
	s := GeneratorSettings{
		Provider: strings.ToLower(strings.TrimSpace(cfg.Provider)),
		APIKey:   strings.TrimSpace(cfg.APIKey),
		BaseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		Model:    strings.TrimSpace(cfg.Model),
	}
	if s.Provider == "" {
		s.Provider = ProviderOpenAI
	}

	switch s.Provider {
	case ProviderOpenAI:
		if s.BaseURL == "" {
			s.BaseURL = defaultOpenAIBaseURL
		}
		if s.Model == "" {
			s.Model = defaultOpenAIModel
		}
	case ProviderGemini:
		if s.Model == "" {
			s.Model = defaultGeminiModel
		}
	default:
		return s, fmt.Errorf("invalid GENERATOR_PROVIDER %q", cfg.Provider)
	}

	maxTokens, err := strconv.Atoi(strings.TrimSpace(cfg.MaxTokens))
	if err != nil || maxTokens <= 0 {
		return s, fmt.Errorf("invalid GENERATOR_MAX_TOKENS %q", cfg.MaxTokens)
	}
	s.MaxTokens = maxTokens

	if s.Timeout, err = time.ParseDuration(cfg.Timeout); err != nil || s.Timeout <= 0 {
		return s, fmt.Errorf("invalid GENERATOR_TIMEOUT %q", cfg.Timeout)
	}

	failures, err := strconv.ParseUint(strings.TrimSpace(cfg.BreakerFailures), 10, 32)
	if err != nil || failures == 0 {
		return s, fmt.Errorf("invalid GENERATOR_BREAKER_FAILURES %q", cfg.BreakerFailures)
	}
	s.BreakerFailures = uint32(failures)

	if s.BreakerTimeout, err = time.ParseDuration(cfg.BreakerTimeout); err != nil || s.BreakerTimeout <= 0 {
		return s, fmt.Errorf("invalid GENERATOR_BREAKER_TIMEOUT %q", cfg.BreakerTimeout)
	}

	return s, nil
}

// NewGenerator builds the configured backend behind a circuit breaker.
// It returns ErrNotConfigured when no API key is set.
func NewGenerator(ctx context.Context, cfg config.GeneratorConfig) (Generator, error) {
	s, err := ParseGeneratorConfig(cfg)
	if err != nil {
		return nil, err
	}
	if s.APIKey == "" {
		return nil, ErrNotConfigured
	}

	var backend Generator
	switch s.Provider {
	case ProviderGemini:
		backend, err = NewGeminiClient(ctx, s)
		if err != nil {
			return nil, err
		}
	default:
		backend = NewOpenAIClient(s)
	}

	return NewBreakerGenerator(s.Provider, backend, s.BreakerFailures, s.BreakerTimeout), nil
}
