// Package simplify calls an OpenAI-compatible chat completion endpoint to
// rewrite text at a target CEFR level.
//
// One request is made per call and nothing is retried; the caller decides
// what a failure means for the fragment.
package simplify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultBaseURL is the default OpenAI API base URL.
	DefaultBaseURL     = "https://api.openai.com/v1/"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.1
	DefaultTimeout     = 30 * time.Second

	systemInstruction = "Simplify English text to specified CEFR level. Return only simplified text."
)

// Config holds the provider settings. APIKey is required.
type Config struct {
	APIKey      string        `yaml:"-"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	MaxTokens   int64         `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the provider defaults without a key.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
}

// Client simplifies text through the provider.
type Client struct {
	cfg    Config
	api    openai.Client
	keyErr error
}

// New creates a Client. An invalid key does not fail construction; every
// Simplify call reports it as an auth error instead.
func New(cfg Config, httpClient *http.Client) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &Client{
		cfg:    cfg,
		api:    api,
		keyErr: ValidateKey(cfg.APIKey),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

// Prompt builds the user instruction for text at level.
func Prompt(text, level string) string {
	return fmt.Sprintf("Simplify to CEFR %s: \"%s\"", level, text)
}

// Simplify returns text rewritten for level. Errors are always *Error.
func (c *Client) Simplify(ctx context.Context, text, level string) (string, error) {
	if c.keyErr != nil {
		return "", &Error{Kind: KindAuth, Err: c.keyErr}
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(Prompt(text, level)),
		},
		MaxTokens:        openai.Int(c.cfg.MaxTokens),
		Temperature:      openai.Float(c.cfg.Temperature),
		PresencePenalty:  openai.Float(0),
		FrequencyPenalty: openai.Float(0),
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(ctx, err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", &Error{Kind: KindProtocol, Err: errors.New("response has no choices")}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &Error{Kind: KindProtocol, Err: errors.New("response has no completion text")}
	}
	return content, nil
}

// responseParseError is the prefix openai-go puts on a 2xx body it cannot
// decode.
const responseParseError = "error parsing response json"

func classify(ctx context.Context, err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized {
			return &Error{Kind: KindAuth, StatusCode: apiErr.StatusCode, Err: err}
		}
		return &Error{Kind: KindProvider, StatusCode: apiErr.StatusCode, Err: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	if ctx.Err() != nil || errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return &Error{Kind: KindTransport, Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) || strings.Contains(err.Error(), responseParseError) {
		return &Error{Kind: KindProtocol, Err: err}
	}
	return &Error{Kind: KindTransport, Err: err}
}
