package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/use-agent/listingkit/config"
	"github.com/use-agent/listingkit/models"
)

// Client calls an OpenAI-compatible chat-completions endpoint.
// One Generate call is exactly one HTTP request; there are no retries.
type Client struct {
	api     *openai.Client
	apiKey  string
	model   string
	timeout time.Duration
}

// Result is a successful generation.
type Result struct {
	Mode   Mode
	Titles []string
	Usage  Usage
}

// Usage is the token accounting reported by the endpoint.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// NewClient builds a client from cfg. Pass nil to use a default http.Client.
// A client without an API key can be built; every call on it fails with an
// AUTH_CONFIG error.
func NewClient(cfg config.GenerationConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL(cfg.BaseURL)),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)
	return &Client{
		api:     &api,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		timeout: timeout,
	}
}

// Ready reports whether a credential is configured.
func (c *Client) Ready() bool {
	return c.apiKey != ""
}

// Generate sends req and parses the completion into titles.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	if c.apiKey == "" {
		return nil, models.NewError(models.ErrCodeAuthConfig, "generation API key is not configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instruction),
			openai.UserMessage(req.UserPrompt),
		},
		MaxTokens:        openai.Int(req.Params.MaxOutputTokens),
		Temperature:      openai.Float(req.Params.Temperature),
		TopP:             openai.Float(req.Params.TopP),
		FrequencyPenalty: openai.Float(req.Params.FrequencyPenalty),
		PresencePenalty:  openai.Float(req.Params.PresencePenalty),
	}

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, models.NewError(models.ErrCodeEmptyResponse, "endpoint returned no choices", nil)
	}
	titles := ParseTitles(req.Mode, resp.Choices[0].Message.Content)
	if len(titles) == 0 {
		return nil, models.NewError(models.ErrCodeEmptyResponse, "endpoint returned empty content", nil)
	}

	slog.Debug("generation complete",
		"mode", req.Mode.String(),
		"titles", len(titles),
		"total_tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start),
	)

	return &Result{
		Mode:   req.Mode,
		Titles: titles,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// classifyError maps an SDK error to a TRANSPORT_FAILED error, keeping the
// upstream status and body when the endpoint answered.
func classifyError(err error) *models.Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		e := models.NewError(models.ErrCodeTransport, "generation endpoint returned an error", err)
		e.Status = apiErr.StatusCode
		e.Body = apiErr.RawJSON()
		if e.Body == "" && apiErr.Response != nil && apiErr.Response.Body != nil {
			if raw, readErr := io.ReadAll(apiErr.Response.Body); readErr == nil {
				e.Body = string(raw)
			}
		}
		return e
	}
	return models.NewError(models.ErrCodeTransport, "generation request failed", err)
}

// baseURL accepts either an API root or a full chat-completions URL.
func baseURL(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	endpoint = strings.TrimSuffix(endpoint, "/chat/completions")
	return endpoint + "/"
}
