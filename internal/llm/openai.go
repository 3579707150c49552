package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/scriptmatch/internal/logger"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 120 * time.Second
)

// OpenAIConfig configures an OpenAIClient.
type OpenAIConfig struct {
	BaseURL    string        // OpenAI-compatible endpoint; Gemini's by default
	Model      string        // "gemini-2.0-flash" by default
	Timeout    time.Duration // HTTP timeout
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements Client against any OpenAI-compatible chat
// completions endpoint using the official SDK.
type OpenAIClient struct {
	model  string
	client openai.Client
}

// NewOpenAIClient creates a client. The API key is supplied per call.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	client := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		// A failed call surfaces immediately; the user retries by hand.
		option.WithMaxRetries(0),
	)

	return &OpenAIClient{
		model:  cfg.Model,
		client: client,
	}
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends one chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, apiKey string, req *Request) (*Response, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrCredentialMissing
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{userMessage(req)},
	}
	if req.Structured() {
		var schema map[string]any
		if err := json.Unmarshal(req.Schema, &schema); err != nil {
			return nil, fmt.Errorf("request %s: invalid schema: %w", req.Name, err)
		}
		name := req.SchemaName
		if name == "" {
			name = req.Name
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   name,
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	logger.Debug("llm: sending %s request %s (kind=%s, image=%t, model=%s)",
		req.Name, req.ID, req.Kind, req.Image != nil, c.model)
	start := time.Now()

	completion, err := c.client.Chat.Completions.New(ctx, params, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, req.Name, mapOpenAIError(err))
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: %s: no choices in response", ErrTransport, req.Name)
	}

	text := completion.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s: empty response", ErrTransport, req.Name)
	}

	resp := &Response{
		RequestID: req.ID,
		Text:      text,
		Model:     completion.Model,
		Duration:  time.Since(start),
	}
	if req.Structured() {
		resp.JSON, err = DecodeStructured(text, req.Schema)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", req.Name, err)
		}
	}

	logger.Debug("llm: %s request %s completed in %s (%d chars)", req.Name, req.ID, resp.Duration, len(text))
	return resp, nil
}

func userMessage(req *Request) openai.ChatCompletionMessageParamUnion {
	if req.Image == nil {
		return openai.UserMessage(req.Prompt)
	}
	return openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.Prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: req.Image.DataURI(),
		}),
	})
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("API key rejected (status %d)", apiErr.StatusCode)
		case http.StatusTooManyRequests:
			return fmt.Errorf("rate limited (status %d)", apiErr.StatusCode)
		default:
			return fmt.Errorf("status %d: %w", apiErr.StatusCode, err)
		}
	}
	return err
}

var _ Client = (*OpenAIClient)(nil)
