// Package llm sends prompts to a hosted model and normalizes the reply.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/scriptmatch/internal/media"
)

var (
	// ErrCredentialMissing is returned before any network call when no API key is available.
	ErrCredentialMissing = errors.New("API key is not set")
	// ErrTransport covers network failures, non-2xx responses, empty replies
	// and replies that fail structured decoding.
	ErrTransport = errors.New("llm request failed")
)

// Request names (used for logging and by MockClient.Responses).
const (
	RequestAnalysis   = "analysis"
	RequestGeneration = "generation"
	RequestKeywords   = "keywords"
)

// Request is one prompt, optionally with an image and a response schema.
type Request struct {
	ID     string
	Name   string
	Kind   string // response shape label, e.g. the analysis kind
	Prompt string
	Image  *media.Image
	// Schema is a JSON schema document. When set, the reply is decoded and
	// validated against it.
	Schema     json.RawMessage
	SchemaName string
}

// NewRequest returns a request with a fresh ID.
func NewRequest(name, prompt string) *Request {
	return &Request{
		ID:     uuid.NewString(),
		Name:   name,
		Prompt: prompt,
	}
}

// Structured reports whether the request asks for schema-conformant JSON.
func (r *Request) Structured() bool {
	return len(r.Schema) > 0
}

// Response is a completed call.
type Response struct {
	RequestID string
	Text      string
	// JSON is the decoded, validated payload of a structured request.
	JSON     json.RawMessage
	Model    string
	Duration time.Duration
}

// Client performs exactly one model call per Complete. Implementations never retry.
type Client interface {
	Complete(ctx context.Context, apiKey string, req *Request) (*Response, error)
}
