package llm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// MockClient is a Client for tests.
type MockClient struct {
	// ResponseText is returned for any request without an entry in Responses.
	ResponseText string
	// Responses maps a request name to its reply text.
	Responses  map[string]string
	ShouldFail bool
	// Gate, when set, blocks every call until it is closed or the context ends.
	Gate chan struct{}
	// Started, when set, receives the request as soon as a call begins.
	Started chan *Request

	mu           sync.Mutex
	requests     []*Request
	requestCount atomic.Int64
}

// NewMockClient creates a mock that answers every request with text.
func NewMockClient(text string) *MockClient {
	return &MockClient{ResponseText: text, Responses: map[string]string{}}
}

// Complete records the request and returns the configured reply.
func (c *MockClient) Complete(ctx context.Context, apiKey string, req *Request) (*Response, error) {
	if apiKey == "" {
		return nil, ErrCredentialMissing
	}

	start := time.Now()
	count := c.requestCount.Add(1)
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	if c.Started != nil {
		c.Started <- req
	}
	if c.Gate != nil {
		select {
		case <-c.Gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
		}
	}
	if c.ShouldFail {
		return nil, fmt.Errorf("%w: mock client configured to fail", ErrTransport)
	}

	text := c.ResponseText
	if r, ok := c.Responses[req.Name]; ok {
		text = r
	}

	resp := &Response{
		RequestID: req.ID,
		Text:      text,
		Model:     fmt.Sprintf("mock-%d", count),
		Duration:  time.Since(start),
	}
	if req.Structured() {
		var err error
		if resp.JSON, err = DecodeStructured(text, req.Schema); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// RequestCount returns the number of calls that reached the mock.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Requests returns the requests seen so far.
func (c *MockClient) Requests() []*Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Request, len(c.requests))
	copy(out, c.requests)
	return out
}

var _ Client = (*MockClient)(nil)
