package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/scriptmatch/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Auth string
	Body map[string]any
}

func newTestServer(t *testing.T, status int, content string) (*httptest.Server, *atomic.Int64, chan capturedRequest) {
	t.Helper()
	var hits atomic.Int64
	captured := make(chan capturedRequest, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/chat/completions", r.URL.Path)

		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)
		captured <- capturedRequest{Auth: r.Header.Get("Authorization"), Body: body}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		reply := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gemini-test",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, captured
}

func newTestClient(srv *httptest.Server) *OpenAIClient {
	return NewOpenAIClient(OpenAIConfig{
		BaseURL:    srv.URL + "/",
		Model:      "gemini-test",
		HTTPClient: srv.Client(),
	})
}

func TestOpenAIClient_Text(t *testing.T) {
	srv, hits, captured := newTestServer(t, http.StatusOK, "옛날 옛적에")
	client := newTestClient(srv)

	req := NewRequest(RequestGeneration, "write a story")
	resp, err := client.Complete(context.Background(), "secret-key", req)
	require.NoError(t, err)
	require.Equal(t, "옛날 옛적에", resp.Text)
	require.Nil(t, resp.JSON)
	require.Equal(t, req.ID, resp.RequestID)
	require.Equal(t, "gemini-test", resp.Model)
	require.EqualValues(t, 1, hits.Load())

	got := <-captured
	require.Equal(t, "Bearer secret-key", got.Auth)
	require.Equal(t, "gemini-test", got.Body["model"])
	require.NotContains(t, got.Body, "response_format")
}

func TestOpenAIClient_StructuredWithImage(t *testing.T) {
	srv, _, captured := newTestServer(t, http.StatusOK, "```json\n{\"script\":\"s\",\"thumbnailPrompt\":\"p\"}\n```")
	client := newTestClient(srv)

	req := NewRequest(RequestAnalysis, "analyze")
	req.Schema = MustSchema(&scriptReply{})
	req.SchemaName = "script_reply"
	req.Image = &media.Image{MimeType: "image/png", Data: []byte{1, 2, 3}}

	resp, err := client.Complete(context.Background(), "k", req)
	require.NoError(t, err)
	require.JSONEq(t, `{"script":"s","thumbnailPrompt":"p"}`, string(resp.JSON))

	got := <-captured
	format := got.Body["response_format"].(map[string]any)
	require.Equal(t, "json_schema", format["type"])
	require.Equal(t, "script_reply", format["json_schema"].(map[string]any)["name"])

	messages := got.Body["messages"].([]any)
	parts := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	image := parts[1].(map[string]any)
	require.Equal(t, "image_url", image["type"])
	require.Equal(t, "data:image/png;base64,AQID", image["image_url"].(map[string]any)["url"])
}

func TestOpenAIClient_NoRetryOnServerError(t *testing.T) {
	srv, hits, _ := newTestServer(t, http.StatusInternalServerError, "")
	client := newTestClient(srv)

	_, err := client.Complete(context.Background(), "k", NewRequest(RequestAnalysis, "analyze"))
	require.ErrorIs(t, err, ErrTransport)
	require.EqualValues(t, 1, hits.Load(), "exactly one network call")
}

func TestOpenAIClient_MalformedStructuredReply(t *testing.T) {
	srv, _, _ := newTestServer(t, http.StatusOK, "I cannot help with that.")
	client := newTestClient(srv)

	req := NewRequest(RequestAnalysis, "analyze")
	req.Schema = MustSchema(&scriptReply{})
	_, err := client.Complete(context.Background(), "k", req)
	require.ErrorIs(t, err, ErrTransport)
}

func TestOpenAIClient_CredentialMissing(t *testing.T) {
	srv, hits, _ := newTestServer(t, http.StatusOK, "unused")
	client := newTestClient(srv)

	_, err := client.Complete(context.Background(), "  ", NewRequest(RequestAnalysis, "analyze"))
	require.ErrorIs(t, err, ErrCredentialMissing)
	require.Zero(t, hits.Load())
}

func TestMockClient(t *testing.T) {
	m := NewMockClient("default")
	m.Responses[RequestKeywords] = `{"large":"a","medium":"b","small":"c"}`

	_, err := m.Complete(context.Background(), "", NewRequest(RequestAnalysis, "x"))
	require.ErrorIs(t, err, ErrCredentialMissing)
	require.Zero(t, m.RequestCount())

	resp, err := m.Complete(context.Background(), "k", NewRequest(RequestAnalysis, "x"))
	require.NoError(t, err)
	require.Equal(t, "default", resp.Text)

	resp, err = m.Complete(context.Background(), "k", NewRequest(RequestKeywords, "y"))
	require.NoError(t, err)
	require.Contains(t, resp.Text, "large")

	m.ShouldFail = true
	_, err = m.Complete(context.Background(), "k", NewRequest(RequestAnalysis, "x"))
	require.ErrorIs(t, err, ErrTransport)
	require.EqualValues(t, 3, m.RequestCount())
	require.Len(t, m.Requests(), 3)
}
