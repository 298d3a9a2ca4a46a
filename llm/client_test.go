package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/listingkit/config"
	"github.com/use-agent/listingkit/models"
)

const completionsURL = "https://llm.test/chat/completions"

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "deepseek-chat",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func newTestClient(t *testing.T, apiKey string) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client := NewClient(config.GenerationConfig{
		APIKey:  apiKey,
		BaseURL: "https://llm.test",
		Model:   "deepseek-chat",
		Timeout: 5 * time.Second,
	}, &http.Client{Transport: transport})
	return client, transport
}

func mustBuild(t *testing.T, mode Mode, in Input) Request {
	t.Helper()
	req, err := Build(mode, in)
	require.NoError(t, err)
	return req
}

func TestGenerate_MultiStripsOrdinals(t *testing.T) {
	client, transport := newTestClient(t, "sk-test")
	transport.RegisterResponder(http.MethodPost, completionsURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, completion("1. Foo\n2. Bar\n\n3. Baz")))

	res, err := client.Generate(context.Background(), mustBuild(t, ModeMulti, Input{Keyword: "tech gadgets"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo", "Bar", "Baz"}, res.Titles)
	assert.Equal(t, ModeMulti, res.Mode)
	assert.Equal(t, int64(65), res.Usage.TotalTokens)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestGenerate_SendsParamsAndCredential(t *testing.T) {
	client, transport := newTestClient(t, "sk-test")

	var body map[string]any
	var auth string
	transport.RegisterResponder(http.MethodPost, completionsURL, func(r *http.Request) (*http.Response, error) {
		auth = r.Header.Get("Authorization")
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		return httpmock.NewJsonResponse(http.StatusOK, completion("AudioTech Wireless Earbuds"))
	})

	_, err := client.Generate(context.Background(), mustBuild(t, ModeSingle, Input{Keyword: "wireless earbuds"}))
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "deepseek-chat", body["model"])
	assert.EqualValues(t, 60, body["max_tokens"])
	assert.EqualValues(t, 0.7, body["temperature"])
	assert.EqualValues(t, 1.0, body["top_p"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestGenerate_SingleReturnsTrimmedContent(t *testing.T) {
	client, transport := newTestClient(t, "sk-test")
	transport.RegisterResponder(http.MethodPost, completionsURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, completion("  AudioTech Noise Cancelling Wireless Earbuds  \n")))

	res, err := client.Generate(context.Background(), mustBuild(t, ModeSingle, Input{Keyword: "wireless earbuds"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"AudioTech Noise Cancelling Wireless Earbuds"}, res.Titles)
}

func TestGenerate_MissingCredentialMakesNoCalls(t *testing.T) {
	for _, key := range []string{"", "   "} {
		client, transport := newTestClient(t, key)
		transport.RegisterResponder(http.MethodPost, completionsURL,
			httpmock.NewJsonResponderOrPanic(http.StatusOK, completion("Foo")))

		_, err := client.Generate(context.Background(), mustBuild(t, ModeMulti, Input{Keyword: "tech gadgets"}))
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrAuthConfig)
		assert.NotErrorIs(t, err, models.ErrTransport)
		assert.Equal(t, 0, transport.GetTotalCallCount())
	}
}

func TestGenerate_EmptyContentIsDistinctFromTransport(t *testing.T) {
	client, transport := newTestClient(t, "sk-test")
	transport.RegisterResponder(http.MethodPost, completionsURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, completion("   \n  ")))

	_, err := client.Generate(context.Background(), mustBuild(t, ModeMulti, Input{Keyword: "tech gadgets"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmptyResponse)
	assert.NotErrorIs(t, err, models.ErrTransport)
}

func TestGenerate_NoChoices(t *testing.T) {
	client, transport := newTestClient(t, "sk-test")
	resp := completion("")
	resp["choices"] = []map[string]any{}
	transport.RegisterResponder(http.MethodPost, completionsURL, httpmock.NewJsonResponderOrPanic(http.StatusOK, resp))

	_, err := client.Generate(context.Background(), mustBuild(t, ModeSingle, Input{Keyword: "lamp"}))
	assert.ErrorIs(t, err, models.ErrEmptyResponse)
}

func TestGenerate_UpstreamStatusIsTransportError(t *testing.T) {
	client, transport := newTestClient(t, "sk-test")
	transport.RegisterResponder(http.MethodPost, completionsURL,
		httpmock.NewJsonResponderOrPanic(http.StatusInternalServerError, map[string]any{
			"error": map[string]any{"message": "upstream exploded", "type": "server_error"},
		}))

	_, err := client.Generate(context.Background(), mustBuild(t, ModeMulti, Input{Keyword: "tech gadgets"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)
	assert.NotErrorIs(t, err, models.ErrEmptyResponse)

	var e *models.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.Equal(t, 1, transport.GetTotalCallCount(), "no retries")
}

func TestGenerate_ConnectionFailureIsTransportError(t *testing.T) {
	client, transport := newTestClient(t, "sk-test")
	transport.RegisterResponder(http.MethodPost, completionsURL,
		httpmock.NewErrorResponder(errors.New("connection reset by peer")))

	_, err := client.Generate(context.Background(), mustBuild(t, ModeMulti, Input{Keyword: "tech gadgets"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)
	assert.Contains(t, err.Error(), "connection reset by peer")
}

func TestBaseURL(t *testing.T) {
	tests := map[string]string{
		"https://api.deepseek.com":                   "https://api.deepseek.com/",
		"https://api.deepseek.com/":                  "https://api.deepseek.com/",
		"https://api.deepseek.com/chat/completions":  "https://api.deepseek.com/",
		"https://api.openai.com/v1/chat/completions": "https://api.openai.com/v1/",
	}
	for in, want := range tests {
		assert.Equal(t, want, baseURL(in), "baseURL(%q)", in)
	}
}
