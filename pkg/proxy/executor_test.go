package proxy_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agentstation/apirunner/pkg/proxy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestExecuteJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-Id", "abc")
		_, _ = io.WriteString(w, `{"total":1,"results":[{"id":"42"}]}`)
	}))
	defer server.Close()

	resp := proxy.NewHTTPExecutor().Execute(context.Background(), proxy.Request{URL: server.URL, Method: "GET"})

	assert.True(t, resp.OK)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "OK", resp.StatusText)
	assert.Equal(t, "abc", resp.Headers["x-request-id"])
	require.True(t, resp.HasData)
	assert.Nil(t, resp.RawText)
	assert.Equal(t, float64(1), resp.Data.(map[string]any)["total"])
	assert.GreaterOrEqual(t, resp.DurationMs, int64(0))
}

func TestExecuteText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer server.Close()

	resp := proxy.NewHTTPExecutor().Execute(context.Background(), proxy.Request{URL: server.URL, Method: "POST"})

	assert.False(t, resp.OK)
	assert.Equal(t, 502, resp.Status)
	assert.Equal(t, "Bad Gateway", resp.StatusText)
	assert.False(t, resp.HasData)
	require.NotNil(t, resp.RawText)
	assert.Equal(t, "<html>bad gateway</html>", resp.Text())
}

func TestExecuteForwardsRequest(t *testing.T) {
	type seen struct {
		method, host, auth, body string
	}
	got := make(chan seen, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got <- seen{r.Method, r.Host, r.Header.Get("Authorization"), string(b)}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	exec := proxy.NewHTTPExecutor()

	t.Run("GET never carries a body", func(t *testing.T) {
		exec.Execute(context.Background(), proxy.Request{
			URL:    server.URL,
			Method: "GET",
			Body:   map[string]any{"ignored": true},
		})
		s := <-got
		assert.Equal(t, "GET", s.method)
		assert.Empty(t, s.body)
	})

	t.Run("PATCH body is JSON and host header stripped", func(t *testing.T) {
		resp := exec.Execute(context.Background(), proxy.Request{
			URL:     server.URL,
			Method:  "PATCH",
			Headers: map[string]string{"host": "attacker.example", "Authorization": "Bearer t"},
			Body:    map[string]any{"properties": map[string]any{"a": "b"}},
		})
		s := <-got
		assert.Equal(t, "PATCH", s.method)
		assert.NotEqual(t, "attacker.example", s.host)
		assert.Equal(t, "Bearer t", s.auth)
		assert.JSONEq(t, `{"properties":{"a":"b"}}`, s.body)
		assert.True(t, resp.OK)
		assert.Equal(t, 204, resp.Status)
		// An empty body is not valid JSON, so it is kept as raw text.
		require.NotNil(t, resp.RawText)
		assert.Equal(t, "", *resp.RawText)
	})
}

func TestExecuteNetworkError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	resp := proxy.NewHTTPExecutor().Execute(context.Background(), proxy.Request{URL: "http://" + addr, Method: "GET"})

	assert.False(t, resp.OK)
	assert.Equal(t, 0, resp.Status)
	assert.Equal(t, "NetworkError", resp.StatusText)
	assert.NotEmpty(t, resp.Text())
}

func TestExecuteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	exec := proxy.NewHTTPExecutor(proxy.WithTimeout(50 * time.Millisecond))
	resp := exec.Execute(context.Background(), proxy.Request{URL: server.URL, Method: "GET"})

	assert.False(t, resp.OK)
	assert.Equal(t, 0, resp.Status)
	assert.Equal(t, "NetworkError", resp.StatusText)
	assert.Equal(t, "Request timed out", resp.Text())
}

func TestExecuteMalformedURL(t *testing.T) {
	resp := proxy.NewHTTPExecutor().Execute(context.Background(), proxy.Request{URL: "not a url", Method: "GET"})
	assert.False(t, resp.OK)
	assert.Equal(t, "NetworkError", resp.StatusText)
}

func TestExecutorFunc(t *testing.T) {
	calls := 0
	var exec proxy.Executor = proxy.ExecutorFunc(func(_ context.Context, req proxy.Request) proxy.Response {
		calls++
		return proxy.Synthetic("Stub", req.URL)
	})
	resp := exec.Execute(context.Background(), proxy.Request{URL: "https://x"})
	assert.Equal(t, 1, calls)
	assert.Equal(t, "https://x", resp.Data)
}

func TestResponseJSONShape(t *testing.T) {
	t.Run("parsed body omits rawText", func(t *testing.T) {
		b, err := json.Marshal(proxy.Synthetic("DryRun", map[string]any{"a": 1}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true,"status":200,"statusText":"DryRun","headers":{},"data":{"a":1},"durationMs":0}`, string(b))
	})

	t.Run("failure omits data", func(t *testing.T) {
		b, err := json.Marshal(proxy.Failure("Request timed out"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":false,"status":0,"statusText":"NetworkError","headers":{},"rawText":"Request timed out","durationMs":0}`, string(b))
	})

	t.Run("explicit null data survives a round trip", func(t *testing.T) {
		in := proxy.Synthetic("OK", nil)
		b, err := json.Marshal(in)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"data":null`)

		var out proxy.Response
		require.NoError(t, json.Unmarshal(b, &out))
		assert.True(t, out.HasData)
		assert.Nil(t, out.Data)
	})
}

func TestDecodeRequest(t *testing.T) {
	req, err := proxy.DecodeRequest(strings.NewReader(`{"url":"https://api.example.com/x","method":"post","body":{"a":1}}`))
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, map[string]any{"a": float64(1)}, req.Body)

	req, err = proxy.DecodeRequest(strings.NewReader(`{"url":"https://api.example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)

	_, err = proxy.DecodeRequest(strings.NewReader(`{"url":`))
	assert.Error(t, err)

	_, err = proxy.DecodeRequest(strings.NewReader(`{"method":"GET"}`))
	assert.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com/v1/items", proxy.RedactURL("https://api.example.com/v1/items?api_key=s3cret&page=2"))
	assert.Equal(t, "https://api.example.com/x", proxy.RedactURL("https://user:pw@api.example.com/x"))
	assert.Equal(t, "", proxy.RedactURL("://bad"))
}
