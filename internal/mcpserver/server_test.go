package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool() tools.Tool {
	return tools.Tool{
		Definition: mcp.NewTool("echo",
			mcp.WithDescription("Echo the message back"),
			mcp.WithString("message", mcp.Required()),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			msg, _ := req.GetArguments()["message"].(string)
			return mcp.NewToolResultText(msg), nil
		},
	}
}

func handle(t *testing.T, raw string) map[string]any {
	t.Helper()
	s := New("hcloud-mcp", "test", []tools.Tool{echoTool()})

	resp := s.HandleMessage(context.Background(), json.RawMessage(raw))
	require.NotNil(t, resp)

	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestNew_ListsRegisteredTools(t *testing.T) {
	out := handle(t, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "unexpected response %v", out)
	list := result["tools"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "echo", list[0].(map[string]any)["name"])
}

func TestNew_RegistersEveryTool(t *testing.T) {
	all := tools.New(nil, tools.Options{}).Tools()
	s := New("hcloud-mcp", "test", all)

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var out struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Len(t, out.Result.Tools, len(all))
}

func TestNew_CallsTool(t *testing.T) {
	out := handle(t, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`)

	result := out["result"].(map[string]any)
	content := result["content"].([]any)
	require.Len(t, content, 1)
	assert.Equal(t, "hi", content[0].(map[string]any)["text"])
}

func TestRun_UnknownTransport(t *testing.T) {
	s := New("hcloud-mcp", "test", nil)

	err := Run(context.Background(), s, Options{Transport: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestRun_Stdio(t *testing.T) {
	s := New("hcloud-mcp", "test", []tools.Tool{echoTool()})
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, s, Options{Transport: TransportStdio, Stdin: inR, Stdout: outW})
	}()

	_, err := io.WriteString(inW, `{"jsonrpc":"2.0","id":7,"method":"tools/list"}`+"\n")
	require.NoError(t, err)

	line, err := bufio.NewReader(outR).ReadString('\n')
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, float64(7), resp["id"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stdio transport did not stop after cancellation")
	}
}

func TestRun_SSEStopsOnCancel(t *testing.T) {
	s := New("hcloud-mcp", "test", nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, s, Options{Transport: TransportSSE, Host: "127.0.0.1", Port: 0})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("sse transport did not stop after cancellation")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

// startSSE runs the sse transport and returns its address once it accepts
// connections. The transport is stopped when the test ends.
func startSSE(t *testing.T, s *server.MCPServer, baseURL string) string {
	t.Helper()
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, s, Options{Transport: TransportSSE, Host: "127.0.0.1", Port: port, BaseURL: baseURL})
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("sse transport did not stop after cancellation")
		}
	})

	addr := Addr("127.0.0.1", port)
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 20*time.Millisecond)
	return addr
}

// openStream connects to the event stream and returns its reader and the
// message endpoint announced by the first event.
func openStream(t *testing.T, addr string) (*bufio.Reader, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+SSEEndpoint, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	event := readEvent(t, r)
	require.Equal(t, "endpoint", event["event"])
	return r, event["data"]
}

// readEvent reads one server-sent event as a field map.
func readEvent(t *testing.T, r *bufio.Reader) map[string]string {
	t.Helper()
	event := map[string]string{}
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if len(event) > 0 {
				return event
			}
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		event[field] = strings.TrimSpace(value)
	}
}

func TestRun_SSEServesEventStream(t *testing.T) {
	s := New("hcloud-mcp", "test", []tools.Tool{echoTool()})
	addr := startSSE(t, s, "")

	stream, endpoint := openStream(t, addr)
	assert.True(t, strings.HasPrefix(endpoint, "http://"+addr+MessageEndpoint+"?sessionId="), "endpoint %q", endpoint)

	body := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"message":"over sse"}}}`
	resp, err := http.Post(endpoint, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	event := readEvent(t, stream)
	assert.Equal(t, "message", event["event"])

	var msg struct {
		ID     int `json:"id"`
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(event["data"]), &msg))
	assert.Equal(t, 3, msg.ID)
	require.Len(t, msg.Result.Content, 1)
	assert.Equal(t, "over sse", msg.Result.Content[0].Text)
}

func TestRun_SSEAdvertisesBaseURL(t *testing.T) {
	s := New("hcloud-mcp", "test", nil)
	addr := startSSE(t, s, "https://mcp.example.com/")

	_, endpoint := openStream(t, addr)
	assert.True(t, strings.HasPrefix(endpoint, "https://mcp.example.com"+MessageEndpoint+"?sessionId="), "endpoint %q", endpoint)
}

func TestRun_SSEUnknownPath(t *testing.T) {
	s := New("hcloud-mcp", "test", nil)
	addr := startSSE(t, s, "")

	resp, err := http.Get(fmt.Sprintf("http://%s/nope", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, "localhost:8080", Addr("localhost", 8080))
	assert.Equal(t, "[::1]:9000", Addr("::1", 9000))
}

func TestValidTransport(t *testing.T) {
	assert.True(t, ValidTransport("stdio"))
	assert.True(t, ValidTransport("sse"))
	assert.False(t, ValidTransport("http"))
}
