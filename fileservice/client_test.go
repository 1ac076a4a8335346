package fileservice

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aerissecure/compose"
)

// fakeService runs a line-oriented fake server on the other end of a pipe
// pair. The handler receives each decoded request and returns the raw
// line(s) to write back.
func fakeService(t *testing.T, handle func(req Request) string) *Client {
	t.Helper()

	clientIn, serverOut := io.Pipe()
	serverIn, clientOut := io.Pipe()

	go func() {
		sc := bufio.NewScanner(serverIn)
		for sc.Scan() {
			var req Request
			if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
				continue
			}
			reply := handle(req)
			if reply == "" {
				continue
			}
			if _, err := io.WriteString(serverOut, reply+"\n"); err != nil {
				return
			}
		}
	}()
	t.Cleanup(func() {
		clientOut.Close()
		serverOut.Close()
	})

	return NewClient(clientIn, clientOut, zaptest.NewLogger(t))
}

func resultLine(id int, result string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":%s}`, id, result)
}

func TestClientCall(t *testing.T) {
	client := fakeService(t, func(req Request) string {
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "tools/call", req.Method)
		return resultLine(req.ID, `{"content":[{"type":"text","text":"ok"}]}`)
	})

	raw, err := client.Call(context.Background(), "tools/call", CallParams{Name: ToolCreateWord})
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"ok"}]}`, string(raw))
}

func TestClientIDsIncrement(t *testing.T) {
	var ids []int
	client := fakeService(t, func(req Request) string {
		ids = append(ids, req.ID)
		return resultLine(req.ID, `{}`)
	})

	for i := 0; i < 3; i++ {
		_, err := client.Call(context.Background(), "ping", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestClientRPCError(t *testing.T) {
	client := fakeService(t, func(req Request) string {
		return fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"error":{"code":-32602,"message":"unknown tool"}}`, req.ID)
	})

	_, err := client.Call(context.Background(), "tools/call", nil)
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Equal(t, "unknown tool", rpcErr.Message)
}

func TestClientMalformedResponse(t *testing.T) {
	client := fakeService(t, func(req Request) string {
		return "this is not json"
	})

	_, err := client.Call(context.Background(), "tools/call", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "decode response", terr.Op)
}

func TestClientIDMismatch(t *testing.T) {
	client := fakeService(t, func(req Request) string {
		return resultLine(99, `{}`)
	})

	_, err := client.Call(context.Background(), "tools/call", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Error(), "does not match")
}

func TestClientSkipsNotifications(t *testing.T) {
	client := fakeService(t, func(req Request) string {
		return `{"jsonrpc":"2.0","method":"notifications/progress"}` + "\n" + resultLine(req.ID, `{}`)
	})

	raw, err := client.Call(context.Background(), "tools/call", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestClientContextCancel(t *testing.T) {
	client := fakeService(t, func(req Request) string {
		return "" // never answer
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Call(ctx, "tools/call", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClientRejectsCallsAfterCancel(t *testing.T) {
	client := fakeService(t, func(req Request) string {
		return "" // never answer
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Call(ctx, "tools/call", nil)
	require.Error(t, err)

	// The abandoned reader may still hold the scanner, so the client must
	// refuse further use immediately rather than racing on it.
	_, err = client.Call(context.Background(), "tools/call", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "call", terr.Op)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestServiceCreateWord(t *testing.T) {
	client := fakeService(t, func(req Request) string {
		params, _ := json.Marshal(req.Params)
		var cp CallParams
		assert.NoError(t, json.Unmarshal(params, &cp))
		assert.Equal(t, ToolCreateWord, cp.Name)
		assert.Equal(t, "/tmp/report.docx", cp.Arguments.FilePath)
		if assert.Len(t, cp.Arguments.Content, 2) {
			assert.Equal(t, "heading", cp.Arguments.Content[0].Kind())
		}
		return resultLine(req.ID, `{"content":[{"type":"text","text":"File created successfully"}]}`)
	})

	svc := NewService(client)
	blocks := []compose.Block{
		compose.NewHeading(1, "Report"),
		compose.NewParagraph("Body"),
	}
	res, err := svc.CreateWord(context.Background(), "/tmp/report.docx", blocks)
	require.NoError(t, err)
	assert.Equal(t, "File created successfully", res.Text())
	assert.False(t, res.IsError)
}

func TestHTTPClientCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, resultLine(req.ID, `{"content":[]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))
	raw, err := client.Call(context.Background(), "tools/call", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[]}`, string(raw))
}

func TestHTTPClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))
	_, err := client.Call(context.Background(), "tools/call", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Error(), "status 500")
}

func TestHTTPClientRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32000,"message":"disk full"}}`, req.ID)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))
	_, err := client.Call(context.Background(), "tools/call", nil)
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "disk full", rpcErr.Message)
}
