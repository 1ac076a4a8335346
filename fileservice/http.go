package fileservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HTTPClient speaks the same JSON-RPC envelope as Client, but over HTTP
// POST requests instead of a stdio stream.
type HTTPClient struct {
	mu      sync.Mutex
	baseURL string
	client  *http.Client
	nextID  int
	log     *zap.Logger
}

// NewHTTPClient returns a client posting requests to baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		nextID:  1,
		log:     log,
	}
}

// Call implements Caller.
func (c *HTTPClient) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.mu.Unlock()

	req := Request{
		JSONRPC: Version,
		ID:      id,
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "encode request", Err: err}
	}

	c.log.Debug("rpc call", zap.Int("id", id), zap.String("method", method),
		zap.String("url", c.baseURL))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "post", Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, &TransportError{
			Op:  "post",
			Err: fmt.Errorf("server returned status %d: %s", httpResp.StatusCode, snippet),
		}
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}
	if resp.ID != id {
		return nil, &TransportError{
			Op:  "decode response",
			Err: fmt.Errorf("response id %d does not match request id %d", resp.ID, id),
		}
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}
