package fileservice

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Caller issues a JSON-RPC request and returns the raw result payload.
// A service *RPCError or a *TransportError is returned on failure.
type Caller interface {
	Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error)
}

// Client is a line-delimited JSON-RPC client over a reader/writer pair.
// Requests are serialized: one call is in flight at a time, and each
// request line is answered by exactly one response line.
type Client struct {
	mu      sync.Mutex
	w       io.Writer
	scanner *bufio.Scanner
	nextID  int
	log     *zap.Logger

	// failed latches the client after a cancelled call.  The abandoned
	// reader goroutine may still be blocked on the scanner, so starting
	// another read would race on it; every later Call fails instead.
	failed error
}

// NewClient returns a client reading responses from r and writing requests
// to w. A nil logger disables logging.
func NewClient(r io.Reader, w io.Writer, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Client{
		w:       w,
		scanner: sc,
		nextID:  1,
		log:     log,
	}
}

// Call sends one request and waits for its response. The context cancels
// the wait, not the underlying connection; a cancelled call leaves the
// stream desynchronized, so the client rejects all further calls.
func (c *Client) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failed != nil {
		return nil, &TransportError{Op: "call", Err: c.failed}
	}

	id := c.nextID
	c.nextID++

	req := Request{
		JSONRPC: Version,
		ID:      id,
		Method:  method,
		Params:  params,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "encode request", Err: err}
	}

	c.log.Debug("rpc call", zap.Int("id", id), zap.String("method", method))

	if _, err := c.w.Write(append(data, '\n')); err != nil {
		return nil, &TransportError{Op: "write request", Err: err}
	}

	type scanResult struct {
		resp *Response
		err  error
	}
	ch := make(chan scanResult, 1)
	go func() {
		resp, err := c.readResponse()
		ch <- scanResult{resp, err}
	}()

	select {
	case sr := <-ch:
		if sr.err != nil {
			return nil, sr.err
		}
		if sr.resp.ID != id {
			return nil, &TransportError{
				Op:  "read response",
				Err: fmt.Errorf("response id %d does not match request id %d", sr.resp.ID, id),
			}
		}
		if sr.resp.Error != nil {
			return nil, sr.resp.Error
		}
		return sr.resp.Result, nil
	case <-ctx.Done():
		c.failed = fmt.Errorf("client abandoned after cancelled request: %w", ctx.Err())
		return nil, &TransportError{Op: "wait for response", Err: ctx.Err()}
	}
}

// readResponse reads lines until one carries a response envelope. Blank
// lines and notifications (no id) are skipped.
func (c *Client) readResponse() (*Response, error) {
	for c.scanner.Scan() {
		line := c.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var probe map[string]json.RawMessage
		if err := json.Unmarshal(line, &probe); err != nil {
			return nil, &TransportError{Op: "decode response", Err: err}
		}
		if _, ok := probe["id"]; !ok {
			c.log.Debug("rpc notification", zap.ByteString("line", line))
			continue
		}

		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, &TransportError{Op: "decode response", Err: err}
		}
		return &resp, nil
	}
	if err := c.scanner.Err(); err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	return nil, &TransportError{Op: "read response", Err: io.EOF}
}
