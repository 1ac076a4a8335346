package fileservice

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestProcessExitSurfacesTransportError(t *testing.T) {
	// "sed -n 1q" consumes the request line from stdin and exits without
	// echoing it, so the call sees stdout close mid-wait, exactly like a
	// crashed service. (A bare "sh -c read" is not portable: dash's read
	// errors out without consuming stdin, racing the request write.)
	p, err := StartProcess(context.Background(), "sed -n 1q", zaptest.NewLogger(t))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Call(context.Background(), "tools/call", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, errors.Is(err, io.EOF), "err = %v, want io.EOF", err)
}

func TestProcessClose(t *testing.T) {
	p, err := StartProcess(context.Background(), "cat", zaptest.NewLogger(t))
	require.NoError(t, err)

	// cat exits when stdin closes, so Close returns without the kill path.
	assert.NoError(t, p.Close())
}

func TestStartProcessEmptyCommand(t *testing.T) {
	_, err := StartProcess(context.Background(), "  ", zaptest.NewLogger(t))
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
}

func TestStartProcessMissingBinary(t *testing.T) {
	_, err := StartProcess(context.Background(), "definitely-not-a-real-binary", zaptest.NewLogger(t))
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
}
