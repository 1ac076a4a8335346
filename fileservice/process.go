package fileservice

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var errEmptyCommand = errors.New("empty command")

// Process runs the file service as a subprocess and speaks JSON-RPC over
// its stdin and stdout. Anything the subprocess writes to stderr is logged.
type Process struct {
	client *Client
	cmd    *exec.Cmd
	stdin  interface{ Close() error }
	log    *zap.Logger
	wg     sync.WaitGroup
}

// StartProcess launches the given command line and connects a client to it.
// The command string is split on whitespace; the context governs the
// lifetime of the subprocess.
func StartProcess(ctx context.Context, command string, log *zap.Logger) (*Process, error) {
	if log == nil {
		log = zap.NewNop()
	}

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, &TransportError{Op: "start", Err: errEmptyCommand}
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.WaitDelay = 5 * time.Second

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &TransportError{Op: "stdin pipe", Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &TransportError{Op: "stdout pipe", Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &TransportError{Op: "stderr pipe", Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &TransportError{Op: "start " + parts[0], Err: err}
	}

	p := &Process{
		client: NewClient(stdout, stdin, log),
		cmd:    cmd,
		stdin:  stdin,
		log:    log,
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			log.Info("file service stderr", zap.String("line", sc.Text()))
		}
	}()

	log.Debug("file service started",
		zap.String("command", parts[0]),
		zap.Int("pid", cmd.Process.Pid))
	return p, nil
}

// Call implements Caller.
func (p *Process) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	return p.client.Call(ctx, method, params)
}

// Close shuts the subprocess down: stdin is closed so the service can exit
// on its own, and the process is killed if it has not exited after a grace
// period.
func (p *Process) Close() error {
	_ = p.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		p.log.Warn("file service did not exit, killing",
			zap.Int("pid", p.cmd.Process.Pid))
		_ = p.cmd.Process.Kill()
		err = <-done
	}

	p.wg.Wait()
	if err != nil && !strings.Contains(err.Error(), "signal: killed") {
		return &TransportError{Op: "wait", Err: err}
	}
	return nil
}
