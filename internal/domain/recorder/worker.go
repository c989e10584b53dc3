// Package recorder drives external capture processes and tracks the
// evidence-capture session lifecycle.
package recorder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// CaptureWorker runs one external capture command. The command reports
// progress as newline-delimited event messages on stdout, which the
// worker forwards line by line to the provided sink.
type CaptureWorker struct {
	command string
	args    []string
	cmd     *exec.Cmd
	cancel  context.CancelFunc
}

// NewCaptureWorker prepares a worker for the given command line.
func NewCaptureWorker(command string, args []string) *CaptureWorker {
	return &CaptureWorker{
		command: command,
		args:    args,
	}
}

// Start launches the capture process and streams its stdout lines to
// sink until the process exits or Stop is called. Each line is decoded
// into a generic value; undecodable lines are skipped.
func (w *CaptureWorker) Start(ctx context.Context, env map[string]string, sink func(value interface{})) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.cmd = exec.CommandContext(ctx, w.command, w.args...)

	var stderr bytes.Buffer
	w.cmd.Stderr = &stderr

	w.cmd.Env = os.Environ()
	for k, v := range env {
		w.cmd.Env = append(w.cmd.Env, k+"="+v)
	}

	stdout, err := w.cmd.StdoutPipe()
	if err != nil {
		cancel()
		return err
	}

	if err := w.cmd.Start(); err != nil {
		cancel()
		if stderr.Len() > 0 {
			return fmt.Errorf("%w: %s", err, stderr.String())
		}
		return err
	}

	go w.pump(stdout, sink)
	return nil
}

func (w *CaptureWorker) pump(stdout io.Reader, sink func(value interface{})) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var value interface{}
		if err := json.Unmarshal(line, &value); err != nil {
			continue
		}
		sink(value)
	}
}

// Stop terminates the capture process.
func (w *CaptureWorker) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cmd != nil && w.cmd.Process != nil {
		// Reap the process; the kill via context cancel makes Wait
		// return an expected error.
		_ = w.cmd.Wait()
	}
	return nil
}
