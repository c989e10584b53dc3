// Package plugin loads WASM capture plugins and exposes them as tools.
package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Worker executes a single WASM capture plugin. A plugin is a WASI
// command module: it reads one JSON argument object from stdin, does its
// work, and writes its reply to stdout.
type Worker struct {
	runtime wazero.Runtime
	module  wazero.CompiledModule
	ctx     context.Context
}

// NewWorker creates a WASM runtime for one plugin.
func NewWorker(ctx context.Context) *Worker {
	r := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)
	return &Worker{
		runtime: r,
		ctx:     ctx,
	}
}

// Load compiles a WASM file from disk.
func (w *Worker) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	mod, err := w.runtime.CompileModule(w.ctx, data)
	if err != nil {
		return err
	}
	w.module = mod
	return nil
}

// Call runs the plugin once with the given arguments and returns its
// stdout. Instantiation is the execution for WASI command modules; the
// call blocks until the module completes or the context is cancelled.
func (w *Worker) Call(args map[string]interface{}) (string, error) {
	input, err := json.Marshal(args)
	if err != nil {
		return "", err
	}

	var output bytes.Buffer
	config := wazero.NewModuleConfig().
		WithStdin(bytes.NewReader(input)).
		WithStdout(&output).
		WithStderr(os.Stderr).
		WithArgs("witness-plugin")

	mod, err := w.runtime.InstantiateModule(w.ctx, w.module, config)
	if err != nil {
		return "", err
	}
	defer mod.Close(w.ctx)

	return output.String(), nil
}

// Close releases the runtime.
func (w *Worker) Close() error {
	return w.runtime.Close(w.ctx)
}
