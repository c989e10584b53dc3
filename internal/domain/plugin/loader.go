package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/witness-rec/witness/internal/logger"
	"github.com/witness-rec/witness/internal/mcp"
	"github.com/witness-rec/witness/internal/schema"
)

// LoadDir scans dir for .wasm files and returns one tool per plugin.
// Plugins accept an open object of arguments; their contract beyond that
// is their own. A plugin that fails to compile is skipped with a log
// line rather than failing startup.
func LoadDir(ctx context.Context, dir string) []*mcp.Tool {
	files, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("plugin dir %s: %v", dir, err)
		}
		return nil
	}

	var tools []*mcp.Tool
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".wasm") {
			continue
		}

		worker := NewWorker(ctx)
		path := filepath.Join(dir, f.Name())
		if err := worker.Load(path); err != nil {
			logger.Warnf("failed to load plugin %s: %v", f.Name(), err)
			worker.Close()
			continue
		}

		name := strings.TrimSuffix(f.Name(), ".wasm")
		tools = append(tools, &mcp.Tool{
			Name:        "plugin." + name,
			Description: fmt.Sprintf("Runs the %s capture plugin.", name),
			Params:      schema.Object(nil),
			Handler: func(args map[string]interface{}) (*mcp.ToolResult, error) {
				out, err := worker.Call(args)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(out), nil
			},
		})
		logger.Infof("loaded capture plugin %s", name)
	}
	return tools
}
