package inference

import (
	"strings"

	"github.com/witness-rec/witness/internal/protocol"
)

// InferCommand lets users skip the subcommand for obvious method calls:
// a first argument that names a catalog method implies 'call'.
func InferCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	first := args[0]
	if strings.HasPrefix(first, "-") {
		return "", args
	}

	if _, ok := protocol.MethodCatalog[protocol.Method(first)]; ok {
		return "call", args
	}

	return "", args
}
