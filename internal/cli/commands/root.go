package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/witness-rec/witness/internal/cli/client"
	"github.com/witness-rec/witness/internal/cli/inference"
	"github.com/witness-rec/witness/internal/cli/output"
)

var (
	gatewayURL string
	jsonOutput bool
	rawOutput  bool
	timeout    int
)

var rootCmd = &cobra.Command{
	Use:   "witness-cli",
	Short: "Witness CLI - drive the session evidence recorder",
	Long: `Witness records app sessions as replayable evidence. This CLI talks
to a running witness daemon over its message gateway.`,
}

func Execute() error {
	// Simple command inference - prepend inferred command to args
	if len(os.Args) > 1 {
		inferredCmd, _ := inference.InferCommand(os.Args[1:])
		if inferredCmd != "" {
			newArgs := make([]string, 0, len(os.Args)+1)
			newArgs = append(newArgs, os.Args[0])
			newArgs = append(newArgs, inferredCmd)
			newArgs = append(newArgs, os.Args[1:]...)
			os.Args = newArgs
		}
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&gatewayURL, "gateway", "http://localhost:6301", "gateway base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&rawOutput, "raw", false, "raw output (no formatting)")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 30000, "request timeout in milliseconds")
}

func newClient() *client.GatewayClient {
	return client.NewGatewayClient(gatewayURL, time.Duration(timeout)*time.Millisecond)
}

func newFormatter() *output.Formatter {
	var mode output.OutputFormat = output.FormatText
	if jsonOutput {
		mode = output.FormatJSON
	} else if rawOutput {
		mode = output.FormatRaw
	}
	return output.NewFormatter(mode, true)
}
