package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/witness-rec/witness/internal/cli/errors"
	"github.com/witness-rec/witness/internal/cli/output"
	"github.com/witness-rec/witness/internal/protocol"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Control evidence-capture sessions",
}

var recordStartCmd = &cobra.Command{
	Use:   "start <name> <url>",
	Short: "Start a capture session",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runMethod(protocol.MethodRecorderStart, map[string]interface{}{
			"name": args[0],
			"url":  args[1],
		})
	},
}

var recordStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active capture session",
	Run: func(cmd *cobra.Command, args []string) {
		runMethod(protocol.MethodRecorderStop, nil)
	},
}

// runMethod is the shared body of the convenience subcommands.
func runMethod(method protocol.Method, params map[string]interface{}) {
	c := newClient()
	formatter := newFormatter()

	res, err := c.Call(method, params)
	if err != nil {
		fmt.Println(formatter.FormatError(errors.Classify(err)))
		os.Exit(1)
	}

	fmt.Println(formatter.FormatResult(output.NewCallResult(res)))
	if !res.OK {
		os.Exit(1)
	}
}

func init() {
	recordCmd.AddCommand(recordStartCmd)
	recordCmd.AddCommand(recordStopCmd)
	rootCmd.AddCommand(recordCmd)
}
