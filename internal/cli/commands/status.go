package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/witness-rec/witness/internal/cli/errors"
	"github.com/witness-rec/witness/internal/cli/output"
	"github.com/witness-rec/witness/internal/protocol"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon and recorder status",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		if err := c.GetStatus(); err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}

		res, err := c.Call(protocol.MethodRecorderStatus, nil)
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}

		fmt.Println(formatter.FormatResult(output.NewCallResult(res)))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
