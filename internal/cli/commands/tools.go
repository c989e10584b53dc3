package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the methods the gateway accepts",
	Run: func(cmd *cobra.Command, args []string) {
		formatter := newFormatter()
		if out := formatter.FormatMethods(); out != "" {
			fmt.Println(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
