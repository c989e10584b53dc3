package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/witness-rec/witness/internal/cli/errors"
	"github.com/witness-rec/witness/internal/cli/output"
	"github.com/witness-rec/witness/internal/protocol"
)

var callCmd = &cobra.Command{
	Use:   "call <method> [key=value...]",
	Short: "Call a gateway method",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		method := protocol.Method(args[0])
		params := parseArgs(args[1:])

		res, err := c.Call(method, params)
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}

		fmt.Println(formatter.FormatResult(output.NewCallResult(res)))
		if !res.OK {
			os.Exit(1)
		}
	},
}

// parseArgs turns key=value pairs into parameters, keeping numeric and
// boolean values typed so shape validation sees what the caller meant.
func parseArgs(args []string) map[string]interface{} {
	params := make(map[string]interface{})
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, raw := kv[0], kv[1]
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			params[key] = n
		} else if b, err := strconv.ParseBool(raw); err == nil {
			params[key] = b
		} else {
			params[key] = raw
		}
	}
	return params
}

func init() {
	rootCmd.AddCommand(callCmd)
}
