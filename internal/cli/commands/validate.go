package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/witness-rec/witness/internal/protocol"
	"github.com/witness-rec/witness/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a message file against the wire contract",
	Long: `Reads a JSON file containing a single message and checks it against
the envelope shape for its type. Request params are additionally checked
against the method catalog.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
			os.Exit(1)
		}
	},
}

func runValidate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	var result *schema.Result
	var label string
	switch {
	case protocol.IsRequest(value):
		label = "request"
		result = protocol.ValidateRequest(value)
		if result.Valid {
			req, _ := protocol.AsRequest(value)
			result = protocol.ValidateMethodParams(req.Method, req.Params)
		}
	case protocol.IsResponse(value):
		label = "response"
		result = protocol.ValidateResponse(value)
	case protocol.IsEvent(value):
		label = "event"
		result = protocol.ValidateEvent(value)
	default:
		return fmt.Errorf("message is not a recognizable request, response, or event")
	}

	if result.Valid {
		fmt.Println(color.GreenString("✓ valid %s", label))
		return nil
	}

	fmt.Println(color.RedString("✗ invalid %s:", label))
	for _, fieldErr := range result.Errors {
		fmt.Printf("  %s\n", fieldErr.Error())
	}
	os.Exit(1)
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
