package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/witness-rec/witness/internal/cli/errors"
	"github.com/witness-rec/witness/internal/protocol"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatRaw  OutputFormat = "raw"
)

type Formatter struct {
	format OutputFormat
	color  bool
}

func NewFormatter(format OutputFormat, useColor bool) *Formatter {
	return &Formatter{
		format: format,
		color:  useColor,
	}
}

func (f *Formatter) FormatResult(result *CallResult) string {
	if f.format == FormatJSON {
		s, _ := result.JSON()
		return s
	}
	if f.format == FormatRaw {
		return result.Text()
	}

	// Default text format
	if result.IsError() {
		if f.color {
			return color.RedString("Error: ") + result.Text()
		}
		return "Error: " + result.Text()
	}
	return result.Text()
}

func (f *Formatter) FormatError(err errors.ClassifiedError) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(err, "", "  ")
		return string(data)
	}

	var msg string
	if f.color {
		msg = color.RedString("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\n" + color.YellowString("Hint: %s", err.Hint)
		}
	} else {
		msg = fmt.Sprintf("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\nHint: " + err.Hint
		}
	}
	return msg
}

// FormatMethods renders the method catalog as a table.
func (f *Formatter) FormatMethods() string {
	names := make([]string, 0, len(protocol.MethodCatalog))
	for method := range protocol.MethodCatalog {
		names = append(names, string(method))
	}
	sort.Strings(names)

	if f.format == FormatJSON {
		rows := make([]map[string]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, map[string]string{
				"name":        name,
				"description": protocol.MethodCatalog[protocol.Method(name)].Description,
			})
		}
		data, _ := json.MarshalIndent(rows, "", "  ")
		return string(data)
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Method", "Description"}),
	)
	for _, name := range names {
		table.Append([]string{name, protocol.MethodCatalog[protocol.Method(name)].Description})
	}
	table.Render()
	return "" // tablewriter writes directly to stdout
}
