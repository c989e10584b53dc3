package commands

import (
	"github.com/spf13/cobra"

	"github.com/witness-rec/witness/internal/protocol"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage evidence projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Run: func(cmd *cobra.Command, args []string) {
		runMethod(protocol.MethodProjectList, nil)
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMethod(protocol.MethodProjectCreate, map[string]interface{}{"name": args[0]})
	},
}

var projectGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMethod(protocol.MethodProjectGet, map[string]interface{}{"id": args[0]})
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMethod(protocol.MethodProjectDelete, map[string]interface{}{"id": args[0]})
	},
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectGetCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
