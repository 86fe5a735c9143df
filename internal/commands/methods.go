// internal/commands/methods.go
package concord

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/concord/internal/similarity"
)

// methodsCmd prints every supported similarity method with its description
// and reliability weight.
var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the supported similarity methods",
	Long: `List every similarity method the analyzer can score with, along with a short
description and the reliability weight each method contributes to run
confidence.`,
	Run: func(cmd *cobra.Command, args []string) {
		nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
		out := cmd.OutOrStdout()
		for _, method := range similarity.Methods() {
			fmt.Fprintf(out, "%s (reliability %.2f)\n", nameStyle.Render(string(method)), method.Reliability())
			fmt.Fprintf(out, "  >>> %s\n", method.Description())
		}
	},
}

func init() {
	rootCmd.AddCommand(methodsCmd)
}
