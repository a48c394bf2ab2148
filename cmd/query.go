package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/rbxmx2repo/internal/query"
)

var queryCmd = &cobra.Command{
	Use:   "query <manifest.json|export-dir> <jsonpath>",
	Short: "Select manifest entries with a JSONPath expression",
	Example: `  rbxmx2repo query out '$[?(@.disabled == true)].outputPath'
  rbxmx2repo query out/_manifest.json '$[*].serviceRoot'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(os.Stdout, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(w io.Writer, target, selector string) error {
	lines, err := query.Run(target, selector)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
