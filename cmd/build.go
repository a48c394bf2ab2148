package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/rbxmx2repo/api"
	"github.com/agentic-research/rbxmx2repo/internal/catalog"
	"github.com/agentic-research/rbxmx2repo/internal/export"
	"github.com/agentic-research/rbxmx2repo/internal/instance"
)

var buildCmd = &cobra.Command{
	Use:   "build <input.rbxmx> <catalog.db>",
	Short: "Build a SQLite catalog of the instances and exported scripts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output := args[1]

		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}

		start := time.Now()
		fmt.Printf("Building %s from %s...\n", output, input)
		st, err := runBuild(input, output, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Catalogued %d instances (%d scripts) in %v.\n", st.Instances, st.Scripts, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

// exportStats summarizes one in-memory export for progress output.
type exportStats struct {
	Instances int
	Scripts   int
}

// runBuild exports input into memory and records the result at output,
// replacing any previous catalog.
func runBuild(input, output string, opts api.ExportOptions) (exportStats, error) {
	doc, err := instance.ParseFile(input)
	if err != nil {
		return exportStats{}, err
	}
	res, err := export.NewExporter(memfs.New(), opts).Export(doc)
	if err != nil {
		return exportStats{}, err
	}

	_ = os.Remove(output) // Overwrite
	if err := catalog.Write(output, doc, res); err != nil {
		return exportStats{}, err
	}
	return exportStats{Instances: doc.NodeCount, Scripts: len(res.Placements)}, nil
}
