package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/rbxmx2repo/api"
	"github.com/agentic-research/rbxmx2repo/internal/config"
	"github.com/agentic-research/rbxmx2repo/internal/export"
	"github.com/agentic-research/rbxmx2repo/internal/instance"
)

// Version is stamped at build time.
var Version = "dev"

var (
	configPath  string
	envFile     string
	outDir      string
	scriptsOnly bool
	keepModels  bool
	plainLua    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an HCL project file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading RBXMX2REPO_* variables")
	rootCmd.PersistentFlags().BoolVar(&keepModels, "keep-models", false, "Also write Workspace/ServerStorage/ReplicatedStorage models to assets/")
	rootCmd.PersistentFlags().BoolVar(&scriptsOnly, "scripts-only", true, "Export scripts only; --scripts-only=false implies --keep-models")
	rootCmd.PersistentFlags().BoolVar(&plainLua, "plain-lua", false, "Use .lua for every script class")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
}

var rootCmd = &cobra.Command{
	Use:     "rbxmx2repo <input.rbxmx> --out <dir>",
	Short:   "Export the scripts of a Roblox XML place or model into a source tree",
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("%w: missing <input.rbxmx>", config.ErrUsage)
		}
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		if err := config.Validate(opts); err != nil {
			return err
		}

		input, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve input: %w", err)
		}
		out, err := filepath.Abs(opts.OutDir)
		if err != nil {
			return fmt.Errorf("resolve output: %w", err)
		}
		opts.OutDir = out

		start := time.Now()
		fmt.Printf("Exporting %s to %s...\n", input, out)
		res, err := runExport(input, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d scripts (%d assets) in %v.\n", len(res.Placements), len(res.Assets), time.Since(start))
		return nil
	},
}

// resolveOptions layers the project file, the environment and the flags
// that were set explicitly.
func resolveOptions(cmd *cobra.Command) (api.ExportOptions, error) {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Lookup("out") != nil && flags.Changed("out") {
		o.Out = &outDir
	}
	if flags.Changed("keep-models") {
		o.KeepModels = &keepModels
	}
	if flags.Changed("scripts-only") {
		o.ScriptsOnly = &scriptsOnly
	}
	if flags.Changed("plain-lua") {
		o.PlainLua = &plainLua
	}
	loader := config.Loader{ConfigPath: configPath, EnvFile: envFile}
	return loader.Resolve(o)
}

// runExport parses input and writes it below opts.OutDir. The input is
// checked before the output directory is created.
func runExport(input string, opts api.ExportOptions) (*export.Result, error) {
	doc, err := instance.ParseFile(input)
	if err != nil {
		return nil, err
	}
	return export.ToDir(doc, opts)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
