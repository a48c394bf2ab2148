// Package config resolves export options from defaults, an optional HCL
// project file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"

	"github.com/agentic-research/rbxmx2repo/api"
)

// ErrUsage reports a missing or invalid command-line argument.
var ErrUsage = errors.New("usage error")

// DefaultFile is the project file read when --config is not given.
const DefaultFile = "rbxmx2repo.hcl"

const envPrefix = "RBXMX2REPO_"

// File is the schema of the HCL project file.
//
//	out          = "place-src"
//	keep_models  = true
//	scripts_only = true
//	plain_lua    = false
type File struct {
	Out         *string `hcl:"out,optional"`
	KeepModels  *bool   `hcl:"keep_models,optional"`
	ScriptsOnly *bool   `hcl:"scripts_only,optional"`
	PlainLua    *bool   `hcl:"plain_lua,optional"`
}

// Overrides holds the flags that were set explicitly on the command line.
// Nil fields leave the lower layers alone.
type Overrides struct {
	Out         *string
	KeepModels  *bool
	ScriptsOnly *bool
	PlainLua    *bool
}

// Loader carries the inputs of one resolution.
type Loader struct {
	// ConfigPath is the project file. When empty, DefaultFile is used if it
	// exists.
	ConfigPath string
	// EnvFile is loaded into the process environment before it is read.
	// Missing env files are ignored.
	EnvFile string
	// Getenv reads the environment; os.Getenv when nil.
	Getenv func(string) string
}

// Resolve layers the configuration sources over DefaultExportOptions.
func (l Loader) Resolve(flags Overrides) (api.ExportOptions, error) {
	opts := api.DefaultExportOptions()

	file, err := l.loadFile()
	if err != nil {
		return opts, err
	}
	if file != nil {
		apply(&opts, file.Out, file.KeepModels, file.ScriptsOnly, file.PlainLua)
	}

	if err := l.applyEnv(&opts); err != nil {
		return opts, err
	}

	apply(&opts, flags.Out, flags.KeepModels, flags.ScriptsOnly, flags.PlainLua)
	return opts, nil
}

func (l Loader) loadFile() (*File, error) {
	path := l.ConfigPath
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return nil, nil
		}
		path = DefaultFile
	}
	var f File
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &f, nil
}

func (l Loader) applyEnv(opts *api.ExportOptions) error {
	if l.EnvFile != "" {
		// A missing .env is the common case.
		_ = godotenv.Load(l.EnvFile)
	}
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv(envPrefix + "OUT"); v != "" {
		opts.OutDir = v
	}
	for _, b := range []struct {
		key string
		dst *bool
	}{
		{"KEEP_MODELS", &opts.KeepModels},
		{"SCRIPTS_ONLY", &opts.ScriptsOnly},
		{"PLAIN_LUA", &opts.PlainLua},
	} {
		v := getenv(envPrefix + b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, b.key, err)
		}
		*b.dst = parsed
	}
	return nil
}

func apply(opts *api.ExportOptions, out *string, keepModels, scriptsOnly, plainLua *bool) {
	if out != nil {
		opts.OutDir = *out
	}
	if keepModels != nil {
		opts.KeepModels = *keepModels
	}
	if scriptsOnly != nil {
		opts.ScriptsOnly = *scriptsOnly
	}
	if plainLua != nil {
		opts.PlainLua = *plainLua
	}
}

// Validate checks that an export has somewhere to go.
func Validate(opts api.ExportOptions) error {
	if opts.OutDir == "" {
		return fmt.Errorf("%w: missing --out <dir>", ErrUsage)
	}
	return nil
}
