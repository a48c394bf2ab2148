// Package query runs JSONPath selections against an export manifest.
package query

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/rbxmx2repo/api"
)

// ManifestPath resolves target to a manifest file. target may be the
// manifest itself or an export directory containing one.
func ManifestPath(target string) (string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", target, err)
	}
	if info.IsDir() {
		return filepath.Join(target, api.ManifestFile), nil
	}
	return target, nil
}

// Load reads and parses the manifest at target.
func Load(target string) (any, error) {
	p, err := ManifestPath(target)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", p, err)
	}
	return v, nil
}

// Select evaluates selector against data.
func Select(data any, selector string) ([]any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	return x.Get(data), nil
}

// Lines renders each result as one line of compact JSON with sorted keys.
func Lines(results []any) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = oj.JSON(r, &oj.Options{Sort: true})
	}
	return out
}

// Run loads target and returns the rendered matches of selector.
func Run(target, selector string) ([]string, error) {
	data, err := Load(target)
	if err != nil {
		return nil, err
	}
	results, err := Select(data, selector)
	if err != nil {
		return nil, err
	}
	return Lines(results), nil
}
