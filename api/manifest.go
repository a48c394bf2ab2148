package api

// ManifestFile is the name of the manifest written at the export root.
const ManifestFile = "_manifest.json"

// ManifestEntry describes one exported script.
type ManifestEntry struct {
	// Name is the script's display name.
	Name string `json:"name"`
	// ClassName is Script, LocalScript or ModuleScript.
	ClassName string `json:"className"`
	// ServiceRoot is the class of the top-level service holding the script,
	// or the display name of the top-level container when it is not a service.
	ServiceRoot string `json:"serviceRoot"`
	// OutputPath is relative to the export root, always with forward slashes.
	OutputPath string `json:"outputPath"`
	Disabled   bool   `json:"disabled"`
}

// ExportOptions is an export request.
type ExportOptions struct {
	// OutDir is the export root.
	OutDir string `json:"out_dir"`
	// ScriptsOnly limits the export to scripts. It is ignored when
	// KeepModels is set.
	ScriptsOnly bool `json:"scripts_only"`
	// KeepModels additionally writes non-script subtrees as assets.
	KeepModels bool `json:"keep_models"`
	// PlainLua uses .lua for every script class.
	PlainLua bool `json:"plain_lua"`
}

// DefaultExportOptions returns the options used when nothing is configured.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{ScriptsOnly: true}
}

// WritesAssets reports whether non-script assets are exported: keep-models
// wins, and turning scripts-only off implies it.
func (o ExportOptions) WritesAssets() bool {
	return o.KeepModels || !o.ScriptsOnly
}
