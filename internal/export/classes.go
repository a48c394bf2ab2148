package export

const (
	ClassScript       = "Script"
	ClassLocalScript  = "LocalScript"
	ClassModuleScript = "ModuleScript"
)

const (
	// SourceDir holds the exported scripts.
	SourceDir = "src"
	// AssetsDir holds re-serialized models in keep-models mode.
	AssetsDir = "assets"
	// AssetExt is the extension of asset files.
	AssetExt = ".rbxmx"

	entryBase = "init"
)

// serviceRoots are the top-level services whose class name, not display
// name, becomes the directory segment and the manifest serviceRoot.
var serviceRoots = map[string]bool{
	"Workspace":           true,
	"ServerScriptService": true,
	"ServerStorage":       true,
	"ReplicatedStorage":   true,
	"StarterPlayer":       true,
	"StarterGui":          true,
	"StarterPack":         true,
	"Lighting":            true,
	"SoundService":        true,
	"Players":             true,
	"Teams":               true,
	"TextChatService":     true,
	"Chat":                true,
}

// assetRoots are the services whose direct non-script children are written
// as assets.
var assetRoots = map[string]bool{
	"Workspace":         true,
	"ServerStorage":     true,
	"ReplicatedStorage": true,
}

// IsScriptClass reports whether className is one of the script classes.
func IsScriptClass(className string) bool {
	switch className {
	case ClassScript, ClassLocalScript, ClassModuleScript:
		return true
	}
	return false
}

// IsServiceRoot reports whether className is a platform service.
func IsServiceRoot(className string) bool { return serviceRoots[className] }

// IsAssetRoot reports whether className is a service exported as assets.
func IsAssetRoot(className string) bool { return assetRoots[className] }

// Extension returns the file extension for a script class.
func Extension(className string, plain bool) string {
	if plain {
		return ".lua"
	}
	switch className {
	case ClassScript:
		return ".server.lua"
	case ClassLocalScript:
		return ".client.lua"
	default:
		return ".lua"
	}
}

// EntryFile returns the name of the file holding the source of a script
// that is exported as a directory.
func EntryFile(className string, plain bool) string {
	return entryBase + Extension(className, plain)
}
