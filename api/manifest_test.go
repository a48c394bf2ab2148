package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportOptions_WritesAssets(t *testing.T) {
	assert.False(t, DefaultExportOptions().WritesAssets())
	assert.True(t, ExportOptions{ScriptsOnly: true, KeepModels: true}.WritesAssets())
	assert.True(t, ExportOptions{ScriptsOnly: false}.WritesAssets())
}

func TestManifestEntry_FieldNames(t *testing.T) {
	b, err := json.Marshal(ManifestEntry{
		Name:        "Main",
		ClassName:   "Script",
		ServiceRoot: "ServerScriptService",
		OutputPath:  "src/ServerScriptService/Main.server.lua",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Main",
		"className": "Script",
		"serviceRoot": "ServerScriptService",
		"outputPath": "src/ServerScriptService/Main.server.lua",
		"disabled": false
	}`, string(b))
}
