package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/rbxmx2repo/api"
)

const manifest = `[
  {
    "name": "Main",
    "className": "Script",
    "serviceRoot": "ServerScriptService",
    "outputPath": "src/ServerScriptService/Main.server.lua",
    "disabled": true
  },
  {
    "name": "Util",
    "className": "ModuleScript",
    "serviceRoot": "ReplicatedStorage",
    "outputPath": "src/ReplicatedStorage/Util.lua",
    "disabled": false
  }
]
`

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, api.ManifestFile), []byte(manifest), 0o644))
	return dir
}

func TestRun(t *testing.T) {
	dir := writeManifest(t)

	t.Run("export directory", func(t *testing.T) {
		lines, err := Run(dir, "$[*].name")
		require.NoError(t, err)
		assert.Equal(t, []string{`"Main"`, `"Util"`}, lines)
	})

	t.Run("manifest file", func(t *testing.T) {
		lines, err := Run(filepath.Join(dir, api.ManifestFile), "$[1].className")
		require.NoError(t, err)
		assert.Equal(t, []string{`"ModuleScript"`}, lines)
	})

	t.Run("filter", func(t *testing.T) {
		lines, err := Run(dir, "$[?(@.disabled == true)].outputPath")
		require.NoError(t, err)
		assert.Equal(t, []string{`"src/ServerScriptService/Main.server.lua"`}, lines)
	})

	t.Run("whole entry", func(t *testing.T) {
		lines, err := Run(dir, "$[1]")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.JSONEq(t, `{
			"name": "Util",
			"className": "ModuleScript",
			"serviceRoot": "ReplicatedStorage",
			"outputPath": "src/ReplicatedStorage/Util.lua",
			"disabled": false
		}`, lines[0])
	})

	t.Run("no match", func(t *testing.T) {
		lines, err := Run(dir, "$[5].name")
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestRun_Errors(t *testing.T) {
	dir := writeManifest(t)

	_, err := Run(dir, "$[")
	assert.Error(t, err, "invalid selector")

	_, err = Run(filepath.Join(dir, "missing"), "$")
	assert.Error(t, err)

	empty := t.TempDir()
	_, err = Run(empty, "$")
	assert.Error(t, err, "directory without a manifest")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Run(bad, "$")
	assert.Error(t, err)
}
