package catalog

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/rbxmx2repo/api"
	"github.com/agentic-research/rbxmx2repo/internal/export"
	"github.com/agentic-research/rbxmx2repo/internal/instance"
)

const placeXML = `<roblox version="4">
  <Item class="ServerScriptService">
    <Properties><string name="Name">ServerScriptService</string></Properties>
    <Item class="Script">
      <Properties>
        <string name="Name">Main</string>
        <bool name="Disabled">true</bool>
        <ProtectedString name="Source"><![CDATA[print('a')]]></ProtectedString>
      </Properties>
    </Item>
  </Item>
  <Item class="ReplicatedStorage">
    <Properties><string name="Name">ReplicatedStorage</string></Properties>
    <Item class="ModuleScript">
      <Properties>
        <string name="Name">Util</string>
        <ProtectedString name="Source">return {}</ProtectedString>
      </Properties>
      <Item class="Folder">
        <Properties><string name="Name">Data</string></Properties>
      </Item>
    </Item>
  </Item>
</roblox>`

func buildCatalog(t *testing.T) string {
	t.Helper()
	doc, err := instance.ParseDocument(strings.NewReader(placeXML))
	require.NoError(t, err)
	res, err := export.NewExporter(memfs.New(), api.DefaultExportOptions()).Export(doc)
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	require.NoError(t, Write(dbPath, doc, res))
	return dbPath
}

func TestCatalog_Scripts(t *testing.T) {
	c, err := Open(buildCatalog(t))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	scripts, err := c.Scripts()
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	util := scripts[0]
	assert.Equal(t, "src/ReplicatedStorage/Util/init.lua", util.OutputPath)
	assert.Equal(t, "ModuleScript", util.ClassName)
	assert.Equal(t, "ReplicatedStorage", util.ServiceRoot)
	assert.Equal(t, "return {}", util.Source)
	assert.False(t, util.Disabled)

	main := scripts[1]
	assert.Equal(t, "src/ServerScriptService/Main.server.lua", main.OutputPath)
	assert.Equal(t, "print('a')", main.Source)
	assert.True(t, main.Disabled)
	assert.Equal(t, uint32(2), main.InstanceID)
}

func TestCatalog_Instances(t *testing.T) {
	c, err := Open(buildCatalog(t))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n, "the synthetic root is not stored")

	top, err := c.Children(nil)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "ServerScriptService", top[0].Segment)
	assert.Nil(t, top[0].ParentID)

	rs := top[1]
	kids, err := c.Children(&rs.ID)
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Equal(t, "Util", kids[0].Name)
	assert.True(t, kids[0].IsScript)
	require.NotNil(t, kids[0].ParentID)
	assert.Equal(t, rs.ID, *kids[0].ParentID)

	data, err := c.Children(&kids[0].ID)
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "Folder", data[0].ClassName)
	assert.False(t, data[0].IsScript)
}

func TestCatalog_RewriteReplacesRows(t *testing.T) {
	dbPath := buildCatalog(t)

	doc, err := instance.ParseDocument(strings.NewReader(`<roblox/>`))
	require.NoError(t, err)
	res, err := export.NewExporter(memfs.New(), api.DefaultExportOptions()).Export(doc)
	require.NoError(t, err)
	require.NoError(t, Write(dbPath, doc, res))

	c, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	scripts, err := c.Scripts()
	require.NoError(t, err)
	assert.Empty(t, scripts)
}

func TestWriter_SmallBatches(t *testing.T) {
	doc, err := instance.ParseDocument(strings.NewReader(placeXML))
	require.NoError(t, err)
	res, err := export.NewExporter(memfs.New(), api.DefaultExportOptions()).Export(doc)
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "batched.db")
	w, err := NewWriter(dbPath)
	require.NoError(t, err)
	w.batchSize = 2
	require.NoError(t, w.AddTree(doc.Root))
	require.NoError(t, w.AddPlacements(res.Placements))
	require.NoError(t, w.Close())

	c, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
}
