package export

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"

	"github.com/agentic-research/rbxmx2repo/api"
	"github.com/agentic-research/rbxmx2repo/internal/instance"
)

func FuzzExport(f *testing.F) {
	// Seed corpus
	f.Add(`<roblox><Item class="ServerScriptService"><Item class="Script"><Properties><string name="Name">Main</string></Properties></Item></Item></roblox>`)
	f.Add(`<roblox><Item class="ModuleScript"><Item class="ModuleScript"><Properties><string name="Name">init</string></Properties></Item></Item></roblox>`)
	f.Add(`<roblox><Item class="ModuleScript"><Item class="Folder"><Properties><string name="Name">init.lua</string></Properties><Item class="Script"/></Item></Item></roblox>`)
	f.Add(`<roblox><Item class="Workspace"><Item class="Model"/><Item class="Model"/></Item></roblox>`)

	f.Fuzz(func(t *testing.T, data string) {
		doc, err := instance.ParseDocument(strings.NewReader(data))
		if err != nil {
			return // malformed input is rejected before export
		}

		opts := api.ExportOptions{ScriptsOnly: true, KeepModels: true}
		res, err := NewExporter(memfs.New(), opts).Export(doc)
		if err != nil {
			t.Fatalf("export: %v", err)
		}

		seen := make(map[string]bool, len(res.Placements))
		for _, p := range res.Placements {
			if seen[p.Entry.OutputPath] {
				t.Fatalf("duplicate output path %s", p.Entry.OutputPath)
			}
			seen[p.Entry.OutputPath] = true
		}
	})
}
