package export

import (
	"bytes"
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/rbxmx2repo/internal/instance"
	"github.com/agentic-research/rbxmx2repo/internal/naming"
	"github.com/agentic-research/rbxmx2repo/internal/xmltree"
)

// BuildAssetDocument wraps item in a standalone document that carries the
// original top-level element name, attributes and non-item elements.
func BuildAssetDocument(doc *instance.Document, item *xmltree.Element) *xmltree.Element {
	children := make([]*xmltree.Element, 0, len(doc.RootExtras)+1)
	children = append(children, doc.RootExtras...)
	children = append(children, item)
	return &xmltree.Element{
		Name:     doc.RootTag,
		Attrs:    doc.RootAttrs,
		Children: children,
	}
}

// exportAssets writes each non-script child of the asset services as its
// own document. Asset names share one flat namespace.
func (e *Exporter) exportAssets(doc *instance.Document) error {
	if err := e.FS.MkdirAll(AssetsDir, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", AssetsDir, err)
	}
	names := naming.NewRegistry()

	for _, service := range doc.Root.Children {
		if !IsAssetRoot(service.ClassName) {
			continue
		}
		for _, child := range service.Children {
			if IsScriptClass(child.ClassName) || child.Raw == nil {
				continue
			}
			name := names.AllocateSegment(naming.RootKey, naming.Sanitize(displayName(child))) + AssetExt

			var buf bytes.Buffer
			if err := xmltree.Encode(&buf, BuildAssetDocument(doc, child.Raw)); err != nil {
				return fmt.Errorf("encode asset %s: %w", name, err)
			}
			fsPath := e.FS.Join(AssetsDir, name)
			if err := util.WriteFile(e.FS, fsPath, buf.Bytes(), filePerm); err != nil {
				return fmt.Errorf("write %s: %w", fsPath, err)
			}
			e.result.Assets = append(e.result.Assets, path.Join(AssetsDir, name))
		}
	}
	return nil
}
