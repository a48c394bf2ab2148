// Package export projects an instance tree onto a filesystem: one file per
// script, directories mirroring the hierarchy, optional model assets and a
// manifest describing what was written.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/RoaringBitmap/roaring"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/rbxmx2repo/api"
	"github.com/agentic-research/rbxmx2repo/internal/instance"
	"github.com/agentic-research/rbxmx2repo/internal/naming"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Placement records where one script was written.
type Placement struct {
	Node  *instance.Node
	Entry api.ManifestEntry
}

// Result is the outcome of one export run.
type Result struct {
	Placements []Placement
	// Assets are the written asset paths, relative to the export root.
	Assets []string
}

// Manifest returns the manifest entries in the order they were written.
func (r *Result) Manifest() []api.ManifestEntry {
	entries := make([]api.ManifestEntry, len(r.Placements))
	for i, p := range r.Placements {
		entries[i] = p.Entry
	}
	return entries
}

// Exporter writes documents into a filesystem rooted at the export root.
// All per-run state is rebuilt at the start of Export, so an Exporter can
// be reused across documents.
type Exporter struct {
	FS      billy.Filesystem
	Options api.ExportOptions

	parents  *instance.ParentIndex
	segments *naming.Registry
	files    *naming.Registry
	emitted  *roaring.Bitmap
	result   *Result
}

// NewExporter returns an Exporter writing into fs.
func NewExporter(fs billy.Filesystem, opts api.ExportOptions) *Exporter {
	return &Exporter{
		FS:       fs,
		Options:  opts,
		segments: naming.NewRegistry(),
		files:    naming.NewRegistry(),
	}
}

// ToDir creates opts.OutDir and exports doc into it.
func ToDir(doc *instance.Document, opts api.ExportOptions) (*Result, error) {
	if err := os.MkdirAll(opts.OutDir, dirPerm); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return NewExporter(osfs.New(opts.OutDir), opts).Export(doc)
}

// Export writes every script of doc, the assets when enabled, and finally
// the manifest. The first filesystem error aborts the run; files written
// before it are left in place.
func (e *Exporter) Export(doc *instance.Document) (*Result, error) {
	e.parents = instance.NewParentIndex(doc.Root)
	e.segments.Reset()
	e.files.Reset()
	e.emitted = roaring.New()
	e.result = &Result{Placements: []Placement{}}

	e.assignSegments(doc.Root, nil)

	err := doc.Root.Walk(func(n *instance.Node) error {
		if !IsScriptClass(n.ClassName) {
			return nil
		}
		return e.emitScript(n)
	})
	if err != nil {
		return nil, err
	}

	if e.Options.WritesAssets() {
		if err := e.exportAssets(doc); err != nil {
			return nil, err
		}
	}

	if err := e.writeManifest(); err != nil {
		return nil, err
	}
	return e.result, nil
}

// assignSegments gives every node below n a directory segment that is
// unique among its siblings. A script with children keeps its entry file
// name out of the segments of its own directory.
func (e *Exporter) assignSegments(n *instance.Node, dir []string) {
	if IsScriptClass(n.ClassName) && len(n.Children) > 0 {
		e.segments.Claim(dirKey(dir), EntryFile(n.ClassName, e.Options.PlainLua))
	}
	for _, child := range n.Children {
		base := displayName(child)
		if n.IsRoot() && IsServiceRoot(child.ClassName) {
			base = child.ClassName
		}
		child.Segment = e.segments.AllocateSegment(dirKey(dir), naming.Sanitize(base))
		e.assignSegments(child, appendSegment(dir, child.Segment))
	}
}

// emitScript writes n as a file, or as a directory with an entry file when
// it has children. Direct script children follow it into that directory.
func (e *Exporter) emitScript(n *instance.Node) error {
	if e.emitted.Contains(n.ID) {
		return nil
	}
	e.emitted.Add(n.ID)

	segments := e.segmentsOf(n)
	plain := e.Options.PlainLua

	if len(n.Children) == 0 {
		dir := segments[:len(segments)-1]
		name := e.files.AllocateBeside(dirKey(dir), naming.Sanitize(displayName(n)), Extension(n.ClassName, plain), e.segments)
		return e.writeScript(n, dir, name)
	}

	name := EntryFile(n.ClassName, plain)
	e.files.Claim(dirKey(segments), name)
	if err := e.writeScript(n, segments, name); err != nil {
		return err
	}
	for _, child := range n.Children {
		if !IsScriptClass(child.ClassName) {
			continue
		}
		if err := e.emitScript(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeScript(n *instance.Node, dir []string, fileName string) error {
	fsDir := e.FS.Join(append([]string{SourceDir}, dir...)...)
	if err := e.FS.MkdirAll(fsDir, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", fsDir, err)
	}
	fsPath := e.FS.Join(fsDir, fileName)
	if err := util.WriteFile(e.FS, fsPath, []byte(n.Source), filePerm); err != nil {
		return fmt.Errorf("write %s: %w", fsPath, err)
	}

	rel := path.Join(append(append([]string{SourceDir}, dir...), fileName)...)
	e.result.Placements = append(e.result.Placements, Placement{
		Node: n,
		Entry: api.ManifestEntry{
			Name:        n.Name,
			ClassName:   n.ClassName,
			ServiceRoot: e.serviceRoot(n),
			OutputPath:  rel,
			Disabled:    n.Disabled,
		},
	})
	return nil
}

// segmentsOf returns the assigned segments from the outermost ancestor down
// to n itself.
func (e *Exporter) segmentsOf(n *instance.Node) []string {
	chain := e.parents.Chain(n)
	segments := make([]string, 0, len(chain))
	for _, c := range chain {
		if c.Segment != "" {
			segments = append(segments, c.Segment)
		}
	}
	return segments
}

func (e *Exporter) serviceRoot(n *instance.Node) string {
	top := e.parents.TopLevel(n)
	if IsServiceRoot(top.ClassName) {
		return top.ClassName
	}
	return top.Name
}

func (e *Exporter) writeManifest() error {
	data, err := json.MarshalIndent(e.result.Manifest(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := util.WriteFile(e.FS, api.ManifestFile, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", api.ManifestFile, err)
	}
	return nil
}

func displayName(n *instance.Node) string {
	if n.Name == "" {
		return n.ClassName
	}
	return n.Name
}

func dirKey(dir []string) string {
	if len(dir) == 0 {
		return naming.RootKey
	}
	return strings.Join(dir, "/")
}

func appendSegment(dir []string, segment string) []string {
	out := make([]string, len(dir), len(dir)+1)
	copy(out, dir)
	return append(out, segment)
}
