// Package catalog stores an exported instance tree in SQLite so it can be
// inspected with ordinary SQL tooling.
package catalog

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/rbxmx2repo/internal/export"
	"github.com/agentic-research/rbxmx2repo/internal/instance"
)

const schema = `
CREATE TABLE IF NOT EXISTS instances (
	id INTEGER PRIMARY KEY,
	parent_id INTEGER,
	name TEXT NOT NULL,
	class_name TEXT NOT NULL,
	segment TEXT,
	disabled INTEGER NOT NULL DEFAULT 0,
	is_script INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_instances_parent ON instances(parent_id);

CREATE TABLE IF NOT EXISTS scripts (
	output_path TEXT PRIMARY KEY,
	instance_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	class_name TEXT NOT NULL,
	service_root TEXT NOT NULL,
	disabled INTEGER NOT NULL DEFAULT 0,
	source TEXT NOT NULL
) WITHOUT ROWID;
`

// Writer writes one export into a catalog database. Rows are inserted in
// batches of one transaction each.
type Writer struct {
	db         *sql.DB
	tx         *sql.Tx
	stmtInst   *sql.Stmt
	stmtScript *sql.Stmt
	batchSize  int
	count      int
}

// NewWriter opens (or creates) the database at dbPath and clears any
// previous catalog in it.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	for _, pragma := range []string{"PRAGMA synchronous = OFF", "PRAGMA journal_mode = MEMORY"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM scripts; DELETE FROM instances;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("clear catalog: %w", err)
	}

	w := &Writer{db: db, batchSize: 5000}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.stmtInst, err = w.tx.Prepare(`
		INSERT INTO instances (id, parent_id, name, class_name, segment, disabled, is_script)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	w.stmtScript, err = w.tx.Prepare(`
		INSERT INTO scripts (output_path, instance_id, name, class_name, service_root, disabled, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	return err
}

func (w *Writer) commitTx() error {
	if w.stmtInst != nil {
		_ = w.stmtInst.Close()
	}
	if w.stmtScript != nil {
		_ = w.stmtScript.Close()
	}
	return w.tx.Commit()
}

// step counts one row and rolls the transaction over at the batch size.
func (w *Writer) step() error {
	w.count++
	if w.count < w.batchSize {
		return nil
	}
	w.count = 0
	if err := w.commitTx(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return w.beginTx()
}

// AddTree inserts every node below root. The synthetic root itself is not
// stored; top-level nodes have a NULL parent.
func (w *Writer) AddTree(root *instance.Node) error {
	parents := instance.NewParentIndex(root)
	return root.Walk(func(n *instance.Node) error {
		if n.IsRoot() {
			return nil
		}
		var parentID *uint32
		if p, ok := parents.Parent(n); ok && !p.IsRoot() {
			parentID = &p.ID
		}
		var segment *string
		if n.Segment != "" {
			segment = &n.Segment
		}
		_, err := w.stmtInst.Exec(n.ID, parentID, n.Name, n.ClassName, segment,
			n.Disabled, export.IsScriptClass(n.ClassName))
		if err != nil {
			return fmt.Errorf("insert instance %d: %w", n.ID, err)
		}
		return w.step()
	})
}

// AddPlacements inserts one row per written script.
func (w *Writer) AddPlacements(placements []export.Placement) error {
	for _, p := range placements {
		e := p.Entry
		_, err := w.stmtScript.Exec(e.OutputPath, p.Node.ID, e.Name, e.ClassName,
			e.ServiceRoot, e.Disabled, p.Node.Source)
		if err != nil {
			return fmt.Errorf("insert script %s: %w", e.OutputPath, err)
		}
		if err := w.step(); err != nil {
			return err
		}
	}
	return nil
}

// Close commits the pending batch and closes the database.
func (w *Writer) Close() error {
	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}
	if _, err := w.db.Exec(`ANALYZE`); err != nil {
		log.Printf("catalog: analyze failed: %v", err)
	}
	return w.db.Close()
}

// Abort rolls back the pending batch and closes the database.
func (w *Writer) Abort() {
	if w.stmtInst != nil {
		_ = w.stmtInst.Close()
	}
	if w.stmtScript != nil {
		_ = w.stmtScript.Close()
	}
	_ = w.tx.Rollback()
	_ = w.db.Close()
}

// Write stores the tree of doc and the placements of res at dbPath.
func Write(dbPath string, doc *instance.Document, res *export.Result) error {
	w, err := NewWriter(dbPath)
	if err != nil {
		return err
	}
	if err := w.AddTree(doc.Root); err != nil {
		w.Abort()
		return err
	}
	if err := w.AddPlacements(res.Placements); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}
