package catalog

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/rbxmx2repo/api"
)

// Script is one row of the scripts table.
type Script struct {
	api.ManifestEntry
	InstanceID uint32
	Source     string
}

// Instance is one row of the instances table.
type Instance struct {
	ID        uint32
	ParentID  *uint32
	Name      string
	ClassName string
	Segment   string
	Disabled  bool
	IsScript  bool
}

// Catalog is a read-only view of a catalog database.
type Catalog struct {
	db *sql.DB
}

// Open opens an existing catalog.
func Open(dbPath string) (*Catalog, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error { return c.db.Close() }

// Scripts returns the scripts ordered by output path.
func (c *Catalog) Scripts() ([]Script, error) {
	rows, err := c.db.Query(`
		SELECT output_path, instance_id, name, class_name, service_root, disabled, source
		FROM scripts ORDER BY output_path
	`)
	if err != nil {
		return nil, fmt.Errorf("query scripts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scripts []Script
	for rows.Next() {
		var s Script
		if err := rows.Scan(&s.OutputPath, &s.InstanceID, &s.Name, &s.ClassName,
			&s.ServiceRoot, &s.Disabled, &s.Source); err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		scripts = append(scripts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scripts: %w", err)
	}
	return scripts, nil
}

// Children returns the instances whose parent is parentID, in identity
// order. A nil parentID selects the top-level instances.
func (c *Catalog) Children(parentID *uint32) ([]Instance, error) {
	var (
		rows *sql.Rows
		err  error
	)
	const cols = `SELECT id, parent_id, name, class_name, COALESCE(segment, ''), disabled, is_script FROM instances`
	if parentID == nil {
		rows, err = c.db.Query(cols + ` WHERE parent_id IS NULL ORDER BY id`)
	} else {
		rows, err = c.db.Query(cols+` WHERE parent_id = ? ORDER BY id`, *parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Instance
	for rows.Next() {
		var (
			inst   Instance
			parent sql.NullInt64
		)
		if err := rows.Scan(&inst.ID, &parent, &inst.Name, &inst.ClassName,
			&inst.Segment, &inst.Disabled, &inst.IsScript); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		if parent.Valid {
			p := uint32(parent.Int64)
			inst.ParentID = &p
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instances: %w", err)
	}
	return out, nil
}

// Count returns the number of stored instances.
func (c *Catalog) Count() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM instances`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count instances: %w", err)
	}
	return n, nil
}
