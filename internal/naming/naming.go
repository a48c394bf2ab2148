// Package naming produces filesystem-safe, collision-free names.
package naming

import (
	"strconv"
	"strings"
)

// Placeholder replaces names that sanitize to nothing.
const Placeholder = "Instance"

// RootKey is the directory key used for the export root.
const RootKey = "."

var illegal = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Sanitize replaces characters that are illegal in paths with "_",
// collapses whitespace runs to one space and trims the result. Names made
// only of dots would address the current or parent directory and get
// underscores instead.
func Sanitize(name string) string {
	cleaned := strings.Join(strings.Fields(illegal.Replace(name)), " ")
	if cleaned == "" {
		return Placeholder
	}
	if strings.Trim(cleaned, ".") == "" {
		return strings.Repeat("_", len(cleaned))
	}
	return cleaned
}

// Registry tracks the names claimed in each directory. Directory segments
// and file names are kept in separate registries by the caller.
type Registry struct {
	used map[string]map[string]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{used: make(map[string]map[string]struct{})}
}

func (r *Registry) dir(key string) map[string]struct{} {
	if key == "" {
		key = RootKey
	}
	set, ok := r.used[key]
	if !ok {
		set = make(map[string]struct{})
		r.used[key] = set
	}
	return set
}

// Claim takes name in dirKey if it is free and reports whether it did.
func (r *Registry) Claim(dirKey, name string) bool {
	set := r.dir(dirKey)
	if _, taken := set[name]; taken {
		return false
	}
	set[name] = struct{}{}
	return true
}

// Taken reports whether name is already claimed in dirKey.
func (r *Registry) Taken(dirKey, name string) bool {
	_, taken := r.dir(dirKey)[name]
	return taken
}

// AllocateSegment claims base in dirKey, or base_2, base_3, ... when it is
// already taken, and returns the claimed name.
func (r *Registry) AllocateSegment(dirKey, base string) string {
	return r.AllocateFile(dirKey, base, "")
}

// AllocateFile is AllocateSegment for names with an extension; the suffix
// goes before the extension (Main.server.lua, Main_2.server.lua).
func (r *Registry) AllocateFile(dirKey, base, ext string) string {
	return r.AllocateBeside(dirKey, base, ext, nil)
}

// AllocateBeside is AllocateFile that also skips names claimed in dirKey of
// other, so files never shadow directories of the same name.
func (r *Registry) AllocateBeside(dirKey, base, ext string, other *Registry) string {
	set := r.dir(dirKey)
	free := func(name string) bool {
		if _, taken := set[name]; taken {
			return false
		}
		return other == nil || !other.Taken(dirKey, name)
	}
	candidate := base + ext
	for n := 2; !free(candidate); n++ {
		candidate = base + "_" + strconv.Itoa(n) + ext
	}
	set[candidate] = struct{}{}
	return candidate
}

// Reset forgets every claimed name.
func (r *Registry) Reset() {
	r.used = make(map[string]map[string]struct{})
}
