// Package nfsmount serves an exported tree over NFSv3 so it can be mounted
// without writing it to disk.
package nfsmount

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
)

var errReadOnly = fmt.Errorf("read-only filesystem")

// ExportFS exposes a finished export read-only. Every mutating call fails
// with errReadOnly; reads go to the wrapped filesystem.
type ExportFS struct {
	inner     billy.Filesystem
	mountTime time.Time
}

// NewExportFS wraps fs, typically the memfs an export was written into.
func NewExportFS(fs billy.Filesystem) *ExportFS {
	return &ExportFS{inner: fs, mountTime: time.Now()}
}

// --- billy.Basic ---

func (fs *ExportFS) Create(filename string) (billy.File, error) {
	return nil, errReadOnly
}

func (fs *ExportFS) Open(filename string) (billy.File, error) {
	return fs.OpenFile(filename, os.O_RDONLY, 0)
}

func (fs *ExportFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, errReadOnly
	}
	filename = cleanPath(filename)

	info, err := fs.inner.Stat(filename)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: filename, Err: fmt.Errorf("is a directory")}
	}

	f, err := fs.inner.Open(filename)
	if err != nil {
		return nil, err
	}
	return &exportFile{File: f}, nil
}

func (fs *ExportFS) Stat(filename string) (os.FileInfo, error) {
	return fs.Lstat(filename)
}

func (fs *ExportFS) Rename(oldpath, newpath string) error { return errReadOnly }
func (fs *ExportFS) Remove(filename string) error         { return errReadOnly }

func (fs *ExportFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// --- billy.TempFile ---

func (fs *ExportFS) TempFile(dir, prefix string) (billy.File, error) {
	return nil, billy.ErrNotSupported
}

// --- billy.Dir ---

func (fs *ExportFS) ReadDir(path string) ([]os.FileInfo, error) {
	path = cleanPath(path)
	entries, err := fs.inner.ReadDir(path)
	if err != nil {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: os.ErrNotExist}
	}
	infos := make([]os.FileInfo, len(entries))
	for i, e := range entries {
		infos[i] = readOnlyInfo(e)
	}
	return infos, nil
}

func (fs *ExportFS) MkdirAll(filename string, perm os.FileMode) error {
	return errReadOnly
}

// --- billy.Symlink ---

func (fs *ExportFS) Lstat(filename string) (os.FileInfo, error) {
	filename = cleanPath(filename)
	info, err := fs.inner.Stat(filename)
	if err != nil && filename == "/" {
		return &staticFileInfo{name: "/", mode: os.ModeDir | 0o555, modTime: fs.mountTime}, nil
	}
	if err != nil {
		return nil, &os.PathError{Op: "lstat", Path: filename, Err: os.ErrNotExist}
	}
	return readOnlyInfo(info), nil
}

func (fs *ExportFS) Symlink(target, link string) error {
	return billy.ErrNotSupported
}

func (fs *ExportFS) Readlink(link string) (string, error) {
	return "", billy.ErrNotSupported
}

// --- billy.Chroot ---

func (fs *ExportFS) Chroot(path string) (billy.Filesystem, error) {
	return chroot.New(fs, path), nil
}

func (fs *ExportFS) Root() string {
	return "/"
}

// --- billy.Capable ---

func (fs *ExportFS) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.SeekCapability
}

// cleanPath normalizes a billy path to a clean absolute path.
func cleanPath(path string) string {
	path = filepath.Clean("/" + path)
	if path == "." {
		return "/"
	}
	return path
}

// readOnlyInfo strips the write bits from info.
func readOnlyInfo(info os.FileInfo) os.FileInfo {
	mode := os.FileMode(0o444)
	if info.IsDir() {
		mode = os.ModeDir | 0o555
	}
	return &staticFileInfo{
		name:    info.Name(),
		size:    info.Size(),
		mode:    mode,
		modTime: info.ModTime(),
	}
}

// staticFileInfo implements os.FileInfo with static values.
type staticFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (fi *staticFileInfo) Name() string       { return fi.name }
func (fi *staticFileInfo) Size() int64        { return fi.size }
func (fi *staticFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *staticFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *staticFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *staticFileInfo) Sys() interface{}   { return nil }

// Compile-time interface checks.
var (
	_ billy.Filesystem = (*ExportFS)(nil)
	_ billy.Capable    = (*ExportFS)(nil)
)
