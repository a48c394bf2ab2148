package nfsmount

import (
	billy "github.com/go-git/go-billy/v5"
)

// exportFile is a file of the wrapped export with writes disabled.
type exportFile struct {
	billy.File
}

func (f *exportFile) Write([]byte) (int, error)          { return 0, errReadOnly }
func (f *exportFile) WriteAt([]byte, int64) (int, error) { return 0, errReadOnly }
func (f *exportFile) Truncate(int64) error               { return errReadOnly }

var _ billy.File = (*exportFile)(nil)
