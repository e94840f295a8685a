package manifest

import (
	"errors"
	"fmt"
)

// ErrNotRegular indicates the manifest path names a directory or device
var ErrNotRegular = errors.New("not a regular file")

// OpenError indicates the manifest resource could not be opened
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open manifest %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// ErrEntryNotFound indicates the archive exists but has no entry with that name
type ErrEntryNotFound struct {
	Archive string
	Entry   string
}

func (e *ErrEntryNotFound) Error() string {
	return fmt.Sprintf("archive %s has no entry %q", e.Archive, e.Entry)
}
