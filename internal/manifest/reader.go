package manifest

import (
	"archive/zip"
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LineReader yields manifest lines one at a time.
//
// ReadLine returns io.EOF once the source is exhausted.
type LineReader interface {
	ReadLine() (string, error)
}

// Reader reads text lines from a plain file or from an entry inside a zip
// map archive.
type Reader struct {
	br      *bufio.Reader
	closers []io.Closer
}

// Open opens the manifest at path.
//
// If some leading part of path is a regular file, that file is treated as a
// zip archive and the rest of the path names the entry inside it, so
// "maps/alps.xcm/topology.tpl" reads topology.tpl out of alps.xcm. Otherwise
// path is read as a plain file.
//
// Example:
//
//	r, err := manifest.Open("/data/alps.xcm/topology.tpl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func Open(p string) (*Reader, error) {
	info, err := os.Stat(p)
	if err == nil {
		if !info.Mode().IsRegular() {
			return nil, &OpenError{Path: p, Err: ErrNotRegular}
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, &OpenError{Path: p, Err: err}
		}
		return newReader(f, f), nil
	}

	archive, entry, ok := splitArchivePath(p)
	if !ok {
		return nil, &OpenError{Path: p, Err: err}
	}

	r, err := openArchiveEntry(archive, entry)
	if err != nil {
		return nil, &OpenError{Path: p, Err: err}
	}
	return r, nil
}

// splitArchivePath finds the longest leading part of p that is a regular file.
func splitArchivePath(p string) (archive, entry string, ok bool) {
	clean := filepath.Clean(p)
	dir := clean
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", false
		}
		dir = parent

		info, err := os.Stat(dir)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			return "", "", false
		}

		rest, err := filepath.Rel(dir, clean)
		if err != nil {
			return "", "", false
		}
		return dir, filepath.ToSlash(rest), true
	}
}

func openArchiveEntry(archive, entry string) (*Reader, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		if !strings.EqualFold(path.Clean(f.Name), entry) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			zr.Close()
			return nil, err
		}
		return newReader(rc, rc, zr), nil
	}

	zr.Close()
	return nil, errors.Join(fs.ErrNotExist, &ErrEntryNotFound{Archive: archive, Entry: entry})
}

func newReader(r io.Reader, closers ...io.Closer) *Reader {
	return &Reader{
		br:      bufio.NewReader(r),
		closers: closers,
	}
}

// ReadLine returns the next line without its line terminator.
// Lines are not length limited.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close releases the file and, for archive entries, the archive.
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
