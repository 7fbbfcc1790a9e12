package tri

import (
	"io"
	"os"
	"path/filepath"
)

// AtomicFile stages output in a temporary file beside its destination. The
// temporary file is only created by the first Write, so an encoder that fails
// validation leaves the file system untouched, and the destination is only
// replaced by a successful Commit.
type AtomicFile struct {
	path string
	perm os.FileMode
	tmp  *os.File
	err  error
}

func NewAtomicFile(fileName string) *AtomicFile {
	return &AtomicFile{path: fileName, perm: 0644}
}

func (f *AtomicFile) Name() string { return f.path }

func (f *AtomicFile) open() {
	if f.tmp != nil || f.err != nil {
		return
	}
	dir, base := filepath.Split(f.path)
	if dir == "" {
		dir = "."
	}
	f.tmp, f.err = os.CreateTemp(dir, "."+base+".*.tmp")
}

func (f *AtomicFile) Write(p []byte) (n int, err error) {
	if f.open(); f.err != nil {
		return 0, f.err
	}
	if n, err = f.tmp.Write(p); err != nil {
		f.err = err
	}
	return
}

// Commit moves the staged content into place. A file that was never written
// commits as an empty destination.
func (f *AtomicFile) Commit() (err error) {
	if f.open(); f.err != nil {
		err = f.err
		f.Abort()
		return ioError(err)
	}
	name := f.tmp.Name()
	if err = f.tmp.Sync(); err == nil {
		err = f.tmp.Chmod(f.perm)
	}
	if cerr := f.tmp.Close(); err == nil {
		err = cerr
	}
	f.tmp = nil
	if err == nil {
		err = os.Rename(name, f.path)
	}
	if err != nil {
		os.Remove(name)
		f.err = err
		return ioError(err)
	}
	return nil
}

// Abort discards anything staged. It is safe to call more than once.
func (f *AtomicFile) Abort() {
	if f.tmp == nil {
		return
	}
	name := f.tmp.Name()
	f.tmp.Close()
	os.Remove(name)
	f.tmp = nil
}

// WriteFile runs an encoder against a staged file and commits it on success.
// Neither a validation failure nor a write failure disturbs an existing file
// at fileName.
func WriteFile(fileName string, encode func(w io.Writer) error) (err error) {
	f := NewAtomicFile(fileName)
	if err = encode(f); err != nil {
		f.Abort()
		return
	}
	return f.Commit()
}
