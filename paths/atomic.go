package paths

import (
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// WriteAtomic calls write with a temporary file next to path, and renames the
// file to path once write returned successfully and the file is synced. On
// any failure the temporary file is removed and path is left as it was.
//
// Missing parent directories are created.
func WriteAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %q", path)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "creating temporary file for %q", path)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			if rmErr := os.Remove(tmp); rmErr != nil && !os.IsNotExist(rmErr) {
				glog.Warningf("paths: leaving %q behind: %v", tmp, rmErr)
			}
		}
	}()

	if err = write(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return errors.Wrapf(err, "syncing %q", tmp)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "closing %q", tmp)
	}
	if err = os.Chmod(tmp, 0644); err != nil {
		return errors.Wrapf(err, "setting mode of %q", tmp)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "renaming %q to %q", tmp, path)
	}
	return nil
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
