package transform

import (
	"os"
	"path/filepath"

	"github.com/teranos/typetransform/errors"
)

// WriteFile writes data to path through a temporary file in the same
// directory followed by a rename, so readers never see a partial file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Wrapf(err, "failed to sync %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to close %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to set permissions on %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to move output into place at %s", path)
	}
	return nil
}
