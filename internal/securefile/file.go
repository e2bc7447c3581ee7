// Package securefile reads and writes owner-only JSON state files with atomic
// replacement.
package securefile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

type Options struct {
	FilePerm      os.FileMode
	DirectoryPerm os.FileMode
}

func defaultOptions() Options {
	return Options{
		FilePerm:      0o600,
		DirectoryPerm: 0o700,
	}
}

// WriteJSON marshals v as pretty JSON and writes it atomically to path.
func WriteJSON[T any](path string, v T, opt ...Options) error {
	o := mergeOptions(opt...)

	if err := os.MkdirAll(filepath.Dir(path), o.DirectoryPerm); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}
	return atomicWriteFile(path, b, o.FilePerm)
}

// ReadJSON unmarshals path into T. A missing file yields os.ErrNotExist.
func ReadJSON[T any](path string) (T, error) {
	var zero T

	b, err := os.ReadFile(path)
	if err != nil {
		return zero, errors.Wrap(err, "read file")
	}

	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, errors.Wrap(err, "unmarshal json")
	}
	return out, nil
}

// StatePath returns <home>/.config/<app>/<filename>, preferring SNAP_REAL_HOME
// and falling back to the OS config dir.
func StatePath(app, filename string) (string, error) {
	if app == "" || filename == "" {
		return "", errors.New("app and filename must not be empty")
	}
	if realHome := os.Getenv("SNAP_REAL_HOME"); realHome != "" {
		return filepath.Join(realHome, ".config", app, filename), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", app, filename), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "UserConfigDir")
	}
	return filepath.Join(dir, app, filename), nil
}

func mergeOptions(opt ...Options) Options {
	o := defaultOptions()
	if len(opt) == 0 {
		return o
	}
	in := opt[0]
	if in.FilePerm != 0 {
		o.FilePerm = in.FilePerm
	}
	if in.DirectoryPerm != 0 {
		o.DirectoryPerm = in.DirectoryPerm
	}
	return o
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrap(err, "write tmp")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "rename")
	}
	return nil
}
