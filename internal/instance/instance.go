// Package instance manages the instance directory: a writable location,
// kept out of version control, where the application keeps local runtime
// files such as its SQLite database and a local settings file.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirName is the directory created under the working directory
// when no explicit path is given.
const DefaultDirName = "instance"

const dirPerm = 0o755

// Dir is an absolute instance directory path.
type Dir struct {
	path string
}

// Resolve returns the instance directory for path. An empty path means
// DefaultDirName under the working directory; relative paths are made
// absolute.
func Resolve(path string) (Dir, error) {
	if path == "" {
		path = DefaultDirName
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Dir{}, fmt.Errorf("resolve instance path %q: %w", path, err)
	}
	return Dir{path: abs}, nil
}

// Path returns the absolute directory path.
func (d Dir) Path() string {
	return d.path
}

// Join returns elem joined onto the directory path.
func (d Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

// Ensure creates the directory and any missing parents. An existing
// directory is fine; any other failure is returned as a *CreateError.
func (d Dir) Ensure() error {
	if err := os.MkdirAll(d.path, dirPerm); err != nil {
		return &CreateError{Path: d.path, Err: err}
	}
	return nil
}

// CreateError reports an instance directory that could not be created.
type CreateError struct {
	Path string
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create instance directory %s: %v", e.Path, e.Err)
}

func (e *CreateError) Unwrap() error {
	return e.Err
}

// IsCreateError reports whether err is or wraps a *CreateError.
func IsCreateError(err error) bool {
	var ce *CreateError
	return errors.As(err, &ce)
}
