package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

// DefaultFileName is the base name FileLoader looks for.
const DefaultFileName = "config"

// Loader reads optional settings from dir into s.
type Loader interface {
	Load(ctx context.Context, dir string, s *Settings) error
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, dir string, s *Settings) error

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, dir string, s *Settings) error {
	return f(ctx, dir, s)
}

// FileLoader looks in dir for Name with any extension viper can decode
// (yaml, yml, json, toml, hcl, ini, env, properties). A missing file is
// not an error; an unreadable or malformed one is.
type FileLoader struct {
	Name string
}

// NewFileLoader returns a FileLoader for DefaultFileName.
func NewFileLoader() FileLoader {
	return FileLoader{Name: DefaultFileName}
}

// Load implements Loader.
func (l FileLoader) Load(_ context.Context, dir string, s *Settings) error {
	name := l.Name
	if name == "" {
		name = DefaultFileName
	}

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	v := s.viper()
	v.SetConfigName(name)
	v.AddConfigPath(dir)

	err := v.MergeInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load settings file %q from %s: %w", name, dir, err)
	}
	return nil
}
