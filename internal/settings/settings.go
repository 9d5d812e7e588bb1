// Package settings is the application's configuration mapping: a set of
// named values layered as defaults, file-loaded values and explicit
// overrides, with later layers winning.
//
// Each Settings owns a private viper instance, so two applications built
// in the same process never share configuration.
package settings

import (
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Mapping is a set of setting names and values.
type Mapping map[string]any

// Settings is a layered configuration mapping. Names are case-insensitive.
type Settings struct {
	v *viper.Viper
}

// New returns an empty Settings.
func New() *Settings {
	return &Settings{v: viper.New()}
}

// SetDefaults installs m as the lowest-precedence layer.
func (s *Settings) SetDefaults(m Mapping) {
	for k, val := range m {
		s.v.SetDefault(k, val)
	}
}

// Merge adds m to the file layer, above defaults and below overrides.
func (s *Settings) Merge(m Mapping) error {
	return s.v.MergeConfigMap(m)
}

// Apply installs m as overrides. Overrides beat every other layer.
func (s *Settings) Apply(m Mapping) {
	for k, val := range m {
		s.v.Set(k, val)
	}
}

// Get returns the effective value of name, or nil.
func (s *Settings) Get(name string) any {
	return s.v.Get(name)
}

// GetString returns the effective value of name as a string.
func (s *Settings) GetString(name string) string {
	return s.v.GetString(name)
}

// IsSet reports whether any layer provides name.
func (s *Settings) IsSet(name string) bool {
	return s.v.IsSet(name)
}

// Keys returns every known name, upper-cased and sorted. Nested maps are
// reported as dotted paths.
func (s *Settings) Keys() []string {
	keys := s.v.AllKeys()
	for i := range keys {
		keys[i] = strings.ToUpper(keys[i])
	}
	sort.Strings(keys)
	return keys
}

// All returns the effective values keyed by upper-cased name.
func (s *Settings) All() Mapping {
	out := make(Mapping)
	for _, k := range s.v.AllKeys() {
		out[strings.ToUpper(k)] = s.v.Get(k)
	}
	return out
}

// Source returns the file the file layer was read from, or "".
func (s *Settings) Source() string {
	return s.v.ConfigFileUsed()
}

func (s *Settings) viper() *viper.Viper {
	return s.v
}
