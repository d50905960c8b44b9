// Package env builds the environment map that template rendering draws from.
//
// A map holds only names matching [A-Z_][A-Z0-9_]*; everything else in the
// process environment (lowercase proxies, Windows-style names) can never be
// referenced by a {{NAME}} token and is dropped on construction.
package env

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

var namePattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// Map maps variable names to their values. A missing key is not an error.
type Map map[string]string

// ValidName reports whether name can appear inside a {{NAME}} token.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// FromEnviron builds a Map from KEY=VALUE pairs as returned by os.Environ.
// Entries without '=' or with an invalid name are ignored. Later entries win.
func FromEnviron(environ []string) Map {
	m := make(Map, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !ValidName(key) {
			continue
		}
		m[key] = value
	}
	return m
}

// LoadFile reads a dotenv file (KEY=VALUE per line, # comments, optional
// quoting). Keys are normalised to upper case; invalid names are dropped.
func LoadFile(path string) (Map, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	m := make(Map)
	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if !ValidName(name) {
			continue
		}
		m[name] = v.GetString(key)
	}
	return m, nil
}

// Merge returns a new Map with the entries of m overlaid by each of others
// in turn.
func (m Map) Merge(others ...Map) Map {
	merged := make(Map, len(m))
	for k, v := range m {
		merged[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			merged[k] = v
		}
	}
	return merged
}

// Names returns the keys of m in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
