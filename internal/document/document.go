// Package document loads the application-wide app_config.yml descriptor and
// exposes the pieces of it that config generators consume.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the descriptor every project keeps at its root.
	FileName = "app_config.yml"

	// EnvironmentsKey names the top-level sequence of deployment environments.
	EnvironmentsKey = "environments"
)

var errRootNotMapping = errors.New("document root is not a mapping")

// Document is the decoded descriptor. Nested mappings are always
// map[string]any and sequences are always []any.
type Document map[string]any

// LoadError reports a descriptor that could not be read or parsed.
type LoadError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Path returns the location of the descriptor inside projectPath.
func Path(projectPath string) string {
	return filepath.Join(projectPath, FileName)
}

// Load reads and decodes <projectPath>/app_config.yml.
func Load(projectPath string) (Document, error) {
	path := Path(projectPath)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	doc, err := Decode(b)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	return doc, nil
}

// Decode parses YAML into a Document. An empty input yields an empty Document.
func Decode(b []byte) (Document, error) {
	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return Document{}, nil
	}
	m, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, errRootNotMapping
	}
	return Document(m), nil
}

// Encode renders doc as YAML with two space indentation.
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(doc)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeclaresEnvironments reports whether environments is a non-empty
// sequence. Null entries count, matching a list that was written out but
// not filled in.
func (d Document) DeclaresEnvironments() bool {
	seq, ok := d[EnvironmentsKey].([]any)
	return ok && len(seq) > 0
}

// Environments returns the declared environment names in document order.
// It returns nil when the key is absent or is not a sequence. Null entries
// name no environment and are skipped.
func (d Document) Environments() []string {
	seq, ok := d[EnvironmentsKey].([]any)
	if !ok {
		return nil
	}
	envs := make([]string, 0, len(seq))
	for _, v := range seq {
		if v == nil {
			continue
		}
		envs = append(envs, fmt.Sprint(v))
	}
	return envs
}

// Section returns the mapping stored under key, or nil when the key is
// absent or holds something other than a mapping.
func (d Document) Section(key string) map[string]any {
	m, _ := d[key].(map[string]any)
	return m
}

// normalize rewrites map[any]any produced by non-string YAML keys into
// map[string]any so the rest of the tree has a single mapping type.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalize(child)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, child := range t {
			m[fmt.Sprint(k)] = normalize(child)
		}
		return m
	case []any:
		for i, child := range t {
			t[i] = normalize(child)
		}
		return t
	default:
		return v
	}
}
