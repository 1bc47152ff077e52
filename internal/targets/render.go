// Package targets holds the config files appconfig knows how to generate.
// Each target owns one section of app_config.yml and renders one file under
// config/ with a block per environment.
package targets

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"shireesh.com/appconfig/internal/document"
	"shireesh.com/appconfig/internal/generator"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("targets").
		Funcs(template.FuncMap{"scalar": scalar, "key": key, "indentBlock": block}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// scalar renders v as a single line YAML value.
func scalar(v any) (string, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return "", err
	}
	switch {
	case n.Kind == yaml.ScalarNode && strings.Contains(n.Value, "\n"):
		n.Style = yaml.DoubleQuotedStyle
	case n.Kind != yaml.ScalarNode:
		n.Style = yaml.FlowStyle
	}
	b, err := yaml.Marshal(&n)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

// key renders s as a mapping key, quoted whenever a plain key would not
// read back as the same string.
func key(s string) (string, error) {
	n := yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.ContainsAny(s, "\n\r") {
		n.Style = yaml.DoubleQuotedStyle
	}
	b, err := yaml.Marshal(&n)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

// block renders v as block YAML with every line indented by indent spaces.
func block(indent int, v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	pad := strings.Repeat(" ", indent)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n"), nil
}

type environment struct {
	Name     string
	tree     map[string]any
	settings map[string]any
}

// Get returns the setting at the dotted path key, nil when unset.
func (e environment) Get(key string) any {
	return e.settings[key]
}

// Has reports whether the dotted path key is set, even to a zero value.
func (e environment) Has(key string) bool {
	_, ok := e.settings[key]
	return ok
}

// Tree returns the unflattened value stored under a top level key.
func (e environment) Tree(key string) any {
	return e.tree[key]
}

// environments resolves the settings of every declared environment. A
// section entry named after an environment holds overrides for it; every
// other entry is shared.
func environments(g *generator.Generator) []environment {
	names := g.Environments()
	isEnv := make(map[string]bool, len(names))
	for _, name := range names {
		isEnv[name] = true
	}

	shared := make(map[string]any)
	for k, v := range g.Section() {
		if !isEnv[k] {
			shared[k] = v
		}
	}

	envs := make([]environment, 0, len(names))
	for _, name := range names {
		tree := overlay(shared, nil)
		if override, ok := g.Section()[name].(map[string]any); ok {
			tree = overlay(tree, override)
		}
		envs = append(envs, environment{
			Name:     name,
			tree:     tree,
			settings: document.Flatten(tree, "."),
		})
	}
	return envs
}

// overlay returns a copy of base with top set over it. Mappings present on
// both sides are merged, anything else in top replaces the base value.
func overlay(base, top map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(top))
	for k, v := range base {
		if m, ok := v.(map[string]any); ok {
			v = overlay(m, nil)
		}
		out[k] = v
	}
	for k, v := range top {
		m, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		if bm, ok := out[k].(map[string]any); ok {
			out[k] = overlay(bm, m)
			continue
		}
		out[k] = overlay(m, nil)
	}
	return out
}

type fileData struct {
	File         string
	Environments []environment
}
