package targets

import (
	"shireesh.com/appconfig/internal/document"
	"shireesh.com/appconfig/internal/generator"
)

// Cache renders config/cache.yml from the "cache" section. Host, port and
// namespace are required. Port and ttl fall back to defaults, and namespace
// falls back to the application name when one is declared.
type Cache struct{}

func (Cache) Key() string { return "cache" }

func (Cache) ConfigFile() string { return "cache.yml" }

func (Cache) DefaultOptions() map[string]any {
	return map[string]any{
		"port": 6379,
		"ttl":  3600,
	}
}

// Section layers the defaults, plus a namespace named after the application
// when one is declared, under the "cache" section.
func (c Cache) Section(doc document.Document) (map[string]any, error) {
	defaults := c.DefaultOptions()
	if app, ok := doc[applicationKey].(string); ok && app != "" {
		defaults["namespace"] = app
	}
	return generator.LayerDefaults(doc.Section(c.Key()), defaults)
}

func (Cache) RequiredKeys() []string {
	return []string{"host", "port", "namespace"}
}

func (Cache) Sample(string) map[string]any {
	return map[string]any{
		"host": "localhost",
	}
}

func (c Cache) FileContents(g *generator.Generator) (string, error) {
	return render("cache.yml.tmpl", fileData{File: c.ConfigFile(), Environments: environments(g)})
}
