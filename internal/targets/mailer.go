package targets

import (
	"fmt"

	"shireesh.com/appconfig/internal/generator"
)

// Mailer renders config/mailer.yml. It keeps the default section lookup, so
// its settings live under the "mailer.yml" key of app_config.yml.
type Mailer struct{}

func (m Mailer) Key() string { return m.ConfigFile() }

func (Mailer) ConfigFile() string { return "mailer.yml" }

func (Mailer) RequiredKeys() []string {
	return []string{"smtp.address", "smtp.port", "from"}
}

func (Mailer) ErrorMessages() generator.Messages {
	return generator.Messages{
		generator.MissingKeys: func(payload any) string {
			keys, _ := payload.([]string)
			return fmt.Sprintf("SMTP settings incomplete, fill in %s.", generator.QuoteKeys(keys))
		},
	}
}

func (Mailer) Sample(app string) map[string]any {
	return map[string]any{
		"from": "no-reply@" + app + ".local",
		"smtp": map[string]any{
			"address": "localhost",
			"port":    25,
		},
	}
}

func (m Mailer) FileContents(g *generator.Generator) (string, error) {
	return render("mailer.yml.tmpl", fileData{File: m.ConfigFile(), Environments: environments(g)})
}
