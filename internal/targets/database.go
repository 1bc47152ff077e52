package targets

import (
	"fmt"
	"strings"

	pgquery "github.com/pganalyze/pg_query_go/v6"

	"shireesh.com/appconfig/internal/document"
	"shireesh.com/appconfig/internal/generator"
)

// Database renders config/database.yml from the "database" section.
//
// An optional init_sql entry holds PostgreSQL statements run after
// connecting. They are parsed so a typo fails generation instead of
// deployment, and are written one statement per list item.
type Database struct{}

func (Database) Key() string { return "database" }

func (Database) ConfigFile() string { return "database.yml" }

func (d Database) Section(doc document.Document) (map[string]any, error) {
	return doc.Section(d.Key()), nil
}

func (Database) RequiredKeys() []string {
	return []string{
		"adapter",
		"host",
		"port",
		"database",
		"credentials.username",
		"credentials.password",
	}
}

func (Database) Sample(app string) map[string]any {
	return map[string]any{
		"adapter":  "postgresql",
		"host":     "localhost",
		"port":     5432,
		"database": app,
		"credentials": map[string]any{
			"username": app,
			"password": "",
		},
	}
}

func (d Database) FileContents(g *generator.Generator) (string, error) {
	envs := environments(g)
	data := struct {
		fileData
		InitStatements map[string][]string
	}{
		fileData:       fileData{File: d.ConfigFile(), Environments: envs},
		InitStatements: make(map[string][]string, len(envs)),
	}
	for _, env := range envs {
		stmts, err := splitSQL(env.Get("init_sql"))
		if err != nil {
			return "", fmt.Errorf("%s init_sql: %w", env.Name, err)
		}
		data.InitStatements[env.Name] = stmts
	}
	return render("database.yml.tmpl", data)
}

func splitSQL(v any) ([]string, error) {
	sql, _ := v.(string)
	if strings.TrimSpace(sql) == "" {
		return nil, nil
	}

	stmts, err := pgquery.SplitWithParser(sql, true)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := pgquery.Parse(stmt); err != nil {
			return nil, fmt.Errorf("%q: %w", stmt, err)
		}
		out = append(out, stmt)
	}
	return out, nil
}
