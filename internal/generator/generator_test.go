package generator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shireesh.com/appconfig/internal/document"
)

func newProject(t *testing.T, descriptor string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, document.FileName), []byte(descriptor), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, OutputDir), 0o755))
	return dir
}

// sectionTarget reads the "database" section and renders its flattened
// keys in sorted order.
type sectionTarget struct {
	required []string
	messages Messages
}

func (sectionTarget) ConfigFile() string { return "database.yml" }

func (sectionTarget) Section(doc document.Document) (map[string]any, error) {
	return doc.Section("database"), nil
}

func (s sectionTarget) RequiredKeys() []string { return s.required }

func (s sectionTarget) ErrorMessages() Messages { return s.messages }

func (sectionTarget) FileContents(g *Generator) (string, error) {
	flat := document.Flatten(g.Section(), ".")
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%v\n", k, flat[k])
	}
	return sb.String(), nil
}

func readOutput(t *testing.T, g *Generator) string {
	t.Helper()
	b, err := os.ReadFile(g.ConfigPath())
	require.NoError(t, err)
	return string(b)
}

func TestGenerator_GenerateFile(t *testing.T) {
	testCases := []struct {
		name         string
		descriptor   string
		required     []string
		expectErrors ErrorSet
		expectDiag   string
		expectOutput string
	}{
		{
			name: "valid section is written",
			descriptor: `
environments: [dev]
database: {host: x, port: 5432}
`,
			required:     []string{"host", "port"},
			expectErrors: ErrorSet{},
			expectOutput: "host=x\nport=5432\n",
		},
		{
			name: "empty environments are reported",
			descriptor: `
environments: []
database: {host: x}
`,
			required:     []string{"host"},
			expectErrors: ErrorSet{MissingEnvironments: true},
			expectDiag:   "database.yml - Provide at least one environment.\n",
		},
		{
			name: "absent environments are reported",
			descriptor: `
database: {host: x}
`,
			required:     []string{"host"},
			expectErrors: ErrorSet{MissingEnvironments: true},
			expectDiag:   "database.yml - Provide at least one environment.\n",
		},
		{
			name: "null environment entry still declares environments",
			descriptor: `
environments: [~]
database: {host: x}
`,
			required:     []string{"host"},
			expectErrors: ErrorSet{},
			expectOutput: "host=x\n",
		},
		{
			name: "missing nested path is reported",
			descriptor: `
environments: [dev]
database: {host: x}
`,
			required:     []string{"host", "credentials.password"},
			expectErrors: ErrorSet{MissingKeys: []string{"credentials.password"}},
			expectDiag:   "database.yml - Fill missing values 'credentials.password'.\n",
		},
		{
			name: "nested path satisfied through flattened lookup",
			descriptor: `
environments: [dev]
database:
  credentials:
    password: p
`,
			required:     []string{"credentials.password"},
			expectErrors: ErrorSet{},
			expectOutput: "credentials.password=p\n",
		},
		{
			name: "top level key holding a mapping satisfies its name",
			descriptor: `
environments: [dev]
database:
  credentials:
    password: p
`,
			required:     []string{"credentials"},
			expectErrors: ErrorSet{},
			expectOutput: "credentials.password=p\n",
		},
		{
			name: "environments reported before missing keys",
			descriptor: `
database: {}
`,
			required: []string{"host", "port"},
			expectErrors: ErrorSet{
				MissingEnvironments: true,
				MissingKeys:         []string{"host", "port"},
			},
			expectDiag: "database.yml - Provide at least one environment.\n" +
				"database.yml - Fill missing values 'host', 'port'.\n",
		},
		{
			name: "absent section is treated as empty",
			descriptor: `
environments: [dev]
`,
			required:     []string{"host", "credentials.password"},
			expectErrors: ErrorSet{MissingKeys: []string{"host", "credentials.password"}},
			expectDiag:   "database.yml - Fill missing values 'host', 'credentials.password'.\n",
		},
		{
			name: "absent section without requirements is valid",
			descriptor: `
environments: [dev]
`,
			expectErrors: ErrorSet{},
			expectOutput: "",
		},
		{
			name: "duplicate required keys are reported once",
			descriptor: `
environments: [dev]
database: {}
`,
			required:     []string{"host", "host"},
			expectErrors: ErrorSet{MissingKeys: []string{"host"}},
			expectDiag:   "database.yml - Fill missing values 'host'.\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := newProject(t, tc.descriptor)
			var diag bytes.Buffer

			g, err := New(dir, sectionTarget{required: tc.required}, WithDiagnostics(&diag))
			require.NoError(t, err)

			res, err := g.GenerateFile()
			require.NoError(t, err)
			require.Equal(t, tc.expectErrors, g.Errors())
			require.Equal(t, tc.expectDiag, diag.String())
			require.Equal(t, "database.yml", res.Target)
			require.Equal(t, filepath.Join(dir, "config", "database.yml"), res.Path)

			if tc.expectErrors.Empty() {
				require.True(t, res.Written)
				require.Nil(t, res.Errors)
				require.Equal(t, tc.expectOutput, readOutput(t, g))
				require.Equal(t, len(tc.expectOutput), res.Bytes)
				return
			}
			require.False(t, res.Written)
			require.Equal(t, tc.expectErrors, res.Errors)
			require.NoFileExists(t, g.ConfigPath())
		})
	}
}

func TestGenerator_GenerateFile_Idempotent(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		dir := newProject(t, "environments: [dev]\ndatabase: {host: x, port: 5432}\n")
		g, err := New(dir, sectionTarget{required: []string{"host"}})
		require.NoError(t, err)

		_, err = g.GenerateFile()
		require.NoError(t, err)
		first := readOutput(t, g)
		firstErrs := g.Errors()

		_, err = g.GenerateFile()
		require.NoError(t, err)
		require.Equal(t, first, readOutput(t, g))
		require.Equal(t, firstErrs, g.Errors())
	})

	t.Run("invalid", func(t *testing.T) {
		dir := newProject(t, "environments: []\ndatabase: {}\n")
		var diag bytes.Buffer
		g, err := New(dir, sectionTarget{required: []string{"host"}}, WithDiagnostics(&diag))
		require.NoError(t, err)

		_, err = g.GenerateFile()
		require.NoError(t, err)
		first := g.Errors()

		_, err = g.GenerateFile()
		require.NoError(t, err)
		require.Equal(t, first, g.Errors())
		require.Len(t, g.Errors(), 2)
		require.Equal(t, 4, strings.Count(diag.String(), "\n"))
	})
}

func TestGenerator_Validate_Rebuilds(t *testing.T) {
	dir := newProject(t, "environments: [dev]\ndatabase: {host: x}\n")
	target := &mutableTarget{required: []string{"port"}}
	g, err := New(dir, target)
	require.NoError(t, err)

	require.False(t, g.Valid())
	require.Equal(t, []string{"port"}, g.Errors().MissingKeys())

	target.required = []string{"host"}
	require.True(t, g.Valid())
	require.True(t, g.Errors().Empty())
}

type mutableTarget struct {
	required []string
}

func (*mutableTarget) ConfigFile() string { return "database" }

func (t *mutableTarget) RequiredKeys() []string { return t.required }

func (*mutableTarget) FileContents(*Generator) (string, error) { return "", nil }

func TestGenerator_DefaultSectionUsesConfigFile(t *testing.T) {
	dir := newProject(t, "environments: [dev]\nmailer.yml:\n  from: a@b.c\n")
	g, err := New(dir, Funcs{
		File:     "mailer.yml",
		Required: []string{"from"},
		Contents: func(g *Generator) (string, error) {
			return fmt.Sprint(g.Section()["from"]), nil
		},
	})
	require.NoError(t, err)

	res, err := g.GenerateFile()
	require.NoError(t, err)
	require.True(t, res.Written)
	require.Equal(t, "a@b.c", readOutput(t, g))
}

func TestGenerator_ErrorMessagesOverride(t *testing.T) {
	dir := newProject(t, "database: {}\n")
	var diag bytes.Buffer
	target := sectionTarget{
		required: []string{"host"},
		messages: Messages{
			MissingKeys: func(payload any) string {
				return "need " + strings.Join(payload.([]string), "+")
			},
		},
	}
	g, err := New(dir, target, WithDiagnostics(&diag))
	require.NoError(t, err)

	_, err = g.GenerateFile()
	require.NoError(t, err)
	require.Equal(t,
		"database.yml - Provide at least one environment.\ndatabase.yml - need host\n",
		diag.String(),
	)
}

func TestNew_LoadError(t *testing.T) {
	_, err := New(t.TempDir(), sectionTarget{})

	var lerr *document.LoadError
	require.ErrorAs(t, err, &lerr)
}

func TestNew_NotImplemented(t *testing.T) {
	testCases := []struct {
		name   string
		target Funcs
	}{
		{
			name:   "missing config file",
			target: Funcs{Contents: func(*Generator) (string, error) { return "", nil }},
		},
		{
			name:   "missing file contents",
			target: Funcs{File: "x.yml"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := newProject(t, "environments: [dev]\n")
			_, err := New(dir, tc.target)
			require.ErrorIs(t, err, ErrNotImplemented)
		})
	}
}

func TestFuncs_FileContentsNotImplemented(t *testing.T) {
	_, err := Funcs{File: "x.yml"}.FileContents(nil)
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestGenerator_GenerateFile_WriteError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, document.FileName), []byte("environments: [dev]\n"), 0o644))

	g, err := New(dir, Funcs{
		File:     "app.yml",
		Contents: func(*Generator) (string, error) { return "x", nil },
	})
	require.NoError(t, err)

	res, err := g.GenerateFile()

	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, g.ConfigPath(), werr.Path)
	require.True(t, errors.Is(err, os.ErrNotExist))
	require.False(t, res.Written)
}

func TestGenerator_GenerateFile_RenderError(t *testing.T) {
	dir := newProject(t, "environments: [dev]\n")
	renderErr := errors.New("boom")

	g, err := New(dir, Funcs{
		File:     "app.yml",
		Contents: func(*Generator) (string, error) { return "", renderErr },
	})
	require.NoError(t, err)

	_, err = g.GenerateFile()
	require.ErrorIs(t, err, renderErr)
	require.NoFileExists(t, g.ConfigPath())
}

func TestGenerator_GenerateFile_Truncates(t *testing.T) {
	dir := newProject(t, "environments: [dev]\n")
	path := filepath.Join(dir, OutputDir, "app.yml")
	require.NoError(t, os.WriteFile(path, []byte("a much longer previous file"), 0o644))

	g, err := New(dir, Funcs{
		File:     "app.yml",
		Contents: func(*Generator) (string, error) { return "short", nil },
	})
	require.NoError(t, err)

	_, err = g.GenerateFile()
	require.NoError(t, err)
	require.Equal(t, "short", readOutput(t, g))
}

func TestGenerator_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dir := newProject(t, "environments: [dev]\ndatabase: {host: x}\n")

	g, err := New(dir, sectionTarget{required: []string{"host"}}, WithLogger(zap.New(core)))
	require.NoError(t, err)
	_, err = g.GenerateFile()
	require.NoError(t, err)

	require.Equal(t, 1, logs.FilterMessage("document loaded").Len())
	require.Equal(t, 1, logs.FilterMessage("config valid").Len())
	written := logs.FilterMessage("config written").All()
	require.Len(t, written, 1)
	require.Equal(t, g.ConfigPath(), written[0].ContextMap()["path"])
}

func TestGenerator_Check(t *testing.T) {
	dir := newProject(t, "environments: [dev]\ndatabase: {host: x}\n")
	var diag bytes.Buffer
	g, err := New(dir, sectionTarget{required: []string{"host", "port"}}, WithDiagnostics(&diag))
	require.NoError(t, err)

	errs := g.Check()

	require.Equal(t, ErrorSet{MissingKeys: []string{"port"}}, errs)
	require.Equal(t, "database.yml - Fill missing values 'port'.\n", diag.String())
	require.NoFileExists(t, g.ConfigPath())
}
