// Package generator validates one section of a project's app_config.yml and
// writes the config file rendered from it.
//
// A Generator goes through the same steps on every GenerateFile call:
//
//	Loaded -> Validating -> Valid   -> Written
//	                     -> Invalid -> Reported
//
// Validation failures are reported on the diagnostic writer, one line per
// violated rule, and nothing is written. Load, render and write failures are
// returned as errors.
package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"shireesh.com/appconfig/internal/document"
)

// OutputDir is the project relative directory config files are written to.
const OutputDir = "config"

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// WithDiagnostics sets where validation messages are printed. Defaults to os.Stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(g *Generator) {
		g.diag = w
	}
}

// Generator drives one Target against one project. It is not safe for
// concurrent use.
type Generator struct {
	projectPath  string
	target       Target
	doc          document.Document
	environments []string
	declaresEnvs bool
	section      map[string]any
	errs         ErrorSet

	log  *zap.Logger
	diag io.Writer
}

// New loads <projectPath>/app_config.yml and selects the target's section.
// A descriptor that cannot be read or parsed fails with a *document.LoadError.
func New(projectPath string, target Target, opts ...Option) (*Generator, error) {
	if c, ok := target.(Checker); ok {
		if err := c.Check(); err != nil {
			return nil, err
		}
	}

	g := &Generator{
		projectPath: projectPath,
		target:      target,
		errs:        ErrorSet{},
		log:         zap.NewNop(),
		diag:        os.Stderr,
	}
	for _, opt := range opts {
		opt(g)
	}

	doc, err := document.Load(projectPath)
	if err != nil {
		return nil, err
	}
	g.doc = doc
	g.environments = doc.Environments()
	g.declaresEnvs = doc.DeclaresEnvironments()

	section, err := selectSection(target, doc)
	if err != nil {
		return nil, fmt.Errorf("select section for %s: %w", target.ConfigFile(), err)
	}
	g.section = section

	g.log.Debug("document loaded",
		zap.String("target", target.ConfigFile()),
		zap.String("path", document.Path(projectPath)),
		zap.Strings("environments", g.environments),
	)
	return g, nil
}

func selectSection(target Target, doc document.Document) (map[string]any, error) {
	if s, ok := target.(SectionSelector); ok {
		return s.Section(doc)
	}
	return doc.Section(target.ConfigFile()), nil
}

// ProjectPath returns the project root the generator was built for.
func (g *Generator) ProjectPath() string { return g.projectPath }

// Document returns the loaded descriptor. Callers must not modify it.
func (g *Generator) Document() document.Document { return g.doc }

// Environments returns the declared environments, nil when absent.
func (g *Generator) Environments() []string { return g.environments }

// Section returns the target's section, nil when the descriptor has none.
func (g *Generator) Section() map[string]any { return g.section }

// ConfigPath is where the rendered file is written.
func (g *Generator) ConfigPath() string {
	return filepath.Join(g.projectPath, OutputDir, g.target.ConfigFile())
}

// RequiredKeys returns the keys the target requires.
func (g *Generator) RequiredKeys() []string {
	if r, ok := g.target.(KeyRequirer); ok {
		return r.RequiredKeys()
	}
	return nil
}

// Messages returns the default messages with the target's overrides applied.
func (g *Generator) Messages() Messages {
	msgs := DefaultMessages()
	if p, ok := g.target.(MessageProvider); ok {
		msgs = msgs.Merge(p.ErrorMessages())
	}
	return msgs
}

// Validate rebuilds the error set from scratch and returns it.
func (g *Generator) Validate() ErrorSet {
	errs := ErrorSet{}
	if !g.declaresEnvs {
		errs[MissingEnvironments] = true
	}
	if missing := missingKeys(g.RequiredKeys(), g.section); len(missing) > 0 {
		errs[MissingKeys] = missing
	}
	g.errs = errs
	return errs
}

// Valid runs Validate and reports whether the set came back empty.
func (g *Generator) Valid() bool {
	return g.Validate().Empty()
}

// Errors returns the set produced by the most recent validation.
func (g *Generator) Errors() ErrorSet {
	out := make(ErrorSet, len(g.errs))
	for k, v := range g.errs {
		out[k] = v
	}
	return out
}

// missingKeys returns the required keys that are neither a top level key of
// section nor a dotted path to one of its leaves. Order follows required and
// each key is reported once.
func missingKeys(required []string, section map[string]any) []string {
	if len(required) == 0 {
		return nil
	}

	present := make(map[string]struct{}, len(section))
	for k := range section {
		present[k] = struct{}{}
	}
	for k := range document.Flatten(section, ".") {
		present[k] = struct{}{}
	}

	var missing []string
	seen := make(map[string]struct{}, len(required))
	for _, k := range required {
		if _, ok := present[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		missing = append(missing, k)
	}
	return missing
}

// Result describes the outcome of one GenerateFile call.
type Result struct {
	Target  string
	Path    string
	Written bool
	Bytes   int
	Errors  ErrorSet
}

// GenerateFile validates the section and either writes the rendered file or
// prints one diagnostic per violated rule. An invalid section is not an
// error; render and write failures are.
func (g *Generator) GenerateFile() (Result, error) {
	res := Result{
		Target: g.target.ConfigFile(),
		Path:   g.ConfigPath(),
	}

	errs := g.Validate()
	if !errs.Empty() {
		res.Errors = g.Errors()
		g.log.Info("config invalid",
			zap.String("target", res.Target),
			zap.Strings("errors", errs.Names()),
		)
		g.report(errs)
		return res, nil
	}
	g.log.Debug("config valid", zap.String("target", res.Target))

	contents, err := g.target.FileContents(g)
	if err != nil {
		return res, fmt.Errorf("render %s: %w", res.Target, err)
	}

	n, err := writeFile(res.Path, contents)
	res.Bytes = n
	if err != nil {
		return res, err
	}
	res.Written = true

	g.log.Info("config written",
		zap.String("target", res.Target),
		zap.String("path", res.Path),
		zap.Int("bytes", n),
	)
	return res, nil
}

// Check validates the section and prints the same diagnostics GenerateFile
// would, without rendering or writing anything.
func (g *Generator) Check() ErrorSet {
	errs := g.Validate()
	g.report(errs)
	return g.Errors()
}

func (g *Generator) report(errs ErrorSet) {
	msgs := g.Messages()
	for _, kind := range errs.Kinds() {
		fmt.Fprintf(g.diag, "%s - %s\n", g.target.ConfigFile(), msgs.Format(kind, errs[kind]))
	}
}
