package generator

import (
	"errors"
	"fmt"

	"shireesh.com/appconfig/internal/document"
)

// ErrNotImplemented is returned when a target is missing one of the
// operations every generator needs.
var ErrNotImplemented = errors.New("not implemented")

// Target is the per-file behaviour a Generator delegates to.
type Target interface {
	// ConfigFile is the output file name, relative to the project's config directory.
	ConfigFile() string

	// FileContents renders the output file. It is only called once the
	// section has validated.
	FileContents(g *Generator) (string, error)
}

// SectionSelector lets a target choose its section. Without it the section
// is the document entry named after ConfigFile.
type SectionSelector interface {
	Section(doc document.Document) (map[string]any, error)
}

// KeyRequirer lists keys that must be present in the section, either as
// top level keys or as dotted paths to nested leaves. Targets that do not
// implement it require nothing.
type KeyRequirer interface {
	RequiredKeys() []string
}

// Defaulter supplies values a target layers under its section, usually
// through LayerDefaults from its Section method. Generator never reads it.
type Defaulter interface {
	DefaultOptions() map[string]any
}

// MessageProvider overrides the diagnostic wording for some error kinds.
// Kinds it leaves out keep the default message.
type MessageProvider interface {
	ErrorMessages() Messages
}

// Checker is consulted by New before anything is loaded.
type Checker interface {
	Check() error
}

// Funcs adapts plain functions to a Target.
type Funcs struct {
	File     string
	Required []string
	Contents func(*Generator) (string, error)
}

// ConfigFile implements Target.
func (f Funcs) ConfigFile() string {
	return f.File
}

// FileContents implements Target.
func (f Funcs) FileContents(g *Generator) (string, error) {
	if f.Contents == nil {
		return "", fmt.Errorf("file contents: %w", ErrNotImplemented)
	}
	return f.Contents(g)
}

// RequiredKeys implements KeyRequirer.
func (f Funcs) RequiredKeys() []string {
	return f.Required
}

// Check implements Checker.
func (f Funcs) Check() error {
	if f.File == "" {
		return fmt.Errorf("config file: %w", ErrNotImplemented)
	}
	if f.Contents == nil {
		return fmt.Errorf("file contents: %w", ErrNotImplemented)
	}
	return nil
}
