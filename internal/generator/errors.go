package generator

import (
	"fmt"
	"strings"
)

// ErrorKind tags one validation rule.
type ErrorKind int

const (
	// MissingEnvironments carries true when the document lists no environments.
	MissingEnvironments ErrorKind = iota + 1

	// MissingKeys carries the []string of required keys absent from the section.
	MissingKeys
)

// reportOrder is the order diagnostics are emitted in.
var reportOrder = []ErrorKind{MissingEnvironments, MissingKeys}

// String returns the tag used in diagnostics and logs.
func (k ErrorKind) String() string {
	switch k {
	case MissingEnvironments:
		return "missing_environments"
	case MissingKeys:
		return "missing_keys"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ErrorSet maps each violated rule to its payload. A rule that passed has
// no entry, so a valid section produces an empty set.
type ErrorSet map[ErrorKind]any

// Empty reports whether no rule was violated.
func (s ErrorSet) Empty() bool {
	return len(s) == 0
}

// Kinds returns the violated rules in report order.
func (s ErrorSet) Kinds() []ErrorKind {
	kinds := make([]ErrorKind, 0, len(s))
	for _, k := range reportOrder {
		if _, ok := s[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Names returns the tags of the violated rules in report order.
func (s ErrorSet) Names() []string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

// MissingEnvironments reports whether the environment check failed.
func (s ErrorSet) MissingEnvironments() bool {
	v, _ := s[MissingEnvironments].(bool)
	return v
}

// MissingKeys returns the required keys that were not found.
func (s ErrorSet) MissingKeys() []string {
	v, _ := s[MissingKeys].([]string)
	return v
}

// MessageFunc turns an error payload into a human readable sentence.
type MessageFunc func(payload any) string

// Messages maps each error kind to its formatter.
type Messages map[ErrorKind]MessageFunc

// DefaultMessages returns the stock wording.
func DefaultMessages() Messages {
	return Messages{
		MissingEnvironments: func(any) string {
			return "Provide at least one environment."
		},
		MissingKeys: func(payload any) string {
			keys, _ := payload.([]string)
			return fmt.Sprintf("Fill missing values %s.", QuoteKeys(keys))
		},
	}
}

// Merge returns a copy of m with every formatter in override applied on top.
func (m Messages) Merge(override Messages) Messages {
	out := make(Messages, len(m)+len(override))
	for k, f := range m {
		out[k] = f
	}
	for k, f := range override {
		if f != nil {
			out[k] = f
		}
	}
	return out
}

// Format renders payload with the formatter registered for kind.
func (m Messages) Format(kind ErrorKind, payload any) string {
	if f, ok := m[kind]; ok && f != nil {
		return f(payload)
	}
	return fmt.Sprintf("%s: %v", kind, payload)
}

// QuoteKeys renders keys as 'a', 'b'.
func QuoteKeys(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = "'" + k + "'"
	}
	return strings.Join(quoted, ", ")
}
