package targets

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"shireesh.com/appconfig/internal/document"
	"shireesh.com/appconfig/internal/generator"
)

const applicationKey = "application"

// ErrUnknownTarget is returned by Select for a name no target answers to.
var ErrUnknownTarget = errors.New("unknown target")

// Target is a generator target that also knows which descriptor key it owns
// and what a fresh section for it looks like.
type Target interface {
	generator.Target
	generator.KeyRequirer
	Key() string
	Sample(app string) map[string]any
}

// All returns every registered target, sorted by config file name.
func All() []Target {
	return []Target{Cache{}, Database{}, Mailer{}}
}

// Names returns the config file names of all targets.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.ConfigFile()
	}
	sort.Strings(names)
	return names
}

// Lookup finds a target by config file name, with or without extension, or
// by its descriptor key.
func Lookup(name string) (Target, bool) {
	for _, t := range All() {
		file := t.ConfigFile()
		if name == file || name == t.Key() || name == strings.TrimSuffix(file, ".yml") {
			return t, true
		}
	}
	return nil, false
}

// Select resolves names into generator targets. No names selects all.
func Select(names []string) ([]generator.Target, error) {
	if len(names) == 0 {
		all := All()
		out := make([]generator.Target, len(all))
		for i, t := range all {
			out[i] = t
		}
		return out, nil
	}

	out := make([]generator.Target, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		t, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
		}
		if seen[t.ConfigFile()] {
			continue
		}
		seen[t.ConfigFile()] = true
		out = append(out, t)
	}
	return out, nil
}

// Skeleton builds a descriptor declaring envs with a sample section for
// every target.
func Skeleton(app string, envs []string) document.Document {
	seq := make([]any, len(envs))
	for i, e := range envs {
		seq[i] = e
	}
	doc := document.Document{
		applicationKey:           app,
		document.EnvironmentsKey: seq,
	}
	for _, t := range All() {
		doc[t.Key()] = t.Sample(app)
	}
	return doc
}
