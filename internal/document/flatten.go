package document

import (
	"slices"
	"strings"
)

// DefaultSeparator joins path segments when the caller has no preference.
const DefaultSeparator = "/"

// Flatten walks node and returns one entry per leaf, keyed by the path of
// keys leading to it joined with sep. A leaf is any value that is not itself
// a map[string]any; sequences and empty mappings are therefore never descended
// into, and an empty mapping contributes no entries.
//
// Keys that contain sep can make two leaves share a joined path, as with
// {"a.b": 1, "a": {"b": 2}}. The leaf reached through more mappings wins;
// at equal depth the one with the lexically smaller key segments wins.
//
// node must be a tree. Anything decoded from YAML is, so cycles are not
// detected.
func Flatten(node map[string]any, sep string) map[string]any {
	f := flattener{
		sep:   sep,
		out:   make(map[string]any),
		paths: make(map[string][]string),
	}
	f.walk(nil, node)
	return f.out
}

type flattener struct {
	sep   string
	out   map[string]any
	paths map[string][]string
}

func (f *flattener) walk(prefix []string, node map[string]any) {
	for k, v := range node {
		path := append(prefix[:len(prefix):len(prefix)], k)
		if child, ok := v.(map[string]any); ok {
			f.walk(path, child)
			continue
		}
		joined := strings.Join(path, f.sep)
		if prev, ok := f.paths[joined]; ok && !outranks(path, prev) {
			continue
		}
		f.paths[joined] = path
		f.out[joined] = v
	}
}

func outranks(path, prev []string) bool {
	if len(path) != len(prev) {
		return len(path) > len(prev)
	}
	return slices.Compare(path, prev) < 0
}
