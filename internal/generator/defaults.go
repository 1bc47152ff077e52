package generator

import (
	"dario.cat/mergo"
)

// LayerDefaults returns a copy of section with every key of defaults that
// section does not set filled in, recursing into nested mappings. A key
// holding an empty value (nil, "", 0) counts as unset. Neither argument is
// modified.
func LayerDefaults(section, defaults map[string]any) (map[string]any, error) {
	out := deepCopy(section)
	if len(defaults) == 0 {
		return out, nil
	}
	if err := mergo.Merge(&out, deepCopy(defaults)); err != nil {
		return nil, err
	}
	return out, nil
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			out[k] = deepCopy(t)
		case []any:
			out[k] = append([]any(nil), t...)
		default:
			out[k] = v
		}
	}
	return out
}
