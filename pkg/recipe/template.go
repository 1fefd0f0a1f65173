package recipe

import (
	"maps"
	"regexp"
)

var placeholder = regexp.MustCompile(`\$?\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// IsTemplate reports whether s contains a placeholder.
func IsTemplate(s string) bool {
	return placeholder.MatchString(s)
}

// Expand replaces every placeholder whose key is in vars. Unknown keys are
// left as written.
func Expand(s string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return m
	})
}

// Var is one raw context entry.
type Var struct {
	Key   string
	Value string
}

// ResolveVars expands placeholders between vars until no value changes.
// Entries in set replace the raw value of the same key before expansion.
// Each pass reads the previous pass only, so the result does not depend on
// map iteration order. Cyclic references stop after len(vars)+1 passes.
func ResolveVars(vars []Var, set map[string]string) map[string]string {
	cur := make(map[string]string, len(vars)+len(set))
	for _, v := range vars {
		cur[v.Key] = v.Value
	}
	maps.Copy(cur, set)

	for range len(cur) + 1 {
		next := make(map[string]string, len(cur))
		changed := false
		for k, v := range cur {
			e := Expand(v, cur)
			next[k] = e
			changed = changed || e != v
		}
		cur = next
		if !changed {
			break
		}
	}
	return cur
}
