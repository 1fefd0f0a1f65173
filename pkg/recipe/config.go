package recipe

import "gopkg.in/yaml.v3"

// VersionConfig is the version discovery configuration in the extra section.
type VersionConfig struct {
	Mode     string   // Raw mode key, empty for auto-detection
	Patterns []string // Version patterns, empty for the default
	Explicit bool     // Mode was set by configuration
}

// VersionConfig reads the version discovery settings. Two layouts exist:
//
//	extra:
//	  version:
//	    github-tags: ["^v(\\d+\\.\\d+\\.\\d+)$"]
//
// where the first mode key with a non-empty pattern list wins and pins the
// mode, and the older
//
//	extra:
//	  version-pattern: ^(\d+\.\d+\.\d+)$
//	  mode: github-tags
//
// where mode is optional. When extra.version is present the older keys are
// ignored.
func (d *Document) VersionConfig() VersionConfig {
	extra := lookup(d.root, "extra")
	if extra == nil || extra.Kind != yaml.MappingNode {
		return VersionConfig{}
	}

	if v := lookup(extra, "version"); v != nil {
		if v.Kind != yaml.MappingNode {
			return VersionConfig{}
		}
		for i := 0; i+1 < len(v.Content); i += 2 {
			if patterns := stringList(v.Content[i+1]); len(patterns) > 0 {
				return VersionConfig{Mode: v.Content[i].Value, Patterns: patterns, Explicit: true}
			}
		}
		return VersionConfig{}
	}

	var cfg VersionConfig
	if p := lookup(extra, "version-pattern"); p != nil {
		cfg.Patterns = stringList(p)
	}
	if mode := scalarValue(extra, "mode"); mode != "" {
		cfg.Mode = mode
		cfg.Explicit = true
	}
	return cfg
}

// stringList accepts a scalar or a sequence of scalars.
func stringList(n *yaml.Node) []string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" || n.Tag == "!!null" {
			return nil
		}
		return []string{n.Value}
	case yaml.SequenceNode:
		var out []string
		for _, c := range n.Content {
			if c.Kind == yaml.ScalarNode && c.Value != "" {
				out = append(out, c.Value)
			}
		}
		return out
	}
	return nil
}
