package recipe

import (
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/recipesync/pkg/errors"
)

// SourceKind classifies a source entry by the keys it carries.
type SourceKind int

const (
	SourceUnknown SourceKind = iota // none of path, git or url
	SourcePath                      // local path, never touched
	SourceGit                       // git + rev/tag/branch
	SourceURL                       // url + sha256
)

func (k SourceKind) String() string {
	switch k {
	case SourcePath:
		return "path"
	case SourceGit:
		return "git"
	case SourceURL:
		return "url"
	}
	return "unknown"
}

// Source is one entry of the source section, with any {if, then} wrapper
// already removed.
type Source struct {
	Index       int  // Position in the source list, 0 for a single mapping
	Conditional bool // Entry was wrapped in {if, then}

	URL    string
	SHA256 string
	Git    string
	Rev    string // rev, tag or branch, whichever is set first
	Path   string

	node *yaml.Node
}

// Kind reports the entry's shape. path wins over url, url over git.
func (s *Source) Kind() SourceKind {
	switch {
	case s.Path != "" || lookup(s.node, "path") != nil:
		return SourcePath
	case s.URL != "":
		return SourceURL
	case s.Git != "":
		return SourceGit
	}
	return SourceUnknown
}

// Remote returns the url, or the git remote when there is no url.
func (s *Source) Remote() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Git
}

// Sources returns the entries of the source section in document order.
// The section may be a single mapping or a list of mappings; anything else,
// including a non-mapping list item or a conditional without a mapping
// "then" branch, is a MALFORMED_DESCRIPTOR error.
func (d *Document) Sources() ([]*Source, error) {
	sec := lookup(d.root, "source")
	if sec == nil {
		return nil, errors.New(errors.ErrCodeMalformedDescriptor, "missing source")
	}

	var items []*yaml.Node
	switch sec.Kind {
	case yaml.MappingNode:
		items = []*yaml.Node{sec}
	case yaml.SequenceNode:
		items = sec.Content
	default:
		return nil, errors.New(errors.ErrCodeMalformedDescriptor, "source must be a mapping or a list, got %s", kindName(sec))
	}
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedDescriptor, "source list is empty")
	}

	out := make([]*Source, 0, len(items))
	for i, item := range items {
		if item.Kind == yaml.AliasNode && item.Alias != nil {
			item = item.Alias
		}
		if item.Kind != yaml.MappingNode {
			return nil, errors.New(errors.ErrCodeMalformedDescriptor, "source[%d] is a %s, not a mapping", i, kindName(item))
		}
		src := &Source{Index: i}
		if lookup(item, "if") != nil {
			then := lookup(item, "then")
			if then == nil || then.Kind != yaml.MappingNode {
				return nil, errors.New(errors.ErrCodeMalformedDescriptor, "source[%d] conditional has no mapping 'then' branch", i)
			}
			item = then
			src.Conditional = true
		}
		src.node = item
		src.URL = scalarValue(item, "url")
		src.SHA256 = scalarValue(item, "sha256")
		src.Git = scalarValue(item, "git")
		src.Path = scalarValue(item, "path")
		for _, k := range []string{"rev", "tag", "branch"} {
			if v := scalarValue(item, k); v != "" {
				src.Rev = v
				break
			}
		}
		out = append(out, src)
	}
	return out, nil
}

func scalarValue(m *yaml.Node, key string) string {
	if v := lookup(m, key); v != nil && v.Kind == yaml.ScalarNode {
		return v.Value
	}
	return ""
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "node"
}
