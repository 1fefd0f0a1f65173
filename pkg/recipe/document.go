package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/recipesync/pkg/errors"
)

// Document is a loaded recipe.
type Document struct {
	data  []byte
	root  *yaml.Node // top-level mapping
	dirty bool
}

// Load reads and parses the recipe at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse parses recipe bytes. The top level must be a mapping.
func Parse(data []byte) (*Document, error) {
	root, err := parseRoot(data)
	if err != nil {
		return nil, err
	}
	return &Document{data: data, root: root}, nil
}

func parseRoot(data []byte) (*yaml.Node, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDescriptor, err, "invalid YAML")
	}
	if n.Kind != yaml.DocumentNode || len(n.Content) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedDescriptor, "empty recipe")
	}
	root := n.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrCodeMalformedDescriptor, "recipe is not a mapping")
	}
	return root, nil
}

// Bytes returns the current document content.
func (d *Document) Bytes() []byte { return d.data }

// Modified reports whether any edit has been applied since loading.
func (d *Document) Modified() bool { return d.dirty }

// Save writes the document to path atomically: the content goes to a
// temporary file in the same directory which then replaces path. The file
// mode of an existing path is kept.
func (d *Document) Save(path string) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "create temp file")
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(d.data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", path)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "sync %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "close %s", path)
	}
	if err := os.Chmod(name, mode); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "chmod %s", path)
	}
	if err := os.Rename(name, path); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "replace %s", path)
	}
	return nil
}

// Version returns context.version.
func (d *Document) Version() (string, error) {
	n, err := d.scalar("context", "version")
	if err != nil {
		return "", err
	}
	return n.Value, nil
}

// PackageName returns package.name with context placeholders expanded.
func (d *Document) PackageName() (string, error) {
	n, err := d.scalar("package", "name")
	if err != nil {
		return "", err
	}
	return Expand(n.Value, d.Context()), nil
}

// Context returns the scalar entries of the context section with
// placeholders between entries expanded.
func (d *Document) Context() map[string]string {
	return ResolveVars(d.contextVars(), nil)
}

// ContextWith is like [Context] but substitutes value for key before
// expansion, so entries derived from key follow the new value.
func (d *Document) ContextWith(key, value string) map[string]string {
	return ResolveVars(d.contextVars(), map[string]string{key: value})
}

// ContextWithout is like [Context] but drops key, leaving its placeholders
// unexpanded in every entry that refers to it.
func (d *Document) ContextWithout(key string) map[string]string {
	var vars []Var
	for _, v := range d.contextVars() {
		if v.Key != key {
			vars = append(vars, v)
		}
	}
	return ResolveVars(vars, nil)
}

// contextVars returns the raw scalar entries of the context section in
// document order.
func (d *Document) contextVars() []Var {
	ctx := lookup(d.root, "context")
	if ctx == nil || ctx.Kind != yaml.MappingNode {
		return nil
	}
	var vars []Var
	for i := 0; i+1 < len(ctx.Content); i += 2 {
		if v := ctx.Content[i+1]; v.Kind == yaml.ScalarNode {
			vars = append(vars, Var{Key: ctx.Content[i].Value, Value: v.Value})
		}
	}
	return vars
}

func (d *Document) scalar(path ...string) (*yaml.Node, error) {
	n := d.root
	for i, key := range path {
		if n.Kind != yaml.MappingNode {
			return nil, errors.New(errors.ErrCodeMalformedDescriptor, "%s is not a mapping", joinPath(path[:i]))
		}
		if n = lookup(n, key); n == nil {
			return nil, errors.New(errors.ErrCodeMalformedDescriptor, "missing %s", joinPath(path[:i+1]))
		}
	}
	if n.Kind != yaml.ScalarNode {
		return nil, errors.New(errors.ErrCodeMalformedDescriptor, "%s is not a scalar", joinPath(path))
	}
	return n, nil
}

// lookup returns the value node for key in mapping m, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	_, v := lookupPair(m, key)
	return v
}

func lookupPair(m *yaml.Node, key string) (k, v *yaml.Node) {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			v := m.Content[i+1]
			if v.Kind == yaml.AliasNode && v.Alias != nil {
				v = v.Alias
			}
			return m.Content[i], v
		}
	}
	return nil, nil
}

func joinPath(path []string) string { return strings.Join(path, ".") }
