package recipe

import (
	"bytes"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/recipesync/pkg/errors"
)

// Update is a set of field changes applied together by [Document.Apply].
// Empty fields are left untouched.
type Update struct {
	Version string  // context.version, always written double-quoted
	Source  *Source // Entry receiving URL and SHA256, from this document's Sources
	URL     string
	SHA256  string
}

type edit struct {
	start, end int
	text       string
}

// Apply performs every change in u or none of them. url and sha256 keep
// their quoting style; a missing sha256 key is inserted after url. After a
// successful Apply, Source values obtained earlier are stale and must be
// fetched again with [Document.Sources].
func (d *Document) Apply(u Update) error {
	var edits []edit

	if u.Version != "" {
		n, err := d.scalar("context", "version")
		if err != nil {
			return err
		}
		e, err := d.replace(n, quoteDouble(u.Version))
		if err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, err, "context.version")
		}
		edits = append(edits, e)
	}

	if u.Source != nil && (u.URL != "" || u.SHA256 != "") {
		src := u.Source.node
		flow := src.Style&yaml.FlowStyle != 0
		urlKey, urlNode := lookupPair(src, "url")

		if u.URL != "" {
			if urlNode == nil || urlNode.Kind != yaml.ScalarNode {
				return errors.New(errors.ErrCodeMalformedDescriptor, "source[%d] has no url", u.Source.Index)
			}
			e, err := d.replace(urlNode, quoteLike(urlNode, u.URL, flow))
			if err != nil {
				return errors.Wrap(errors.ErrCodeWriteFailed, err, "source[%d].url", u.Source.Index)
			}
			edits = append(edits, e)
		}

		if u.SHA256 != "" {
			e, err := d.setSHA256(src, urlKey, urlNode, u.SHA256, flow)
			if err != nil {
				return errors.Wrap(errors.ErrCodeWriteFailed, err, "source[%d].sha256", u.Source.Index)
			}
			edits = append(edits, e)
		}
	}

	if len(edits) == 0 {
		return nil
	}

	out, err := splice(d.data, edits)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "apply edits")
	}
	next, err := Parse(out)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "edited recipe no longer parses")
	}
	if err := next.verify(u); err != nil {
		return err
	}

	d.data, d.root, d.dirty = next.data, next.root, true
	return nil
}

func (d *Document) setSHA256(src, urlKey, urlNode *yaml.Node, sum string, flow bool) (edit, error) {
	shaKey, shaNode := lookupPair(src, "sha256")
	if shaNode != nil {
		if shaNode.Kind != yaml.ScalarNode {
			return edit{}, errors.New(errors.ErrCodeMalformedDescriptor, "sha256 is not a scalar")
		}
		if shaNode.Value == "" && shaNode.Style == 0 {
			return d.fillEmpty(shaKey, quotePlain(sum, flow))
		}
		return d.replace(shaNode, quoteLike(shaNode, sum, flow))
	}

	if urlNode == nil {
		return edit{}, errors.New(errors.ErrCodeMalformedDescriptor, "no sha256 or url to anchor it")
	}
	_, end, err := d.span(urlNode)
	if err != nil {
		return edit{}, err
	}
	if flow {
		return edit{start: end, end: end, text: ", sha256: " + quotePlain(sum, true)}, nil
	}
	eol := end
	if i := bytes.IndexByte(d.data[end:], '\n'); i >= 0 {
		eol = end + i
	} else {
		eol = len(d.data)
	}
	if eol > 0 && d.data[eol-1] == '\r' {
		eol--
	}
	indent := strings.Repeat(" ", urlKey.Column-1)
	return edit{start: eol, end: eol, text: "\n" + indent + "sha256: " + quotePlain(sum, false)}, nil
}

// replace swaps the source text of scalar n for text.
func (d *Document) replace(n *yaml.Node, text string) (edit, error) {
	start, end, err := d.span(n)
	if err != nil {
		return edit{}, err
	}
	return edit{start: start, end: end, text: text}, nil
}

// fillEmpty writes text after the colon of a key whose value is empty.
func (d *Document) fillEmpty(key *yaml.Node, text string) (edit, error) {
	_, end, err := d.span(key)
	if err != nil {
		return edit{}, err
	}
	i := end
	for i < len(d.data) && (d.data[i] == ' ' || d.data[i] == '\t') {
		i++
	}
	if i >= len(d.data) || d.data[i] != ':' {
		return edit{}, errors.New(errors.ErrCodeWriteFailed, "cannot locate value of %q", key.Value)
	}
	return edit{start: i + 1, end: i + 1, text: " " + text}, nil
}

// span returns the byte range of scalar n in the source, quotes included.
func (d *Document) span(n *yaml.Node) (int, int, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, 0, errors.New(errors.ErrCodeWriteFailed, "not a scalar")
	}
	if n.Style&(yaml.TaggedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return 0, 0, errors.New(errors.ErrCodeWriteFailed, "cannot edit tagged or block scalar at line %d", n.Line)
	}
	start, ok := d.offset(n.Line, n.Column)
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeWriteFailed, "position %d:%d out of range", n.Line, n.Column)
	}

	data := d.data
	switch {
	case n.Style&yaml.DoubleQuotedStyle != 0:
		if data[start] != '"' {
			return 0, 0, errors.New(errors.ErrCodeWriteFailed, "expected '\"' at line %d", n.Line)
		}
		for i := start + 1; i < len(data); i++ {
			switch data[i] {
			case '\\':
				i++
			case '"':
				return start, i + 1, nil
			}
		}
	case n.Style&yaml.SingleQuotedStyle != 0:
		if data[start] != '\'' {
			return 0, 0, errors.New(errors.ErrCodeWriteFailed, "expected \"'\" at line %d", n.Line)
		}
		for i := start + 1; i < len(data); i++ {
			if data[i] != '\'' {
				continue
			}
			if i+1 < len(data) && data[i+1] == '\'' {
				i++
				continue
			}
			return start, i + 1, nil
		}
	default:
		end := start + len(n.Value)
		if end <= len(data) && string(data[start:end]) == n.Value {
			return start, end, nil
		}
		return 0, 0, errors.New(errors.ErrCodeWriteFailed, "cannot edit multi-line scalar at line %d", n.Line)
	}
	return 0, 0, errors.New(errors.ErrCodeWriteFailed, "unterminated scalar at line %d", n.Line)
}

// offset converts a 1-based line and rune column to a byte offset.
func (d *Document) offset(line, col int) (int, bool) {
	if line < 1 || col < 1 {
		return 0, false
	}
	pos := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(d.data[pos:], '\n')
		if i < 0 {
			return 0, false
		}
		pos += i + 1
	}
	for c := 1; c < col; c++ {
		if pos >= len(d.data) || d.data[pos] == '\n' {
			return 0, false
		}
		_, size := utf8.DecodeRune(d.data[pos:])
		pos += size
	}
	return pos, pos < len(d.data)
}

func splice(data []byte, edits []edit) ([]byte, error) {
	slices.SortFunc(edits, func(a, b edit) int { return a.start - b.start })
	for i := 1; i < len(edits); i++ {
		if edits[i].start < edits[i-1].end {
			return nil, errors.New(errors.ErrCodeInternal, "overlapping edits at byte %d", edits[i].start)
		}
	}
	var b bytes.Buffer
	b.Grow(len(data) + 128)
	pos := 0
	for _, e := range edits {
		b.Write(data[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.Write(data[pos:])
	return b.Bytes(), nil
}

// verify checks that the edited document reads back the requested values.
func (d *Document) verify(u Update) error {
	if u.Version != "" {
		if v, err := d.Version(); err != nil || v != u.Version {
			return errors.New(errors.ErrCodeWriteFailed, "context.version reads back %q, want %q", v, u.Version)
		}
	}
	if u.Source == nil || (u.URL == "" && u.SHA256 == "") {
		return nil
	}
	sources, err := d.Sources()
	if err != nil || u.Source.Index >= len(sources) {
		return errors.New(errors.ErrCodeWriteFailed, "source[%d] lost after edit", u.Source.Index)
	}
	got := sources[u.Source.Index]
	if u.URL != "" && got.URL != u.URL {
		return errors.New(errors.ErrCodeWriteFailed, "url reads back %q, want %q", got.URL, u.URL)
	}
	if u.SHA256 != "" && got.SHA256 != u.SHA256 {
		return errors.New(errors.ErrCodeWriteFailed, "sha256 reads back %q, want %q", got.SHA256, u.SHA256)
	}
	return nil
}

func quoteDouble(s string) string { return strconv.Quote(s) }

func quoteSingle(s string) string {
	if strings.ContainsAny(s, "\n\r") {
		return quoteDouble(s)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quotePlain writes s unquoted when it reads back as the same string.
func quotePlain(s string, flow bool) string {
	if s == "" || strings.TrimSpace(s) != s || strings.ContainsAny(s, "\n\r\t") ||
		(flow && strings.ContainsAny(s, ",[]{}")) || !plainString(s) {
		return quoteDouble(s)
	}
	return s
}

// quoteLike quotes s in the style of the existing scalar n.
func quoteLike(n *yaml.Node, s string, flow bool) string {
	switch {
	case n.Style&yaml.DoubleQuotedStyle != 0:
		return quoteDouble(s)
	case n.Style&yaml.SingleQuotedStyle != 0:
		return quoteSingle(s)
	}
	return quotePlain(s, flow)
}

func plainString(s string) bool {
	var n yaml.Node
	if err := yaml.Unmarshal([]byte("k: "+s), &n); err != nil {
		return false
	}
	if len(n.Content) != 1 || len(n.Content[0].Content) != 2 {
		return false
	}
	v := n.Content[0].Content[1]
	return v.Kind == yaml.ScalarNode && v.Tag == "!!str" && v.Style == 0 && v.Value == s
}
