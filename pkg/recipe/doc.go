// Package recipe reads and edits recipe.yaml build descriptors.
//
// # Round-Trip Editing
//
// A [Document] keeps the exact bytes it was loaded from next to a
// gopkg.in/yaml.v3 node tree used only for lookups. Fields are changed by
// locating the scalar's position in the source and splicing in the new text,
// so comments, key order, indentation and quoting of every other field are
// preserved byte-for-byte. Re-encoding the node tree is never used for output.
//
// # Descriptor Layout
//
//	context:
//	  name: tool
//	  version: "1.2.0"
//	package:
//	  name: ${{ name }}
//	source:
//	  url: https://github.com/owner/tool/archive/v${{ version }}.tar.gz
//	  sha256: 5d41402abc4b2a76b9719d911017c592...
//	extra:
//	  version:
//	    github-tags: ["^v(\\d+\\.\\d+\\.\\d+)$"]
//
// source may also be a list of entries, and any entry may be wrapped in a
// conditional {if: ..., then: {...}}. See [Document.Sources].
//
// # Templates
//
// [Expand] substitutes "${{ key }}" and "{{ key }}" placeholders from the
// context section; expressions with filters or operators are left verbatim.
package recipe
